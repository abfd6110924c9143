package prompt

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/utils"
)

// Kind selects the prompt template.
type Kind string

const (
	KindResume              Kind = "resume"
	KindCVAnalysis          Kind = "cv-analysis"
	KindJobMatch            Kind = "job-match"
	KindCandidateMatch      Kind = "candidate-match"
	KindBatchJobMatch       Kind = "batch-job-match"
	KindBatchCandidateMatch Kind = "batch-candidate-match"
)

const (
	// Placeholder replaces every empty field.
	Placeholder = "ko'rsatilmagan"

	// OutputOnlyDirective is present in every built prompt.
	OutputOnlyDirective = "Return ONLY the requested content. Do not add greetings, explanations or markdown code fences around it."

	DefaultLanguage      = "o'zbek"
	DefaultMaxInputRunes = 12000
)

//go:embed templates/*.md
var templateFS embed.FS

const defaultTemplate = "Task: {{KIND}}\n\nCandidate:\n- Name: {{NAME}}\n- Skills: {{SKILLS}}\n\nVacancy:\n- Title: {{TITLE}}\n- Skills: {{JOB_SKILLS}}\n\nLanguage: {{LANGUAGE}}.\n\n{{OUTPUT_DIRECTIVE}}"

// Fields carries everything a template may reference. Unused fields are ignored.
type Fields struct {
	Profile ai.ProfileSummary
	Job     ai.JobSummary
	CVText  string
	Entries []Entry
}

// Entry is one pool member of a batch prompt. Batch job prompts read Job,
// batch candidate prompts read Profile.
type Entry struct {
	ID      string
	Profile ai.ProfileSummary
	Job     ai.JobSummary
}

// Options configures a Builder.
type Options struct {
	Language      string
	MaxInputRunes int
}

// Builder renders prompts from embedded templates. It holds no mutable state.
type Builder struct {
	language      string
	maxInputRunes int
	templates     map[Kind]string
}

// NewBuilder loads the embedded templates.
func NewBuilder(opts Options) *Builder {
	language := sanitizeLine(opts.Language)
	if language == "" {
		language = DefaultLanguage
	}
	maxRunes := opts.MaxInputRunes
	if maxRunes <= 0 {
		maxRunes = DefaultMaxInputRunes
	}

	templates := make(map[Kind]string)
	for _, kind := range Kinds() {
		data, err := templateFS.ReadFile("templates/" + string(kind) + ".md")
		if err != nil {
			continue
		}
		templates[kind] = string(data)
	}

	return &Builder{
		language:      language,
		maxInputRunes: maxRunes,
		templates:     templates,
	}
}

// Kinds lists every supported prompt kind.
func Kinds() []Kind {
	return []Kind{
		KindResume,
		KindCVAnalysis,
		KindJobMatch,
		KindCandidateMatch,
		KindBatchJobMatch,
		KindBatchCandidateMatch,
	}
}

// Build renders the prompt for kind. Empty fields become Placeholder, so the
// result is never empty and always ends with OutputOnlyDirective.
func (b *Builder) Build(kind Kind, fields Fields) string {
	template := b.templates[kind]
	if strings.TrimSpace(template) == "" {
		template = defaultTemplate
	}

	profile := fields.Profile
	job := fields.Job

	replacer := strings.NewReplacer(
		"{{KIND}}", orPlaceholder(sanitizeLine(string(kind))),
		"{{LANGUAGE}}", b.language,
		"{{OUTPUT_DIRECTIVE}}", OutputOnlyDirective,
		"{{NAME}}", orPlaceholder(sanitizeLine(profile.Name)),
		"{{SKILLS}}", formatSkills(profile.Skills),
		"{{EXPERIENCE}}", b.block(profile.Experience),
		"{{EDUCATION}}", b.block(profile.Education),
		"{{TITLE}}", orPlaceholder(sanitizeLine(job.Title)),
		"{{COMPANY}}", orPlaceholder(sanitizeLine(job.Company)),
		"{{LOCATION}}", orPlaceholder(sanitizeLine(job.Location)),
		"{{WORK_TYPE}}", orPlaceholder(sanitizeLine(job.WorkType)),
		"{{SALARY}}", formatSalary(job.SalaryMin, job.SalaryMax),
		"{{JOB_SKILLS}}", formatSkills(job.Skills),
		"{{REQUIREMENTS}}", b.block(job.Requirements),
		"{{CV_TEXT}}", b.block(fields.CVText),
		"{{ENTRIES}}", b.entries(kind, fields.Entries),
	)

	prompt := strings.TrimSpace(replacer.Replace(template))
	if !strings.Contains(prompt, OutputOnlyDirective) {
		prompt += "\n\n" + OutputOnlyDirective
	}
	return prompt
}

func (b *Builder) block(text string) string {
	text = sanitizeBlock(text)
	text = truncateRunes(text, b.maxInputRunes)
	if text == "" {
		return Placeholder
	}
	return text
}

func (b *Builder) entries(kind Kind, entries []Entry) string {
	if len(entries) == 0 {
		return Placeholder
	}

	var builder strings.Builder
	for i, entry := range entries {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "- id: %s\n", orPlaceholder(sanitizeLine(entry.ID)))
		switch kind {
		case KindBatchCandidateMatch:
			p := entry.Profile
			fmt.Fprintf(&builder, "  name: %s\n", orPlaceholder(sanitizeLine(p.Name)))
			fmt.Fprintf(&builder, "  skills: %s\n", formatSkills(p.Skills))
			fmt.Fprintf(&builder, "  experience: %s\n", orPlaceholder(b.inline(p.Experience)))
			fmt.Fprintf(&builder, "  education: %s\n", orPlaceholder(b.inline(p.Education)))
		default:
			j := entry.Job
			fmt.Fprintf(&builder, "  title: %s\n", orPlaceholder(sanitizeLine(j.Title)))
			fmt.Fprintf(&builder, "  company: %s\n", orPlaceholder(sanitizeLine(j.Company)))
			fmt.Fprintf(&builder, "  location: %s, %s\n", orPlaceholder(sanitizeLine(j.Location)), orPlaceholder(sanitizeLine(j.WorkType)))
			fmt.Fprintf(&builder, "  salary: %s\n", formatSalary(j.SalaryMin, j.SalaryMax))
			fmt.Fprintf(&builder, "  skills: %s\n", formatSkills(j.Skills))
			fmt.Fprintf(&builder, "  requirements: %s\n", orPlaceholder(b.inline(j.Requirements)))
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}

// inline flattens a free-text block to one line for batch entries.
func (b *Builder) inline(text string) string {
	return truncateRunes(sanitizeLine(text), b.maxInputRunes)
}

func formatSkills(skills []string) string {
	cleaned := make([]string, 0, len(skills))
	for _, skill := range utils.CleanStrings(skills) {
		if s := sanitizeLine(skill); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return Placeholder
	}
	return strings.Join(cleaned, ", ")
}

func formatSalary(minSalary, maxSalary int) string {
	switch {
	case minSalary > 0 && maxSalary > 0:
		return strconv.Itoa(minSalary) + " - " + strconv.Itoa(maxSalary)
	case minSalary > 0:
		return "from " + strconv.Itoa(minSalary)
	case maxSalary > 0:
		return "up to " + strconv.Itoa(maxSalary)
	default:
		return Placeholder
	}
}

func orPlaceholder(value string) string {
	if value == "" {
		return Placeholder
	}
	return value
}
