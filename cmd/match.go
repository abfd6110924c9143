package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/matching"
	"github.com/spigell/jobboard-ai/internal/store"
)

const (
	PromptBack   = "back"
	PromptReport = "Print results as JSON"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank vacancies or candidates with the AI model",
}

var matchJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Rank the open vacancies for a job seeker",
	Run: func(cmd *cobra.Command, _ []string) {
		matchJobs(cmd)
	},
}

var matchCandidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Rank the applicants of a vacancy",
	Run: func(cmd *cobra.Command, _ []string) {
		matchCandidates(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.AddCommand(matchJobsCmd, matchCandidatesCmd)

	matchJobsCmd.Flags().String("seeker", "", "job seeker id")
	matchJobsCmd.Flags().BoolP("interactive", "i", false, "choose vacancies to apply to after ranking")
	matchJobsCmd.MarkFlagRequired("seeker")

	matchCandidatesCmd.Flags().String("vacancy", "", "vacancy id")
	matchCandidatesCmd.Flags().String("employer", "", "id of the employer who owns the vacancy")
	matchCandidatesCmd.Flags().Bool("admin", false, "act as an administrator instead of the owner")
	matchCandidatesCmd.MarkFlagRequired("vacancy")
}

func matchJobs(cmd *cobra.Command) {
	ctx := context.Background()
	d := setup(ctx, true)
	defer d.Close()

	seekerID, err := uuid.Parse(cmd.Flag("seeker").Value.String())
	if err != nil {
		d.logger.Fatal("parsing the seeker id", zap.Error(err))
	}
	caller := store.Caller{ID: seekerID, Role: store.RoleJobSeeker}

	results, err := d.matcher.FindJobsForSeeker(ctx, caller)
	if err != nil {
		d.logger.Fatal("matching vacancies", zap.Error(err))
	}

	if len(results) == 0 {
		d.logger.Info("exiting", zap.String("reason", "no vacancies found"))
		return
	}

	if cmd.Flag("interactive").Value.String() != "true" {
		printResults(results)
		return
	}

	if err := manualApply(ctx, d, caller, results); err != nil {
		d.logger.Fatal("exiting", zap.Error(err))
	}
}

func matchCandidates(cmd *cobra.Command) {
	ctx := context.Background()
	d := setup(ctx, true)
	defer d.Close()

	vacancyID, err := uuid.Parse(cmd.Flag("vacancy").Value.String())
	if err != nil {
		d.logger.Fatal("parsing the vacancy id", zap.Error(err))
	}

	caller := store.Caller{Role: store.RoleEmployer}
	if admin, _ := cmd.Flags().GetBool("admin"); admin {
		caller.Role = store.RoleAdmin
	}
	if raw := cmd.Flag("employer").Value.String(); raw != "" {
		if caller.ID, err = uuid.Parse(raw); err != nil {
			d.logger.Fatal("parsing the employer id", zap.Error(err))
		}
	} else if !caller.IsAdmin() {
		d.logger.Fatal("either --employer or --admin is required")
	}

	results, err := d.matcher.FindCandidatesForVacancy(ctx, caller, vacancyID)
	if err != nil {
		d.logger.Fatal("matching candidates", zap.Error(err))
	}

	d.logger.Info("current list of candidates", zap.Int("count", len(results)))
	printResults(results)
}

// manualApply lets the seeker pick ranked vacancies one by one.
func manualApply(ctx context.Context, d *deps, caller store.Caller, results []matching.MatchResult) error {
	for {
		items := make([]string, 0, len(results)+2)
		for _, r := range results {
			items = append(items, resultLabel(r))
		}

		vacancyPrompt := promptui.Select{
			Label: "Choose a vacancy to apply to and press ENTER",
			Items: append(items, PromptReport, PromptBack),
			Size:  10,
		}

		_, selected, err := vacancyPrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return nil
		case PromptReport:
			printResults(results)
			continue
		}

		id, err := uuid.Parse(strings.Fields(selected)[0])
		if err != nil {
			return fmt.Errorf("there is no such vacancy %q", selected)
		}

		application, err := d.store.CreateApplication(ctx, caller, id)
		switch {
		case errors.Is(err, store.ErrAlreadyApplied):
			d.logger.Info("already applied", zap.String("vacancy_id", id.String()))
		case err != nil:
			return err
		default:
			d.logger.Info("successfully applied to vacancy",
				zap.String("vacancy_id", id.String()),
				zap.String("application_id", application.ID.String()),
			)
		}

		results = markApplied(results, id)
	}
}

func resultLabel(r matching.MatchResult) string {
	label := fmt.Sprintf("%s %3d%% %s / %s", r.ID, r.MatchScore, r.Title, r.Company)
	if r.AlreadyApplied {
		label += " (applied)"
	}
	if r.Urgent {
		label += " (urgent)"
	}
	return label
}

func markApplied(results []matching.MatchResult, id uuid.UUID) []matching.MatchResult {
	for i := range results {
		if results[i].ID == id {
			results[i].AlreadyApplied = true
		}
	}
	return results
}

func printResults(results []matching.MatchResult) {
	// do not bother error since results are plain data
	pretty, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(pretty))
}
