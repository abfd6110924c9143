package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/utils"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Generate a resume from a stored profile or from flags",
	Run: func(cmd *cobra.Command, _ []string) {
		resume(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)

	resumeCmd.Flags().String("profile", "", "id of a stored job seeker profile")
	resumeCmd.Flags().String("name", "", "full name")
	resumeCmd.Flags().StringSlice("skills", nil, "comma separated skills")
	resumeCmd.Flags().String("experience", "", "work experience")
	resumeCmd.Flags().String("education", "", "education")
}

func resume(cmd *cobra.Command) {
	ctx := context.Background()
	profileID := cmd.Flag("profile").Value.String()

	d := setup(ctx, profileID != "")
	defer d.Close()

	var profile ai.ProfileSummary
	if profileID != "" {
		id, err := uuid.Parse(profileID)
		if err != nil {
			d.logger.Fatal("parsing the profile id", zap.Error(err))
		}
		stored, err := d.store.GetProfile(ctx, id)
		if err != nil {
			d.logger.Fatal("loading the profile", zap.Error(err))
		}
		profile = ai.ProfileSummary{
			Name:       stored.FullName,
			Skills:     stored.Skills,
			Experience: stored.Experience,
			Education:  stored.Education,
		}
	} else {
		skills, _ := cmd.Flags().GetStringSlice("skills")
		profile = ai.ProfileSummary{
			Name:       cmd.Flag("name").Value.String(),
			Skills:     skills,
			Experience: cmd.Flag("experience").Value.String(),
			Education:  cmd.Flag("education").Value.String(),
		}
	}
	profile.Skills = utils.CleanStrings(profile.Skills)

	text := d.assistant.GenerateResume(ctx, profile)
	if ai.IsDiagnostic(text) {
		d.logger.Warn("resume was not generated", zap.String("diagnostic", text))
	}
	fmt.Println(text)
}
