package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/cvtext"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract skills and recommendations from a CV file (txt, pdf or docx)",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("file", "f", "", "path to the CV")
	analyzeCmd.MarkFlagRequired("file")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()
	d := setup(ctx, false)
	defer d.Close()

	path := cmd.Flag("file").Value.String()
	data, err := os.ReadFile(path)
	if err != nil {
		d.logger.Fatal("reading the cv", zap.Error(err))
	}

	text, err := cvtext.Extract(cvtext.DetectMIME(filepath.Base(path), ""), data)
	if err != nil {
		d.logger.Fatal("extracting cv text", zap.String("file", path), zap.Error(err))
	}

	result := d.assistant.AnalyzeCV(ctx, text)
	if !result.FromModel {
		d.logger.Warn("showing the default analysis", zap.String("reason", "ai answer was not usable"))
	}

	// do not bother error since result is plain data
	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
}
