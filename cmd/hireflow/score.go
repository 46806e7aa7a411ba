package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/matching"
	"github.com/hireflow/hireflow/internal/scoring"
)

var (
	scoreCVPath      string
	scoreProfilePath string
	scoreJobTitle    string
	scoreJobPath     string
	scoreModel       string
	scoreTimeout     int
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one CV against a job description",
	Long: `Run the scoring pipeline once from local files and print the resulting
record as JSON. Useful for trying out prompts and checking a CV parses.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCVPath, "cv", "", "Path to the candidate's CV (PDF)")
	scoreCmd.Flags().StringVar(&scoreProfilePath, "profile", "", "Path to a text file with the candidate's LinkedIn profile")
	scoreCmd.Flags().StringVar(&scoreJobTitle, "job-title", "", "Job title")
	scoreCmd.Flags().StringVar(&scoreJobPath, "job", "", "Path to a text file with the job description")
	scoreCmd.Flags().StringVar(&scoreModel, "model", "", "Gemini model override")
	scoreCmd.Flags().IntVar(&scoreTimeout, "timeout", 60, "Scoring request timeout in seconds")
	_ = scoreCmd.MarkFlagRequired("cv")
	_ = scoreCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	jobDescription, err := os.ReadFile(scoreJobPath)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	if len(jobDescription) < matching.MinJobDescriptionLen {
		return &matching.ErrJobDescriptionTooShort{Length: len(jobDescription)}
	}

	cvData, err := os.ReadFile(scoreCVPath)
	if err != nil {
		return fmt.Errorf("failed to read CV: %w", err)
	}

	var profileText string
	if scoreProfilePath != "" {
		profile, err := os.ReadFile(scoreProfilePath)
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}
		profileText = string(profile)
	}

	cvText, err := extract.NewPDFExtractor().ExtractText(cvData)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	scorer, err := scoring.NewGeminiScorer(ctx, apiKey, scoreModel, time.Duration(scoreTimeout)*time.Second)
	if err != nil {
		return err
	}
	defer scorer.Close()

	prompt := scoring.BuildMatchPrompt(cvText, profileText, scoreJobTitle, string(jobDescription))
	raw, err := scorer.Score(ctx, prompt)
	if err != nil {
		return err
	}

	record := scoring.ParseRecord(raw)
	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
