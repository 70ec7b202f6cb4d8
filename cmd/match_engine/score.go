package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var scoreOrg string

var scoreCmd = &cobra.Command{
	Use:   "score <application-id>",
	Short: "Score a single application",
	Long:  `Score one application against its job and print the persisted result as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreOrg, "org", "", "Organization UUID (required)")
	_ = scoreCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	applicationID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid application id %q: %w", args[0], err)
	}
	orgID, err := uuid.Parse(scoreOrg)
	if err != nil {
		return fmt.Errorf("invalid org id %q: %w", scoreOrg, err)
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	engine, cleanup, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	score, err := engine.ScoreOne(ctx, applicationID, orgID)
	if err != nil {
		return fmt.Errorf("failed to score application: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(score)
}
