package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/poller"
)

var (
	batchOrg     string
	batchRescore bool
	batchWatch   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <job-id>",
	Short: "Score a job's applications in bulk",
	Long: `Trigger batch scoring for every unscored application of a job.
With --rescore, every application is scored again regardless of existing
scores. With --watch, the command blocks and prints progress until the batch
settles.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchOrg, "org", "", "Organization UUID (required)")
	batchCmd.Flags().BoolVar(&batchRescore, "rescore", false, "Re-score applications that already have a score")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "Block and print progress until the batch settles")
	_ = batchCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[0], err)
	}
	orgID, err := uuid.Parse(batchOrg)
	if err != nil {
		return fmt.Errorf("invalid org id %q: %w", batchOrg, err)
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

	batch, err := engine.ScoreBatch(ctx, jobID, orgID, batchRescore)
	if err != nil {
		return fmt.Errorf("failed to start batch: %w", err)
	}

	fmt.Printf("Batch started: %d application(s) to score\n", batch.TargetCount())
	if batch.TargetCount() == 0 {
		fmt.Println("Nothing to do")
		return nil
	}

	if !batchWatch {
		// Without --watch the process must stay alive until the background
		// batch settles, or the work would be cut off mid-flight.
		<-batch.Done()
		fmt.Printf("Batch settled: %d succeeded, %d failed\n",
			batch.TargetCount()-batch.Failed(), batch.Failed())
		return nil
	}

	watcher := poller.New(cfg.PollInterval(), log)
	fetch := func(ctx context.Context) (int, error) {
		return engine.ScoredOfTarget(ctx, batch)
	}
	err = watcher.Watch(ctx, batch, fetch, func(scored, total int) {
		fmt.Printf("Progress: %d/%d scored\n", scored, total)
	})
	if err != nil {
		return fmt.Errorf("watch interrupted: %w", err)
	}

	fmt.Printf("Batch settled: %d succeeded, %d failed\n",
		batch.TargetCount()-batch.Failed(), batch.Failed())
	return nil
}
