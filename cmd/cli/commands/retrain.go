package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inferloop/modelreg/internal/retrain"
)

type RetrainOptions struct {
	Version      string
	DataPath     string
	ArtifactsDir string
	BaselineDir  string
	DryRun       bool
	Force        bool
	RegistryDir  string
}

func NewRetrainCmd() *cobra.Command {
	opts := &RetrainOptions{}

	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Run one champion/challenger retrain cycle",
		Long: `Validate the training data, invoke the configured training command,
compare the resulting challenger against the current champion, and
promote it if the guardrails pass. A guardrail rejection is a normal
outcome: the challenger stays in the registry as rejected and the
command exits successfully.`,
		Example: `  # Full cycle
  modelreg-cli retrain --new-version v2.1.0 --data data/train_2025.csv

  # Evaluate without touching the registry
  modelreg-cli retrain --new-version v2.1.0 --data data/train_2025.csv --dry-run

  # Promote even if the guardrails reject
  modelreg-cli retrain --new-version v2.1.0 --data data/train_2025.csv --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetrain(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "new-version", "", "Version id for the new challenger (required)")
	cmd.Flags().StringVar(&opts.DataPath, "data", "", "Training dataset CSV (required)")
	cmd.Flags().StringVarP(&opts.ArtifactsDir, "artifacts", "a", "", "Directory the training step writes into (default from configuration)")
	cmd.Flags().StringVar(&opts.BaselineDir, "baseline", "", "Monitoring baseline directory to register alongside the bundle")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Train and compare but do not register or promote")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Promote even when the guardrails reject")
	cmd.Flags().StringVar(&opts.RegistryDir, "registry", "", "Registry root (overrides configuration)")
	cmd.MarkFlagRequired("new-version")
	cmd.MarkFlagRequired("data")

	return cmd
}

func runRetrain(opts *RetrainOptions) error {
	cfg, store, logger, err := newEnv(opts.RegistryDir)
	if err != nil {
		return err
	}

	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = cfg.ArtifactsDir
	}

	trainer, err := retrain.NewCommandTrainer(cfg.TrainCommand, logger)
	if err != nil {
		return err
	}

	orchestrator := retrain.NewOrchestrator(store, trainer, retrain.Config{
		Thresholds: cfg.Guardrails,
		MinSamples: cfg.MinTrainingSamples,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := orchestrator.Run(ctx, retrain.CycleOptions{
		NewVersion:   opts.Version,
		DataPath:     opts.DataPath,
		ArtifactsDir: artifactsDir,
		BaselineDir:  opts.BaselineDir,
		DryRun:       opts.DryRun,
		Force:        opts.Force,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Cycle %s finished\n", result.CycleID)
	fmt.Printf("Verdict: approved=%v\n", result.Approved)
	fmt.Printf("Reason: %s\n", result.Reason)
	switch {
	case opts.DryRun:
		fmt.Println("Dry run: registry unchanged")
	case result.Promoted:
		fmt.Printf("Champion is now %s\n", result.Version)
	default:
		fmt.Printf("Challenger %s registered as rejected, champion unchanged\n", result.Version)
	}
	return nil
}
