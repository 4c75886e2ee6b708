package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inferloop/modelreg/internal/modelcard"
)

type CardOptions struct {
	Version     string
	OutputFile  string
	RegistryDir string
}

func NewCardCmd() *cobra.Command {
	opts := &CardOptions{}

	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render a markdown model card for a registered version",
		Example: `  modelreg-cli card --version v2.1.0
  modelreg-cli card --version v2.1.0 --output MODEL_CARD.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCard(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "", "Version id (required)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVar(&opts.RegistryDir, "registry", "", "Registry root (overrides configuration)")
	cmd.MarkFlagRequired("version")

	return cmd
}

func runCard(opts *CardOptions) error {
	_, store, logger, err := newEnv(opts.RegistryDir)
	if err != nil {
		return err
	}

	manifest, err := store.GetManifest(opts.Version)
	if err != nil {
		return err
	}

	// Metadata and metrics are optional inputs; an old or hand-built version
	// directory may lack them.
	metadata, err := store.LoadMetadata(opts.Version)
	if err != nil {
		logger.WithError(err).Warn("Metadata unavailable, rendering partial card")
		metadata = nil
	}
	metrics, err := store.LoadMetrics(opts.Version)
	if err != nil {
		logger.WithError(err).Warn("Metrics unavailable, rendering partial card")
		metrics = nil
	}

	pointer, err := store.Champion()
	if err != nil {
		return err
	}
	isChampion := pointer != nil && pointer.Version == opts.Version

	card := modelcard.Render(modelcard.Input{
		Manifest:   manifest,
		Metadata:   metadata,
		Metrics:    metrics,
		IsChampion: isChampion,
	})

	if opts.OutputFile == "-" {
		fmt.Print(card)
		return nil
	}
	if err := os.WriteFile(opts.OutputFile, []byte(card), 0644); err != nil {
		return fmt.Errorf("failed to write model card: %w", err)
	}
	fmt.Printf("Model card written to %s\n", opts.OutputFile)
	return nil
}
