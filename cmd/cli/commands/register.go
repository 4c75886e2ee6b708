package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inferloop/modelreg/internal/registry"
	"github.com/inferloop/modelreg/pkg/constants"
)

type RegisterOptions struct {
	Version      string
	ArtifactsDir string
	BaselineDir  string
	Notes        string
	RegistryDir  string
}

func NewRegisterCmd() *cobra.Command {
	opts := &RegisterOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a model version from a training output directory",
		Long: `Validate the artifact bundle produced by a training run and store it
in the registry under the given version id. Registration never changes
which version is champion.`,
		Example: `  # Register training outputs as version v2.1.0
  modelreg-cli register --version v2.1.0 --artifacts ./artifacts

  # Include a monitoring baseline
  modelreg-cli register --version v2.1.0 --artifacts ./artifacts --baseline ./artifacts/monitoring_baseline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "", "Version id to register (required)")
	cmd.Flags().StringVarP(&opts.ArtifactsDir, "artifacts", "a", constants.DefaultArtifactsDir, "Training output directory")
	cmd.Flags().StringVar(&opts.BaselineDir, "baseline", "", "Monitoring baseline directory to store alongside the bundle")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "Free-form notes recorded in the manifest")
	cmd.Flags().StringVar(&opts.RegistryDir, "registry", "", "Registry root (overrides configuration)")
	cmd.MarkFlagRequired("version")

	return cmd
}

func runRegister(opts *RegisterOptions) error {
	_, store, _, err := newEnv(opts.RegistryDir)
	if err != nil {
		return err
	}

	manifest, err := store.Register(opts.Version, opts.ArtifactsDir, registry.RegisterOptions{
		BaselineDir: opts.BaselineDir,
		Notes:       opts.Notes,
		PromotedBy:  constants.PromotedByManual,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Registered version %s\n", manifest.Version)
	fmt.Printf("Artifacts: %d (baseline: %v)\n", len(manifest.Artifacts), manifest.HasBaseline)
	for _, name := range manifest.Artifacts {
		fmt.Printf("  %s  sha256:%s\n", name, manifest.Hashes[name])
	}
	return nil
}
