package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inferloop/modelreg/pkg/constants"
)

type PromoteOptions struct {
	Version     string
	PromotedBy  string
	RegistryDir string
}

func NewPromoteCmd() *cobra.Command {
	opts := &PromoteOptions{}

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote a registered version to champion",
		Long: `Point the champion pointer at a registered version. Manual promotion
bypasses the guardrails; the retrain command applies them. The displaced
champion stays in the registry and can be rolled back to.`,
		Example: `  modelreg-cli promote --version v2.1.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPromote(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "", "Version id to promote (required)")
	cmd.Flags().StringVar(&opts.PromotedBy, "promoted-by", constants.PromotedByManual, "Promoter identity recorded in the pointer")
	cmd.Flags().StringVar(&opts.RegistryDir, "registry", "", "Registry root (overrides configuration)")
	cmd.MarkFlagRequired("version")

	return cmd
}

func runPromote(opts *PromoteOptions) error {
	_, store, _, err := newEnv(opts.RegistryDir)
	if err != nil {
		return err
	}

	if err := store.Promote(opts.Version, opts.PromotedBy); err != nil {
		return err
	}

	pointer, err := store.Champion()
	if err != nil {
		return err
	}

	fmt.Printf("Champion is now %s\n", pointer.Version)
	if pointer.PreviousChampion != "" {
		fmt.Printf("Previous champion: %s\n", pointer.PreviousChampion)
	}
	return nil
}
