package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/inferloop/modelreg/pkg/errors"
)

type VerifyOptions struct {
	Version     string
	All         bool
	RegistryDir string
}

func NewVerifyCmd() *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify stored artifacts against their manifest hashes",
		Long: `Recompute the content hash of every stored artifact and compare it to
the hashes recorded at registration time. Detection only; mismatched
artifacts are reported, never repaired.`,
		Example: `  modelreg-cli verify --version v2.1.0
  modelreg-cli verify --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "", "Version id to verify")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Verify every registered version")
	cmd.Flags().StringVar(&opts.RegistryDir, "registry", "", "Registry root (overrides configuration)")

	return cmd
}

func runVerify(opts *VerifyOptions) error {
	_, store, _, err := newEnv(opts.RegistryDir)
	if err != nil {
		return err
	}

	var targets []string
	if opts.All {
		versions, err := store.ListVersions()
		if err != nil {
			return err
		}
		for _, v := range versions {
			targets = append(targets, v.Version)
		}
	} else {
		if opts.Version == "" {
			return fmt.Errorf("either --version or --all is required")
		}
		targets = []string{opts.Version}
	}

	var failed []string
	for _, id := range targets {
		report, err := store.VerifyIntegrity(id)
		if err != nil {
			return err
		}
		if report.AllMatch {
			fmt.Printf("%s: OK (%d artifacts)\n", id, len(report.Results))
			continue
		}
		failed = append(failed, id)
		fmt.Printf("%s: FAILED\n", id)
		for _, name := range report.Mismatches() {
			fmt.Printf("  mismatch: %s\n", name)
		}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		return errors.NewIntegrityMismatchError(failed[0], failed)
	}
	return nil
}
