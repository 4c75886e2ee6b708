package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type RollbackOptions struct {
	Version     string
	Reason      string
	ShowLog     bool
	RegistryDir string
}

func NewRollbackCmd() *cobra.Command {
	opts := &RollbackOptions{}

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Revert the champion pointer to a previous version",
		Long: `Make a previously registered version the champion again, recording an
append-only audit entry. Rollback bypasses the guardrails: it is an
operator decision, not a statistical one.`,
		Example: `  # Roll back to v2.0.0 after an incident
  modelreg-cli rollback --version v2.0.0 --reason "elevated false negatives in production"

  # Inspect the rollback history
  modelreg-cli rollback --log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRollback(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Version, "version", "", "Version id to roll back to")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "Reason recorded in the audit log (required with --version)")
	cmd.Flags().BoolVar(&opts.ShowLog, "log", false, "Print the rollback history instead of rolling back")
	cmd.Flags().StringVar(&opts.RegistryDir, "registry", "", "Registry root (overrides configuration)")

	return cmd
}

func runRollback(opts *RollbackOptions) error {
	_, store, _, err := newEnv(opts.RegistryDir)
	if err != nil {
		return err
	}

	if opts.ShowLog {
		entries, err := store.RollbackLog()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No rollbacks recorded")
			return nil
		}
		for _, e := range entries {
			from := e.FromVersion
			if from == "" {
				from = "(none)"
			}
			fmt.Printf("%s  %s -> %s  %s\n",
				e.Timestamp.Format(time.RFC3339), from, e.ToVersion, e.Reason)
		}
		return nil
	}

	if opts.Version == "" {
		return fmt.Errorf("either --version or --log is required")
	}
	if opts.Reason == "" {
		return fmt.Errorf("--reason is required when rolling back")
	}

	changed, err := store.RollbackTo(opts.Version, opts.Reason)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Printf("%s is already the champion, nothing to do\n", opts.Version)
		return nil
	}

	fmt.Printf("Rolled back, champion is now %s\n", opts.Version)
	return nil
}
