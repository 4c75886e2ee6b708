package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type ListOptions struct {
	Format      string
	RegistryDir string
}

func NewListCmd() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered model versions",
		Example: `  modelreg-cli list
  modelreg-cli list --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "table", "Output format (table, json)")
	cmd.Flags().StringVar(&opts.RegistryDir, "registry", "", "Registry root (overrides configuration)")

	return cmd
}

func runList(opts *ListOptions) error {
	_, store, _, err := newEnv(opts.RegistryDir)
	if err != nil {
		return err
	}

	versions, err := store.ListVersions()
	if err != nil {
		return err
	}

	switch opts.Format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(versions)
	case "table":
		if len(versions) == 0 {
			fmt.Println("No versions registered")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, " \tVERSION\tSTATUS\tREGISTERED\tPROMOTED BY\tNOTES")
		for _, v := range versions {
			marker := " "
			if v.IsChampion {
				marker = "★"
			}
			promoted := "-"
			if v.PromotedAt != nil {
				promoted = v.PromotedBy
			}
			notes := v.Notes
			if v.Status == "rejected" && v.RejectionReason != "" {
				notes = v.RejectionReason
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				marker, v.Version, v.Status,
				v.CreatedAt.Format(time.RFC3339), promoted, notes)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}
