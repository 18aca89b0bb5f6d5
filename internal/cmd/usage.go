package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelink/modelink/internal/output"
	"github.com/modelink/modelink/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show aggregated token usage per provider and model",
	RunE:  runUsage,
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, args []string) error {
	if !appCfg.Usage.Enabled {
		return fmt.Errorf("usage ledger is disabled; set usage.enabled in the config")
	}

	ledger, err := usage.Open(cmd.Context(), appCfg.Usage)
	if err != nil {
		return err
	}
	defer ledger.Close() // nolint:errcheck // best-effort cleanup

	rows, err := ledger.Summary(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no usage recorded yet")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.UsageTable(rows))
	return nil
}
