package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelink/modelink/internal/chatlink/profile"
	"github.com/modelink/modelink/internal/output"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the backend profiles and their configuration",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	rows := make([]output.ProviderRow, 0, len(profile.IDs()))
	builtIn := profile.BuiltIn()

	for _, id := range profile.IDs() {
		prof := builtIn[id]
		pc := appCfg.Chat.Providers[id]
		model := pc.Model
		if model == "" {
			model = profile.AutoModel
		}
		rows = append(rows, output.ProviderRow{
			Profile: prof,
			Enabled: pc.Enabled,
			Model:   model,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.ProvidersTable(rows))
	return nil
}
