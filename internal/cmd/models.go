package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/modelink/modelink/internal/chatlink/driver/chat"
	"github.com/modelink/modelink/internal/output"
)

var modelsCmd = &cobra.Command{
	Use:   "models <provider>",
	Short: "Probe a backend's live model catalog and show the resolved selection",
	Args:  cobra.ExactArgs(1),
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	registry, _, err := newRegistry(cmd, false)
	if err != nil {
		return err
	}

	adapter, _, err := registry.AdapterFor(args[0])
	if err != nil {
		return err
	}

	selection := adapter.Selection(cmd.Context())

	client, ok := adapter.(*chat.Client)
	if !ok || client.Profile.ModelsPath == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no model catalog; resolved model: %s (%s)\n",
			args[0], selection.Model, selection.Reason)
		return nil
	}

	models, err := client.ListModels(cmd.Context())
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	sort.Strings(models)

	fmt.Fprintln(cmd.OutOrStdout(), output.ModelsTable(args[0], models, selection.Model))
	fmt.Fprintf(cmd.OutOrStdout(), "resolved model: %s (%s)\n", selection.Model, selection.Reason)
	return nil
}
