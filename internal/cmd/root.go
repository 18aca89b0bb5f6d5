// Package cmd wires the modelink CLI.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modelink/modelink/internal/chatlink"
	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/prompt"
	"github.com/modelink/modelink/internal/config"
	"github.com/modelink/modelink/internal/observability"
	"github.com/modelink/modelink/internal/usage"
)

var (
	cfgFile   string
	verbose   bool
	traceFile string

	appCfg       *config.Config
	logger       *zap.Logger
	traceCleanup func()

	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package with build-time metadata.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   "modelink",
	Short: "Provider-agnostic chat across interchangeable AI backends",
	Long: `modelink mediates one canonical conversation model onto several
AI chat-completion backends (gemini, groq, openrouter, rovo, xai), handling
attachment classification, payload construction under provider size limits,
and response normalization.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialize,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { teardown() },
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug log level)")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace", "", "trace provider requests/responses to an NDJSON file")
}

func initialize(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = observability.NewCLILogger(verbose)
	if err != nil {
		return err
	}

	appCfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if traceFile != "" {
		cleanup, err := driver.EnableTracing(traceFile)
		if err != nil {
			return fmt.Errorf("enable tracing: %w", err)
		}
		traceCleanup = cleanup
	}
	return nil
}

func teardown() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

// newRegistry builds the chat registry from the loaded config, optionally
// backed by the usage ledger. The caller closes the returned ledger.
func newRegistry(cmd *cobra.Command, withUsage bool) (*chatlink.Registry, *usage.Ledger, error) {
	prompts, err := prompt.LoadOverrides(appCfg.Chat.PromptsFile)
	if err != nil {
		return nil, nil, err
	}

	opts := []chatlink.Option{
		chatlink.WithLogger(logger),
		chatlink.WithPrompts(prompts),
	}

	var ledger *usage.Ledger
	if withUsage && appCfg.Usage.Enabled {
		ledger, err = usage.Open(cmd.Context(), appCfg.Usage)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, chatlink.WithUsageRecorder(ledger))
	}

	return chatlink.NewRegistry(appCfg.Chat, opts...), ledger, nil
}
