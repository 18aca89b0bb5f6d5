package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modelink/modelink/internal/chatlink"
	"github.com/modelink/modelink/internal/chatlink/prompt"
	"github.com/modelink/modelink/internal/observability"
	"github.com/modelink/modelink/internal/server"
	"github.com/modelink/modelink/internal/usage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	srvLog, err := observability.NewServerLogger(appCfg.Logging.Level)
	if err != nil {
		return err
	}
	defer srvLog.Sync() // nolint:errcheck // stderr sync is best-effort

	prompts, err := prompt.LoadOverrides(appCfg.Chat.PromptsFile)
	if err != nil {
		return err
	}

	opts := []chatlink.Option{
		chatlink.WithLogger(srvLog),
		chatlink.WithPrompts(prompts),
	}
	if appCfg.Usage.Enabled {
		ledger, err := usage.Open(cmd.Context(), appCfg.Usage)
		if err != nil {
			return err
		}
		defer ledger.Close() // nolint:errcheck // best-effort cleanup
		opts = append(opts, chatlink.WithUsageRecorder(ledger))
	}

	registry := chatlink.NewRegistry(appCfg.Chat, opts...)
	srv := server.New(appCfg.Server, registry, srvLog, versionInfo.Version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-sigCh:
		srvLog.Info("signal received, shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), appCfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
