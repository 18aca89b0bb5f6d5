package cmd

import (
	"bufio"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelink/modelink/internal/chatlink"
	"github.com/modelink/modelink/internal/chatlink/content"
)

var (
	chatProvider string
	chatAttach   string
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Converse with a configured backend",
	Long: `Send a message (optionally with an attached file) to a backend and
print the reply. Without a message argument an interactive session starts;
history accumulates for the session and is discarded on exit.`,
	Args: cobra.ArbitraryArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatProvider, "provider", "p", "", "provider id (defaults to the configured default)")
	chatCmd.Flags().StringVarP(&chatAttach, "attach", "a", "", "path of a file to attach")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	registry, ledger, err := newRegistry(cmd, true)
	if err != nil {
		return err
	}
	defer ledger.Close() // nolint:errcheck // best-effort cleanup

	att, err := loadAttachment(chatAttach)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		message := strings.Join(args, " ")
		result, err := registry.Converse(cmd.Context(), chatProvider, message, att, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Reply)
		return nil
	}

	return interactiveChat(cmd, registry, att)
}

// interactiveChat reads messages line by line; the attachment, when given,
// is sent with the first message only.
func interactiveChat(cmd *cobra.Command, registry *chatlink.Registry, att *content.Attachment) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "modelink interactive chat (empty line or Ctrl-D to exit)")

	var history content.History
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			break
		}

		result, err := registry.Converse(cmd.Context(), chatProvider, message, att, history)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		att = nil
		history = result.History
		fmt.Fprintf(out, "\n%s\n\n", result.Reply)
	}
	return scanner.Err()
}

// loadAttachment reads a file and infers its mime type from the extension;
// unknown extensions fall back to octet-stream.
func loadAttachment(path string) (*content.Attachment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &content.Attachment{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Data:     data,
	}, nil
}
