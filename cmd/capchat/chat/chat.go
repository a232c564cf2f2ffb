package chatcmder

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capchatco/capchat/internal/tui"
	"github.com/capchatco/capchat/pkg/captions"
	"github.com/capchatco/capchat/pkg/chat"
	"github.com/capchatco/capchat/pkg/logger"
)

const chatLongDesc string = `Open a terminal chat session against a running captions proxy.

Upload an image with /upload <path>, or configure a drop directory and
drag files into it; each upload kicks off caption generation. Text
messages re-run caption generation for the current image.

Examples:
  capchat chat
  capchat chat --server http://localhost:9090 --drop-dir ~/Desktop/capchat-drops`

const chatShortDesc string = "Chat with the captions proxy from the terminal"

type chatCommander struct {
	serverURL string
	dropDir   string
	debug     bool
	logFile   string
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.serverURL, "server", "s", "http://localhost:8080", "Captions proxy base URL")
	cmd.Flags().StringVarP(&cmder.dropDir, "drop-dir", "d", "", "Directory to watch for dropped image files")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging to the log file")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "capchat-chat.log", "Log file path (the TUI owns the terminal)")

	return cmd
}

func (c *chatCommander) run() error {
	log := zap.NewNop()
	if c.debug {
		var err error
		log, err = logger.NewFileLogger(c.logFile, true)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
	}
	defer log.Sync()

	session := chat.NewSession(chat.NewProxyClient(c.serverURL), captions.DefaultPrompt)

	var drops *tui.DropWatcher
	if c.dropDir != "" {
		var err error
		drops, err = tui.NewDropWatcher(c.dropDir, log)
		if err != nil {
			return fmt.Errorf("could not watch drop directory: %w", err)
		}
		defer drops.Close()
	}

	model := tui.NewModel(session, drops, log)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}

	return nil
}
