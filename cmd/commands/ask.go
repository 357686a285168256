package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/taskchat/clients/tui"
	"github.com/dohr-michael/taskchat/internal/assistant"
	"github.com/dohr-michael/taskchat/internal/conversation"
	"github.com/dohr-michael/taskchat/internal/reply"
)

// NewAskCommand returns the ask subcommand.
func NewAskCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send a message to the assistant and print the reply",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "continue",
				Usage: "Resume the last assistant thread instead of starting a new one",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print unstyled text even on a terminal",
			},
		},
		Action: runAsk,
	}
}

func runAsk(ctx context.Context, cmd *cli.Command) error {
	message := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("usage: taskchat ask <message>")
	}

	cfg := loadConfig(cmd)
	logger := setupLogging(cmd, cfg)

	store := openSession(logger)
	if !cmd.Bool("continue") {
		if err := store.Reset(); err != nil {
			logger.Warn("reset thread id", "error", err)
		}
	}

	client := assistant.NewClient(cfg.Endpoints.Assistant, nil, cfg.Assistant.Timeout.Duration())
	ctrl := conversation.New(client, store, conversation.WithLogger(logger))

	msg, _ := ctrl.Submit(ctx, message)
	out := cmd.Root().Writer
	fmt.Fprintln(out, formatReply(msg, styled(cmd, out)))

	if msg.Intent == reply.IntentError {
		return fmt.Errorf("assistant unreachable at %s", client.Endpoint())
	}
	if id := store.Get(); id != "" {
		logger.Debug("thread", "thread_id", id)
	}
	return nil
}

func styled(cmd *cli.Command, out io.Writer) bool {
	return !cmd.Bool("plain") && out == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

func formatReply(m conversation.Message, styled bool) string {
	if !styled {
		return m.Text
	}
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return tui.RenderMessage(m, width)
}
