package commands

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskchat/clients/tui"
	"github.com/dohr-michael/taskchat/internal/assistant"
	"github.com/dohr-michael/taskchat/internal/config"
	"github.com/dohr-michael/taskchat/internal/conversation"
	"github.com/dohr-michael/taskchat/internal/monitor"
	"github.com/dohr-michael/taskchat/internal/session"
	"github.com/dohr-michael/taskchat/internal/startup"
	"github.com/dohr-michael/taskchat/internal/tasks"
)

// NewChatCommand returns the chat subcommand.
func NewChatCommand() *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Launch the interactive chat",
		Action: runChat,
	}
}

func runChat(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	logger, sink := setupFileLogging(cmd, cfg)
	defer sink.Close()

	store := openSession(logger)
	if err := store.Reset(); err != nil {
		logger.Warn("reset thread id", "error", err)
	}

	httpClient := &http.Client{}
	taskClient := tasks.NewClient(cfg.Endpoints.Tasks, httpClient)
	assistantClient := assistant.NewClient(cfg.Endpoints.Assistant, httpClient, cfg.Assistant.Timeout.Duration())

	logger.Info("chat started",
		"tasks", cfg.Endpoints.Tasks,
		"assistant", cfg.Endpoints.Assistant,
		"log_file", cfg.Log.File,
	)

	return tui.Run(ctx, tui.Options{
		Controller:  conversation.New(assistantClient, store, conversation.WithLogger(logger)),
		Loader:      startup.NewLoader(taskClient, startup.WithJitter(cfg.Startup.Jitter), startup.WithLogger(logger)),
		MaxAttempts: cfg.Startup.MaxAttempts,
		Delay:       cfg.Startup.Delay.Duration(),
		Session:     store,
		Label:       assistantClient.Endpoint(),
	}, taskClient, monitor.Config{
		Interval:  cfg.Monitor.Interval.Duration(),
		HideAfter: cfg.Monitor.HideAfter.Duration(),
		Logger:    logger,
	})
}

// openSession opens the persisted thread-id store, falling back to memory
// when the file cannot be used.
func openSession(logger *slog.Logger) session.Store {
	fs, err := session.OpenFileStore(config.SessionPath())
	if err != nil {
		logger.Warn("thread id not persisted", "path", config.SessionPath(), "error", err)
		return session.NewMemoryStore()
	}
	return fs
}
