package commands

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskchat/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "taskchat",
		Usage: "Chat with an assistant about your task list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "tasks-url",
				Usage: "Task-store endpoint (overrides endpoints.tasks)",
			},
			&cli.StringFlag{
				Name:  "assistant-url",
				Usage: "Assistant endpoint (overrides endpoints.assistant)",
			},
		},
		Commands: []*cli.Command{
			NewInitCommand(),
			NewChatCommand(),
			NewAskCommand(),
			NewTasksCommand(),
			NewStatusCommand(),
			NewServeCommand(),
			NewThreadsCommand(),
		},
	}
}

// loadConfig reads the config named by --config and applies flag overrides.
// A missing or broken file falls back to defaults.
func loadConfig(cmd *cli.Command) *config.Config {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		slog.Warn("config not loaded, using defaults", "path", path, "error", err)
		cfg = config.Default()
	}

	if cmd.IsSet("tasks-url") {
		cfg.Endpoints.Tasks = cmd.String("tasks-url")
	}
	if cmd.IsSet("assistant-url") {
		cfg.Endpoints.Assistant = cmd.String("assistant-url")
	}
	return cfg
}
