package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dohr-michael/taskchat/internal/config"
)

// logLevel resolves the level from --debug, then log.level.
func logLevel(cmd *cli.Command, cfg *config.Config) slog.Level {
	if cmd.Bool("debug") {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// setupLogging installs a text logger on stderr.
func setupLogging(cmd *cli.Command, cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cmd, cfg)}))
	slog.SetDefault(logger)
	return logger
}

// setupFileLogging installs a JSON logger writing to the rolling log file, for
// commands that own the terminal.
func setupFileLogging(cmd *cli.Command, cfg *config.Config) (*slog.Logger, io.Closer) {
	sink := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		slog.Warn("create log dir", "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: logLevel(cmd, cfg)}))
	slog.SetDefault(logger)
	return logger, sink
}
