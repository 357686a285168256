package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dohr-michael/taskchat/internal/agentd"
	"github.com/dohr-michael/taskchat/internal/callbacks"
	"github.com/dohr-michael/taskchat/internal/config"
	"github.com/dohr-michael/taskchat/internal/heartbeat"
	"github.com/dohr-michael/taskchat/internal/taskstore"
	"github.com/dohr-michael/taskchat/internal/tasks"
	"github.com/dohr-michael/taskchat/internal/threads"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local task-store and assistant backends",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tasks-addr",
				Usage: "Task-store listen address",
			},
			&cli.StringFlag{
				Name:  "assistant-addr",
				Usage: "Assistant listen address",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (\":memory:\" for a throwaway store)",
			},
			&cli.StringFlag{
				Name:  "brain",
				Usage: "Assistant brain: command, model or model:<provider>",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	logger := setupLogging(cmd, cfg)

	// CLI flags override config
	if cmd.IsSet("tasks-addr") {
		cfg.Server.TasksAddr = cmd.String("tasks-addr")
	}
	if cmd.IsSet("assistant-addr") {
		cfg.Server.AssistantAddr = cmd.String("assistant-addr")
	}
	if cmd.IsSet("db") {
		cfg.Server.DBPath = cmd.String("db")
	}
	if cmd.IsSet("brain") {
		cfg.Server.Brain = cmd.String("brain")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Task store
	if cfg.Server.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Server.DBPath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := taskstore.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	taskServer := taskstore.NewServer(store, cfg.Server.TasksAddr, registry, logger.With("server", "taskstore"))

	// Assistant: the brain's model callbacks report into the assistant metrics,
	// which only exist once the server does.
	var observe callbacks.Observer
	handler := callbacks.NewModelLogHandler(logger, func(model string, phase callbacks.Phase) {
		if observe != nil {
			observe(model, phase)
		}
	})
	brain, err := agentd.NewBrain(ctx, cfg, handler)
	if err != nil {
		return fmt.Errorf("init brain: %w", err)
	}

	taskAPI := tasks.NewClient(localURL(cfg.Server.TasksAddr, taskstore.BasePath), nil)
	assistantServer := agentd.NewServer(agentd.Config{
		Addr:     cfg.Server.AssistantAddr,
		Brain:    brain,
		Executor: agentd.NewExecutor(taskAPI, logger),
		Threads:  threads.NewFileStore(cfg.Server.ThreadsDir),
		Registry: registry,
		Logger:   logger.With("server", "agentd"),
	})
	observe = assistantServer.ModelObserver()

	backends := heartbeat.Backends{
		Tasks:     localURL(cfg.Server.TasksAddr, taskstore.BasePath),
		Assistant: localURL(cfg.Server.AssistantAddr, agentd.ChatPath),
		Brain:     brain.Name(),
	}
	logger.Info("backends starting",
		"tasks", backends.Tasks,
		"assistant", backends.Assistant,
		"brain", backends.Brain,
		"db", cfg.Server.DBPath,
	)

	beat := heartbeat.NewWriter(config.HeartbeatPath(), heartbeat.DefaultInterval, backends, logger)
	if err := beat.Start(ctx); err != nil {
		logger.Warn("heartbeat disabled", "error", err)
	}
	defer beat.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(taskServer.Start)
	g.Go(assistantServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Join(
			assistantServer.Shutdown(shutdownCtx),
			taskServer.Shutdown(shutdownCtx),
		)
	})
	return g.Wait()
}

// localURL turns a listen address into a URL a local client can dial.
func localURL(addr, path string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + path
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + path
}
