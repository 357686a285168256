package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskchat/internal/threads"
)

// NewThreadsCommand returns the threads subcommand.
func NewThreadsCommand() *cli.Command {
	return &cli.Command{
		Name:  "threads",
		Usage: "Inspect assistant threads kept by the local backend",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all threads",
				Action: runThreadsList,
			},
			{
				Name:      "show",
				Usage:     "Show messages in a thread",
				ArgsUsage: "<thread_id>",
				Action:    runThreadsShow,
			},
		},
		DefaultCommand: "list",
	}
}

func newThreadStore(cmd *cli.Command) *threads.FileStore {
	cfg := loadConfig(cmd)
	setupLogging(cmd, cfg)
	return threads.NewFileStore(cfg.Server.ThreadsDir)
}

func runThreadsList(_ context.Context, cmd *cli.Command) error {
	list, err := newThreadStore(cmd).List()
	if err != nil {
		return fmt.Errorf("list threads: %w", err)
	}

	out := cmd.Root().Writer
	if len(list) == 0 {
		fmt.Fprintln(out, "No threads found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMESSAGES\tUPDATED\tTITLE")
	for _, t := range list {
		title := t.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			t.ID,
			t.MessageCount,
			t.UpdatedAt.Format("2006-01-02 15:04"),
			title,
		)
	}
	return w.Flush()
}

func runThreadsShow(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: taskchat threads show <thread_id>")
	}

	msgs, err := newThreadStore(cmd).Messages(id)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	out := cmd.Root().Writer
	if len(msgs) == 0 {
		fmt.Fprintln(out, "No messages in this thread.")
		return nil
	}

	for _, m := range msgs {
		fmt.Fprintf(out, "[%s] %s: %s\n", m.Ts.Format("15:04:05"), m.Role, m.Content)
	}
	return nil
}
