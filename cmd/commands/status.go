package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskchat/internal/config"
	"github.com/dohr-michael/taskchat/internal/heartbeat"
	"github.com/dohr-michael/taskchat/internal/tasks"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show local backend liveness and the pending task count",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := newTaskClient(cmd)
			out := cmd.Root().Writer

			writeBackendStatus(out, config.HeartbeatPath())

			list, err := client.List(ctx)
			if err != nil {
				fmt.Fprintf(out, "Task store: UNAVAILABLE (%s)\n", client.Endpoint())
				return err
			}

			n := tasks.PendingCount(list)
			noun := "tasks"
			if n == 1 {
				noun = "task"
			}
			fmt.Fprintf(out, "%d pending %s (%d total)\n", n, noun, len(list))
			return nil
		},
	}
}

// writeBackendStatus reports whether a local `serve` is beating. Remote
// backends never write a heartbeat, so NOT RUNNING is informational only.
func writeBackendStatus(out io.Writer, path string) {
	status, hb, err := heartbeat.Check(path, 3*heartbeat.DefaultInterval)
	switch {
	case err != nil:
		fmt.Fprintf(out, "Local backends: UNKNOWN (%v)\n", err)
	case status == heartbeat.StatusAlive:
		fmt.Fprintf(out, "Local backends: ALIVE (PID %d, uptime %s, brain %s)\n", hb.PID, hb.Uptime(), hb.Backends.Brain)
	case status == heartbeat.StatusStale:
		fmt.Fprintf(out, "Local backends: STALE (last beat %s)\n", hb.Timestamp.Format("2006-01-02 15:04:05"))
	default:
		fmt.Fprintln(out, "Local backends: NOT RUNNING")
	}
}
