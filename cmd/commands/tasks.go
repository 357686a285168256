package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/taskchat/internal/tasks"
)

// NewTasksCommand returns the tasks subcommand.
func NewTasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Operate on the task store directly",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all tasks",
				Action: runTasksList,
			},
			{
				Name:      "add",
				Usage:     "Add a pending task",
				ArgsUsage: "<text>",
				Action:    runTasksAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a task",
				ArgsUsage: "<task_id>",
				Action:    runTasksRemove,
			},
			{
				Name:      "done",
				Usage:     "Mark a task as done",
				ArgsUsage: "<task_id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "undo",
						Usage: "Mark the task as pending again",
					},
				},
				Action: runTasksDone,
			},
		},
		DefaultCommand: "list",
	}
}

func newTaskClient(cmd *cli.Command) *tasks.Client {
	cfg := loadConfig(cmd)
	setupLogging(cmd, cfg)
	return tasks.NewClient(cfg.Endpoints.Tasks, nil)
}

func runTasksList(ctx context.Context, cmd *cli.Command) error {
	list, err := newTaskClient(cmd).List(ctx)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if len(list) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}
	return writeTaskTable(out, tasks.Lines(list))
}

// writeTaskTable prints canonical task lines as columns. Lines that do not
// parse are printed raw in the task column.
func writeTaskTable(w io.Writer, lines []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTASK")
	for _, line := range lines {
		l, ok := tasks.ParseLine(line)
		if !ok {
			fmt.Fprintf(tw, "-\t-\t%s\n", line)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.ID, l.Status, l.Text)
	}
	return tw.Flush()
}

func runTasksAdd(ctx context.Context, cmd *cli.Command) error {
	text := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("usage: taskchat tasks add <text>")
	}

	created, err := newTaskClient(cmd).Add(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "Added %s\n", created.Line())
	return nil
}

func runTasksRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := taskID(cmd, "remove")
	if err != nil {
		return err
	}
	if err := newTaskClient(cmd).Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "Removed task %d\n", id)
	return nil
}

func runTasksDone(ctx context.Context, cmd *cli.Command) error {
	id, err := taskID(cmd, "done")
	if err != nil {
		return err
	}
	updated, err := newTaskClient(cmd).Complete(ctx, id, !cmd.Bool("undo"))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, updated.Line())
	return nil
}

func taskID(cmd *cli.Command, verb string) (int, error) {
	arg := strings.TrimPrefix(cmd.Args().First(), "#")
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("usage: taskchat tasks %s <task_id>", verb)
	}
	return id, nil
}
