package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskman/internal/application/confirm"
	"taskman/internal/application/dto"
	"taskman/internal/application/tasksync"
	"taskman/internal/infrastructure/serialization"
)

const shortIDLen = 8

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long: `Manage tasks - create, update, complete, reorder, delete and query them.

Task ids may be given in full or as any unique prefix, such as the
8-character id shown by 'taskman task list'.

Examples:
  # List all tasks
  taskman task list

  # Create a task in your editor
  taskman task create --edit

  # Rename a task
  taskman task update 3f2a9c1b --title "Buy oat milk"

  # Complete and reopen
  taskman task complete 3f2a9c1b
  taskman task reopen 3f2a9c1b

  # Delete without a prompt
  taskman task delete 3f2a9c1b --yes`,
}

// taskListCmd lists tasks
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks in position order.

Output formats:
  text - Human-readable table (default)
  json - JSON output for scripting
  yaml - YAML output
  ids  - One task id per line, for piping into other commands

Examples:
  # List all tasks
  taskman task list

  # List incomplete tasks
  taskman task list --pending

  # List overdue tasks as JSON
  taskman task list --overdue -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)

		pending, _ := cmd.Flags().GetBool("pending")
		completed, _ := cmd.Flags().GetBool("completed")
		overdue, _ := cmd.Flags().GetBool("overdue")
		if pending && completed {
			return fmt.Errorf("--pending and --completed cannot be combined")
		}

		tasks, err := loadTasks(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		filtered := make([]dto.TaskDTO, 0, len(tasks))
		for _, task := range tasks {
			if pending && task.IsComplete {
				continue
			}
			if completed && !task.IsComplete {
				continue
			}
			if overdue && !task.IsOverdue(now) {
				continue
			}
			filtered = append(filtered, task)
		}

		if formatter.Structured() {
			return formatter.Print(filtered)
		}
		if len(filtered) == 0 {
			printer.Info("No tasks found")
			return nil
		}
		printTaskTable(filtered, now)
		return nil
	},
}

// taskGetCmd shows one task
var taskGetCmd = &cobra.Command{
	Use:   "get <task-id>",
	Short: "Show task details",
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)
		args, err := resolveArgs(args, 1)
		if err != nil {
			return err
		}
		task, err := findTask(ctx, args[0])
		if err != nil {
			return err
		}

		// fetch again for the server's current copy
		task, err = container.Controller.Get(ctx, task.ID)
		if err != nil {
			return err
		}
		return printTask(task)
	},
}

// taskCreateCmd creates a new task
var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Long: `Create a new task at the end of the list.

Without --title, or with --edit, $EDITOR opens a markdown template: the
deadline in YAML frontmatter, a '# title' heading and the description
as the body.

Deadlines accept 2006-01-02, 2006-01-02 15:04 or RFC 3339.

Examples:
  # Create a basic task
  taskman task create --title "Buy milk"

  # Create a task with a deadline
  taskman task create --title "Review PR" --deadline "2026-03-01 17:00"

  # Write the description in your editor
  taskman task create --title "Write documentation" --edit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)

		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		deadline, _ := cmd.Flags().GetString("deadline")
		useEditor, _ := cmd.Flags().GetBool("edit")

		doc := serialization.TaskDocument{Title: title, Description: description, Deadline: deadline}
		if useEditor || title == "" {
			var err error
			if doc, err = editTaskDocument(doc); err != nil {
				return err
			}
		}

		draft, err := draftFromDocument(doc)
		if err != nil {
			return err
		}

		task, err := container.Controller.Create(ctx, draft)
		if err != nil {
			return err
		}

		if formatter.Structured() {
			return formatter.Print(task)
		}
		printer.Success("Created task %s - %s", shortID(task.ID), task.Title)
		return nil
	},
}

// taskUpdateCmd edits a task
var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update a task's title, description or deadline",
	Long: `Update a task. Only the fields that differ from the current task are sent.

Examples:
  # Rename
  taskman task update 3f2a9c1b --title "Buy oat milk"

  # Clear the deadline
  taskman task update 3f2a9c1b --clear-deadline

  # Edit everything in $EDITOR
  taskman task update 3f2a9c1b --edit`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)
		args, err := resolveArgs(args, 1)
		if err != nil {
			return err
		}
		found, err := findTask(ctx, args[0])
		if err != nil {
			return err
		}
		loaded, err := container.Controller.Get(ctx, found.ID)
		if err != nil {
			return err
		}

		doc := serialization.TaskDocument{
			Title:       loaded.Title,
			Description: loaded.DescriptionText(),
			Deadline:    tasksync.EditableDeadline(loaded.Deadline),
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			doc.Title, _ = flags.GetString("title")
		}
		if flags.Changed("description") {
			doc.Description, _ = flags.GetString("description")
		}
		if flags.Changed("deadline") {
			doc.Deadline, _ = flags.GetString("deadline")
		}
		if clearDeadline, _ := flags.GetBool("clear-deadline"); clearDeadline {
			doc.Deadline = ""
		}
		if useEditor, _ := flags.GetBool("edit"); useEditor {
			if doc, err = editTaskDocument(doc); err != nil {
				return err
			}
		}

		draft, err := draftFromDocument(doc)
		if err != nil {
			return err
		}

		task, changed, err := container.Controller.Edit(ctx, loaded, draft)
		if err != nil {
			return err
		}

		if formatter.Structured() {
			return formatter.Print(task)
		}
		if !changed {
			printer.Info("No changes")
			return nil
		}
		printer.Success("Updated task %s - %s", shortID(task.ID), task.Title)
		return nil
	},
}

// taskCompleteCmd and taskReopenCmd set the completion flag
var taskCompleteCmd = newToggleCommand("complete", "Mark a task complete", true)

var taskReopenCmd = newToggleCommand("reopen", "Mark a task incomplete", false)

func newToggleCommand(use, short string, value bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getContext(cmd)
			args, err := resolveArgs(args, 1)
			if err != nil {
				return err
			}
			task, err := findTask(ctx, args[0])
			if err != nil {
				return err
			}
			if task.IsComplete == value && !formatter.Structured() {
				printer.Warning("%s - %s is already %s", shortID(task.ID), task.Title, completionState(value))
				return nil
			}

			if err := container.Controller.Toggle(ctx, task.ID, value); err != nil {
				return err
			}

			updated, _ := container.Controller.Snapshot().Tasks.Find(task.ID)
			if formatter.Structured() {
				return formatter.Print(updated)
			}
			printer.Success("Marked %s - %s %s", shortID(task.ID), task.Title, completionState(updated.IsComplete))
			return nil
		},
	}
}

func completionState(complete bool) string {
	if complete {
		return "complete"
	}
	return "incomplete"
}

// taskMoveCmd moves one task to a position
var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> --to <position>",
	Short: "Move a task to a position",
	Long: `Move a task to a 1-based position. Positions past the end move the
task to the bottom.

Examples:
  # Move to the top
  taskman task move 3f2a9c1b --to 1`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)
		to, _ := cmd.Flags().GetInt("to")
		if to < 1 {
			return fmt.Errorf("--to must be a position of 1 or more")
		}
		args, err := resolveArgs(args, 1)
		if err != nil {
			return err
		}
		task, err := findTask(ctx, args[0])
		if err != nil {
			return err
		}

		if err := container.Controller.MoveTo(ctx, task.ID, to); err != nil {
			return err
		}
		return printOrder(fmt.Sprintf("Moved %s - %s", shortID(task.ID), task.Title))
	},
}

// taskReorderCmd arranges several tasks at once
var taskReorderCmd = &cobra.Command{
	Use:   "reorder <task-id>...",
	Short: "Put tasks at the top in the given order",
	Long: `Put the given tasks at the top of the list in the given order. Tasks
that are not named keep their relative order below them.

Examples:
  # Make c1 first and a7 second
  taskman task reorder c1 a7`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)
		ids := make([]string, 0, len(args))
		for _, arg := range args {
			task, err := findTask(ctx, arg)
			if err != nil {
				return err
			}
			ids = append(ids, task.ID)
		}

		if err := container.Controller.Arrange(ctx, ids); err != nil {
			return err
		}
		return printOrder(fmt.Sprintf("Reordered %d task(s)", len(ids)))
	},
}

// taskDeleteCmd deletes a task
var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Long: `Delete a task. You are asked to confirm unless --yes is given.

This is the CLI equivalent of the TUI 'd' key action.

Examples:
  # Delete a task (with confirmation)
  taskman task delete 3f2a9c1b

  # Delete without confirmation
  taskman task delete 3f2a9c1b --yes`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)
		args, err := resolveArgs(args, 1)
		if err != nil {
			return err
		}
		task, err := findTask(ctx, args[0])
		if err != nil {
			return err
		}

		var dialog confirm.Dialog
		if err := dialog.Show(confirm.Target{ID: task.ID, Title: task.Title}); err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := printer.Confirm("%s %s", dialog.Title(), dialog.Message())
			if err != nil {
				return err
			}
			if !ok {
				_ = dialog.Cancel()
				printer.Info("Deletion cancelled")
				return nil
			}
		}

		req, err := dialog.Confirm()
		if err != nil {
			return err
		}
		if err := container.Controller.Delete(ctx, req); err != nil {
			_ = dialog.Fail(err.Error())
			return err
		}
		_ = dialog.Succeed()

		if !quiet {
			printer.Success("Deleted task %s - %s", shortID(task.ID), task.Title)
		}
		return nil
	},
}

// loadTasks fetches the list into the controller
func loadTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	if err := container.Controller.Load(ctx); err != nil {
		return nil, err
	}
	return container.Controller.Snapshot().Tasks.Tasks(), nil
}

// findTask loads the list and resolves a full id or a unique id prefix
func findTask(ctx context.Context, ref string) (dto.TaskDTO, error) {
	snap := container.Controller.Snapshot()
	if !snap.Loaded {
		if _, err := loadTasks(ctx); err != nil {
			return dto.TaskDTO{}, err
		}
		snap = container.Controller.Snapshot()
	}
	return matchTask(snap.Tasks.Tasks(), ref)
}

func matchTask(tasks []dto.TaskDTO, ref string) (dto.TaskDTO, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return dto.TaskDTO{}, fmt.Errorf("task id is required")
	}

	var matches []dto.TaskDTO
	for _, task := range tasks {
		if task.ID == ref {
			return task, nil
		}
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}

	switch len(matches) {
	case 0:
		return dto.TaskDTO{}, fmt.Errorf("task '%s' not found", ref)
	case 1:
		return matches[0], nil
	default:
		return dto.TaskDTO{}, fmt.Errorf("task id '%s' is ambiguous (%d matches)", ref, len(matches))
	}
}

func draftFromDocument(doc serialization.TaskDocument) (tasksync.Draft, error) {
	deadline, err := tasksync.ParseDeadline(doc.Deadline, time.Local)
	if err != nil {
		return tasksync.Draft{}, err
	}
	return tasksync.Draft{
		Title:       doc.Title,
		Description: doc.Description,
		Deadline:    deadline,
	}, nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// printOrder reports a reorder and shows the resulting list
func printOrder(msg string) error {
	tasks := container.Controller.Snapshot().Tasks.Tasks()
	if formatter.Structured() {
		return formatter.Print(tasks)
	}
	printer.Success("%s", msg)
	if !quiet {
		printTaskTable(tasks, time.Now())
	}
	return nil
}

func printTaskTable(tasks []dto.TaskDTO, now time.Time) {
	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		done := "○"
		if task.IsComplete {
			done = "✓"
		}
		deadline := ""
		if task.Deadline != nil {
			deadline = tasksync.FormatTime(*task.Deadline)
			if task.IsOverdue(now) {
				deadline += " (overdue)"
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(task.Position),
			shortID(task.ID),
			done,
			task.Title,
			deadline,
		})
	}
	printer.Table([]string{"#", "ID", "", "TITLE", "DEADLINE"}, rows)
}

func printTask(task dto.TaskDTO) error {
	if formatter.Structured() {
		return formatter.Print(task)
	}

	status := "Incomplete"
	if task.IsComplete {
		status = "Complete"
	}
	description := task.DescriptionText()
	if description == "" {
		description = "No description"
	}
	deadline := "No deadline"
	if task.Deadline != nil {
		deadline = tasksync.FormatTime(*task.Deadline)
		if task.IsOverdue(time.Now()) {
			deadline += " (overdue)"
		}
	}

	printer.Header("%s", task.Title)
	printer.Subtle("%s", task.ID)
	fmt.Fprintln(os.Stdout)
	printer.Println("Status:    %s", status)
	printer.Println("Position:  %d", task.Position)
	printer.Println("Deadline:  %s", deadline)
	printer.Println("Created:   %s", tasksync.FormatTime(task.CreatedAt))
	printer.Println("Updated:   %s", tasksync.FormatTime(task.UpdatedAt))
	fmt.Fprintln(os.Stdout)
	printer.Println("%s", description)
	return nil
}

func init() {
	rootCmd.AddCommand(taskCmd)

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskReopenCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskReorderCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	taskListCmd.Flags().Bool("pending", false, "Only incomplete tasks")
	taskListCmd.Flags().Bool("completed", false, "Only completed tasks")
	taskListCmd.Flags().Bool("overdue", false, "Only tasks past their deadline")

	for _, c := range []*cobra.Command{taskCreateCmd, taskUpdateCmd} {
		c.Flags().StringP("title", "t", "", "Task title")
		c.Flags().StringP("description", "d", "", "Task description")
		c.Flags().String("deadline", "", "Deadline (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)")
		c.Flags().BoolP("edit", "e", false, "Open $EDITOR")
	}
	taskUpdateCmd.Flags().Bool("clear-deadline", false, "Remove the deadline")

	taskMoveCmd.Flags().Int("to", 0, "1-based target position")
	_ = taskMoveCmd.MarkFlagRequired("to")

	taskDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without confirmation")
}
