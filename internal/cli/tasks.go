package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"taskdeck/internal/app"
	"taskdeck/internal/model"
	"taskdeck/internal/publish"

	"github.com/spf13/cobra"
)

func newTasksCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksListCmd(a))
	cmd.AddCommand(newTasksShowCmd(a))
	cmd.AddCommand(newTasksCreateCmd(a))
	cmd.AddCommand(newTasksUpdateCmd(a))
	cmd.AddCommand(newTasksDeleteCmd(a))
	cmd.AddCommand(newTasksMoveCmd(a))
	cmd.AddCommand(newTasksExportCmd(a))

	return cmd
}

type filterFlags struct {
	category string
	priority string
	status   string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Only tasks in this category")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Only tasks with this priority (Low|Medium|High)")
	cmd.Flags().StringVar(&f.status, "status", "", "Only tasks with this status (pending|completed)")
}

func (f *filterFlags) filter() (app.Filter, error) {
	p, err := model.ParsePriority(f.priority)
	if err != nil {
		return app.Filter{}, err
	}
	s, err := model.ParseStatus(f.status)
	if err != nil {
		return app.Filter{}, err
	}
	return app.Filter{Category: strings.TrimSpace(f.category), Priority: p, Status: s}, nil
}

// applyFilter sets every criterion through the reducer, so the same rules as the
// interactive filter bar apply.
func applyFilter(cmd *cobra.Command, c *app.Controller, f app.Filter) {
	ctx := cmd.Context()
	c.Dispatch(ctx, app.SetFilter{Kind: app.FilterCategory, Value: f.Category})
	c.Dispatch(ctx, app.SetFilter{Kind: app.FilterPriority, Value: string(f.Priority)})
	c.Dispatch(ctx, app.SetFilter{Kind: app.FilterStatus, Value: string(f.Status)})
}

func newTasksListCmd(a *App) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.LoadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, describe(err))
			}
			applyFilter(cmd, c, f)
			st := c.State()
			return writeOut(cmd, a, map[string]any{
				"data": st.VisibleTasks(),
				"meta": map[string]any{
					"total":           len(st.Store.Tasks),
					"categoryOptions": app.CategoryOptions(st.Store.Tasks),
				},
			})
		},
	}
	ff.bind(cmd)
	return cmd
}

func newTasksShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <task-id>",
		Short:   "Show a task",
		Aliases: []string{"get"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.LoadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, describe(err))
			}
			t, ok := c.State().Store.FindTask(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, a, map[string]any{"data": t})
		},
	}
}

type taskFlags struct {
	title       string
	description string
	priority    string
	category    string
	due         string
	status      string
}

func (f *taskFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (Low|Medium|High)")
	cmd.Flags().StringVar(&f.category, "category", "", "Category name")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD); empty clears it")
	cmd.Flags().StringVar(&f.status, "status", "", "Status (pending|completed)")
}

// apply overlays the flags the user actually passed onto base.
func (f *taskFlags) apply(cmd *cobra.Command, base model.TaskFields) (model.TaskFields, error) {
	changed := cmd.Flags().Changed
	if changed("title") {
		base.Title = strings.TrimSpace(f.title)
	}
	if changed("description") {
		base.Description = f.description
	}
	if changed("category") {
		base.Category = strings.TrimSpace(f.category)
	}
	if changed("priority") {
		p, err := model.ParsePriority(f.priority)
		if err != nil {
			return base, err
		}
		if p != "" {
			base.Priority = p
		}
	}
	if changed("status") {
		s, err := model.ParseStatus(f.status)
		if err != nil {
			return base, err
		}
		if s != "" {
			base.Status = s
		}
	}
	if changed("due") {
		d, err := model.ParseDueDate(f.due)
		if err != nil {
			return base, err
		}
		base.DueDate = d
	}
	return base, nil
}

func saveErr(err error) error {
	var fe *app.FormError
	if errors.As(err, &fe) {
		return fe
	}
	return describe(err)
}

func newTasksCreateCmd(a *App) *cobra.Command {
	var tf taskFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task (defaults: priority Medium, status pending)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := tf.apply(cmd, model.NewTaskFields())
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := c.CreateTask(cmd.Context(), fields)
			if err != nil {
				return writeErr(cmd, saveErr(err))
			}
			if t, ok := c.State().Store.FindTask(id); ok {
				return writeOut(cmd, a, map[string]any{"data": t})
			}
			return writeOut(cmd, a, map[string]any{"data": map[string]any{"id": id}})
		},
	}
	tf.bind(cmd)
	return cmd
}

func newTasksUpdateCmd(a *App) *cobra.Command {
	var tf taskFlags
	cmd := &cobra.Command{
		Use:     "update <task-id>",
		Aliases: []string{"edit"},
		Short:   "Update a task; only the flags given are changed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.LoadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, describe(err))
			}
			cur, ok := c.State().Store.FindTask(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			fields, err := tf.apply(cmd, cur.Fields())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.UpdateTask(cmd.Context(), id, fields); err != nil {
				return writeErr(cmd, saveErr(err))
			}
			t, _ := c.State().Store.FindTask(id)
			return writeOut(cmd, a, map[string]any{"data": t})
		},
	}
	tf.bind(cmd)
	return cmd
}

func newTasksDeleteCmd(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task (asks for confirmation unless --yes)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			confirm := func(question string) bool {
				if yes {
					return true
				}
				return promptYesNo(cmd, question)
			}
			deleted, err := c.DeleteTask(cmd.Context(), id, confirm)
			if errors.Is(err, app.ErrTaskNotFound) {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			if err != nil {
				return writeErr(cmd, describe(err))
			}
			return writeOut(cmd, a, map[string]any{"data": map[string]any{"id": id, "deleted": deleted}})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func promptYesNo(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newTasksMoveCmd(a *App) *cobra.Command {
	var onto string
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "move <task-id> --onto <task-id>",
		Short: "Drop a task onto another one in the (filtered) list and persist the new order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dragged, err := parseTaskID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(onto) == "" {
				return writeErr(cmd, errors.New("missing --onto <task-id>"))
			}
			target, err := parseTaskID(onto)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := ff.filter()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.LoadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, describe(err))
			}
			applyFilter(cmd, c, f)
			order, err := c.Reorder(cmd.Context(), dragged, target)
			if err != nil {
				return writeErr(cmd, describe(err))
			}
			return writeOut(cmd, a, map[string]any{
				"data": map[string]any{"order": order, "positions": app.Positions(order)},
			})
		},
	}
	cmd.Flags().StringVar(&onto, "onto", "", "Task id to drop onto")
	ff.bind(cmd)
	return cmd
}

func newTasksExportCmd(a *App) *cobra.Command {
	var (
		ff        filterFlags
		to        string
		title     string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export visible tasks as Markdown (stdout, or files with --to)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := newController(a)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := c.LoadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, describe(err))
			}
			applyFilter(cmd, c, f)
			visible := c.State().VisibleTasks()

			if strings.TrimSpace(to) == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), publish.RenderIndexMarkdown(title, visible, publish.RenderOptions{}))
				return err
			}
			res, err := publish.WriteTasks(visible, to, publish.WriteOptions{Title: title, Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, a, map[string]any{"data": res})
		},
	}
	ff.bind(cmd)
	cmd.Flags().StringVar(&to, "to", "", "Write index.md and tasks/<id>.md under this directory")
	cmd.Flags().StringVar(&title, "title", "Tasks", "Heading of the index page")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	return cmd
}
