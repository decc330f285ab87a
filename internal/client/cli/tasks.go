package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CS-Kiran/Manana/internal/client/api"
	tasksync "github.com/CS-Kiran/Manana/internal/client/sync"
	"github.com/CS-Kiran/Manana/internal/server/models"
)

const dueDateLayout = "2006-01-02"

var errNoSelection = errors.New("no task selected")

// parseFilter turns listing arguments into a view filter. A known status or
// priority word constrains that dimension; anything else is a text search.
func parseFilter(args []string) tasksync.Filter {
	var f tasksync.Filter
	var text []string

	for _, arg := range args {
		switch {
		case models.Status(arg).Valid():
			f.Status = models.Status(arg)
		case models.Priority(arg).Valid():
			f.Priority = models.Priority(arg)
		default:
			text = append(text, arg)
		}
	}

	f.Text = strings.Join(text, " ")
	return f
}

func formatTask(n int, t *models.Task) string {
	var b strings.Builder

	mark := " "
	if t.Status == models.StatusCompleted {
		mark = "x"
	}
	fmt.Fprintf(&b, "%3d. [%s] %-8s %-11s %s", n, mark, t.Priority, t.Status, t.Title)

	if t.DueDate != nil {
		fmt.Fprintf(&b, " (due %s)", t.DueDate.Format(dueDateLayout))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, " #%s", strings.Join(t.Tags, " #"))
	}

	return b.String()
}

// List prints the filtered task view and remembers it so numeric arguments
// to done/edit/delete refer to the printed numbers.
func (a *App) List(ctx context.Context, args []string) error {
	if err := a.store.Refresh(ctx); err != nil {
		log.Printf("Could not refresh tasks: %s", err.Error())
		return err
	}

	view := a.store.View(parseFilter(args))
	a.lastView = view

	if len(view) == 0 {
		printlnFn("No tasks.")
		return nil
	}

	for i, t := range view {
		printlnFn(formatTask(i+1, t))
	}
	return nil
}

// selectTask resolves "done N"-style arguments against the last listing.
func (a *App) selectTask(args []string) (*models.Task, error) {
	if len(args) != 1 {
		printlnFn("Usage: <command> N (run 'list' first)")
		return nil, errNoSelection
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastView) {
		printlnFn("No such task number, run 'list' first")
		return nil, errNoSelection
	}

	return a.lastView[n-1], nil
}

// Add interactively collects a task draft and creates it.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		return err
	}

	priority, err := getSimpleText(a.reader, "Priority low/medium/high (default medium)", os.Stdout)
	if err != nil {
		return err
	}

	dueRaw, err := getSimpleText(a.reader, "Due date YYYY-MM-DD (optional)", os.Stdout)
	if err != nil {
		return err
	}

	var dueDate *time.Time
	if dueRaw != "" {
		d, err := time.Parse(dueDateLayout, dueRaw)
		if err != nil {
			log.Printf("Invalid date %q, expected YYYY-MM-DD", dueRaw)
			return err
		}
		dueDate = &d
	}

	tags, err := GetCommaList(a.reader, "Tags, comma-separated (optional)", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.store.Create(ctx, api.TaskDraft{
		Title:       title,
		Description: description,
		Priority:    models.Priority(priority),
		DueDate:     dueDate,
		Tags:        tags,
	})
	if err != nil {
		log.Printf("Could not add task: %s", err.Error())
		return err
	}

	fmt.Printf("Added %q\n", task.Title)
	return nil
}

// Done toggles the completion state of the selected task.
func (a *App) Done(ctx context.Context, args []string) error {
	task, err := a.selectTask(args)
	if err != nil {
		return err
	}

	toggled, err := a.store.ToggleStatus(ctx, task.ID)
	if err != nil {
		log.Printf("Could not toggle task: %s", err.Error())
		return err
	}

	fmt.Printf("%q is now %s\n", toggled.Title, toggled.Status)
	return nil
}

// Edit prompts per field; an empty answer keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	task, err := a.selectTask(args)
	if err != nil {
		return err
	}

	var patch api.TaskPatch

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", task.Title), os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	description, err := getSimpleText(a.reader, "Description (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if description != "" {
		patch.Description = &description
	}

	status, err := getSimpleText(a.reader, fmt.Sprintf("Status [%s]", task.Status), os.Stdout)
	if err != nil {
		return err
	}
	if status != "" {
		st := models.Status(status)
		patch.Status = &st
	}

	priority, err := getSimpleText(a.reader, fmt.Sprintf("Priority [%s]", task.Priority), os.Stdout)
	if err != nil {
		return err
	}
	if priority != "" {
		p := models.Priority(priority)
		patch.Priority = &p
	}

	dueRaw, err := getSimpleText(a.reader, "Due date YYYY-MM-DD (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if dueRaw != "" {
		d, err := time.Parse(dueDateLayout, dueRaw)
		if err != nil {
			log.Printf("Invalid date %q, expected YYYY-MM-DD", dueRaw)
			return err
		}
		patch.DueDate = &d
	}

	updated, err := a.store.Edit(ctx, task.ID, patch)
	if err != nil {
		log.Printf("Could not edit task: %s", err.Error())
		return err
	}

	fmt.Printf("Updated %q\n", updated.Title)
	return nil
}

// Delete removes the selected task.
func (a *App) Delete(ctx context.Context, args []string) error {
	task, err := a.selectTask(args)
	if err != nil {
		return err
	}

	if err := a.store.Delete(ctx, task.ID); err != nil {
		log.Printf("Could not delete task: %s", err.Error())
		return err
	}

	fmt.Printf("Deleted %q\n", task.Title)
	return nil
}

// Stats prints completion numbers for the mirrored task list.
func (a *App) Stats(ctx context.Context) error {
	st := a.store.Stats()

	printlnFn(fmt.Sprintf("Total: %d  todo: %d  in-progress: %d  completed: %d (%.0f%%)",
		st.Total, st.Todo, st.InProgress, st.Completed, st.CompletionRate()*100))
	return nil
}
