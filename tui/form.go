package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/application/tasksync"
	"taskman/tui/style"
)

const msgInvalidDeadline = "Invalid deadline. Use YYYY-MM-DD or YYYY-MM-DD HH:MM"

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDeadline
	fieldCount
)

// taskForm holds the title, description and deadline inputs shared by
// the create form and the detail editor.
type taskForm struct {
	title       textinput.Model
	description textarea.Model
	deadline    textinput.Model
	focus       formField
	err         string
	busy        bool
}

func newTaskForm() taskForm {
	title := textinput.New()
	title.Placeholder = "What needs to be done?"
	title.Prompt = ""
	title.Width = 50

	description := textarea.New()
	description.Placeholder = "Description (optional)"
	description.ShowLineNumbers = false
	description.CharLimit = 0
	description.SetWidth(50)
	description.SetHeight(4)

	deadline := textinput.New()
	deadline.Placeholder = "YYYY-MM-DD HH:MM (optional)"
	deadline.Prompt = ""
	deadline.Width = 30

	return taskForm{
		title:       title,
		description: description,
		deadline:    deadline,
	}
}

// reset fills the inputs from d and focuses the title
func (f *taskForm) reset(d tasksync.Draft) tea.Cmd {
	f.title.SetValue(d.Title)
	f.description.SetValue(d.Description)
	f.deadline.SetValue(tasksync.EditableDeadline(d.Deadline))
	f.err = ""
	f.busy = false
	return f.focusField(fieldTitle)
}

func (f *taskForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	f.deadline.Blur()

	switch field {
	case fieldDescription:
		return f.description.Focus()
	case fieldDeadline:
		return f.deadline.Focus()
	default:
		return f.title.Focus()
	}
}

func (f *taskForm) next() tea.Cmd {
	return f.focusField((f.focus + 1) % fieldCount)
}

func (f *taskForm) prev() tea.Cmd {
	return f.focusField((f.focus + fieldCount - 1) % fieldCount)
}

// draft reads the inputs. Only the deadline can fail to parse here;
// everything else is validated by the controller.
func (f taskForm) draft(loc *time.Location) (tasksync.Draft, error) {
	deadline, err := tasksync.ParseDeadline(f.deadline.Value(), loc)
	if err != nil {
		return tasksync.Draft{}, err
	}
	return tasksync.Draft{
		Title:       f.title.Value(),
		Description: f.description.Value(),
		Deadline:    deadline,
	}, nil
}

// update forwards msg to the focused input
func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	default:
		f.title, cmd = f.title.Update(msg)
	}
	return cmd
}

func (f taskForm) view() string {
	var b strings.Builder

	b.WriteString(style.LabelStyle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(style.LabelStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(f.description.View())
	b.WriteString("\n\n")
	b.WriteString(style.LabelStyle.Render("Deadline"))
	b.WriteString("\n")
	b.WriteString(f.deadline.View())

	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(style.ErrorStyle.Render(f.err))
	}
	return b.String()
}
