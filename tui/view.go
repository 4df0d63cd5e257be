package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"taskman/internal/application/confirm"
	"taskman/internal/application/detail"
	"taskman/internal/application/dto"
	"taskman/internal/application/tasksync"
	"taskman/tui/style"
)

const (
	emptyListText   = "No tasks yet. Add one above!"
	noDescription   = "No description"
	noDeadline      = "No deadline"
	overdueBadge    = "Overdue"
	markerComplete  = "✓"
	markerPending   = "○"
	minContentWidth = 30
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var overlay string
	switch {
	case m.confirm.Visible():
		overlay = m.renderConfirm()
	case m.adding:
		overlay = m.renderCreateForm()
	case m.detail.Visible():
		overlay = m.renderDetail()
	}
	if overlay != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}

	return m.renderList()
}

func (m Model) contentWidth() int {
	// border (2) and list padding
	w := m.width - 8
	if w < minContentWidth {
		w = minContentWidth
	}
	return w
}

// renderList renders the task list with toast and help
func (m Model) renderList() string {
	width := m.contentWidth()
	title := style.TitleStyle.Render("Tasks")

	var body string
	switch {
	case m.snap.LoadError != "":
		retry := keys.Retry.Help().Key
		body = style.ErrorStyle.Render(m.snap.LoadError) + "\n\n" +
			style.HelpStyle.Render(fmt.Sprintf("Press %s to retry", retry))
	case !m.snap.Loaded:
		body = m.spinner.View() + " Loading tasks..."
	case m.snap.Tasks.Len() == 0:
		body = style.DescriptionStyle.Render(emptyListText)
	default:
		body = m.renderRows(width)
	}

	sections := []string{title, "", body}
	if toast := m.toastText(); toast != "" {
		sections = append(sections, "", style.ToastStyle.Render(toast))
	}

	list := style.ListStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.JoinVertical(lipgloss.Left, list, m.renderHelp())
}

func (m Model) toastText() string {
	if msg := m.snap.Notice.Message; msg != "" {
		return msg + "  (" + keys.Dismiss.Help().Key + " to dismiss)"
	}
	return m.status
}

func (m Model) renderRows(width int) string {
	rows := m.visibleRows()
	end := m.offset + rows
	if end > m.snap.Tasks.Len() {
		end = m.snap.Tasks.Len()
	}

	var lines []string
	if m.offset > 0 {
		lines = append(lines, style.HelpStyle.UnsetPadding().Render("▲ more above"))
	}
	for i := m.offset; i < end; i++ {
		task, _ := m.snap.Tasks.At(i)
		lines = append(lines, m.renderRow(task, width, i == m.cursor))
	}
	if end < m.snap.Tasks.Len() {
		lines = append(lines, style.HelpStyle.UnsetPadding().Render("▼ more below"))
	}
	if m.snap.Reordering {
		lines = append(lines, "", m.spinner.View()+" Saving order...")
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one task line: marker, title, deadline and badge
func (m Model) renderRow(task dto.TaskDTO, width int, selected bool) string {
	marker := markerPending
	if task.IsComplete {
		marker = markerComplete
	}

	var suffix string
	if task.Deadline != nil {
		suffix = "  " + style.DeadlineStyle.Render(tasksync.FormatTime(*task.Deadline))
		if task.IsOverdue(m.now()) {
			suffix += " " + style.OverdueStyle.Render(overdueBadge)
		}
	}

	titleWidth := width - ansi.StringWidth(suffix) - 4
	if titleWidth < 8 {
		titleWidth = 8
	}
	title := ansi.Truncate(task.Title, titleWidth, "…")

	rowStyle := style.TaskStyle
	switch {
	case selected:
		rowStyle = style.SelectedTaskStyle
	case task.IsComplete:
		rowStyle = style.CompletedTaskStyle
	}
	return rowStyle.Render(marker+" "+title) + suffix
}

// renderHelp renders the help text at the bottom
func (m Model) renderHelp() string {
	bindings := []key.Binding{
		keys.Up, keys.Down, keys.MoveUp, keys.MoveDown, keys.Toggle,
		keys.Add, keys.Open, keys.Delete, keys.Copy, keys.Quit,
	}
	return style.HelpStyle.Render(helpLine(bindings))
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  •  ")
}

func (m Model) renderCreateForm() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("New task"))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString("\n\n")
	if m.form.busy {
		b.WriteString(m.spinner.View() + " Creating...")
	} else {
		b.WriteString(style.HelpStyle.UnsetPadding().Render(helpLine([]key.Binding{
			keys.NextField, keys.Save, keys.Back,
		})))
	}
	return style.ModalStyle.Render(b.String())
}

// renderDetail renders the detail modal in read or edit mode
func (m Model) renderDetail() string {
	var b strings.Builder

	switch m.detail.Status() {
	case detail.StatusLoading:
		b.WriteString(m.spinner.View() + " Loading task...")

	case detail.StatusFailed:
		b.WriteString(style.ErrorStyle.Render(m.detail.LoadError()))
		b.WriteString("\n\n")
		b.WriteString(style.HelpStyle.UnsetPadding().Render(helpLine([]key.Binding{keys.Retry, keys.Back})))

	case detail.StatusReady:
		if m.detail.Mode() == detail.ModeEdit {
			b.WriteString(style.TitleStyle.Render("Edit task"))
			b.WriteString("\n\n")
			b.WriteString(m.editor.view())
			if msg := m.detail.SaveError(); msg != "" {
				b.WriteString("\n\n")
				b.WriteString(style.ErrorStyle.Render(msg))
			}
			b.WriteString("\n\n")
			if m.detail.Saving() {
				b.WriteString(m.spinner.View() + " Saving...")
			} else {
				b.WriteString(style.HelpStyle.UnsetPadding().Render(helpLine([]key.Binding{
					keys.NextField, keys.Save, keys.Back,
				})))
			}
		} else {
			b.WriteString(m.renderTaskFields(m.detail.Task()))
			b.WriteString("\n\n")
			b.WriteString(style.HelpStyle.UnsetPadding().Render(helpLine([]key.Binding{
				keys.Edit, keys.Delete, keys.Back,
			})))
		}
	}

	return style.ModalStyle.Width(m.modalWidth()).Render(b.String())
}

func (m Model) modalWidth() int {
	w := m.width * 2 / 3
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) renderTaskFields(task dto.TaskDTO) string {
	field := func(label, value string) string {
		return style.LabelStyle.Render(label) + "\n" + value
	}

	description := style.DescriptionStyle.Render(noDescription)
	if task.DescriptionText() != "" {
		description = task.DescriptionText()
	}

	status := "Incomplete"
	if task.IsComplete {
		status = "Complete"
	}

	deadline := style.DescriptionStyle.Render(noDeadline)
	if task.Deadline != nil {
		deadline = style.DeadlineStyle.Render(tasksync.FormatTime(*task.Deadline))
		if task.IsOverdue(m.now()) {
			deadline += " " + style.OverdueStyle.Render(overdueBadge)
		}
	}

	return strings.Join([]string{
		field("Title", style.TitleStyle.Render(task.Title)),
		field("Description", description),
		field("Status", status),
		field("Deadline", deadline),
		field("Created", tasksync.FormatTime(task.CreatedAt)),
		field("Updated", tasksync.FormatTime(task.UpdatedAt)),
	}, "\n\n")
}

// renderConfirm renders the delete confirmation dialog
func (m Model) renderConfirm() string {
	d := &m.confirm

	cancel := style.ButtonStyle
	destroy := style.ButtonStyle
	if d.Focus() == confirm.FocusConfirm {
		destroy = style.FocusedButtonStyle
	} else {
		cancel = style.FocusedButtonStyle
	}

	confirmLabel := d.ConfirmLabel()
	if d.Busy() {
		confirmLabel = m.spinner.View() + " " + confirmLabel
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		cancel.Render(d.CancelLabel()), "  ", destroy.Render(confirmLabel))

	parts := []string{
		style.TitleStyle.Render(d.Title()),
		"",
		d.Message(),
	}
	if msg := d.Error(); msg != "" {
		parts = append(parts, "", style.ErrorStyle.Render(msg))
	}
	parts = append(parts, "", buttons)

	return style.DialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
