package style

import (
	"github.com/charmbracelet/lipgloss"

	"taskman/internal/infrastructure/config"
)

var (
	ListStyle          lipgloss.Style
	ModalStyle         lipgloss.Style
	DialogStyle        lipgloss.Style
	TitleStyle         lipgloss.Style
	TaskStyle          lipgloss.Style
	SelectedTaskStyle  lipgloss.Style
	CompletedTaskStyle lipgloss.Style
	DescriptionStyle   lipgloss.Style
	DeadlineStyle      lipgloss.Style
	OverdueStyle       lipgloss.Style
	LabelStyle         lipgloss.Style
	ErrorStyle         lipgloss.Style
	ToastStyle         lipgloss.Style
	ButtonStyle        lipgloss.Style
	FocusedButtonStyle lipgloss.Style
	HelpStyle          lipgloss.Style
)

func init() {
	InitStyles(config.DefaultConfig())
}

// InitStyles initializes the styles from config
func InitStyles(cfg *config.Config) {
	styles := cfg.TUI.Styles

	// Panels
	ListStyle = panel(styles.List)
	ModalStyle = panel(styles.Modal)
	DialogStyle = panel(styles.Dialog)

	// Text
	TitleStyle = text(styles.Title)
	TaskStyle = text(styles.Task)
	SelectedTaskStyle = text(styles.SelectedTask)
	CompletedTaskStyle = text(styles.CompletedTask)
	DescriptionStyle = text(styles.Description)
	DeadlineStyle = text(styles.Deadline)
	OverdueStyle = text(styles.Overdue)
	LabelStyle = text(styles.Label)
	ErrorStyle = text(styles.Error)
	ToastStyle = text(styles.Toast)
	ButtonStyle = text(styles.Button)
	FocusedButtonStyle = text(styles.FocusedButton)

	// Help style
	HelpStyle = lipgloss.NewStyle().
		Padding(styles.Help.PaddingVertical, 0, 0, styles.Help.PaddingHorizontal)
	if styles.Help.Foreground != "" {
		HelpStyle = HelpStyle.Foreground(lipgloss.Color(styles.Help.Foreground))
	}
}

func panel(p config.PanelStyle) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(p.PaddingVertical, p.PaddingHorizontal).
		Border(getBorder(p.BorderStyle)).
		BorderForeground(lipgloss.Color(p.BorderColor))
}

func text(t config.TextStyle) lipgloss.Style {
	s := lipgloss.NewStyle().
		Padding(t.PaddingVertical, t.PaddingHorizontal)
	if t.Foreground != "" {
		s = s.Foreground(lipgloss.Color(t.Foreground))
	}
	if t.Background != "" {
		s = s.Background(lipgloss.Color(t.Background))
	}
	if t.Bold {
		s = s.Bold(true)
	}
	if t.Italic {
		s = s.Italic(true)
	}
	if t.Strikethrough {
		s = s.Strikethrough(true)
	}
	if t.Align != "" {
		s = s.Align(getAlign(t.Align))
	}
	return s
}

// getBorder returns the border style based on the name
func getBorder(name string) lipgloss.Border {
	switch name {
	case "rounded":
		return lipgloss.RoundedBorder()
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// getAlign returns the alignment based on the name
func getAlign(name string) lipgloss.Position {
	switch name {
	case "left":
		return lipgloss.Left
	case "center":
		return lipgloss.Center
	case "right":
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}
