package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"taskman/internal/infrastructure/config"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Toggle   key.Binding
	Add      key.Binding
	Open     key.Binding
	Edit     key.Binding
	Save     key.Binding
	Delete   key.Binding
	Copy     key.Binding
	Retry    key.Binding
	Dismiss  key.Binding
	Back     key.Binding
	Quit     key.Binding

	// Fixed keys for forms and the confirm dialog
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Yes       key.Binding
	No        key.Binding
	ForceQuit key.Binding
}

var keys = newKeyMap(config.DefaultConfig().Keybindings)

// InitKeybindings applies the configured keybindings
func InitKeybindings(cfg *config.Config) {
	keys = newKeyMap(cfg.Keybindings)
}

func newKeyMap(kb config.KeybindingsConfig) keyMap {
	return keyMap{
		Up:       binding(kb.Up, "up"),
		Down:     binding(kb.Down, "down"),
		MoveUp:   binding(kb.MoveUp, "move up"),
		MoveDown: binding(kb.MoveDown, "move down"),
		Toggle:   binding(kb.Toggle, "toggle"),
		Add:      binding(kb.Add, "add"),
		Open:     binding(kb.Open, "open"),
		Edit:     binding(kb.Edit, "edit"),
		Save:     binding(kb.Save, "save"),
		Delete:   binding(kb.Delete, "delete"),
		Copy:     binding(kb.Copy, "copy"),
		Retry:    binding(kb.Retry, "retry"),
		Dismiss:  binding(kb.Dismiss, "dismiss"),
		Back:     binding(kb.Back, "back"),
		Quit:     binding(kb.Quit, "quit"),

		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		No:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func binding(keysFor []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keysFor...),
		key.WithHelp(helpKeys(keysFor), desc),
	)
}

func helpKeys(keysFor []string) string {
	names := make([]string, 0, len(keysFor))
	for _, k := range keysFor {
		if k == " " {
			k = "space"
		}
		names = append(names, k)
	}
	return strings.Join(names, "/")
}
