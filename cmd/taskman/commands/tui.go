package commands

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskman/internal/infrastructure/config"
	"taskman/tui"
	"taskman/tui/style"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal user interface",
	Long: `Launch the interactive TUI for your task list.

Keyboard shortcuts (configurable under 'keybindings'):
  ↑/k, ↓/j       - Select task
  K/J            - Move selected task up/down
  space          - Toggle complete
  n/a            - Add a task
  enter          - Open details
  e, ctrl+s, esc - Edit, save, cancel (in details)
  d              - Delete (asks for confirmation)
  y              - Copy title to clipboard
  x              - Dismiss error
  r              - Retry loading
  q/Ctrl+C       - Quit

With tui.watch_config enabled, style and keybinding changes in the config
file are applied while the TUI runs.

Examples:
  # Launch TUI (shorthand - default command)
  taskman`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext(cmd)

		style.InitStyles(cfg)
		tui.InitKeybindings(cfg)

		var watcher *config.Watcher
		if cfg.TUI.WatchConfig && cfgFile != "" {
			w, err := config.NewWatcher(cfgFile)
			if err != nil {
				log.Printf("config watch disabled: %v", err)
			} else {
				watcher = w
				defer watcher.Close()
			}
		}

		m := tui.NewModel(ctx, container.Controller, watcher)

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("error running TUI: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
