package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"taskman/pkg/filesystem"
)

const (
	defaultConfigFileName = "config.yml"
	defaultConfigDirName  = ".config/taskman"

	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 10 * time.Second
)

// Config holds application configuration
type Config struct {
	API         APIConfig         `yaml:"api"`
	Server      ServerConfig      `yaml:"server"`
	TUI         TUIConfig         `yaml:"tui"`
	Keybindings KeybindingsConfig `yaml:"keybindings"`
	Log         LogConfig         `yaml:"log"`
}

// APIConfig holds the backend connection settings used by the client
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// File receives log output while the TUI owns the terminal.
	File string `yaml:"file,omitempty"`
	// Level is "off", "info" (default) or "debug", which adds file:line.
	Level string `yaml:"level,omitempty"`
}

// TUIConfig holds TUI styling configuration
type TUIConfig struct {
	Styles      StylesConfig `yaml:"styles"`
	WatchConfig bool         `yaml:"watch_config"`
}

// StylesConfig holds color and styling configuration
type StylesConfig struct {
	List          PanelStyle `yaml:"list"`
	Modal         PanelStyle `yaml:"modal"`
	Dialog        PanelStyle `yaml:"dialog"`
	Title         TextStyle  `yaml:"title"`
	Task          TextStyle  `yaml:"task"`
	SelectedTask  TextStyle  `yaml:"selected_task"`
	CompletedTask TextStyle  `yaml:"completed_task"`
	Description   TextStyle  `yaml:"description"`
	Deadline      TextStyle  `yaml:"deadline"`
	Overdue       TextStyle  `yaml:"overdue"`
	Label         TextStyle  `yaml:"label"`
	Error         TextStyle  `yaml:"error"`
	Toast         TextStyle  `yaml:"toast"`
	Button        TextStyle  `yaml:"button"`
	FocusedButton TextStyle  `yaml:"focused_button"`
	Help          TextStyle  `yaml:"help"`
}

// PanelStyle represents a bordered box
type PanelStyle struct {
	PaddingVertical   int    `yaml:"padding_vertical"`
	PaddingHorizontal int    `yaml:"padding_horizontal"`
	BorderStyle       string `yaml:"border_style"`
	BorderColor       string `yaml:"border_color"`
}

// TextStyle represents text styling
type TextStyle struct {
	Foreground        string `yaml:"foreground,omitempty"`
	Background        string `yaml:"background,omitempty"`
	Bold              bool   `yaml:"bold,omitempty"`
	Italic            bool   `yaml:"italic,omitempty"`
	Strikethrough     bool   `yaml:"strikethrough,omitempty"`
	PaddingVertical   int    `yaml:"padding_vertical,omitempty"`
	PaddingHorizontal int    `yaml:"padding_horizontal,omitempty"`
	Align             string `yaml:"align,omitempty"`
}

// KeybindingsConfig holds keybinding configuration
type KeybindingsConfig struct {
	Up       []string `yaml:"up"`
	Down     []string `yaml:"down"`
	MoveUp   []string `yaml:"move_up"`
	MoveDown []string `yaml:"move_down"`
	Toggle   []string `yaml:"toggle"`
	Add      []string `yaml:"add"`
	Open     []string `yaml:"open"`
	Edit     []string `yaml:"edit"`
	Save     []string `yaml:"save"`
	Delete   []string `yaml:"delete"`
	Copy     []string `yaml:"copy"`
	Retry    []string `yaml:"retry"`
	Dismiss  []string `yaml:"dismiss"`
	Back     []string `yaml:"back"`
	Quit     []string `yaml:"quit"`
}

// Loader handles loading and saving configuration
type Loader struct {
	configPath string
}

// NewLoader creates a config loader for ~/.config/taskman/config.yml
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, defaultConfigDirName)
	configPath := filepath.Join(configDir, defaultConfigFileName)

	return &Loader{
		configPath: configPath,
	}, nil
}

// NewLoaderAt creates a config loader for an explicit file
func NewLoaderAt(path string) *Loader {
	return &Loader{configPath: path}
}

// Load loads the configuration, creating defaults if it doesn't exist
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		return l.createDefaultConfig()
	}
	return LoadFrom(l.configPath)
}

// LoadFrom reads a config file without creating it. Missing keys keep
// their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save persists the configuration to disk
func (l *Loader) Save(config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := filesystem.SafeWrite(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates and saves a default configuration
func (l *Loader) createDefaultConfig() (*Config, error) {
	config := DefaultConfig()
	if err := l.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

// GetConfigPath returns the path to the config file
func (l *Loader) GetConfigPath() string {
	return l.configPath
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Timeout: defaultTimeout,
		},
		Server: DefaultServerConfig(),
		TUI: TUIConfig{
			WatchConfig: true,
			Styles: StylesConfig{
				List: PanelStyle{
					PaddingVertical:   1,
					PaddingHorizontal: 2,
					BorderStyle:       "rounded",
					BorderColor:       "240",
				},
				Modal: PanelStyle{
					PaddingVertical:   1,
					PaddingHorizontal: 2,
					BorderStyle:       "rounded",
					BorderColor:       "62",
				},
				Dialog: PanelStyle{
					PaddingVertical:   1,
					PaddingHorizontal: 2,
					BorderStyle:       "thick",
					BorderColor:       "#FF6B6B",
				},
				Title: TextStyle{
					Foreground: "99",
					Bold:       true,
				},
				Task: TextStyle{
					Foreground:        "252",
					PaddingHorizontal: 1,
				},
				SelectedTask: TextStyle{
					Foreground:        "230",
					Background:        "62",
					Bold:              true,
					PaddingHorizontal: 1,
				},
				CompletedTask: TextStyle{
					Foreground:        "#888888",
					Strikethrough:     true,
					PaddingHorizontal: 1,
				},
				Description: TextStyle{
					Foreground: "#888888",
					Italic:     true,
				},
				Deadline: TextStyle{
					Foreground: "#999999",
				},
				Overdue: TextStyle{
					Foreground: "#FF6B6B",
					Bold:       true,
				},
				Label: TextStyle{
					Foreground: "#A8DADC",
					Bold:       true,
				},
				Error: TextStyle{
					Foreground: "#FF6B6B",
				},
				Toast: TextStyle{
					Foreground:        "230",
					Background:        "#B33A3A",
					PaddingHorizontal: 1,
				},
				Button: TextStyle{
					Foreground:        "252",
					PaddingHorizontal: 2,
				},
				FocusedButton: TextStyle{
					Foreground:        "230",
					Background:        "62",
					Bold:              true,
					PaddingHorizontal: 2,
				},
				Help: TextStyle{
					Foreground:        "241",
					PaddingVertical:   1,
					PaddingHorizontal: 2,
				},
			},
		},
		Keybindings: KeybindingsConfig{
			Up:       []string{"up", "k"},
			Down:     []string{"down", "j"},
			MoveUp:   []string{"shift+up", "K"},
			MoveDown: []string{"shift+down", "J"},
			Toggle:   []string{" "},
			Add:      []string{"n", "a"},
			Open:     []string{"enter"},
			Edit:     []string{"e"},
			Save:     []string{"ctrl+s"},
			Delete:   []string{"d"},
			Copy:     []string{"y"},
			Retry:    []string{"r"},
			Dismiss:  []string{"x"},
			Back:     []string{"esc"},
			Quit:     []string{"q", "ctrl+c"},
		},
	}
}
