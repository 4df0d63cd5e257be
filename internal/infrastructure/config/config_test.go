package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoaderCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskman", "config.yml")
	loader := NewLoaderAt(path)

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, defaultBaseURL)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}

	again, err := loader.Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again.API.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", again.API.Timeout, defaultTimeout)
	}
	if len(again.Keybindings.Toggle) == 0 || again.Keybindings.Toggle[0] != " " {
		t.Errorf("Toggle keys = %v", again.Keybindings.Toggle)
	}
}

func TestLoadFromKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "api:\n  base_url: http://tasks.internal:9000\n  timeout: 3s\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != "http://tasks.internal:9000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.API.Timeout)
	}
	if len(cfg.Keybindings.Quit) == 0 {
		t.Error("expected default quit keys to survive a partial file")
	}
	if cfg.TUI.Styles.Overdue.Foreground == "" {
		t.Error("expected default overdue style")
	}
}

func TestLoadFromRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("api: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer("", nil)
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	want := DefaultServerConfig()
	if cfg.Addr != want.Addr || cfg.DatabaseURL != want.DatabaseURL {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
	if cfg.ShutdownTimeout != want.ShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadServerPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "server:\n  addr: \":9000\"\n  database_url: sqlite:///file.db\n  shutdown_timeout: 2s\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := LoadServer(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Addr != ":9000" || cfg.DatabaseURL != "sqlite:///file.db" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.ShutdownTimeout != 2*time.Second {
			t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
		}
	})

	t.Run("plain DATABASE_URL over file", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://db/tasks")
		cfg, err := LoadServer(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.DatabaseURL != "postgres://db/tasks" {
			t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
		}
	})

	t.Run("prefixed env over plain env", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://db/tasks")
		t.Setenv("TASKMAN_SERVER_DATABASE_URL", "memory://")
		t.Setenv("TASKMAN_SERVER_ADDR", ":7000")
		cfg, err := LoadServer(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.DatabaseURL != "memory://" || cfg.Addr != ":7000" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("changed flag over env", func(t *testing.T) {
		t.Setenv("TASKMAN_SERVER_ADDR", ":7000")
		fs := pflag.NewFlagSet("taskmand", pflag.ContinueOnError)
		ServerFlags(fs)
		if err := fs.Parse([]string{"--addr", ":6000"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadServer(path, fs)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Addr != ":6000" {
			t.Errorf("Addr = %q, want :6000", cfg.Addr)
		}
		if cfg.DatabaseURL != "sqlite:///file.db" {
			t.Errorf("unchanged flag overrode file: %q", cfg.DatabaseURL)
		}
	})
}

func TestWatcherPublishesReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := NewLoaderAt(path).Save(DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	cfg := DefaultConfig()
	cfg.TUI.Styles.Overdue.Foreground = "#00FF00"
	if err := NewLoaderAt(path).Save(cfg); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Changes():
		if got.TUI.Styles.Overdue.Foreground != "#00FF00" {
			t.Errorf("Overdue.Foreground = %q", got.TUI.Styles.Overdue.Foreground)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}
}
