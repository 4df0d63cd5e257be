package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultServerAddr      = ":8000"
	defaultDatabaseURL     = "sqlite:///./tasks.db"
	defaultShutdownTimeout = 10 * time.Second
	envPrefix              = "TASKMAN"
)

// ServerConfig holds the REST backend configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	Debug           bool          `yaml:"debug" mapstructure:"debug"`
}

// DefaultServerConfig returns the built-in backend configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            defaultServerAddr,
		DatabaseURL:     defaultDatabaseURL,
		AllowedOrigins:  []string{"http://localhost:5173"},
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// ServerFlags registers the backend flags on fs. Flags that are not
// changed on the command line do not override the file or environment.
func ServerFlags(fs *pflag.FlagSet) {
	def := DefaultServerConfig()
	fs.StringP("config", "c", "", "config file (default ~/.config/taskman/config.yml)")
	fs.String("addr", def.Addr, "listen address")
	fs.String("database-url", def.DatabaseURL, "database URL (sqlite:///path.db, postgres://..., memory://)")
	fs.StringSlice("allowed-origins", def.AllowedOrigins, "CORS allowed origins")
	fs.Duration("shutdown-timeout", def.ShutdownTimeout, "graceful shutdown timeout")
	fs.Bool("debug", false, "run gin in debug mode")
}

var serverFlagKeys = map[string]string{
	"addr":             "server.addr",
	"database-url":     "server.database_url",
	"allowed-origins":  "server.allowed_origins",
	"shutdown-timeout": "server.shutdown_timeout",
	"debug":            "server.debug",
}

// LoadServer merges defaults, the server section of the config file,
// TASKMAN_SERVER_* environment variables and flags, in increasing
// priority. DATABASE_URL is honoured when TASKMAN_SERVER_DATABASE_URL
// is not set.
func LoadServer(path string, fs *pflag.FlagSet) (ServerConfig, error) {
	v := viper.New()

	def := DefaultServerConfig()
	v.SetDefault("server.addr", def.Addr)
	v.SetDefault("server.database_url", def.DatabaseURL)
	v.SetDefault("server.allowed_origins", def.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", def.ShutdownTimeout)
	v.SetDefault("server.debug", def.Debug)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return ServerConfig{}, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return ServerConfig{}, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.database_url", "TASKMAN_SERVER_DATABASE_URL", "DATABASE_URL"); err != nil {
		return ServerConfig{}, err
	}

	if fs != nil {
		for name, key := range serverFlagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return ServerConfig{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var wrapper struct {
		Server ServerConfig `mapstructure:"server"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return ServerConfig{}, fmt.Errorf("failed to decode server config: %w", err)
	}

	return wrapper.Server, nil
}
