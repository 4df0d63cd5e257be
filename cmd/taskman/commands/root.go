package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskman/cmd/taskman/output"
	"taskman/internal/di"
	"taskman/internal/infrastructure/config"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	// Global flags
	outputFormat string
	configPath   string
	quiet        bool

	// Shared instances
	cfg       *config.Config
	cfgFile   string
	container *di.Container
	printer   *output.Printer
	formatter *output.Formatter
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskman",
	Short: "Terminal task list backed by a REST service",
	Long: `taskman manages a single ordered task list stored by the taskmand backend.

Changes are shown immediately and rolled back if the backend rejects them.

Examples:
  # Launch interactive TUI
  taskman
  taskman tui

  # List tasks
  taskman task list

  # Create a task
  taskman task create --title "Buy milk" --deadline "2026-03-01 18:00"

  # Mark the first task complete
  taskman task list -o ids | head -1 | taskman task complete

  # Move a task to the top
  taskman task move 3f2a --to 1`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, cfgFile, err = loadConfig()
		if err != nil {
			return err
		}

		closeLog, err := setupLogging(cmd == cmd.Root() || cmd == tuiCmd)
		if err != nil {
			return err
		}
		cobra.OnFinalize(closeLog)

		container, err = di.InitializeContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}

		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, os.Stdout)
		printer = output.DefaultPrinter()

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			printVersion()
			return nil
		}
		return tuiCmd.RunE(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.DefaultPrinter().Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml, ids")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default ~/.config/taskman/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}

// loadConfig reads the -c file when given, otherwise the default file,
// which is created with defaults on first run.
func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		c, err := config.LoadFrom(configPath)
		if err != nil {
			return nil, "", err
		}
		return c, configPath, nil
	}

	loader, err := config.NewLoader()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create config loader: %w", err)
	}
	c, err := loader.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return c, loader.GetConfigPath(), nil
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("taskman version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Built:      %s\n", BuildDate)
}

// getContext returns the command context, cancelled on SIGINT/SIGTERM
func getContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// setupLogging sends the standard logger to log.file. Without one, logs
// are discarded; failures reach the user through returned errors. The TUI
// owns stdout, so it logs through tea.LogToFile.
func setupLogging(tui bool) (func(), error) {
	if cfg.Log.File == "" || cfg.Log.Level == "off" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if cfg.Log.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	var (
		f   *os.File
		err error
	)
	if tui {
		f, err = tea.LogToFile(cfg.Log.File, "taskman ")
	} else {
		f, err = os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(f)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return func() { _ = f.Close() }, nil
}

// resolveArgs fills missing positional args from piped stdin, taking the
// first field of each non-empty line.
func resolveArgs(args []string, expected int) ([]string, error) {
	if len(args) >= expected {
		return args, nil
	}

	piped, err := readPipedArgs(os.Stdin)
	if err != nil {
		return nil, err
	}

	needed := expected - len(args)
	if len(piped) < needed {
		return nil, fmt.Errorf("accepts %d arg(s), received %d", expected, len(args)+len(piped))
	}

	resolved := append([]string{}, piped[:needed]...)
	return append(resolved, args...), nil
}

func readPipedArgs(in *os.File) ([]string, error) {
	stat, err := in.Stat()
	if err != nil {
		return nil, err
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return nil, nil
	}
	return extractArgs(in), nil
}

func extractArgs(r io.Reader) []string {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}
