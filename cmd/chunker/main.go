package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"chunker/cmd/chunker/widget"
	"chunker/internal/clipboard"
	"chunker/internal/config"
	"chunker/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Widget flags
	widgetFile  string
	widgetName  string
	widgetLimit string
	widgetWatch bool

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger

	// Swapped in tests.
	newClipboard = clipboard.New
)

// rootCmd launches the interactive widget.
var rootCmd = &cobra.Command{
	Use:   "chunker",
	Short: "Split a person's emails from a spreadsheet into clipboard-sized chunks",
	Long: `chunker reads the first sheet of an .xlsx or .xls file, keeps the rows
whose NAME column equals the given name and splits their EMAILS values into
chunks of at most --limit addresses. Each chunk can be copied to the clipboard
as a comma separated line.

Run without a subcommand to open the interactive screen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The widget owns the terminal, so it gets no console logger.
		if cmd.Name() == "chunker" {
			logger = zap.NewNop()
		} else {
			zc := zap.NewProductionConfig()
			if verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			var err error
			logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}

		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err = loadConfig(path)
		if err != nil {
			return err
		}
		if err := initLogging(cfg); err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			logging.BootWarn("no config at %s, using defaults", path)
		} else {
			logging.BootDebug("config loaded from %s", path)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Args: cobra.NoArgs,
	RunE: runWidget,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .chunker/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.Flags().StringVarP(&widgetFile, "file", "f", "", "Spreadsheet to load on start")
	rootCmd.Flags().StringVarP(&widgetName, "name", "n", "", "Name to pre-fill")
	rootCmd.Flags().StringVarP(&widgetLimit, "limit", "l", "", "Chunk limit to pre-fill")
	rootCmd.Flags().BoolVar(&widgetWatch, "watch", false, "Reload the file when it changes on disk")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns --workspace or the current directory.
func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return os.Getwd()
}

// resolveConfigPath picks --config, then <workspace>/.chunker/config.yaml
// when --workspace is set, then config.DefaultPath.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	if workspace != "" {
		ws, err := resolveWorkspace()
		if err != nil {
			return "", err
		}
		return filepath.Join(ws, ".chunker", "config.yaml"), nil
	}
	return config.DefaultPath()
}

func loadConfig(path string) (*config.Config, error) {
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", zap.String("path", path))
	return c, nil
}

func initLogging(c *config.Config) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	return logging.Initialize(ws, logging.Options{
		DebugMode:  c.Logging.DebugMode,
		Level:      c.Logging.Level,
		JSONFormat: c.Logging.JSON(),
		Categories: c.Logging.Categories,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	})
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func runWidget(cmd *cobra.Command, args []string) error {
	clip, err := newClipboard(cfg.Chunk.Clipboard)
	if err != nil {
		return err
	}
	if widgetFile != "" {
		logging.Boot("starting with %s", widgetFile)
	}

	m := widget.New(cmd.Context(), widget.Options{
		Config:    cfg,
		Clipboard: clip,
		File:      widgetFile,
		Name:      widgetName,
		Limit:     widgetLimit,
		Watch:     widgetWatch,
		OnExit:    func() { logging.Boot("widget closed") },
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.BootError("widget stopped: %v", err)
		return err
	}
	return nil
}
