package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yourusername/swayfader/internal/client"
	"github.com/yourusername/swayfader/internal/config"
	"github.com/yourusername/swayfader/internal/daemon"
	"github.com/yourusername/swayfader/internal/logging"
	"github.com/yourusername/swayfader/internal/output"
	"github.com/yourusername/swayfader/internal/server"
	"golang.org/x/sys/unix"
)

var (
	socketPath string
	timeout    time.Duration
	configPath string
	jsonOutput bool
	noColor    bool
	debugMode  bool
	verbose    bool

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	keyColor     = color.New(color.FgYellow)
)

// rootCmd runs the fader
var rootCmd = &cobra.Command{
	Use:   "swayfader",
	Short: "Fade window opacity on Sway focus changes",
	Long: `swayfader dims unfocused windows and fades opacity smoothly as focus moves.

Tiled and floating windows have their own active and inactive opacity. When a
floating window takes focus, the tiled window below it is kept at a separate
"bottom" opacity so returning to it can be told apart from moving elsewhere.`,
	Version:      "0.1.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		if err := logging.Init(logging.Options{Console: verbose, Debug: debugMode}); err != nil {
			// Keep going without a file
			fmt.Fprintf(os.Stderr, "warning: no log file, logging to stderr: %v\n", err)
			logging.SetOutput(os.Stderr)
			logging.SetDebug(debugMode)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
		defer stop()

		c := client.NewClient(socketPath, timeout)
		defer c.Close()

		version, err := c.GetVersion(ctx)
		if err != nil {
			printError(fmt.Sprintf("Failed to connect to Sway: %v", err))
			return err
		}

		logging.Info().
			Str("client", c.ID()).
			Str("sway", version.HumanReadable).
			Dur("tick", cfg.Settings.Tick.Duration).
			Msg("starting fader")

		infoColor.Printf("Fading windows on Sway %s", version.HumanReadable)
		if p := logging.Path(); p != "" {
			fmt.Printf(" (log: %s)", p)
		}
		fmt.Println()

		err = daemon.New(c, cfg.Settings).Run(ctx)
		if errors.Is(err, context.Canceled) {
			logging.Info().Msg("stopped")
			return nil
		}

		logging.Error().Err(err).Msg("fader stopped")
		printError(err.Error())
		return err
	},
}

// windowsCmd lists windows with the opacity the fader keeps them at
var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List windows with their resting opacity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		snap, err := fetchSnapshot()
		if err != nil {
			return err
		}

		rows := output.WindowRows(snap.Windows, cfg.Settings.Opacity)
		if jsonOutput {
			return printJSON(rows)
		}

		output.PrintWindowsTable(os.Stdout, rows)
		return nil
	},
}

// resetCmd restores full opacity after the fader is stopped
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set every window back to full opacity",
	Long:  `Sets opacity 1.0 on every window. Run it after stopping the fader to undo dimming.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewClient(socketPath, timeout)
		defer c.Close()

		ctx := context.Background()
		snap, err := server.Fetch(ctx, c)
		if err != nil {
			printError(fmt.Sprintf("Failed to get windows: %v", err))
			return err
		}

		var failed []int64
		for _, w := range snap.Windows {
			if err := c.SetOpacity(ctx, w.ID, 1.0); err != nil {
				logging.Warn().Int64("window_id", w.ID).Err(err).Msg("reset failed")
				failed = append(failed, w.ID)
			}
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"windowsTotal": len(snap.Windows),
				"windowsOk":    len(snap.Windows) - len(failed),
				"windowsFail":  failed,
			})
		}

		if len(failed) > 0 {
			printError(fmt.Sprintf("Failed to reset %d of %d windows: %v", len(failed), len(snap.Windows), failed))
			return fmt.Errorf("reset failed for %d windows", len(failed))
		}
		successColor.Printf("✓ Reset %d windows to full opacity\n", len(snap.Windows))
		return nil
	},
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cfg)
		}

		data, err := cfg.Marshal()
		if err != nil {
			printError(fmt.Sprintf("Failed to render config: %v", err))
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config file is used",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"path":    path,
				"default": config.DefaultConfigPath(),
			})
		}

		if path == "" {
			keyColor.Print("Config: ")
			fmt.Println("none found, using built-in defaults")
			keyColor.Print("Create: ")
			fmt.Println(config.DefaultConfigPath())
			return nil
		}
		keyColor.Print("Config: ")
		fmt.Println(path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			printError("no config file to validate")
			return fmt.Errorf("no config file")
		}

		if _, err := config.LoadConfig(path); err != nil {
			printError(err.Error())
			return err
		}
		successColor.Printf("✓ %s is valid\n", path)
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", client.DefaultSocketPath(), "Sway IPC socket path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Also log to stderr")

	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
}

func main() {
	defer logging.Close()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Helper functions

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.FindConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		printError(fmt.Sprintf("Failed to load config: %v", err))
		return nil, err
	}
	return cfg, nil
}

func fetchSnapshot() (*server.Snapshot, error) {
	c := client.NewClient(socketPath, timeout)
	defer c.Close()

	snap, err := server.Fetch(context.Background(), c)
	if err != nil {
		printError(fmt.Sprintf("Failed to get windows: %v", err))
		return nil, err
	}
	return snap, nil
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}
