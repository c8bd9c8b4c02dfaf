// lightcycle is a two-pilot light-cycle duel for the terminal.
//
// Usage:
//
//	lightcycle list                  - List available game modes
//	lightcycle play [bot|versus]     - Play a mode directly
//	lightcycle menu                  - Start menu to pick a mode interactively
//	lightcycle serve                 - Start SSH server for remote play
//	lightcycle scores                - Show progress, best runs and recent matches
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible bot behavior
//	--db <path>          - Set database path (default: ~/.lightcycle/lightcycle.db)
//	--config <path>      - Path to a custom lightcycle.yaml
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lightcycle/internal/config"
	"github.com/vovakirdan/lightcycle/internal/games/lightcycle"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lightcycle",
	Short: "Lightcycle - a light-cycle duel in your terminal",
	Long: `Lightcycle is a terminal game where two light cycles race across a grid,
each leaving a solid trail. The first to hit a wall or a trail is derezzed.

Available commands:
  list     - Show the available game modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View progress, best runs and match history

Examples:
  lightcycle play
  lightcycle play versus --level 4
  lightcycle menu
  lightcycle serve --ssh :2222
  lightcycle scores`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lightcycle/lightcycle.db", "Path to the database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom lightcycle.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig loads the game config and hands it to the game factories.
// An unusable config file falls back to the defaults with a warning.
func loadConfig() config.LightcycleConfig {
	cfg, err := config.LoadLightcycle(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	lightcycle.SetConfig(cfg)
	return cfg
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.lightcycle/lightcycle.log so the game screen stays
// clean. The returned close function is always safe to call.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLogger(io.Discard, "lightcycle"), func() {}
	}

	dir := filepath.Join(home, ".lightcycle")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard, "lightcycle"), func() {}
	}

	f, err := os.OpenFile(filepath.Join(dir, "lightcycle.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard, "lightcycle"), func() {}
	}
	return newLogger(f, "lightcycle"), func() { f.Close() }
}

// terminalSize returns the terminal size, defaulting to 80x24.
func terminalSize() (width, height int) {
	width, height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
