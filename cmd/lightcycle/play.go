package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lightcycle/internal/config"
	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/games/lightcycle"
	"github.com/vovakirdan/lightcycle/internal/leaderboard"
	"github.com/vovakirdan/lightcycle/internal/platform/tui"
	"github.com/vovakirdan/lightcycle/internal/registry"
	"github.com/vovakirdan/lightcycle/internal/storage"
)

var (
	flagLevel int
	flagName  string
)

var playCmd = &cobra.Command{
	Use:   "play [bot|versus]",
	Short: "Play a mode",
	Long: `Start playing against the bot (default) or a second pilot at the same keyboard.

Controls:
  WASD         - Steer player 1
  Arrow keys   - Steer player 2 in versus, player 1 against the bot
  Enter        - Launch / continue to the next level
  R            - Rematch
  B/Esc        - Leave the game
  Q/Ctrl+C     - Quit
  Ctrl+S       - Save a screenshot

Examples:
  lightcycle play
  lightcycle play --name Flynn
  lightcycle play bot --level 5
  lightcycle play versus --level 3`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Starting level (bot: default 1, versus: 1-max)")
	playCmd.Flags().StringVar(&flagName, "name", "", "Player 1 name")
}

func runPlay(_ *cobra.Command, args []string) {
	mode := lightcycle.ModeBot
	if len(args) == 1 {
		parsed, err := lightcycle.ParseMode(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		mode = parsed
	}

	gameID := lightcycle.GameID
	if mode == lightcycle.ModeVersus {
		gameID = lightcycle.VersusGameID
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	gameCfg := lightcycle.ActiveConfig()
	recorder, closeStore := openRecorder(gameCfg, logger)

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		Seed:     flagSeed,
		Level:    flagLevel,
		Player:   flagName,
		Progress: recorder.LoadProgress(),
	}

	_, runErr := tui.Run(game, recorder, cfg)

	// Close store before potential exit
	closeStore()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// openRecorder opens the database and wires the round recorder for local
// play. The game still runs when the database cannot be opened.
func openRecorder(cfg config.LightcycleConfig, logger *log.Logger) (*tui.Recorder, func()) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("could not open database", "path", flagDBPath, "error", err)
		store = nil
	}

	queue := leaderboard.NewQueue(leaderboard.LogSyncer{Logger: logger}, logger)
	recorder := tui.NewRecorder(store, cfg.Storage.ProgressKey, queue, logger)

	return recorder, func() {
		queue.Wait()
		if store != nil {
			store.Close()
		}
	}
}
