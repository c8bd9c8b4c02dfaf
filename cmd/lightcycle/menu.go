package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/games/lightcycle"
	"github.com/vovakirdan/lightcycle/internal/platform/tui"
	"github.com/vovakirdan/lightcycle/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Pick the bot or versus mode, choose the versus level, and set the pilot
name. After leaving a game you return to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - Change the versus level
  Enter/Space     - Select
  Tab             - Scoreboard
  Q               - Quit

Examples:
  lightcycle menu
  lightcycle menu --db ./lightcycle.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := fileLogger()
	defer closeLog()

	gameCfg := lightcycle.ActiveConfig()
	recorder, closeStore := openRecorder(gameCfg, logger)
	defer closeStore()

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}

	for {
		menuResult, err := tui.RunMenu(cfg, recorder.LoadProgress(), gameCfg.Versus.MaxLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keeps size changes, the pilot name and the versus level
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(recorder.Store(), recorder.LoadProgress(), cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		runCfg := cfg
		runCfg.Progress = recorder.LoadProgress()
		if runCfg.Seed == 0 {
			runCfg.Seed = time.Now().UnixNano()
		}

		backToMenu, runErr := tui.Run(game, recorder, runCfg)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
			break
		}
		if !backToMenu {
			break
		}
	}
}
