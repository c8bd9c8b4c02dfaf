package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lightcycle/internal/games/lightcycle"
	"github.com/vovakirdan/lightcycle/internal/platform/tui"
	"github.com/vovakirdan/lightcycle/internal/storage"
)

var (
	flagLimit   int
	flagMatchID string
	flagUser    string
	flagReset   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show progress, best runs and recent matches",
	Long: `Display the saved progress, the best bot-mode runs and the most recent
matches.

Examples:
  lightcycle scores
  lightcycle scores --limit 20
  lightcycle scores --user flynn          # progress of an SSH user
  lightcycle scores --match <id>          # details of one match
  lightcycle scores --reset               # clear progress and run scores`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs and matches to show")
	scoresCmd.Flags().StringVar(&flagMatchID, "match", "", "Show a single match by ID")
	scoresCmd.Flags().StringVar(&flagUser, "user", "", "SSH user whose progress to show")
	scoresCmd.Flags().BoolVar(&flagReset, "reset", false, "Clear the saved progress and run scores")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	key := tui.ProgressKey(lightcycle.ActiveConfig().Storage.ProgressKey, flagUser)

	if err := printScores(store, key); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printScores(store *storage.Store, key string) error {
	if flagReset {
		if err := store.ClearProgress(key); err != nil {
			return err
		}
		if err := store.ClearScores(lightcycle.GameID); err != nil {
			return err
		}
		fmt.Println("Progress and run scores cleared.")
		return nil
	}

	if flagMatchID != "" {
		return printMatch(store, flagMatchID)
	}

	fmt.Println("Lightcycle")
	fmt.Println()

	p, found, err := store.LoadProgress(key)
	switch {
	case errors.Is(err, storage.ErrCorruptProgress):
		fmt.Println("Saved progress is unreadable and will be replaced on the next round.")
	case err != nil:
		return err
	case !found:
		fmt.Println("No saved progress yet.")
	default:
		fmt.Printf("Pilot:          %s\n", p.Player)
		fmt.Printf("High score:     %s\n", humanize.Comma(int64(p.HighScore)))
		fmt.Printf("Highest level:  %d\n", p.HighestLevel)
	}
	fmt.Println()

	scores, err := store.TopScores(lightcycle.GameID, flagLimit)
	if err != nil {
		return err
	}

	best, err := store.HighScore(lightcycle.GameID)
	if err != nil {
		return err
	}

	fmt.Printf("Best runs (record %s)\n", humanize.Comma(int64(best)))
	if len(scores) == 0 {
		fmt.Println("  No runs recorded yet. Play 'lightcycle play' to set the first one!")
	} else {
		fmt.Printf("  %-4s  %-16s  %-10s  %-5s  %s\n", "Rank", "Pilot", "Score", "Level", "Date")
		fmt.Printf("  %-4s  %-16s  %-10s  %-5s  %s\n", "----", "-----", "-----", "-----", "----")
		for i, entry := range scores {
			fmt.Printf("  %-4d  %-16s  %-10s  %-5d  %s\n",
				i+1, entry.Player, humanize.Comma(int64(entry.Score)), entry.Level,
				entry.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	fmt.Println()

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recent matches")
	if len(matches) == 0 {
		fmt.Println("  No matches recorded yet.")
		return nil
	}
	fmt.Printf("  %-36s  %-6s  %-5s  %-24s  %s\n", "ID", "Mode", "Level", "Result", "Turns")
	for _, m := range matches {
		fmt.Printf("  %-36s  %-6s  %-5d  %-24s  %d\n", m.ID, m.Mode, m.Level, tui.MatchResult(m), m.Turns)
	}
	return nil
}

func printMatch(store *storage.Store, id string) error {
	m, err := store.MatchByID(id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("no match with id %q", id)
	}

	fmt.Printf("Match %s\n", m.ID)
	fmt.Printf("  Played:    %s (%s)\n", m.CreatedAt.Format("2006-01-02 15:04"), humanize.Time(m.CreatedAt))
	fmt.Printf("  Mode:      %s, level %d\n", m.Mode, m.Level)
	fmt.Printf("  Pilots:    %s vs %s\n", m.Player, m.Opponent)
	fmt.Printf("  Result:    %s after %d turns\n", tui.MatchResult(*m), m.Turns)
	fmt.Printf("  Points:    +%s\n", humanize.Comma(int64(m.ScoreDelta)))
	return nil
}
