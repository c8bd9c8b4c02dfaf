package tui

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lightcycle/internal/core"
	"github.com/vovakirdan/lightcycle/internal/leaderboard"
	"github.com/vovakirdan/lightcycle/internal/storage"
)

// ProgressKey returns the progress key for a named user. An empty user
// shares the base key.
func ProgressKey(base, user string) string {
	if user == "" {
		return base
	}
	return base + ":" + user
}

// Recorder persists finished rounds: the progress payload, match history,
// run scores, and the leaderboard hook. Persistence is best-effort; a nil
// store only disables it.
type Recorder struct {
	store  *storage.Store
	key    string
	queue  *leaderboard.Queue
	logger *log.Logger
}

// NewRecorder creates a recorder writing progress under key.
func NewRecorder(store *storage.Store, key string, queue *leaderboard.Queue, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{
		store:  store,
		key:    key,
		queue:  queue,
		logger: logger,
	}
}

// Store returns the underlying store, which may be nil.
func (r *Recorder) Store() *storage.Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Key returns the progress key.
func (r *Recorder) Key() string {
	if r == nil {
		return ""
	}
	return r.key
}

// LoadProgress reads the saved progress. Missing or unreadable progress
// yields nil, and the game starts from defaults.
func (r *Recorder) LoadProgress() *core.Progress {
	if r == nil || r.store == nil {
		return nil
	}

	p, found, err := r.store.LoadProgress(r.key)
	switch {
	case errors.Is(err, storage.ErrCorruptProgress):
		r.logger.Warn("discarding corrupt progress", "key", r.key, "error", err)
		return nil
	case err != nil:
		r.logger.Warn("could not load progress", "key", r.key, "error", err)
		return nil
	case !found:
		return nil
	}
	return &p
}

// Record persists a finished round.
func (r *Recorder) Record(round core.RoundResult) {
	if r == nil {
		return
	}

	r.logger.Info("round ended",
		"game", round.GameID,
		"mode", round.Mode,
		"level", round.Level,
		"winner", round.Winner,
		"turns", round.Turns,
		"delta", round.ScoreDelta,
		"run", round.RunScore,
	)

	if r.store != nil {
		if err := r.store.SaveProgress(r.key, round.Progress); err != nil {
			r.logger.Warn("could not save progress", "key", r.key, "error", err)
		}
		r.saveMatch(round)
		if round.RunEnded && round.EndedRunScore > 0 {
			r.saveRun(round.GameID, round.Player, round.EndedRunScore, round.Level)
		}
	}

	r.queue.Enqueue(leaderboard.EntryFromProgress(round.Progress))
}

// RecordMatch stores a round in the match history only. Online duels use
// it since they carry no single-player progress.
func (r *Recorder) RecordMatch(round core.RoundResult) {
	if r == nil || r.store == nil {
		return
	}
	r.logger.Info("online round ended",
		"mode", round.Mode,
		"level", round.Level,
		"winner", round.Winner,
		"turns", round.Turns,
	)
	r.saveMatch(round)
}

func (r *Recorder) saveMatch(round core.RoundResult) {
	winner := ""
	if !round.Draw() {
		winner = round.Winner.String()
	}
	id, err := r.store.SaveMatch(storage.MatchRecord{
		GameID:     round.GameID,
		Mode:       round.Mode,
		Level:      round.Level,
		Player:     round.Player,
		Opponent:   round.Opponent,
		Winner:     winner,
		Turns:      round.Turns,
		ScoreDelta: round.ScoreDelta,
	})
	if err != nil {
		r.logger.Warn("could not save match", "error", err)
		return
	}
	r.logger.Debug("match saved", "id", id)
}

// EndRun stores a run the player walked away from with points on the board.
func (r *Recorder) EndRun(gameID, player string, score, level int) {
	if r == nil || r.store == nil || score <= 0 {
		return
	}
	r.saveRun(gameID, player, score, level)
}

func (r *Recorder) saveRun(gameID, player string, score, level int) {
	if _, err := r.store.SaveScore(gameID, player, score, level); err != nil {
		r.logger.Warn("could not save run score", "game", gameID, "error", err)
		return
	}
	r.logger.Info("run recorded", "game", gameID, "player", player, "score", score, "level", level)
}
