// Package leaderboard is the hook for publishing progress to a remote
// leaderboard. There is no wire protocol yet: the default syncer only logs.
package leaderboard

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// Entry is the payload published after every progress write.
type Entry struct {
	Player string
	Score  int
	Level  int
}

// EntryFromProgress converts a persisted progress payload.
func EntryFromProgress(p core.Progress) Entry {
	return Entry{Player: p.Player, Score: p.HighScore, Level: p.HighestLevel}
}

// Syncer publishes an entry.
type Syncer interface {
	Sync(ctx context.Context, e Entry) error
}

// LogSyncer records entries in the log instead of sending them anywhere.
type LogSyncer struct {
	Logger *log.Logger
}

// Sync implements Syncer.
func (s LogSyncer) Sync(_ context.Context, e Entry) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("leaderboard sync", "player", e.Player, "score", e.Score, "level", e.Level)
	return nil
}

// Queue runs syncs in the background. Callers never wait on the network and
// never see sync failures; failures are only logged.
type Queue struct {
	syncer  Syncer
	logger  *log.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewQueue creates a queue around syncer. A nil logger uses the default.
func NewQueue(syncer Syncer, logger *log.Logger) *Queue {
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{
		syncer:  syncer,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Enqueue starts a fire-and-forget sync of e.
func (q *Queue) Enqueue(e Entry) {
	if q == nil || q.syncer == nil {
		return
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		defer cancel()
		if err := q.syncer.Sync(ctx, e); err != nil {
			q.logger.Warn("leaderboard sync failed", "player", e.Player, "err", err)
		}
	}()
}

// Wait blocks until all queued syncs have finished.
func (q *Queue) Wait() {
	if q == nil {
		return
	}
	q.wg.Wait()
}
