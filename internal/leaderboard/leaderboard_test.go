package leaderboard

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/lightcycle/internal/core"
)

type recordingSyncer struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (r *recordingSyncer) Sync(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return r.err
}

func TestEntryFromProgress(t *testing.T) {
	e := EntryFromProgress(core.Progress{HighScore: 4152, HighestLevel: 3, Player: "Sam"})
	assert.Equal(t, Entry{Player: "Sam", Score: 4152, Level: 3}, e)
}

func TestQueueDeliversEntries(t *testing.T) {
	rec := &recordingSyncer{}
	q := NewQueue(rec, log.New(&bytes.Buffer{}))

	q.Enqueue(Entry{Player: "a", Score: 1, Level: 1})
	q.Enqueue(Entry{Player: "b", Score: 2, Level: 2})
	q.Wait()

	assert.ElementsMatch(t, []Entry{
		{Player: "a", Score: 1, Level: 1},
		{Player: "b", Score: 2, Level: 2},
	}, rec.entries)
}

func TestQueueSwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	rec := &recordingSyncer{err: errors.New("offline")}
	q := NewQueue(rec, logger)

	require.NotPanics(t, func() {
		q.Enqueue(Entry{Player: "a"})
		q.Wait()
	})
	assert.Contains(t, buf.String(), "leaderboard sync failed")
	assert.Contains(t, buf.String(), "offline")
}

func TestNilQueueIsNoop(t *testing.T) {
	var q *Queue
	assert.NotPanics(t, func() {
		q.Enqueue(Entry{})
		q.Wait()
	})

	empty := NewQueue(nil, nil)
	assert.NotPanics(t, func() {
		empty.Enqueue(Entry{})
		empty.Wait()
	})
}

func TestLogSyncer(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	err := LogSyncer{Logger: logger}.Sync(context.Background(), Entry{Player: "Sam", Score: 10, Level: 2})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "leaderboard sync")
	assert.Contains(t, buf.String(), "player=Sam")
}
