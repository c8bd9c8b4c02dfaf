package multiplayer

import "sync"

// SessionHandle is the transport-neutral side of a session the coordinator
// and matches talk to.
type SessionHandle interface {
	ID() SessionID

	// Send delivers an event without blocking.
	Send(evt SessionEvent)

	// Done is closed when the session ends.
	Done() <-chan struct{}
}

// ChannelSession bridges a Bubble Tea program to the coordinator.
// Lifecycle events are queued in order; frames share a single slot where
// a newer frame replaces one that was not read yet.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	frames   chan FrameEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session handle. eventBuffer bounds the
// number of queued lifecycle events.
func NewChannelSession(id SessionID, eventBuffer int) *ChannelSession {
	if eventBuffer < 1 {
		eventBuffer = 16
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, eventBuffer),
		frames: make(chan FrameEvent, 1),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an event. Events sent after Close are discarded, as are
// lifecycle events that overflow the buffer.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	if frame, ok := evt.(FrameEvent); ok {
		s.sendFrame(frame)
		return
	}

	select {
	case s.events <- evt:
	default:
	}
}

func (s *ChannelSession) sendFrame(frame FrameEvent) {
	for range 2 {
		select {
		case s.frames <- frame:
			return
		default:
		}
		// Drop the stale frame and retry.
		select {
		case <-s.frames:
		default:
		}
	}
}

// Next blocks until an event is available or the session is closed.
// Queued lifecycle events are returned before a pending frame.
func (s *ChannelSession) Next() (SessionEvent, bool) {
	select {
	case evt := <-s.events:
		return evt, true
	default:
	}

	select {
	case evt := <-s.events:
		return evt, true
	case frame := <-s.frames:
		return frame, true
	case <-s.done:
		return nil, false
	}
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close ends the session. Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
