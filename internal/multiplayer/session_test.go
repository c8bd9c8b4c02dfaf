package multiplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelSessionKeepsLatestFrame(t *testing.T) {
	s := NewChannelSession("s", 4)
	defer s.Close()

	for tick := range uint64(3) {
		s.Send(FrameEvent{Tick: tick})
	}
	s.Send(MatchEndedEvent{Reason: EndReasonLeft})

	evt, ok := s.Next()
	require.True(t, ok)
	assert.IsType(t, MatchEndedEvent{}, evt, "lifecycle events come before frames")

	evt, ok = s.Next()
	require.True(t, ok)
	frame, isFrame := evt.(FrameEvent)
	require.True(t, isFrame)
	assert.Equal(t, uint64(2), frame.Tick)
}

func TestChannelSessionClose(t *testing.T) {
	s := NewChannelSession("s", 1)
	s.Close()
	s.Close()

	s.Send(LobbyErrorEvent{Message: "ignored"})
	_, ok := s.Next()
	assert.False(t, ok)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed")
	}
}

func TestChannelSessionDropsOverflow(t *testing.T) {
	s := NewChannelSession("s", 1)
	defer s.Close()

	s.Send(LobbyErrorEvent{Message: "first"})
	s.Send(LobbyErrorEvent{Message: "second"})

	evt, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, LobbyErrorEvent{Message: "first"}, evt)
}

func TestEndReasonNotice(t *testing.T) {
	tests := []struct {
		reason EndReason
		want   string
	}{
		{EndReasonLeft, "Your opponent left the match"},
		{EndReasonDisconnect, "Your opponent disconnected"},
		{EndReasonShutdown, "The server is shutting down"},
	}
	for _, tt := range tests {
		t.Run(tt.reason.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reason.Notice())
		})
	}
}
