package lightcycle

import "github.com/vovakirdan/lightcycle/internal/core"

// Snapshot is a read-only copy of a session for rendering and replay
// checks. It shares no memory with the session.
type Snapshot struct {
	Width    int
	Height   int
	Mode     Mode
	Level    int
	Status   Status
	Turns    int
	MaxTurns int
	Agents   [2]Agent
	// Occupied counts walled-off cells.
	Occupied int
}

// Snapshot returns the current state. Two calls without a tick in between
// return equal values.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Width:    s.width,
		Height:   s.height,
		Mode:     s.mode,
		Level:    s.profile.Level,
		Status:   s.status,
		Turns:    s.turns,
		MaxTurns: s.maxTurns,
		Agents:   [2]Agent{s.agents[0].clone(), s.agents[1].clone()},
		Occupied: len(s.occupied),
	}
}

// Agent returns the agent in the given slot.
func (sn Snapshot) Agent(p core.PlayerID) Agent {
	if idx, ok := agentIndex(p); ok {
		return sn.Agents[idx]
	}
	return Agent{}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (sn Snapshot) Hash() uint64 {
	h := uint64(sn.Turns)           //#nosec G115 -- hash computation
	h = h*31 + uint64(sn.Occupied)  //#nosec G115 -- hash computation
	h = h*31 + uint64(len(sn.Mode)) //#nosec G115 -- hash computation

	for _, a := range sn.Agents {
		h = h*31 + uint64(a.Position.X) //#nosec G115 -- hash computation
		h = h*31 + uint64(a.Position.Y) //#nosec G115 -- hash computation
		h = h*31 + uint64(a.Direction)  //#nosec G115 -- hash computation
		if a.Alive {
			h = h*31 + 1
		} else {
			h *= 31
		}
		for _, p := range a.Trail {
			h = h*31 + uint64(p.X) //#nosec G115 -- hash computation
			h = h*31 + uint64(p.Y) //#nosec G115 -- hash computation
		}
	}

	return h
}
