package lightcycle

import (
	"math/rand"
	"sort"

	"github.com/vovakirdan/lightcycle/internal/config"
	"github.com/vovakirdan/lightcycle/internal/core"
)

// botView is the read-only state the bot decides on.
type botView struct {
	width    int
	height   int
	occupied map[core.Point]struct{}
	self     Agent
	opponent core.Point
	profile  config.Profile
}

func (v botView) free(p core.Point) bool {
	if p.X < 0 || p.X >= v.width || p.Y < 0 || p.Y >= v.height {
		return false
	}
	_, taken := v.occupied[p]
	return !taken
}

type candidate struct {
	dir      Direction
	distance int
	openness int
}

// chooseDirection picks the bot's heading for the next tick: chase the
// opponent by Manhattan distance, break ties on open space at higher levels,
// and sometimes pick any safe move at random. The reverse is only dropped
// when its cell is taken. With no safe move the bot keeps its heading.
func chooseDirection(v botView, rng *rand.Rand) Direction {
	cur := v.self.Direction
	dirs := [...]Direction{cur, cur.Left(), cur.Right(), cur.Opposite()}

	safe := make([]candidate, 0, len(dirs))
	for _, d := range dirs {
		next := v.self.Position.Add(d.Vector())
		if !v.free(next) {
			continue
		}
		safe = append(safe, candidate{
			dir:      d,
			distance: next.Manhattan(v.opponent),
			openness: v.openness(next, d),
		})
	}

	if len(safe) == 0 {
		return cur
	}

	tieBreak := v.profile.TieBreakOnOpenness
	sort.SliceStable(safe, func(i, j int) bool {
		a, b := safe[i], safe[j]
		if a.distance == b.distance && tieBreak {
			return a.openness > b.openness
		}
		return a.distance < b.distance
	})

	if rng.Float64() < v.profile.Randomness {
		return safe[rng.Intn(len(safe))].dir
	}
	return safe[0].dir
}

// openness counts free cells around next, looking ahead and to both sides
// of heading d, and behind when the profile asks for four neighbors.
func (v botView) openness(next core.Point, d Direction) int {
	var look []Direction
	switch v.profile.OpennessNeighbors {
	case 0:
		return 0
	case 3:
		look = []Direction{d, d.Left(), d.Right()}
	default:
		look = []Direction{d, d.Left(), d.Right(), d.Opposite()}
	}

	n := 0
	for _, l := range look {
		if v.free(next.Add(l.Vector())) {
			n++
		}
	}
	return n
}
