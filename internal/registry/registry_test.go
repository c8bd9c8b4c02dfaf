package registry

import (
	"testing"
	"time"

	"github.com/vovakirdan/lightcycle/internal/core"
)

type fakeGame struct {
	id      string
	players int
}

func (g *fakeGame) ID() string { return g.id }
func (g *fakeGame) Title() string { return "Fake " + g.id }
func (g *fakeGame) Reset(core.RuntimeConfig) {}
func (g *fakeGame) Step(core.MultiInputFrame) core.StepResult { return core.StepResult{} }
func (g *fakeGame) TickInterval() time.Duration { return 100 * time.Millisecond }
func (g *fakeGame) Render(*core.Screen) {}
func (g *fakeGame) State() core.GameState { return core.GameState{} }

type fakeDuel struct {
	fakeGame
}

func (g *fakeDuel) LocalPlayers() int { return g.players }

func TestRegisterAndCreate(t *testing.T) {
	Register("test_solo", func() Game { return &fakeGame{id: "test_solo"} })

	if !Exists("test_solo") {
		t.Fatal("expected test_solo to be registered")
	}
	if Exists("test_missing") {
		t.Error("unexpected registration for test_missing")
	}

	g, err := Create("test_solo")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID() != "test_solo" {
		t.Errorf("expected ID test_solo, got %q", g.ID())
	}

	if _, err := Create("test_missing"); err == nil {
		t.Error("expected error for unknown game")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test_dup", func() Game { return &fakeGame{id: "test_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test_dup", func() Game { return &fakeGame{id: "test_dup"} })
}

func TestListSortedWithPlayers(t *testing.T) {
	Register("test_list_b", func() Game {
		return &fakeDuel{fakeGame{id: "test_list_b", players: 2}}
	})
	Register("test_list_a", func() Game { return &fakeGame{id: "test_list_a"} })

	var infos []GameInfo
	for _, info := range List() {
		if info.ID == "test_list_a" || info.ID == "test_list_b" {
			infos = append(infos, info)
		}
	}

	if len(infos) != 2 {
		t.Fatalf("expected 2 games, got %d", len(infos))
	}
	if infos[0].ID != "test_list_a" || infos[1].ID != "test_list_b" {
		t.Errorf("expected sorted IDs, got %q, %q", infos[0].ID, infos[1].ID)
	}
	if infos[0].Players != 1 {
		t.Errorf("expected 1 player for solo game, got %d", infos[0].Players)
	}
	if infos[1].Players != 2 {
		t.Errorf("expected 2 players for duel, got %d", infos[1].Players)
	}
	if infos[1].Title != "Fake test_list_b" {
		t.Errorf("unexpected title %q", infos[1].Title)
	}
}

func TestPlayersOf(t *testing.T) {
	tests := []struct {
		name string
		game Game
		want int
	}{
		{"plain game", &fakeGame{id: "a"}, 1},
		{"duel", &fakeDuel{fakeGame{id: "b", players: 2}}, 2},
		{"misreported zero", &fakeDuel{fakeGame{id: "c", players: 0}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlayersOf(tt.game); got != tt.want {
				t.Errorf("PlayersOf = %d, want %d", got, tt.want)
			}
		})
	}
}
