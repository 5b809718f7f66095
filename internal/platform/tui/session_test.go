package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

func TestUserNamespace(t *testing.T) {
	if got := UserNamespace("flappy", "alice"); got != "flappy@alice" {
		t.Errorf("got %q", got)
	}
	if got := UserNamespace("flappy", ""); got != "flappy" {
		t.Errorf("anonymous users should share the game namespace, got %q", got)
	}
}

func TestMenuCyclesPresets(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), config.DifficultyNormal)
	if m.Preset() != config.DifficultyNormal {
		t.Fatalf("expected normal, got %s", m.Preset())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(MenuModel)
	if m.Preset() != config.DifficultyHard {
		t.Errorf("expected hard, got %s", m.Preset())
	}

	for i := 0; i < 3; i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
		m = next.(MenuModel)
	}
	if m.Preset() != config.DifficultyFixed {
		t.Errorf("left should wrap around to fixed, got %s", m.Preset())
	}
}

func TestMenuListsBothModes(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), config.DifficultyNormal)
	ids := map[string]bool{}
	for _, it := range m.items {
		ids[it.GameID] = true
	}
	if !ids["flappy"] || !ids["flappy_smooth"] {
		t.Errorf("menu items = %v", m.items)
	}
}

func TestMenuResult(t *testing.T) {
	m := NewMenuModel(nil, testConfig(), config.DifficultyEasy)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	r := next.(MenuModel).result()
	if r.GameID == "" || r.Quit || r.Preset != config.DifficultyEasy {
		t.Errorf("unexpected result %+v", r)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if r := next.(MenuModel).result(); !r.WantsScoreboard {
		t.Errorf("tab should open the scoreboard, got %+v", r)
	}
}

func TestNewGameWithPreset(t *testing.T) {
	g, err := NewGameWithPreset("flappy_smooth", config.DifficultyHard)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Reset(testConfig(), core.Env{}); err != nil {
		t.Fatal(err)
	}
	if st := g.State(); st.Level != 2 {
		t.Errorf("hard preset should start at level 2, got %d", st.Level)
	}
	g.OnUnload()

	if _, err := NewGameWithPreset("pong", config.DifficultyHard); err == nil {
		t.Error("unknown game should fail")
	}
}

func TestSessionMenuGameMenu(t *testing.T) {
	m := NewSessionModel(testConfig(), "alice", Options{Sound: core.NopSound{}})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SessionModel)
	if m.screen != screenGame || m.game == nil {
		t.Fatal("enter should start a game")
	}
	if m.game.opts.Namespace != UserNamespace(m.game.game.ID(), "alice") {
		t.Errorf("namespace = %q", m.game.opts.Namespace)
	}
	if _, ok := m.game.game.(*flappy.Game); !ok {
		t.Errorf("expected a flappy game, got %T", m.game.game)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(SessionModel)
	if m.screen != screenMenu || cmd != nil {
		t.Error("back should return to the menu without quitting the program")
	}
	if m.quitting {
		t.Error("session should still be running")
	}
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m := NewSessionModel(testConfig(), "bob", Options{})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(SessionModel)
	if m.screen != screenScores {
		t.Fatal("tab should open the scoreboard")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(SessionModel)
	if m.screen != screenMenu {
		t.Error("esc should return to the menu")
	}
}

func TestSessionQuit(t *testing.T) {
	m := NewSessionModel(testConfig(), "carol", Options{})
	next, cmd := m.Update(runeKey("q"))
	if !next.(SessionModel).quitting || cmd == nil {
		t.Error("q should end the session")
	}
}
