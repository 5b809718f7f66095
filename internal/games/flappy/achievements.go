package flappy

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Achievement is a one-time unlock tied to a score threshold.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Threshold   int
}

// Achievements lists every achievement in unlock order.
var Achievements = []Achievement{
	{ID: "firstFlight", Title: "First Flight", Description: "Score your first point", Threshold: 1},
	{ID: "highFlyer", Title: "High Flyer", Description: "Reach 10 points", Threshold: 10},
	{ID: "skilledFlyer", Title: "Skilled Flyer", Description: "Reach 20 points", Threshold: 20},
	{ID: "masterPilot", Title: "Master Pilot", Description: "Reach 50 points", Threshold: 50},
}

// KeyAchievements is the store key holding the unlock map.
const KeyAchievements = "achievements"

// AchievementTracker remembers unlocks across sessions.
type AchievementTracker struct {
	store    core.KVStore
	log      core.Logger
	unlocked map[string]bool
}

// NewAchievementTracker creates a tracker backed by store. Call Load to
// read earlier unlocks.
func NewAchievementTracker(store core.KVStore, log core.Logger) *AchievementTracker {
	return &AchievementTracker{
		store:    store,
		log:      log,
		unlocked: make(map[string]bool),
	}
}

// Load reads persisted unlocks. On failure the tracker keeps what it has
// and the error is returned for logging.
func (t *AchievementTracker) Load() error {
	raw, ok, err := t.store.Get(KeyAchievements)
	if err != nil {
		return fmt.Errorf("flappy: load achievements: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	saved := make(map[string]bool)
	if err := yaml.Unmarshal([]byte(raw), &saved); err != nil {
		return fmt.Errorf("flappy: decode achievements: %w", err)
	}
	for _, a := range Achievements {
		if saved[a.ID] {
			t.unlocked[a.ID] = true
		}
	}
	return nil
}

func (t *AchievementTracker) save() {
	data, err := yaml.Marshal(t.unlocked)
	if err != nil {
		t.log.Warn("encode achievements", "err", err)
		return
	}
	if err := t.store.Set(KeyAchievements, string(data)); err != nil {
		t.log.Warn("save achievements", "err", err)
	}
}

// Check unlocks every achievement whose threshold score has reached and
// returns the ones that are new. Each achievement is returned at most once.
func (t *AchievementTracker) Check(score int) []Achievement {
	var fresh []Achievement
	for _, a := range Achievements {
		if score >= a.Threshold && !t.unlocked[a.ID] {
			t.unlocked[a.ID] = true
			fresh = append(fresh, a)
		}
	}
	if len(fresh) > 0 {
		t.save()
	}
	return fresh
}

// IsUnlocked reports whether id has been unlocked.
func (t *AchievementTracker) IsUnlocked(id string) bool {
	return t.unlocked[id]
}

// Unlocked returns unlocked achievements in table order.
func (t *AchievementTracker) Unlocked() []Achievement {
	var out []Achievement
	for _, a := range Achievements {
		if t.unlocked[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// LoadUnlocked reads the unlock map straight from a store, for hosts that
// only display achievements.
func LoadUnlocked(store core.KVStore) ([]Achievement, error) {
	t := NewAchievementTracker(store, core.NopLogger{})
	if err := t.Load(); err != nil {
		return nil, err
	}
	return t.Unlocked(), nil
}
