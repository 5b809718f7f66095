package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.SaveScore("flappy", 7); err != nil {
		t.Fatal(err)
	}
	if err := first.Set("flappy", "highScore", "7"); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if hs, _ := second.HighScore("flappy"); hs != 7 {
		t.Errorf("HighScore() after reopen = %d", hs)
	}
	if v, ok, _ := second.Get("flappy", "highScore"); !ok || v != "7" {
		t.Errorf("Get() after reopen = %q, %v", v, ok)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("flappy", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveRun("flappy_smooth", 500, "Expert"); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	scores, err := store.TopScores("flappy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	for i, expected := range []int{200, 100, 50} {
		if scores[i].Score != expected {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, expected)
		}
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}

	smooth, err := store.TopScores("flappy_smooth", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(smooth) != 1 || smooth[0].Level != "Expert" {
		t.Errorf("smooth scores = %+v", smooth)
	}
}

func TestTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 1; i <= 15; i++ {
		store.SaveScore("flappy", i)
	}

	scores, err := store.TopScores("flappy", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 5 || scores[0].Score != 15 || scores[4].Score != 11 {
		t.Errorf("TopScores(5) = %+v", scores)
	}

	scores, _ = store.TopScores("flappy", 0)
	if len(scores) != 10 {
		t.Errorf("TopScores(0) returned %d entries, expected default 10", len(scores))
	}
}

func TestHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	hs, err := store.HighScore("flappy")
	if err != nil || hs != 0 {
		t.Fatalf("HighScore() on empty table = %d, %v", hs, err)
	}

	store.SaveScore("flappy", 3)
	store.SaveScore("flappy", 9)
	if hs, _ := store.HighScore("flappy"); hs != 9 {
		t.Errorf("HighScore() = %d, expected 9", hs)
	}

	if err := store.ClearScores("flappy"); err != nil {
		t.Fatal(err)
	}
	if hs, _ := store.HighScore("flappy"); hs != 0 {
		t.Errorf("HighScore() after clear = %d", hs)
	}
}

func TestGetGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("flappy")
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	for _, s := range []int{10, 20, 30} {
		store.SaveScore("flappy", s)
	}
	stats, err = store.GetGameStats("flappy")
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesCount != 3 || stats.HighScore != 30 || stats.TotalScore != 60 || stats.AvgScore != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if time.Since(stats.LastPlayed) > 24*time.Hour {
		t.Errorf("LastPlayed = %v", stats.LastPlayed)
	}
}
