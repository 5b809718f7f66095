package flappy

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

func testPipeManager(seed int64) *PipeManager {
	cfg := config.DefaultFlappyConfig()
	pm := NewPipeManager(seed, cfg.World.Width, cfg.World.Height, cfg.Pipes)
	pm.ApplySettings(config.LevelSettings{PipeSpeed: 3, PipeGap: 200, PipeInterval: 300, BackgroundSpeed: 2})
	return pm
}

func TestPipeManagerSpawnsWhenEmpty(t *testing.T) {
	pm := testPipeManager(1)
	pm.Update(1.0 / 60)

	pipes := pm.Pipes()
	if len(pipes) != 1 {
		t.Fatalf("expected 1 pipe, got %d", len(pipes))
	}
	if pipes[0].X != 400 {
		t.Errorf("new pipe X = %v, expected 400", pipes[0].X)
	}
	if pipes[0].Speed != 3 || pipes[0].Gap != 200 || pipes[0].Width != 80 {
		t.Errorf("new pipe = %+v", pipes[0])
	}
}

func TestPipeManagerSpawnInterval(t *testing.T) {
	pm := testPipeManager(1)
	pm.Update(1.0 / 60)

	for i := 0; i < 200 && len(pm.Pipes()) < 2; i++ {
		before := pm.Pipes()[0].X
		pm.Update(1.0 / 60)
		if len(pm.Pipes()) == 2 {
			if gap := 400 - pm.Pipes()[0].X; gap < 300 {
				t.Errorf("second pipe spawned with spacing %v, expected >= 300", gap)
			}
			if 400-before >= 300 {
				t.Errorf("second pipe spawned late: spacing was already %v", 400-before)
			}
		}
	}
	if len(pm.Pipes()) != 2 {
		t.Fatalf("second pipe never spawned")
	}
}

func TestPipeTopHeightBounds(t *testing.T) {
	pm := testPipeManager(7)
	for i := 0; i < 500; i++ {
		pm.Spawn()
	}
	for i, p := range pm.Pipes() {
		if p.TopHeight < 100 || p.TopHeight > 600-200-100 {
			t.Fatalf("pipe %d top height %v outside [100, 300]", i, p.TopHeight)
		}
		if p.BottomY() != p.TopHeight+p.Gap {
			t.Fatalf("pipe %d bottomY %v, expected %v", i, p.BottomY(), p.TopHeight+p.Gap)
		}
	}
}

func TestPipeManagerEvictPreservesOrder(t *testing.T) {
	pm := testPipeManager(1)
	pm.pipes = []Pipe{
		{X: -80, Width: 80},
		{X: -79, Width: 80},
		{X: 100, Width: 80},
		{X: 250, Width: 80},
	}

	if removed := pm.Evict(); removed != 1 {
		t.Errorf("Evict() removed %d, expected 1", removed)
	}
	pipes := pm.Pipes()
	if len(pipes) != 3 || pipes[0].X != -79 || pipes[1].X != 100 || pipes[2].X != 250 {
		t.Errorf("remaining pipes out of order: %+v", pipes)
	}
}

func TestScorePassedCountsOnce(t *testing.T) {
	pm := testPipeManager(1)
	pm.pipes = []Pipe{{X: 0, Width: 80}, {X: 300, Width: 80}}

	total := 0
	for i := 0; i < 20; i++ {
		total += pm.ScorePassed(133)
	}
	if total != 1 {
		t.Errorf("ScorePassed total = %d, expected 1", total)
	}
	if !pm.Pipes()[0].Passed || pm.Pipes()[1].Passed {
		t.Errorf("Passed flags wrong: %+v", pm.Pipes())
	}

	// Right edge exactly at the actor does not count yet.
	pm.pipes = append(pm.pipes, Pipe{X: 53, Width: 80})
	if n := pm.ScorePassed(133); n != 0 {
		t.Errorf("pipe with right edge at actor counted: %d", n)
	}
}

func TestApplySettingsReachesPipesInFlight(t *testing.T) {
	pm := testPipeManager(1)
	pm.Spawn()
	pm.Spawn()

	pm.ApplySettings(config.LevelSettings{PipeSpeed: 3.9, PipeGap: 180, PipeInterval: 280})

	for i, p := range pm.Pipes() {
		if p.Speed != 3.9 {
			t.Errorf("pipe %d speed %v, expected 3.9", i, p.Speed)
		}
		if p.Gap != 200 {
			t.Errorf("pipe %d gap changed to %v; gaps only apply to new pipes", i, p.Gap)
		}
	}

	pm.Spawn()
	if last := pm.Pipes()[len(pm.Pipes())-1]; last.Gap != 180 {
		t.Errorf("new pipe gap %v, expected 180", last.Gap)
	}
}

func TestPipeUpdateScalesWithDt(t *testing.T) {
	p := Pipe{X: 300, Speed: 3}
	p.Update(1.0 / 30)
	if p.X < 293.999 || p.X > 294.001 {
		t.Errorf("X after two reference frames = %v, expected 294", p.X)
	}
}

func TestPipeManagerDeterminism(t *testing.T) {
	a, b := testPipeManager(42), testPipeManager(42)
	for i := 0; i < 10; i++ {
		a.Spawn()
		b.Spawn()
	}
	for i := range a.Pipes() {
		if a.Pipes()[i].TopHeight != b.Pipes()[i].TopHeight {
			t.Fatalf("pipe %d differs: %v vs %v", i, a.Pipes()[i].TopHeight, b.Pipes()[i].TopHeight)
		}
	}
}
