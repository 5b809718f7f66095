package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

func TestRenderScreenKeepsLayout(t *testing.T) {
	s := core.NewScreen(6, 3)
	s.FillBackground(core.ColorBlue)
	s.DrawTextColored(1, 1, "hi", core.ColorYellow)
	s.SetColored(5, 2, '█', core.ColorGreen)

	lines := strings.Split(stripANSI(RenderScreen(s)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	expected := []string{"      ", " hi   ", "     █"}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("line %d = %q, expected %q", i, line, expected[i])
		}
	}
}

func TestCellStyleCached(t *testing.T) {
	a := cellStyle(core.ColorRed, core.ColorBlack)
	b := cellStyle(core.ColorRed, core.ColorBlack)
	if a.Render("x") != b.Render("x") {
		t.Error("same colours should render identically")
	}
	if _, ok := styleCache.m[styleKey{core.ColorRed, core.ColorBlack}]; !ok {
		t.Error("style should be cached")
	}
}

func TestBellHaptics(t *testing.T) {
	var buf bytes.Buffer
	if err := (BellHaptics{W: &buf}).Vibrate(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Errorf("expected BEL, got %q", buf.String())
	}
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
