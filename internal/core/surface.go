package core

import "math"

// Surface is the immediate-mode drawing context the game renders into.
// All coordinates are world units; hosts project them onto cells or pixels.
type Surface interface {
	// Size returns the drawable area in world units.
	Size() (w, h float64)

	Clear(c Color)
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, c Color)
	FillCircle(cx, cy, r float64, c Color)
	Line(x0, y0, x1, y1 float64, c Color)

	// Text draws s with its top-left corner at (x, y).
	Text(x, y float64, s string, c Color)

	// Save pushes the current translation and alpha; Restore pops them.
	Save()
	Restore()
	Translate(dx, dy float64)
	SetAlpha(a float64)
}

// drawState is the transform pushed by Save.
type drawState struct {
	tx, ty float64
	alpha  float64
}

// CellSurface projects world-space drawing onto a rune Screen.
// World X/Y are scaled independently to the screen's columns and rows.
type CellSurface struct {
	screen *Screen
	worldW float64
	worldH float64
	state  drawState
	stack  []drawState
}

// NewCellSurface wraps a screen for a world of the given size.
func NewCellSurface(screen *Screen, worldW, worldH float64) *CellSurface {
	return &CellSurface{
		screen: screen,
		worldW: worldW,
		worldH: worldH,
		state:  drawState{alpha: 1},
	}
}

// Screen returns the underlying buffer.
func (s *CellSurface) Screen() *Screen {
	return s.screen
}

// Size returns the world size.
func (s *CellSurface) Size() (float64, float64) {
	return s.worldW, s.worldH
}

func (s *CellSurface) scaleX() float64 {
	return float64(s.screen.Width()) / s.worldW
}

func (s *CellSurface) scaleY() float64 {
	return float64(s.screen.Height()) / s.worldH
}

// toCell converts a world point to a cell coordinate.
func (s *CellSurface) toCell(x, y float64) (int, int) {
	cx := (x + s.state.tx) * s.scaleX()
	cy := (y + s.state.ty) * s.scaleY()
	return int(math.Floor(cx)), int(math.Floor(cy))
}

// glyph picks a fill rune for the current alpha, or 0 when invisible.
func (s *CellSurface) glyph() rune {
	switch a := s.state.alpha; {
	case a < 0.05:
		return 0
	case a < 0.35:
		return '░'
	case a < 0.7:
		return '▒'
	default:
		return '█'
	}
}

// Clear blanks the screen to background c and resets the draw state.
func (s *CellSurface) Clear(c Color) {
	s.screen.Clear()
	s.screen.FillBackground(c)
	s.state = drawState{alpha: 1}
	s.stack = s.stack[:0]
}

// FillRect fills every cell whose area the rectangle covers.
func (s *CellSurface) FillRect(x, y, w, h float64, c Color) {
	r := s.glyph()
	if r == 0 || w <= 0 || h <= 0 {
		return
	}
	x0, y0 := s.toCell(x, y)
	x1, y1 := s.toCell(x+w, y+h)
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			s.screen.SetColored(cx, cy, r, c)
		}
	}
}

// StrokeRect outlines the rectangle with box-drawing characters.
func (s *CellSurface) StrokeRect(x, y, w, h float64, c Color) {
	if s.glyph() == 0 {
		return
	}
	x0, y0 := s.toCell(x, y)
	x1, y1 := s.toCell(x+w, y+h)
	x1 = Max(x1-1, x0)
	y1 = Max(y1-1, y0)

	for cx := x0; cx <= x1; cx++ {
		s.screen.SetColored(cx, y0, '─', c)
		s.screen.SetColored(cx, y1, '─', c)
	}
	for cy := y0; cy <= y1; cy++ {
		s.screen.SetColored(x0, cy, '│', c)
		s.screen.SetColored(x1, cy, '│', c)
	}
	s.screen.SetColored(x0, y0, '┌', c)
	s.screen.SetColored(x1, y0, '┐', c)
	s.screen.SetColored(x0, y1, '└', c)
	s.screen.SetColored(x1, y1, '┘', c)
}

// FillCircle fills cells whose centers lie inside the circle.
// Circles smaller than a cell still mark the cell containing the center.
func (s *CellSurface) FillCircle(cx, cy, r float64, c Color) {
	g := s.glyph()
	if g == 0 {
		return
	}
	if g == '█' && r*s.scaleX() < 1.5 {
		g = '●'
	}

	x0, y0 := s.toCell(cx-r, cy-r)
	x1, y1 := s.toCell(cx+r, cy+r)
	sx, sy := s.scaleX(), s.scaleY()
	drawn := false

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			wx := (float64(x)+0.5)/sx - s.state.tx
			wy := (float64(y)+0.5)/sy - s.state.ty
			dx, dy := wx-cx, wy-cy
			if dx*dx+dy*dy <= r*r {
				s.screen.SetColored(x, y, g, c)
				drawn = true
			}
		}
	}

	if !drawn {
		px, py := s.toCell(cx, cy)
		s.screen.SetColored(px, py, g, c)
	}
}

// Line draws a line between two world points using cell steps.
func (s *CellSurface) Line(x0, y0, x1, y1 float64, c Color) {
	if s.glyph() == 0 {
		return
	}
	ax, ay := s.toCell(x0, y0)
	bx, by := s.toCell(x1, y1)

	dx := Abs(bx - ax)
	dy := -Abs(by - ay)
	stepX, stepY := 1, 1
	if ax > bx {
		stepX = -1
	}
	if ay > by {
		stepY = -1
	}
	err := dx + dy

	for {
		s.screen.SetColored(ax, ay, '·', c)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ax += stepX
		}
		if e2 <= dx {
			err += dx
			ay += stepY
		}
	}
}

// Text writes s starting at the cell containing (x, y).
func (s *CellSurface) Text(x, y float64, text string, c Color) {
	if s.glyph() == 0 {
		return
	}
	cx, cy := s.toCell(x, y)
	s.screen.DrawTextColored(cx, cy, text, c)
}

// Save pushes the current draw state.
func (s *CellSurface) Save() {
	s.stack = append(s.stack, s.state)
}

// Restore pops the last saved draw state.
func (s *CellSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Translate offsets subsequent drawing.
func (s *CellSurface) Translate(dx, dy float64) {
	s.state.tx += dx
	s.state.ty += dy
}

// SetAlpha sets the opacity for subsequent drawing.
func (s *CellSurface) SetAlpha(a float64) {
	s.state.alpha = ClampF(a, 0, 1)
}

// TextWidth returns how many world units a string occupies on this surface.
func (s *CellSurface) TextWidth(text string) float64 {
	return float64(len([]rune(text))) / s.scaleX()
}

// TextMeasurer is implemented by surfaces that can measure text.
type TextMeasurer interface {
	TextWidth(text string) float64
}

// TextCentered draws text horizontally centered on cx when the surface can
// measure text, falling back to a fixed per-rune width otherwise.
func TextCentered(s Surface, cx, y float64, text string, c Color) {
	width := float64(len([]rune(text))) * 7
	if m, ok := s.(TextMeasurer); ok {
		width = m.TextWidth(text)
	}
	s.Text(cx-width/2, y, text, c)
}

// Ensure CellSurface implements Surface.
var _ Surface = (*CellSurface)(nil)
