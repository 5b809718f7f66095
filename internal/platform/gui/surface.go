// Package gui hosts games in a desktop window with Ebitengine.
package gui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// palette maps core colors to RGB. ColorDefault draws white.
var palette = map[core.Color]color.RGBA{
	core.ColorDefault:       {230, 230, 230, 255},
	core.ColorRed:           {200, 40, 40, 255},
	core.ColorGreen:         {60, 170, 60, 255},
	core.ColorYellow:        {240, 200, 40, 255},
	core.ColorBlue:          {80, 160, 230, 255},
	core.ColorMagenta:       {190, 60, 190, 255},
	core.ColorCyan:          {60, 190, 200, 255},
	core.ColorWhite:         {230, 230, 230, 255},
	core.ColorBrightRed:     {255, 80, 80, 255},
	core.ColorBrightGreen:   {110, 220, 90, 255},
	core.ColorBrightYellow:  {255, 230, 90, 255},
	core.ColorBrightBlue:    {120, 190, 255, 255},
	core.ColorBrightMagenta: {255, 120, 255, 255},
	core.ColorBrightCyan:    {140, 235, 240, 255},
	core.ColorBrightWhite:   {255, 255, 255, 255},
	core.ColorOrange:        {245, 140, 30, 255},
	core.ColorGray:          {140, 140, 140, 255},
	core.ColorBrown:         {140, 90, 40, 255},
	core.ColorBlack:         {10, 10, 10, 255},
}

// rgba resolves c at opacity alpha.
func rgba(c core.Color, alpha float64) color.NRGBA {
	p, ok := palette[c]
	if !ok {
		p = palette[core.ColorDefault]
	}
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: uint8(math.Round(core.ClampF(alpha, 0, 1) * 255))}
}

// painter is the pixel-space backend behind ImageSurface.
type painter interface {
	FillRect(x, y, w, h float32, c color.Color)
	StrokeRect(x, y, w, h float32, c color.Color)
	FillCircle(cx, cy, r float32, c color.Color)
	Line(x0, y0, x1, y1 float32, c color.Color)
	Text(s string, x, y int, c color.Color)
	TextWidth(s string) float64
}

// imagePainter draws onto an ebiten image with vector shapes and the
// basicfont bitmap face.
type imagePainter struct {
	dst  *ebiten.Image
	face font.Face
}

func (p imagePainter) FillRect(x, y, w, h float32, c color.Color) {
	vector.DrawFilledRect(p.dst, x, y, w, h, c, false)
}

func (p imagePainter) StrokeRect(x, y, w, h float32, c color.Color) {
	vector.StrokeRect(p.dst, x, y, w, h, 1, c, false)
}

func (p imagePainter) FillCircle(cx, cy, r float32, c color.Color) {
	vector.DrawFilledCircle(p.dst, cx, cy, r, c, true)
}

func (p imagePainter) Line(x0, y0, x1, y1 float32, c color.Color) {
	vector.StrokeLine(p.dst, x0, y0, x1, y1, 1, c, true)
}

// Text draws s with its top-left corner at (x, y).
func (p imagePainter) Text(s string, x, y int, c color.Color) {
	text.Draw(p.dst, s, p.face, x, y+p.face.Metrics().Ascent.Ceil(), c)
}

func (p imagePainter) TextWidth(s string) float64 {
	return float64(font.MeasureString(p.face, s).Ceil())
}

// drawState is the transform pushed by Save.
type drawState struct {
	tx, ty float64
	alpha  float64
}

// ImageSurface is a core.Surface in window pixels. World units map to
// pixels at scale.
type ImageSurface struct {
	p      painter
	worldW float64
	worldH float64
	scale  float64
	state  drawState
	stack  []drawState
}

// NewImageSurface wraps dst for a world of the given size. dst is expected
// to be sized worldW*scale by worldH*scale.
func NewImageSurface(dst *ebiten.Image, worldW, worldH, scale float64) *ImageSurface {
	return newSurface(imagePainter{dst: dst, face: basicfont.Face7x13}, worldW, worldH, scale)
}

func newSurface(p painter, worldW, worldH, scale float64) *ImageSurface {
	if scale <= 0 {
		scale = 1
	}
	return &ImageSurface{p: p, worldW: worldW, worldH: worldH, scale: scale, state: drawState{alpha: 1}}
}

// Size returns the world size.
func (s *ImageSurface) Size() (float64, float64) {
	return s.worldW, s.worldH
}

func (s *ImageSurface) px(x, y float64) (float32, float32) {
	return float32((x + s.state.tx) * s.scale), float32((y + s.state.ty) * s.scale)
}

func (s *ImageSurface) size(v float64) float32 {
	return float32(v * s.scale)
}

func (s *ImageSurface) visible() bool {
	return s.state.alpha > 0
}

// Clear paints the whole world with c and resets the draw state.
func (s *ImageSurface) Clear(c core.Color) {
	s.state = drawState{alpha: 1}
	s.stack = s.stack[:0]
	s.p.FillRect(0, 0, s.size(s.worldW), s.size(s.worldH), rgba(c, 1))
}

func (s *ImageSurface) FillRect(x, y, w, h float64, c core.Color) {
	if !s.visible() || w <= 0 || h <= 0 {
		return
	}
	px, py := s.px(x, y)
	s.p.FillRect(px, py, s.size(w), s.size(h), rgba(c, s.state.alpha))
}

func (s *ImageSurface) StrokeRect(x, y, w, h float64, c core.Color) {
	if !s.visible() {
		return
	}
	px, py := s.px(x, y)
	s.p.StrokeRect(px, py, s.size(w), s.size(h), rgba(c, s.state.alpha))
}

func (s *ImageSurface) FillCircle(cx, cy, r float64, c core.Color) {
	if !s.visible() || r <= 0 {
		return
	}
	px, py := s.px(cx, cy)
	s.p.FillCircle(px, py, s.size(r), rgba(c, s.state.alpha))
}

func (s *ImageSurface) Line(x0, y0, x1, y1 float64, c core.Color) {
	if !s.visible() {
		return
	}
	ax, ay := s.px(x0, y0)
	bx, by := s.px(x1, y1)
	s.p.Line(ax, ay, bx, by, rgba(c, s.state.alpha))
}

// Text draws str with its top-left corner at (x, y).
func (s *ImageSurface) Text(x, y float64, str string, c core.Color) {
	if !s.visible() {
		return
	}
	px, py := s.px(x, y)
	s.p.Text(str, int(math.Round(float64(px))), int(math.Round(float64(py))), rgba(c, s.state.alpha))
}

// TextWidth returns the rendered width of str in world units.
func (s *ImageSurface) TextWidth(str string) float64 {
	return s.p.TextWidth(str) / s.scale
}

func (s *ImageSurface) Save() {
	s.stack = append(s.stack, s.state)
}

func (s *ImageSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *ImageSurface) Translate(dx, dy float64) {
	s.state.tx += dx
	s.state.ty += dy
}

func (s *ImageSurface) SetAlpha(a float64) {
	s.state.alpha = core.ClampF(a, 0, 1)
}

var (
	_ core.Surface      = (*ImageSurface)(nil)
	_ core.TextMeasurer = (*ImageSurface)(nil)
)
