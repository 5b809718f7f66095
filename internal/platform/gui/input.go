package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// keyBindings maps window keys to game actions, checked in order.
var keyBindings = []struct {
	keys   []ebiten.Key
	action core.Action
}{
	{[]ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp}, core.ActionTap},
	{[]ebiten.Key{ebiten.KeyEnter}, core.ActionConfirm},
	{[]ebiten.Key{ebiten.KeyP}, core.ActionPause},
	{[]ebiten.Key{ebiten.KeyR}, core.ActionRestart},
	{[]ebiten.Key{ebiten.KeyM}, core.ActionMute},
	{[]ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}, core.ActionQuit},
}

// frameInput is what the window reported for one Update.
type frameInput struct {
	actions []core.Action
	focused bool
	closing bool
}

// inputSource polls the window once per Update.
type inputSource interface {
	Poll() frameInput
}

// ebitenInput reads keys, clicks and touches from Ebitengine.
type ebitenInput struct {
	touches []ebiten.TouchID
}

// Poll collects the actions pressed since the last Update.
func (in *ebitenInput) Poll() frameInput {
	f := frameInput{
		actions: mapKeys(inpututil.IsKeyJustPressed),
		focused: ebiten.IsFocused(),
		closing: ebiten.IsWindowBeingClosed(),
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		f.actions = append(f.actions, core.ActionTap)
	}
	in.touches = inpututil.AppendJustPressedTouchIDs(in.touches[:0])
	if len(in.touches) > 0 {
		f.actions = append(f.actions, core.ActionTap)
	}
	return f
}

// mapKeys returns one action per binding whose key was just pressed.
func mapKeys(justPressed func(ebiten.Key) bool) []core.Action {
	var out []core.Action
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if justPressed(k) {
				out = append(out, b.action)
				break
			}
		}
	}
	return out
}
