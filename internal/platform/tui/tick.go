// Package tui hosts games in the terminal with Bubble Tea.
// It drives the game's frame scheduler from tea.Tick, maps keys and focus
// events onto game actions and lifecycle hooks, and renders the cell screen.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// TickMsg is one display refresh for the scheduler with the same ID.
type TickMsg struct {
	ID   int64
	Time time.Time
}

var lastSchedulerID atomic.Int64

// tickCmd returns a Bubble Tea command that sends a tick after one frame.
func tickCmd(id int64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}

// frameScheduler is the host side of core.Scheduler. Games request the
// next frame; the model fires pending requests on every TickMsg and only
// keeps tea.Tick running while something is pending. Ticks addressed to
// another scheduler, or arriving when none is in flight, are dropped.
type frameScheduler struct {
	*core.ManualScheduler
	id       int64
	tickRate int
	ticking  bool
}

func newFrameScheduler(tickRate int) *frameScheduler {
	return &frameScheduler{
		ManualScheduler: core.NewManualScheduler(),
		id:              lastSchedulerID.Add(1),
		tickRate:        tickRate,
	}
}

// arm starts tea.Tick if a frame is pending and no tick is in flight.
func (s *frameScheduler) arm() tea.Cmd {
	if s.ticking || s.Pending() == 0 {
		return nil
	}
	s.ticking = true
	return tickCmd(s.id, s.tickRate)
}

// fire runs pending callbacks for msg and re-arms.
func (s *frameScheduler) fire(msg TickMsg) tea.Cmd {
	if msg.ID != s.id || !s.ticking {
		return nil
	}
	s.ticking = false
	s.Fire(msg.Time)
	return s.arm()
}
