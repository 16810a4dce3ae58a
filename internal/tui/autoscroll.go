package tui

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const scrollFPS = 60

// scrollTickMsg advances a smooth scroll by one frame
type scrollTickMsg time.Time

func scrollTick() tea.Cmd {
	return tea.Tick(time.Second/scrollFPS, func(t time.Time) tea.Msg {
		return scrollTickMsg(t)
	})
}

// autoscroller keeps the newest transcript line visible. Appends and turn
// transitions only mark it dirty; the model calls Follow once per update.
// With smoothing the offset travels along a harmonica spring, otherwise it
// snaps to the bottom.
type autoscroller struct {
	smooth    bool
	spring    harmonica.Spring
	pos       float64
	vel       float64
	animating bool
	dirty     bool
}

func newAutoscroller(smooth bool) *autoscroller {
	return &autoscroller{
		smooth: smooth,
		spring: harmonica.NewSpring(harmonica.FPS(scrollFPS), 8.0, 1.0),
	}
}

// request marks that the transcript changed
func (a *autoscroller) request() {
	a.dirty = true
}

// Pending reports whether a change is waiting for Follow
func (a *autoscroller) Pending() bool {
	return a.dirty
}

// bottomOffset is the y offset that shows the last line at the bottom edge
func bottomOffset(vp *viewport.Model) int {
	return max(0, vp.TotalLineCount()-vp.Height)
}

// Follow moves vp toward the bottom. It does nothing when the viewport is
// already there, and returns a tick command while a smooth scroll runs.
func (a *autoscroller) Follow(vp *viewport.Model) tea.Cmd {
	a.dirty = false
	target := bottomOffset(vp)

	if vp.YOffset == target && !a.animating {
		return nil
	}
	if !a.smooth {
		vp.SetYOffset(target)
		return nil
	}
	if a.animating {
		return nil
	}

	a.pos = float64(vp.YOffset)
	a.vel = 0
	a.animating = true
	return scrollTick()
}

// Step advances a smooth scroll by one frame
func (a *autoscroller) Step(vp *viewport.Model) tea.Cmd {
	if !a.animating {
		return nil
	}

	// The transcript may have grown since the scroll started
	target := float64(bottomOffset(vp))
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, target)

	if math.Abs(target-a.pos) < 0.5 && math.Abs(a.vel) < 0.5 {
		vp.SetYOffset(int(target))
		a.animating = false
		return nil
	}

	vp.SetYOffset(int(math.Round(a.pos)))
	return scrollTick()
}

// Stop abandons a running smooth scroll, e.g. when the user scrolls by hand
func (a *autoscroller) Stop() {
	a.animating = false
	a.vel = 0
}
