package isoscene

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameSet is the image sequence for one (mode, direction) pair, with an
// optional parallel shadow sequence. nil entries are missing assets and are
// skipped at draw time.
type FrameSet struct {
	Frames  []*ebiten.Image
	Shadows []*ebiten.Image
}

// Triggers receives the edge-fired animation callbacks. Each returns whether
// the event was consumed; Animation itself ignores the result.
type Triggers interface {
	TickTrigger(frameIndex float64) bool
	BeginTrigger() bool
	MidTrigger() bool
	EndTrigger() bool
}

// Animation plays one FrameSet. The frame index is fractional so playback
// speeds below or above one frame per tick work; callbacks fire on integer
// frame crossings only.
type Animation struct {
	set       FrameSet
	count     int
	mid       int
	loop      bool
	frozen    bool
	speed     float64
	index     float64
	lastFrame int
}

// NewAnimation creates an animation over count frames starting at a random
// phase. Call Reset to start from frame 0.
func NewAnimation(set FrameSet, count int, loop bool, speed float64) *Animation {
	a := newAnimation(set, count, loop, speed)
	if count > 0 {
		a.index = float64(rand.IntN(count))
	}
	return a
}

func newAnimation(set FrameSet, count int, loop bool, speed float64) *Animation {
	if count <= 0 {
		panic("isoscene: animation needs at least one frame")
	}
	return &Animation{
		set:       set,
		count:     count,
		mid:       count / 2,
		loop:      loop,
		speed:     speed,
		lastFrame: -1,
	}
}

// Tick fires due callbacks on owner for the current frame, then advances by
// the playback speed. Non-looping animations freeze on their last frame.
func (a *Animation) Tick(owner Triggers) {
	if a.frozen {
		return
	}
	cur := int(roundHalfUp(a.index))
	if cur != a.lastFrame {
		a.lastFrame = cur
		owner.TickTrigger(a.index)
	}
	if cur == 0 {
		owner.BeginTrigger()
	}
	if cur == a.mid {
		owner.MidTrigger()
	}
	if cur == a.count-1 {
		owner.EndTrigger()
	}

	a.index += a.speed
	if a.index >= float64(a.count) {
		if a.loop {
			a.index = 0
			a.lastFrame = -1
		} else {
			a.index = float64(a.count - 1)
			a.frozen = true
		}
	}
}

// Reset rewinds to frame 0 and unfreezes.
func (a *Animation) Reset() {
	a.index = 0
	a.frozen = false
	a.lastFrame = -1
}

// LastFrame seeks to the final frame and freezes without firing callbacks.
func (a *Animation) LastFrame() {
	a.index = float64(a.count - 1)
	a.frozen = true
}

// CurrentFrame returns the image at the truncated frame index, or nil.
func (a *Animation) CurrentFrame() *ebiten.Image {
	return frameAt(a.set.Frames, int(a.index))
}

// CurrentShadow returns the shadow at the truncated frame index, or nil when
// the set has no shadow layer.
func (a *Animation) CurrentShadow() *ebiten.Image {
	return frameAt(a.set.Shadows, int(a.index))
}

func frameAt(frames []*ebiten.Image, i int) *ebiten.Image {
	if i < 0 || i >= len(frames) {
		return nil
	}
	return frames[i]
}

// SetSpeed changes the number of frames advanced per tick.
func (a *Animation) SetSpeed(speed float64) {
	a.speed = speed
}

// Speed returns the playback speed.
func (a *Animation) Speed() float64 { return a.speed }

// FrameIndex returns the fractional frame index.
func (a *Animation) FrameIndex() float64 { return a.index }

// Frozen reports whether a non-looping animation has finished.
func (a *Animation) Frozen() bool { return a.frozen }

// Len returns the frame count.
func (a *Animation) Len() int { return a.count }

// Loop reports whether the animation wraps around.
func (a *Animation) Loop() bool { return a.loop }
