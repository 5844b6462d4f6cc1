package isoscene

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// turnTween rotates a facing through the intermediate compass directions
// over a fixed duration, always along the shorter arc.
type turnTween struct {
	tween  *gween.Tween
	from   int
	target Direction
	onDone func()
	done   bool
}

func newTurnTween(from, to Direction, duration time.Duration, onDone func()) *turnTween {
	delta := TurnDelta(from, to)
	return &turnTween{
		tween:  gween.New(0, float32(delta), float32(duration.Seconds()), ease.Linear),
		from:   from.Angle(),
		target: to,
		onDone: onDone,
	}
}

// update advances the tween by dt seconds and returns the facing to show.
// finished is true once, on the step that lands on the target.
func (t *turnTween) update(dt float32) (dir Direction, finished bool) {
	if t.done {
		return t.target, false
	}
	offset, end := t.tween.Update(dt)
	if !end {
		return NearestDirection(float64(t.from) + float64(offset)), false
	}
	t.done = true
	return t.target, true
}
