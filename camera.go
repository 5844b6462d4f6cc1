package isoscene

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for both scroll axes.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera drives the projector scroll: immediate moves, eased scrolls and
// following a character.
type Camera struct {
	proj *Projector

	followTarget *Character
	followLerp   float64

	scrollTween *scrollAnim
}

func newCamera(p *Projector) *Camera {
	return &Camera{proj: p}
}

// Scroll returns the current scroll offset.
func (c *Camera) Scroll() (x, y float64) {
	return c.proj.ScrollX, c.proj.ScrollY
}

// SetScroll moves the view immediately and cancels any running scroll.
func (c *Camera) SetScroll(x, y float64) {
	c.scrollTween = nil
	c.proj.Scroll(x, y)
}

// ScrollTo animates the scroll offset to (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.proj.ScrollX), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.proj.ScrollY), float32(y), duration, easeFn),
	}
}

// ScrollToCell animates the view so that grid cell (col, row) lands on the
// projector origin.
func (c *Camera) ScrollToCell(col, row float64, duration float32, easeFn ease.TweenFunc) {
	x, y := c.centerScroll(col, row)
	c.ScrollTo(x, y, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// Follow keeps ch near the origin. A lerp of 1 snaps each tick; lower values
// trail behind. nil stops following.
func (c *Camera) Follow(ch *Character, lerp float64) {
	c.followTarget = ch
	c.followLerp = lerp
}

// Unfollow stops tracking the current character.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// update advances follow and scroll animation. Called from Scene.Tick.
func (c *Camera) update(dt float32) {
	if c.followTarget != nil && !c.followTarget.IsDisposed() {
		pos := c.followTarget.Pos()
		tx, ty := c.centerScroll(pos.X, pos.Y)
		x := c.proj.ScrollX + (tx-c.proj.ScrollX)*c.followLerp
		y := c.proj.ScrollY + (ty-c.proj.ScrollY)*c.followLerp
		c.proj.Scroll(x, y)
	}

	if c.scrollTween != nil {
		x, y := c.proj.ScrollX, c.proj.ScrollY
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			x = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			y = float64(val)
			c.scrollTween.doneY = done
		}
		c.proj.Scroll(x, y)
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}
}

// centerScroll solves for the scroll offset that projects (col, row, 0)
// exactly onto the origin. The scroll enters the projection both as a grid
// shift and a pixel shift, hence the 2x2 system.
func (c *Camera) centerScroll(col, row float64) (float64, float64) {
	hw := float64(c.proj.TileWidth) / 2
	qh := float64(c.proj.TileHeight) / 4
	a11, a12, b1 := 1+hw, -hw, -(col-row)*hw
	a21, a22, b2 := qh, 1+qh, -(col+row)*qh
	det := a11*a22 - a12*a21
	if det == 0 {
		return c.proj.ScrollX, c.proj.ScrollY
	}
	return (b1*a22 - a12*b2) / det, (a11*b2 - a21*b1) / det
}
