package isoscene

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// TriggerFunc is a per-character animation hook. Returning false vetoes the
// kind's default effect for that event (sound, mode revert).
type TriggerFunc func(c *Character) bool

// Behavior is the kind-specific reaction to mode changes and animation
// triggers. Hooks run only when the user trigger did not veto.
type Behavior interface {
	ModeChanged(c *Character, m Mode)
	Tick(c *Character, frameIndex float64)
	Begin(c *Character)
	Mid(c *Character)
	End(c *Character)
}

// SoundSpec declares a sound a kind needs loaded.
type SoundSpec struct {
	Name   string
	Path   string
	Volume float64
}

// Kind describes a character type: its modes, where its frames live, and how
// it reacts to its animations.
type Kind struct {
	// Tag keys the shared frame cache.
	Tag   string
	Modes *ModeSet

	// Pattern builds the frame path. For LayoutFiles it is formatted with the
	// mode asset key; for LayoutStrip with (asset, direction, frame count).
	Pattern string
	// ShadowPattern is empty for kinds without a shadow layer.
	ShadowPattern string
	Layout        FrameLayout

	DefaultScale float64
	ScaleY       float64
	// ScaleYFor overrides ScaleY per mode and facing when set.
	ScaleYFor func(m Mode, d Direction) float64
	// DirectionShift rotates file direction indices relative to Direction ordinals.
	DirectionShift int

	OffsetX, OffsetY float64
	Rank             int

	InitialMode      string
	InitialDirection Direction
	InitialSound     string
	Sounds           []SoundSpec

	Behavior Behavior
}

// HasShadow reports whether the kind carries a shadow layer.
func (k *Kind) HasShadow() bool {
	return k.ShadowPattern != ""
}

func (k *Kind) scaleY(m Mode, d Direction) float64 {
	if k.ScaleYFor != nil {
		return k.ScaleYFor(m, d)
	}
	if k.ScaleY == 0 {
		return 1
	}
	return k.ScaleY
}

func (k *Kind) path(pattern string, m Mode, fileDir int) string {
	if k.Layout == LayoutStrip {
		return fmt.Sprintf(pattern, m.Asset, fileDir, m.Frames)
	}
	return fmt.Sprintf(pattern, m.Asset)
}

// Resources are the collaborators a character loads from.
type Resources struct {
	Assets AssetProvider
	// Frames defaults to DefaultFrameCache.
	Frames *FrameCache
	Sounds SoundCache
}

func (r Resources) frames() *FrameCache {
	if r.Frames == nil {
		return DefaultFrameCache
	}
	return r.Frames
}

var characterIDCounter atomic.Uint32

// Character is an animated entity: one Animation per (mode, direction), a
// current mode and facing, a position, and trigger hooks. A Character is not
// safe for concurrent use; drive it from the tick goroutine.
type Character struct {
	id   uint32
	kind *Kind
	res  Resources

	key   VariantKey
	table *FrameTable
	anims [][]*Animation
	speed []float64

	mode, savedMode   Mode
	sound, savedSound string
	dir               Direction
	turn              *turnTween

	pos, shadow      GridPos
	offsetX, offsetY float64
	scale            float64
	tint             *Color
	brightness       float64
	alpha            float64

	onBegin, onMid, onEnd, onTick TriggerFunc

	events   EventStore
	disposed bool
}

// NewCharacter builds a character of the given kind. scale <= 0 selects the
// kind's default. Every animation is built up front; missing frame files
// leave nil frames that are skipped when drawing.
func NewCharacter(kind *Kind, res Resources, scale float64, tint *Color) *Character {
	if kind == nil || kind.Modes == nil || kind.Modes.Len() == 0 {
		panic("isoscene: character kind needs a mode set")
	}
	if scale <= 0 {
		scale = kind.DefaultScale
	}
	if scale <= 0 {
		scale = 1
	}
	c := &Character{
		id:      characterIDCounter.Add(1),
		kind:    kind,
		res:     res,
		offsetX: kind.OffsetX,
		offsetY: kind.OffsetY,
		scale:   scale,
		tint:    tint,
		alpha:   1,
		dir:     kind.InitialDirection,
		sound:   kind.InitialSound,
		speed:   make([]float64, kind.Modes.Len()),
	}
	for i, m := range kind.Modes.All() {
		c.speed[i] = m.Speed
	}
	if kind.InitialMode != "" {
		c.mode = kind.Modes.MustLookup(kind.InitialMode)
	} else {
		c.mode = kind.Modes.At(0)
	}
	c.savedMode = c.mode
	c.savedSound = c.sound

	c.loadSounds()
	c.key = variantKey(kind.Tag, scale, tint)
	c.table = res.frames().Acquire(c.key, c.loadTable)
	c.buildAnimations()
	return c
}

func (c *Character) loadSounds() {
	if c.res.Sounds == nil {
		return
	}
	for _, s := range c.kind.Sounds {
		if err := c.res.Sounds.LoadIfAbsent(s.Name, s.Path, s.Volume); err != nil {
			log.Printf("isoscene: %s: sound %s: %v", c.kind.Tag, s.Name, err)
		}
	}
}

// loadTable asks the asset provider for every sequence of the variant.
func (c *Character) loadTable() *FrameTable {
	k := c.kind
	t := &FrameTable{Sets: make([][]FrameSet, k.Modes.Len())}
	for _, m := range k.Modes.All() {
		row := make([]FrameSet, numDirections)
		for _, d := range Directions {
			if m.Turn != TurnNone && d != Directions[0] {
				continue
			}
			fileDir := (int(d) + k.DirectionShift) % numDirections
			req := FrameRequest{
				Path:      k.path(k.Pattern, m, fileDir),
				Layout:    k.Layout,
				Frames:    m.Frames,
				Direction: fileDir,
				Turn:      m.Turn,
				Scale:     c.scale,
				ScaleY:    k.scaleY(m, d),
				Tint:      c.tint,
			}
			row[d].Frames = c.loadFrames(req)
			if k.HasShadow() {
				req.Path = k.path(k.ShadowPattern, m, fileDir)
				req.Tint = nil
				row[d].Shadows = c.loadFrames(req)
			}
		}
		t.Sets[m.Ordinal()] = row
	}
	if globalDebug {
		log.Printf("isoscene: loaded %s variant scale=%.2f: %d images", k.Tag, c.scale, t.imageCount())
	}
	return t
}

func (c *Character) loadFrames(req FrameRequest) []*ebiten.Image {
	if c.res.Assets == nil {
		return make([]*ebiten.Image, req.Len())
	}
	return fitFrames(c.res.Assets.LoadFrames(req), req.Len(), req.Path)
}

func (c *Character) buildAnimations() {
	modes := c.kind.Modes
	c.anims = make([][]*Animation, modes.Len())
	for _, m := range modes.All() {
		row := make([]*Animation, numDirections)
		for _, d := range Directions {
			if m.Turn != TurnNone && d != Directions[0] {
				continue
			}
			row[d] = NewAnimation(c.table.Sets[m.Ordinal()][d], m.SequenceLen(), m.Loop, c.speed[m.Ordinal()])
		}
		c.anims[m.Ordinal()] = row
	}
}

// ID returns the character's process-unique identifier.
func (c *Character) ID() uint32 { return c.id }

// Kind returns the character's kind.
func (c *Character) Kind() *Kind { return c.kind }

// Mode returns the current mode.
func (c *Character) Mode() Mode { return c.mode }

// SavedMode returns the mode active before the last SetMode.
func (c *Character) SavedMode() Mode { return c.savedMode }

// ModeIs reports whether the current mode has the given name.
func (c *Character) ModeIs(name string) bool { return c.mode.Name == name }

// Direction returns the current facing.
func (c *Character) Direction() Direction { return c.dir }

// Animation returns the animation for a mode ordinal and facing. It returns
// nil for slots a turn mode does not use and panics outside the table.
func (c *Character) Animation(mode int, d Direction) *Animation {
	if mode < 0 || mode >= len(c.anims) {
		panic(fmt.Sprintf("isoscene: %s has no mode ordinal %d", c.kind.Tag, mode))
	}
	if int(d) >= numDirections {
		panic(fmt.Sprintf("isoscene: %s: invalid direction %d", c.kind.Tag, d))
	}
	return c.anims[mode][d]
}

// CurrentAnimation returns the animation selected by the current mode and
// facing. Turn modes always play their single sweep sequence.
func (c *Character) CurrentAnimation() *Animation {
	if c.mode.IsZero() || c.anims == nil {
		return nil
	}
	d := c.dir
	if c.mode.Turn != TurnNone {
		d = Directions[0]
	}
	return c.Animation(c.mode.Ordinal(), d)
}

// SetMode switches to m, remembering the previous mode and sound, applies the
// kind's secondary effects and rewinds the new animation to frame 0.
func (c *Character) SetMode(m Mode) {
	c.checkMode(m)
	c.savedMode = c.mode
	c.mode = m
	c.savedSound = c.sound
	if c.kind.Behavior != nil {
		c.kind.Behavior.ModeChanged(c, m)
	}
	if a := c.CurrentAnimation(); a != nil {
		a.Reset()
	}
}

// checkMode panics unless m is one of the kind's declared modes.
func (c *Character) checkMode(m Mode) {
	if m.IsZero() || m.Ordinal() >= c.kind.Modes.Len() || c.kind.Modes.At(m.Ordinal()).Name != m.Name {
		panic(fmt.Sprintf("isoscene: mode %q is not declared by %s", m.Name, c.kind.Tag))
	}
}

// SetModeByName is SetMode for a mode name.
func (c *Character) SetModeByName(name string) error {
	m, ok := c.kind.Modes.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s has no mode %q", ErrUnknownMode, c.kind.Tag, name)
	}
	c.SetMode(m)
	return nil
}

// RevertMode restores the mode and sound saved by the last SetMode without
// rewinding the restored animation.
func (c *Character) RevertMode() {
	c.mode = c.savedMode
	c.sound = c.savedSound
}

// Sound returns the sound played by the kind's default effects.
func (c *Character) Sound() string { return c.sound }

// SetSound selects the sound played by the kind's default effects.
func (c *Character) SetSound(name string) { c.sound = name }

// PlaySound plays a sound through the character's sound cache, if any.
func (c *Character) PlaySound(name string) {
	if c.res.Sounds != nil && name != "" {
		c.res.Sounds.Play(name)
	}
}

// SetDirection sets the facing immediately and cancels any running turn.
func (c *Character) SetDirection(d Direction) {
	c.turn = nil
	c.dir = d
}

// SetDirectionByName is SetDirection for a direction name.
func (c *Character) SetDirectionByName(name string) error {
	d, err := ParseDirection(name)
	if err != nil {
		return err
	}
	c.SetDirection(d)
	return nil
}

// TurnTo rotates toward d over duration, stepping through the intermediate
// facings along the shorter arc. onDone runs once the target is reached.
// When already facing d, onDone runs immediately.
func (c *Character) TurnTo(d Direction, duration time.Duration, onDone func()) {
	if TurnDelta(c.dir, d) == 0 || duration <= 0 {
		c.SetDirection(d)
		if onDone != nil {
			onDone()
		}
		return
	}
	c.turn = newTurnTween(c.dir, d, duration, onDone)
}

// Turning reports whether a TurnTo rotation is in progress.
func (c *Character) Turning() bool { return c.turn != nil }

// Update advances the turn tween by dt and ticks the current animation.
func (c *Character) Update(dt time.Duration) {
	if c.disposed {
		return
	}
	if c.turn != nil {
		d, finished := c.turn.update(float32(dt.Seconds()))
		c.dir = d
		if finished {
			done := c.turn.onDone
			c.turn = nil
			if done != nil {
				done()
			}
		}
	}
	if a := c.CurrentAnimation(); a != nil {
		a.Tick(c)
	}
}

// SetPosition places the character, applying its offset. Kinds with a shadow
// move the shadow along.
func (c *Character) SetPosition(x, y, z float64) {
	c.pos = GridPos{x + c.offsetX, y + c.offsetY, z}
	if c.kind.HasShadow() {
		c.shadow = c.pos
	}
}

// SetShadowPosition places the shadow independently of the sprite.
func (c *Character) SetShadowPosition(x, y, z float64) error {
	if !c.kind.HasShadow() {
		return fmt.Errorf("isoscene: %s shadow position: %w", c.kind.Tag, ErrNotSupported)
	}
	c.shadow = GridPos{x + c.offsetX, y + c.offsetY, z}
	return nil
}

// SetOffset changes the grid offset applied by subsequent position updates.
func (c *Character) SetOffset(x, y float64) {
	c.offsetX = x
	c.offsetY = y
}

// SetBrightness scales sprite colors at draw time. 0 disables the adjustment.
func (c *Character) SetBrightness(b float64) { c.brightness = b }

// SetAlpha sets sprite opacity.
func (c *Character) SetAlpha(a float64) { c.alpha = a }

// SetScale re-derives the image set for a new scale. No-op when unchanged.
func (c *Character) SetScale(scale float64) {
	c.rederive(scale, c.tint)
}

// SetColor re-derives the image set for a new tint. nil removes the tint.
// No-op when the variant is unchanged.
func (c *Character) SetColor(tint *Color) {
	c.rederive(c.scale, tint)
}

func (c *Character) rederive(scale float64, tint *Color) {
	key := variantKey(c.kind.Tag, scale, tint)
	if key == c.key || c.disposed {
		return
	}
	old := c.key
	c.scale = scale
	c.tint = tint
	c.key = key
	c.table = c.res.frames().Acquire(key, c.loadTable)
	c.res.frames().Release(old)
	c.buildAnimations()
	if a := c.CurrentAnimation(); a != nil {
		a.Reset()
	}
}

// Scale returns the current scale.
func (c *Character) Scale() float64 { return c.scale }

// Variant returns the cache key of the current image set.
func (c *Character) Variant() VariantKey { return c.key }

// SetSpeed changes the playback speed of every facing of a mode.
func (c *Character) SetSpeed(m Mode, speed float64) {
	c.checkMode(m)
	c.speed[m.Ordinal()] = speed
	for _, a := range c.anims[m.Ordinal()] {
		if a != nil {
			a.SetSpeed(speed)
		}
	}
}

// FrameIndex returns the current animation's frame index.
func (c *Character) FrameIndex() float64 {
	if a := c.CurrentAnimation(); a != nil {
		return a.FrameIndex()
	}
	return 0
}

// ResetAnimation rewinds the current animation.
func (c *Character) ResetAnimation() {
	if a := c.CurrentAnimation(); a != nil {
		a.Reset()
	}
}

// SetBeginTrigger sets the hook fired on frame 0.
func (c *Character) SetBeginTrigger(fn TriggerFunc) { c.onBegin = fn }

// SetMidTrigger sets the hook fired on the middle frame.
func (c *Character) SetMidTrigger(fn TriggerFunc) { c.onMid = fn }

// SetEndTrigger sets the hook fired on the last frame.
func (c *Character) SetEndTrigger(fn TriggerFunc) { c.onEnd = fn }

// SetTickTrigger sets the hook fired on every integer frame.
func (c *Character) SetTickTrigger(fn TriggerFunc) { c.onTick = fn }

// TickTrigger implements Triggers.
func (c *Character) TickTrigger(frameIndex float64) bool {
	c.emit(TriggerTick, frameIndex)
	if c.onTick != nil && !c.onTick(c) {
		return false
	}
	if c.kind.Behavior != nil {
		c.kind.Behavior.Tick(c, frameIndex)
	}
	return true
}

// BeginTrigger implements Triggers.
func (c *Character) BeginTrigger() bool {
	c.emit(TriggerBegin, 0)
	if c.onBegin != nil && !c.onBegin(c) {
		return false
	}
	if c.kind.Behavior != nil {
		c.kind.Behavior.Begin(c)
	}
	return true
}

// MidTrigger implements Triggers.
func (c *Character) MidTrigger() bool {
	c.emit(TriggerMid, c.FrameIndex())
	if c.onMid != nil && !c.onMid(c) {
		return false
	}
	if c.kind.Behavior != nil {
		c.kind.Behavior.Mid(c)
	}
	return true
}

// EndTrigger implements Triggers.
func (c *Character) EndTrigger() bool {
	c.emit(TriggerEnd, c.FrameIndex())
	if c.onEnd != nil && !c.onEnd(c) {
		return false
	}
	if c.kind.Behavior != nil {
		c.kind.Behavior.End(c)
	}
	return true
}

func (c *Character) emit(t TriggerType, frameIndex float64) {
	if c.events == nil {
		return
	}
	c.events.EmitTrigger(TriggerEvent{
		Type:        t,
		CharacterID: c.id,
		Kind:        c.kind.Tag,
		Mode:        c.mode.Name,
		FrameIndex:  frameIndex,
	})
}

// Dispose releases the character's frame table. The character must not be
// used afterwards.
func (c *Character) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.res.frames().Release(c.key)
	c.table = nil
	c.anims = nil
	c.turn = nil
	c.events = nil
	c.onBegin, c.onMid, c.onEnd, c.onTick = nil, nil, nil, nil
}

// IsDisposed reports whether Dispose was called.
func (c *Character) IsDisposed() bool { return c.disposed }

// --- Renderable ---

// Pos returns the sprite position including the offset.
func (c *Character) Pos() GridPos { return c.pos }

// ShadowPos returns the shadow position.
func (c *Character) ShadowPos() GridPos { return c.shadow }

// IsoDepth is x+y without the sprite offset.
func (c *Character) IsoDepth() float64 {
	return c.pos.X - c.offsetX + c.pos.Y - c.offsetY
}

// RenderType implements Renderable.
func (c *Character) RenderType() RenderType { return RenderConstruction }

// Rank implements Renderable.
func (c *Character) Rank() int { return c.kind.Rank }

// Draw renders the shadow, then the sprite. Missing frames are skipped.
func (c *Character) Draw(dst *ebiten.Image, p *Projector) {
	a := c.CurrentAnimation()
	if a == nil {
		return
	}
	var op ebiten.DrawImageOptions
	if shadow := a.CurrentShadow(); shadow != nil {
		drawSprite(dst, p, c.shadow, shadow, RenderConstruction, c.alpha, c.brightness, &op)
	}
	if frame := a.CurrentFrame(); frame != nil {
		drawSprite(dst, p, c.pos, frame, RenderConstruction, c.alpha, c.brightness, &op)
	}
}

// SetEventStore routes this character's trigger events to es. nil detaches.
func (c *Character) SetEventStore(es EventStore) { c.events = es }
