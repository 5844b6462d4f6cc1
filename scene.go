package isoscene

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrUnknownTile is returned when a tile code has no registered template.
var ErrUnknownTile = errors.New("isoscene: unknown tile code")

// Host is notified after every tick that the scene needs redrawing.
type Host interface {
	RequestRepaint()
}

// Window defaults.
const (
	DefaultWidth    = 1024
	DefaultHeight   = 665
	DefaultTileSize = 100
	DefaultTPS      = 50
)

// SceneConfig configures NewScene. Zero fields take the defaults above.
type SceneConfig struct {
	Width, Height int
	TileSize      int
	// TPS is the tick rate; Tick advances turn and scroll tweens by 1/TPS.
	TPS int
	// Sheets is the tile registry. nil creates an empty one.
	Sheets *Sheets
	Host   Host
	Events EventStore
}

// tileSet is an insertion-ordered set of tiles keyed by (code, x, y, z).
// Re-adding a key replaces the tile in place.
type tileSet struct {
	tiles []*Tile
	index map[tileKey]int
}

func newTileSet() tileSet {
	return tileSet{index: make(map[tileKey]int)}
}

func (ts *tileSet) put(t *Tile) {
	k := t.key()
	if i, ok := ts.index[k]; ok {
		ts.tiles[i] = t
		return
	}
	ts.index[k] = len(ts.tiles)
	ts.tiles = append(ts.tiles, t)
}

func (ts *tileSet) remove(k tileKey) bool {
	i, ok := ts.index[k]
	if !ok {
		return false
	}
	ts.tiles = slices.Delete(ts.tiles, i, i+1)
	delete(ts.index, k)
	for j := i; j < len(ts.tiles); j++ {
		ts.index[ts.tiles[j].key()] = j
	}
	return true
}

func (ts *tileSet) clear() {
	ts.tiles = ts.tiles[:0]
	clear(ts.index)
}

func (ts *tileSet) get(k tileKey) (*Tile, bool) {
	i, ok := ts.index[k]
	if !ok {
		return nil, false
	}
	return ts.tiles[i], true
}

// Scene owns the ground tiles, static objects and characters of one board,
// ticks their animations and composites them depth-sorted.
//
// Collections may be mutated from any goroutine; Tick and Draw iterate
// copies taken under the same lock. Characters themselves are only touched
// by Tick, so mutate them from the tick goroutine (a Host callback or the
// game's Update).
type Scene struct {
	mu         sync.Mutex
	ground     tileSet
	objects    tileSet
	characters []*Character
	background []bgShape

	proj   *Projector
	camera *Camera
	sheets *Sheets
	width  int
	height int
	tps    int
	host   Host
	events EventStore
	debug  bool
	update func() error

	// Draw state, touched only by Draw.
	items   []drawItem
	sortBuf []drawItem
	shapes  shapeBatch
}

// NewScene creates an empty scene with the projector origin at (w/2, h/4).
func NewScene(cfg SceneConfig) *Scene {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.TileSize <= 0 {
		cfg.TileSize = DefaultTileSize
	}
	if cfg.TPS <= 0 {
		cfg.TPS = DefaultTPS
	}
	if cfg.Sheets == nil {
		cfg.Sheets = NewSheets()
	}
	proj := NewProjector(cfg.TileSize, float64(cfg.Width/2), float64(cfg.Height/4))
	return &Scene{
		ground:  newTileSet(),
		objects: newTileSet(),
		proj:    proj,
		camera:  newCamera(proj),
		sheets:  cfg.Sheets,
		width:   cfg.Width,
		height:  cfg.Height,
		tps:     cfg.TPS,
		host:    cfg.Host,
		events:  cfg.Events,
	}
}

// Projector returns the scene projector.
func (s *Scene) Projector() *Projector { return s.proj }

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Sheets returns the tile registry.
func (s *Scene) Sheets() *Sheets { return s.sheets }

// Size returns the viewport size.
func (s *Scene) Size() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// TPS returns the tick rate.
func (s *Scene) TPS() int { return s.tps }

// SetHost sets the repaint listener.
func (s *Scene) SetHost(h Host) {
	s.mu.Lock()
	s.host = h
	s.mu.Unlock()
}

// SetEventStore routes trigger events of current and future characters to es.
func (s *Scene) SetEventStore(es EventStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = es
	for _, c := range s.characters {
		c.SetEventStore(es)
	}
}

// SetUpdateFunc sets a callback run by Run before every Tick. Returning an
// error stops the game loop; ebiten.Termination ends it cleanly.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.update = fn
}

// SetDebugMode enables or disables debug mode. When enabled, missing assets
// are logged and per-frame timing stats are printed to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that asset
// and character code (which lack a Scene pointer) can check it cheaply.
// Only valid with a single Scene.
var globalDebug bool

// Resize sets the viewport and recenters the origin at (w/2, h/4).
func (s *Scene) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = w
	s.height = h
	s.proj.SetOrigin(float64(w/2), float64(h/4))
}

// GridAt returns the grid cell under a screen point at elevation 0.
func (s *Scene) GridAt(sx, sy float64) (col, row int) {
	x, y := s.proj.ScreenToGrid(sx, sy)
	return int(roundHalfUp(x)), int(roundHalfUp(y))
}

// --- Sheets ---

// RegisterSheet crops a decoded sheet into templates using the current tile size.
func (s *Scene) RegisterSheet(spec SheetSpec, sheet image.Image) int {
	return s.sheets.AddSheet(spec, sheet, s.proj)
}

// LoadSheets decodes and registers each sheet from fsys. Missing sheets are
// logged and skipped; the first error is returned after all were tried.
func (s *Scene) LoadSheets(fsys fs.FS, specs []SheetSpec) error {
	var first error
	for _, spec := range specs {
		if err := s.sheets.LoadSheet(fsys, spec, s.proj); err != nil {
			log.Printf("%v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (s *Scene) newTile(code, x, y, z int, alpha, brightness float64) (*Tile, error) {
	tmpl, ok := s.sheets.Template(code)
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownTile, code)
	}
	return &Tile{
		Code:       code,
		X:          x,
		Y:          y,
		Z:          z,
		Alpha:      alpha,
		Brightness: brightness,
		tmpl:       tmpl,
		rank:       s.sheets.RankOf(code),
	}, nil
}

// --- Ground ---

// AddGround places a ground tile. Placing the same (code, x, y, z) twice
// replaces the first.
func (s *Scene) AddGround(code, x, y, z int, alpha, brightness float64) error {
	t, err := s.newTile(code, x, y, z, alpha, brightness)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ground.put(t)
	s.mu.Unlock()
	return nil
}

// RemoveGround removes the ground tile with the given identity. It reports
// whether one was present.
func (s *Scene) RemoveGround(code, x, y, z int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ground.remove(tileKey{code, x, y, z})
}

// FillArea covers the w×h rectangle starting at (x, y) with ground tiles.
func (s *Scene) FillArea(code, x, y, z, w, h int, alpha, brightness float64) error {
	if _, ok := s.sheets.Template(code); !ok {
		return fmt.Errorf("%w %d", ErrUnknownTile, code)
	}
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if err := s.AddGround(code, col, row, z, alpha, brightness); err != nil {
				return err
			}
		}
	}
	return nil
}

// GroundCount returns the number of ground tiles.
func (s *Scene) GroundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ground.tiles)
}

// --- Objects ---

// Add places a static object. Placing the same (code, x, y, z) twice
// replaces the first.
func (s *Scene) Add(code, x, y, z int, alpha float64) error {
	t, err := s.newTile(code, x, y, z, alpha, 0)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects.put(t)
	n := len(s.objects.tiles)
	s.mu.Unlock()
	if s.debug {
		debugCheckObjectCount(n)
	}
	return nil
}

// AddMatrix places objects from a [z][y][x] code matrix. -1 marks an empty
// cell. Unknown codes are skipped; the number placed is returned.
func (s *Scene) AddMatrix(m [][][]int, alpha float64) int {
	placed := 0
	for z, layer := range m {
		for y, row := range layer {
			for x, code := range row {
				if code == -1 {
					continue
				}
				if err := s.Add(code, x, y, z, alpha); err != nil {
					if s.debug {
						log.Printf("isoscene: matrix cell (%d,%d,%d): %v", x, y, z, err)
					}
					continue
				}
				placed++
			}
		}
	}
	return placed
}

// AddBorder rings the w×h rectangle at (x, y) with border tiles and corner
// pieces at elevation 0.
func (s *Scene) AddBorder(border, corner, x, y, w, h int) error {
	for i := x; i < x+w; i++ {
		if err := s.Add(border, i, y-1, 0, 1); err != nil {
			return err
		}
		if err := s.Add(border, i, y+h, 0, 1); err != nil {
			return err
		}
	}
	for j := y; j < y+h; j++ {
		if err := s.Add(border, x-1, j, 0, 1); err != nil {
			return err
		}
		if err := s.Add(border, x+w, j, 0, 1); err != nil {
			return err
		}
	}
	for _, c := range [][2]int{{x - 1, y - 1}, {x + w, y - 1}, {x - 1, y + h}, {x + w, y + h}} {
		if err := s.Add(corner, c[0], c[1], 0, 1); err != nil {
			return err
		}
	}
	return nil
}

// Remove removes the object with the given identity. It reports whether one
// was present.
func (s *Scene) Remove(code, x, y, z int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.remove(tileKey{code, x, y, z})
}

// Object returns the object with the given identity.
func (s *Scene) Object(code, x, y, z int) (*Tile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.get(tileKey{code, x, y, z})
}

// ObjectCount returns the number of static objects.
func (s *Scene) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects.tiles)
}

// Clear removes every ground tile, object and background shape. Characters
// are left to the caller.
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ground.clear()
	s.objects.clear()
	s.background = s.background[:0]
}

// --- Background ---

// FillCheckerboard paints a w×h black and white checkerboard at (x, y).
func (s *Scene) FillCheckerboard(x, y, w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c := ColorWhite
			if (abs(col)+abs(row))%2 == 0 {
				c = ColorBlack
			}
			s.background = append(s.background, bgShape{kind: shapeTile, x: col, y: row, color: c})
		}
	}
}

// AddTileBackground paints a flat colored diamond at (x, y, z).
func (s *Scene) AddTileBackground(c Color, x, y, z int) {
	s.mu.Lock()
	s.background = append(s.background, bgShape{kind: shapeTile, x: x, y: y, z: z, color: c})
	s.mu.Unlock()
}

// AddCubeBackground paints a shaded, outlined unit cube at (x, y, z).
func (s *Scene) AddCubeBackground(c Color, x, y, z int) {
	s.mu.Lock()
	s.background = append(s.background, bgShape{kind: shapeCube, x: x, y: y, z: z, color: c})
	s.mu.Unlock()
}

// BackgroundCount returns the number of background shapes.
func (s *Scene) BackgroundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.background)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// --- Characters ---

// AddCharacter adds c to the scene and attaches the scene's event store.
// Adding a character twice is a no-op.
func (s *Scene) AddCharacter(c *Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.characters, c) {
		return
	}
	if s.events != nil {
		c.SetEventStore(s.events)
	}
	s.characters = append(s.characters, c)
}

// RemoveCharacter removes c by identity. The character is not disposed.
func (s *Scene) RemoveCharacter(c *Character) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.characters, c)
	if i < 0 {
		return false
	}
	s.characters = slices.Delete(s.characters, i, i+1)
	return true
}

// Characters returns a copy of the character list.
func (s *Scene) Characters() []*Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.characters)
}

// --- Loop ---

// Tick advances the camera, every character's turn tween and current
// animation by one tick, then asks the host to repaint.
func (s *Scene) Tick() {
	dt := time.Second / time.Duration(s.tps)

	s.camera.update(float32(dt.Seconds()))

	s.mu.Lock()
	chars := slices.Clone(s.characters)
	host := s.host
	s.mu.Unlock()

	for _, c := range chars {
		if c.Mode().IsZero() {
			continue
		}
		c.Update(dt)
	}
	if host != nil {
		host.RequestRepaint()
	}
}

// Draw composites the background, then every visible entity back to front.
func (s *Scene) Draw(dst *ebiten.Image) {
	s.mu.Lock()
	ground := slices.Clone(s.ground.tiles)
	objects := slices.Clone(s.objects.tiles)
	chars := slices.Clone(s.characters)
	shapes := slices.Clone(s.background)
	width := s.width
	s.mu.Unlock()

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.shapes.draw(dst, s.proj, shapes)
	culled := s.collect(width, ground, objects, chars)

	if s.debug {
		stats.cullTime = time.Since(t0)
		stats.culledCount = culled
		t0 = time.Now()
	}

	s.mergeSort()

	if s.debug {
		stats.sortTime = time.Since(t0)
		stats.itemCount = len(s.items)
		stats.bucketCount = countDepthBuckets(s.items)
		stats.characterCount = len(chars)
		t0 = time.Now()
	}

	s.submit(dst)

	if s.debug {
		stats.submitTime = time.Since(t0)
		s.debugLog(stats)
	}
}
