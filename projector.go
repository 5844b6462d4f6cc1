package isoscene

import "math"

// isoSkewDegrees gives the standard isometric tile height ratio.
const isoSkewDegrees = 26.0

// Projector converts between tile-grid space and screen space.
type Projector struct {
	TileWidth  int
	TileHeight int
	OriginX    float64
	OriginY    float64
	ScrollX    float64
	ScrollY    float64
}

// NewProjector returns a projector for square tiles of the given size, with
// the grid origin at (originX, originY) on screen.
func NewProjector(tileSize int, originX, originY float64) *Projector {
	p := &Projector{OriginX: originX, OriginY: originY}
	p.SetTileSize(tileSize)
	return p
}

// SetTileSize recomputes tile width and height from a tile size.
func (p *Projector) SetTileSize(tileSize int) {
	p.TileWidth = tileSize
	p.TileHeight = int(float64(tileSize) * math.Tan(isoSkewDegrees*math.Pi/180) * 2)
}

// SetOrigin moves the screen position of grid cell (0, 0).
func (p *Projector) SetOrigin(x, y float64) {
	p.OriginX = x
	p.OriginY = y
}

// Scroll sets the global scroll offset.
func (p *Projector) Scroll(x, y float64) {
	p.ScrollX = x
	p.ScrollY = y
}

// GridToScreen projects a grid position to screen coordinates. step is the
// elevation; each step lifts the point by half a tile width.
func (p *Projector) GridToScreen(col, row, step float64) (float64, float64) {
	x := col + p.ScrollX
	y := row + p.ScrollY
	hw := float64(p.TileWidth) / 2
	qh := float64(p.TileHeight) / 4
	sx := p.OriginX + p.ScrollX + (x-y)*hw
	sy := p.OriginY + p.ScrollY + (x+y)*qh - step*hw
	return sx, sy
}

// ScreenToGrid is the inverse of GridToScreen at elevation 0. Results are
// continuous; callers picking a cell must round themselves.
func (p *Projector) ScreenToGrid(sx, sy float64) (float64, float64) {
	a := (sx - p.OriginX - p.ScrollX) / (float64(p.TileWidth) / 2)
	b := (sy - p.OriginY - p.ScrollY) / (float64(p.TileHeight) / 4)
	col := (a+b)/2 - p.ScrollX
	row := (b-a)/2 - p.ScrollY
	return col, row
}

// Distance returns the screen-space distance between a projected grid
// position and the origin. Used as a cheap visibility test.
func (p *Projector) Distance(pos GridPos) float64 {
	sx, sy := p.GridToScreen(pos.X, pos.Y, pos.Z)
	return math.Hypot(sx-p.OriginX, sy-p.OriginY)
}
