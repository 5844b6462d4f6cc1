package isoscene

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderable is anything the scene can depth-sort and draw.
type Renderable interface {
	Pos() GridPos
	// IsoDepth is the back-to-front key within one elevation; larger draws later.
	IsoDepth() float64
	RenderType() RenderType
	Rank() int
	Draw(dst *ebiten.Image, p *Projector)
}

// spriteLift raises non-floor sprites so their feet sit inside the tile diamond.
const spriteLift = 8

// drawSprite draws img bottom-anchored on the projected position of pos.
// brightness 0 leaves colors unchanged; other values are clamped to [0, 1].
func drawSprite(dst *ebiten.Image, p *Projector, pos GridPos, img *ebiten.Image, rt RenderType, alpha, brightness float64, op *ebiten.DrawImageOptions) {
	anchorY := p.TileHeight / 2
	if rt != RenderFloor {
		anchorY -= spriteLift
	}
	sx, sy := p.GridToScreen(pos.X, pos.Y, pos.Z)
	b := img.Bounds()
	ix := int(sx) - b.Dx()/2
	iy := int(sy) - b.Dy() + anchorY

	op.GeoM.Reset()
	op.GeoM.Translate(float64(ix), float64(iy))
	op.ColorScale.Reset()
	if brightness != 0 {
		f := float32(clamp01(brightness))
		op.ColorScale.Scale(f, f, f, 1)
	}
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	dst.DrawImage(img, op)
}

// TileTemplate is a registered sheet cell: the image plus the ordering
// properties every tile stamped from it shares.
type TileTemplate struct {
	Image *ebiten.Image
	Type  RenderType
	// IsoBias shifts the depth key so floors sort under walls on the same cell.
	IsoBias float64
}

// Tile is a static image placed on the grid. Tiles are identified by
// (code, x, y, z).
type Tile struct {
	Code       int
	X, Y, Z    int
	Alpha      float64
	Brightness float64

	tmpl *TileTemplate
	rank int
}

type tileKey struct {
	code, x, y, z int
}

func (t *Tile) key() tileKey {
	return tileKey{t.Code, t.X, t.Y, t.Z}
}

// Template returns the sheet cell the tile was stamped from.
func (t *Tile) Template() *TileTemplate { return t.tmpl }

// Pos implements Renderable.
func (t *Tile) Pos() GridPos {
	return GridPos{float64(t.X), float64(t.Y), float64(t.Z)}
}

// IsoDepth implements Renderable.
func (t *Tile) IsoDepth() float64 {
	return float64(t.X+t.Y) + t.tmpl.IsoBias
}

// RenderType implements Renderable.
func (t *Tile) RenderType() RenderType { return t.tmpl.Type }

// Rank implements Renderable.
func (t *Tile) Rank() int { return t.rank }

// Draw implements Renderable.
func (t *Tile) Draw(dst *ebiten.Image, p *Projector) {
	if t.tmpl.Image == nil {
		return
	}
	var op ebiten.DrawImageOptions
	drawSprite(dst, p, t.Pos(), t.tmpl.Image, t.tmpl.Type, t.Alpha, t.Brightness, &op)
}
