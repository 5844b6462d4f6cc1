package isoscene

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Face shading applied to background cubes.
const (
	cubeTopShade  = 1 / 0.7
	cubeSideShade = 0.7
)

type shapeKind uint8

const (
	shapeTile shapeKind = iota
	shapeCube
)

type bgShape struct {
	kind    shapeKind
	x, y, z int
	color   Color
}

// shapeBatch turns background shapes into one triangle batch drawn beneath
// every renderable. Vertices are rebuilt per frame so scrolling applies.
type shapeBatch struct {
	verts []ebiten.Vertex
	inds  []uint32
}

// diamond returns the four corners of the tile diamond whose top vertex is
// the projection of (x, y, z).
func diamond(p *Projector, x, y, z float64) [4]Vec2 {
	sx, sy := p.GridToScreen(x, y, z)
	hw := float64(p.TileWidth / 2)
	qh := float64(p.TileHeight / 4)
	return [4]Vec2{
		{sx, sy},
		{sx + hw, sy + qh},
		{sx, sy + 2*qh},
		{sx - hw, sy + qh},
	}
}

// cubeFaces returns the top, left and right faces of a unit cube on (x, y, z).
func cubeFaces(p *Projector, x, y, z float64) (top, left, right [4]Vec2) {
	tx, ty := p.GridToScreen(x, y, z+1)
	bx, by := p.GridToScreen(x, y, z)
	hw := float64(p.TileWidth / 2)
	qh := float64(p.TileHeight / 4)
	top = [4]Vec2{{tx, ty}, {tx + hw, ty + qh}, {tx, ty + 2*qh}, {tx - hw, ty + qh}}
	left = [4]Vec2{{tx - hw, ty + qh}, {tx, ty + 2*qh}, {bx, by + 2*qh}, {bx - hw, by + qh}}
	right = [4]Vec2{{tx, ty + 2*qh}, {tx + hw, ty + qh}, {bx + hw, by + qh}, {bx, by + 2*qh}}
	return top, left, right
}

// appendQuad appends a fan-triangulated quad filled with c.
func (b *shapeBatch) appendQuad(q [4]Vec2, c Color) {
	base := uint32(len(b.verts))
	r, g, bl, a := float32(clamp01(c.R)), float32(clamp01(c.G)), float32(clamp01(c.B)), float32(clamp01(c.A))
	for _, pt := range q {
		b.verts = append(b.verts, ebiten.Vertex{
			DstX: float32(pt.X), DstY: float32(pt.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r * a, ColorG: g * a, ColorB: bl * a, ColorA: a,
		})
	}
	b.inds = append(b.inds, base, base+1, base+2, base, base+2, base+3)
}

func (b *shapeBatch) draw(dst *ebiten.Image, p *Projector, shapes []bgShape) {
	if len(shapes) == 0 {
		return
	}
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	var outlines [][4]Vec2
	for _, s := range shapes {
		x, y, z := float64(s.x), float64(s.y), float64(s.z)
		switch s.kind {
		case shapeTile:
			b.appendQuad(diamond(p, x, y, z), s.color)
		case shapeCube:
			top, left, right := cubeFaces(p, x, y, z)
			b.appendQuad(top, s.color.Scaled(cubeTopShade))
			b.appendQuad(left, s.color.Scaled(cubeSideShade))
			b.appendQuad(right, s.color)
			outlines = append(outlines, top, left, right)
		}
	}

	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(b.verts, b.inds, ensureWhitePixel(), &op)

	black := ColorBlack.RGBA()
	for _, q := range outlines {
		for i := range q {
			a, c := q[i], q[(i+1)%len(q)]
			vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(c.X), float32(c.Y), 1, black, false)
		}
	}
}
