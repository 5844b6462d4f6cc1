// Package assets loads character frame sequences from PNG files in an
// fs.FS and prepares them for drawing: scaled, optionally squashed
// vertically, and optionally tinted.
package assets

import (
	"fmt"
	"image"
	_ "image/png" // register PNG decoder
	"io/fs"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"github.com/phanxgames/isoscene"
)

// MaxPixels caps the area of a per-file frame after scaling. Larger frames
// are shrunk proportionally to fit.
const MaxPixels = 65536

// Provider implements isoscene.AssetProvider over an fs.FS. Decoded source
// files are kept so that variants of the same kind do not decode twice.
// Safe for concurrent use.
type Provider struct {
	fsys       fs.FS
	tileWidth  int
	tileHeight int

	// Debug logs every missing file.
	Debug bool

	mu      sync.Mutex
	decoded map[string]image.Image
	missing map[string]bool
}

// New returns a provider reading from fsys. Tile dimensions size strip
// frames; pass the scene projector's TileWidth and TileHeight.
func New(fsys fs.FS, tileWidth, tileHeight int) *Provider {
	return &Provider{
		fsys:       fsys,
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		decoded:    make(map[string]image.Image),
		missing:    make(map[string]bool),
	}
}

var _ isoscene.AssetProvider = (*Provider)(nil)

// LoadFrames implements isoscene.AssetProvider.
func (p *Provider) LoadFrames(req isoscene.FrameRequest) []*ebiten.Image {
	var frames []*image.RGBA
	if req.Layout == isoscene.LayoutStrip {
		frames = p.stripFrames(req)
	} else {
		frames = p.fileFrames(req)
	}
	out := make([]*ebiten.Image, req.Len())
	for i, f := range frames {
		if f != nil && i < len(out) {
			out[i] = ebiten.NewImageFromImage(f)
		}
	}
	return out
}

// FramePath returns the file holding frame i of a per-file request. Turn
// requests sweep the facings: frame i shows facing i%8 (reversed for right
// turns) at animation frame i%Frames.
func FramePath(req isoscene.FrameRequest, i int) string {
	dir, frame := req.Direction, i
	if req.Turn != isoscene.TurnNone {
		dir = i % 8
		if req.Turn == isoscene.TurnRight {
			dir = 7 - dir
		}
		frame = i % req.Frames
	}
	return fmt.Sprintf("%s%d%04d.png", req.Path, dir, frame)
}

func (p *Provider) fileFrames(req isoscene.FrameRequest) []*image.RGBA {
	out := make([]*image.RGBA, req.Len())
	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}
	for i := range out {
		src := p.decode(FramePath(req, i))
		if src == nil {
			continue
		}
		b := src.Bounds()
		w, h := fitBudget(int(float64(b.Dx())/scale), int(float64(b.Dy())/scale), MaxPixels)
		img := resize(src, w, h, draw.BiLinear)
		out[i] = finish(img, req)
	}
	return out
}

func (p *Provider) stripFrames(req isoscene.FrameRequest) []*image.RGBA {
	src := p.decode(req.Path)
	if src == nil || req.Frames <= 0 {
		return nil
	}
	b := src.Bounds()
	cellW := b.Dx() / req.Frames
	cellH := b.Dy()
	if cellW <= 0 || cellH <= 0 {
		return nil
	}
	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}
	outW := int(float64(p.tileWidth) * scale)
	outH := int(float64(p.tileHeight) * 2 * scale)
	if outW <= 0 || outH <= 0 {
		return nil
	}

	out := make([]*image.RGBA, min(req.Frames, isoscene.MaxSheetCells))
	for i := range out {
		x := b.Min.X + i*cellW
		cell := image.NewRGBA(image.Rect(0, 0, cellW, cellH))
		draw.Copy(cell, image.Point{}, src, image.Rect(x, b.Min.Y, x+cellW, b.Max.Y), draw.Src, nil)
		out[i] = finish(resize(cell, outW, outH, draw.NearestNeighbor), req)
	}
	return out
}

// finish applies the tint and then the vertical squash.
func finish(img *image.RGBA, req isoscene.FrameRequest) *image.RGBA {
	if req.Tint != nil {
		img = TintByLuminosity(img, *req.Tint)
	}
	if req.ScaleY > 0 && req.ScaleY != 1 {
		b := img.Bounds()
		h := max(1, int(float64(b.Dy())*req.ScaleY))
		img = resize(img, b.Dx(), h, draw.BiLinear)
	}
	return img
}

func (p *Provider) decode(path string) image.Image {
	name := strings.TrimPrefix(path, "/")
	p.mu.Lock()
	if img, ok := p.decoded[name]; ok {
		p.mu.Unlock()
		return img
	}
	if p.missing[name] {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	img, err := readImage(p.fsys, name)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.missing[name] = true
		if p.Debug {
			log.Printf("assets: %v", err)
		}
		return nil
	}
	p.decoded[name] = img
	return img
}

func readImage(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// Forget drops decoded source files. Images already handed out stay valid.
func (p *Provider) Forget() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.decoded)
	clear(p.missing)
}

// fitBudget shrinks (w, h) proportionally so that w*h <= budget.
func fitBudget(w, h, budget int) (int, int) {
	w, h = max(1, w), max(1, h)
	pixels := w * h
	if pixels <= budget {
		return w, h
	}
	ratio := math.Sqrt(float64(budget) / float64(pixels))
	return max(1, int(math.Round(float64(w)*ratio))), max(1, int(math.Round(float64(h)*ratio)))
}

func resize(src image.Image, w, h int, s draw.Scaler) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
