package isoscene

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/png" // register PNG decoder
	"io/fs"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Sheet cropping limits and darkened variant code offsets.
const (
	MaxSheetCells  = 100
	DimCodeOffset  = 10000 // 50% brightness copy
	DarkCodeOffset = 20000 // 20% brightness copy

	DefaultCellWidth  = 256
	DefaultCellHeight = 512
)

// SheetSpec describes one sprite sheet to cut into tile templates.
type SheetSpec struct {
	Path string `json:"path"`
	// Code is assigned to the first cell; cells are numbered row-major.
	Code       int     `json:"code"`
	CellWidth  int     `json:"cellWidth"`
	CellHeight int     `json:"cellHeight"`
	Scale      float64 `json:"scale"`
	// OffsetX and OffsetY shift each cell inside its padded frame, in source pixels.
	OffsetX int        `json:"offsetX"`
	OffsetY int        `json:"offsetY"`
	Type    RenderType `json:"type"`
	IsoBias float64    `json:"isoBias"`
}

func (s SheetSpec) withDefaults() SheetSpec {
	if s.CellWidth <= 0 {
		s.CellWidth = DefaultCellWidth
	}
	if s.CellHeight <= 0 {
		s.CellHeight = DefaultCellHeight
	}
	if s.Scale <= 0 {
		s.Scale = 1
	}
	return s
}

// DefaultSheets is the stock isometric tile set: ground, two wall sheets,
// stairs, constructions and props.
var DefaultSheets = []SheetSpec{
	{Path: "/isometric-tiles/all_000.png", Code: 0, Type: RenderFloor, IsoBias: -1.5},
	{Path: "/isometric-tiles/all_100.png", Code: 100, Type: RenderConstruction, IsoBias: -0.5},
	{Path: "/isometric-tiles/all_200.png", Code: 200, Type: RenderConstruction, IsoBias: -0.5},
	{Path: "/isometric-tiles/all_300.png", Code: 300, Type: RenderConstruction},
	{Path: "/isometric-tiles/all_400.png", Code: 400, Type: RenderConstruction},
	{Path: "/isometric-tiles/all_500.png", Code: 500, Scale: 1.4, OffsetY: 36, Type: RenderItem},
}

// ParseRenderType converts "floor", "construction" or "item".
func ParseRenderType(s string) (RenderType, error) {
	switch strings.ToLower(s) {
	case "floor":
		return RenderFloor, nil
	case "construction":
		return RenderConstruction, nil
	case "item":
		return RenderItem, nil
	}
	return 0, fmt.Errorf("isoscene: unknown render type %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RenderType) UnmarshalText(b []byte) error {
	v, err := ParseRenderType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t RenderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseSheets reads a JSON sheet manifest: either a bare array of sheets or
// an object with a "sheets" array.
func ParseSheets(jsonData []byte) ([]SheetSpec, error) {
	var probe struct {
		Sheets []SheetSpec `json:"sheets"`
	}
	trimmed := strings.TrimSpace(string(jsonData))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(jsonData, &probe.Sheets); err != nil {
			return nil, fmt.Errorf("isoscene: failed to parse sheet manifest: %w", err)
		}
		return probe.Sheets, nil
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("isoscene: failed to parse sheet manifest: %w", err)
	}
	if probe.Sheets == nil {
		return nil, fmt.Errorf("isoscene: sheet manifest has no \"sheets\" key")
	}
	return probe.Sheets, nil
}

// Sheets maps tile codes to templates and draw ranks.
type Sheets struct {
	templates map[int]*TileTemplate
	ranks     map[int]int
}

// defaultRanks are corner and door pieces whose code parity gives the wrong side.
var defaultRanks = map[int]int{
	138: RankBackWall, 136: RankFrontWall, 139: RankFrontWall, 137: RankFrontWall,
	188: RankBackWall, 189: RankFrontWall, 190: RankFrontWall, 191: RankFrontWall,
	180: RankBackWall, 181: RankFrontWall, 182: RankFrontWall, 183: RankFrontWall,
}

// NewSheets returns an empty registry with the stock rank overrides.
func NewSheets() *Sheets {
	s := &Sheets{
		templates: make(map[int]*TileTemplate),
		ranks:     make(map[int]int, len(defaultRanks)),
	}
	for code, r := range defaultRanks {
		s.ranks[code] = r
	}
	return s
}

// Register stores a template under code, replacing any previous one.
func (s *Sheets) Register(code int, t *TileTemplate) {
	s.templates[code] = t
}

// Template returns the template registered under code.
func (s *Sheets) Template(code int) (*TileTemplate, bool) {
	t, ok := s.templates[code]
	return t, ok
}

// Len returns the number of registered codes, darkened variants included.
func (s *Sheets) Len() int { return len(s.templates) }

// SetRank overrides the draw rank of a code.
func (s *Sheets) SetRank(code, rank int) {
	s.ranks[code] = rank
}

// RankOf returns the draw rank for a code. Ground codes (< 100) and west or
// south wall pieces (even codes) draw behind characters; the rest in front.
func (s *Sheets) RankOf(code int) int {
	if r, ok := s.ranks[code]; ok {
		return r
	}
	if code < 100 {
		return RankBackWall
	}
	if code%4 == 0 || code%4 == 2 {
		return RankBackWall
	}
	return RankFrontWall
}

// AddSheet crops a decoded sheet and registers each cell at spec.Code+i along
// with its darkened variants. It returns the number of cells registered.
func (s *Sheets) AddSheet(spec SheetSpec, sheet image.Image, p *Projector) int {
	spec = spec.withDefaults()
	cells := cropCells(sheet, spec, p.TileWidth, p.TileHeight)
	for i, cell := range cells {
		code := spec.Code + i
		s.Register(code, newTemplate(cell, spec))
		s.Register(code+DimCodeOffset, newTemplate(darken(cell, 0.5), spec))
		s.Register(code+DarkCodeOffset, newTemplate(darken(cell, 0.2), spec))
	}
	return len(cells)
}

// LoadSheet decodes spec.Path from fsys and registers its cells.
func (s *Sheets) LoadSheet(fsys fs.FS, spec SheetSpec, p *Projector) error {
	f, err := fsys.Open(strings.TrimPrefix(spec.Path, "/"))
	if err != nil {
		return fmt.Errorf("isoscene: load sheet %s: %w", spec.Path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("isoscene: decode sheet %s: %w", spec.Path, err)
	}
	n := s.AddSheet(spec, img, p)
	if globalDebug {
		log.Printf("isoscene: sheet %s: %d cells at code %d", spec.Path, n, spec.Code)
	}
	return nil
}

// Deallocate frees every template image.
func (s *Sheets) Deallocate() {
	for code, t := range s.templates {
		if t.Image != nil {
			t.Image.Deallocate()
		}
		delete(s.templates, code)
	}
}

func newTemplate(img *image.RGBA, spec SheetSpec) *TileTemplate {
	return &TileTemplate{
		Image:   ebiten.NewImageFromImage(img),
		Type:    spec.Type,
		IsoBias: spec.IsoBias,
	}
}

// cropCells cuts a sheet into at most MaxSheetCells cells. Partial cells at
// the right and bottom edges are centered in a full-size frame. Every cell is
// then scaled with nearest-neighbour sampling to one tile wide and two tile
// heights tall, times spec.Scale.
func cropCells(sheet image.Image, spec SheetSpec, tileWidth, tileHeight int) []*image.RGBA {
	b := sheet.Bounds()
	cols := b.Dx() / spec.CellWidth
	rows := b.Dy() / spec.CellHeight
	n := min(MaxSheetCells, cols*rows)
	outW := int(float64(tileWidth) * spec.Scale)
	outH := int(float64(tileHeight) * 2 * spec.Scale)
	if n <= 0 || outW <= 0 || outH <= 0 {
		return nil
	}

	cells := make([]*image.RGBA, 0, n)
	for i := range n {
		x := b.Min.X + (i%cols)*spec.CellWidth
		y := b.Min.Y + (i/cols)*spec.CellHeight
		w := min(spec.CellWidth, b.Max.X-x)
		h := min(spec.CellHeight, b.Max.Y-y)
		if w <= 0 || h <= 0 {
			continue
		}

		framed := image.NewRGBA(image.Rect(0, 0, spec.CellWidth, spec.CellHeight))
		dx := (spec.CellWidth-w)/2 + spec.OffsetX
		dy := (spec.CellHeight-h)/2 + spec.OffsetY
		draw.Copy(framed, image.Pt(dx, dy), sheet, image.Rect(x, y, x+w, y+h), draw.Src, nil)

		out := image.NewRGBA(image.Rect(0, 0, outW, outH))
		draw.NearestNeighbor.Scale(out, out.Bounds(), framed, framed.Bounds(), draw.Src, nil)
		cells = append(cells, out)
	}
	return cells
}

// darken returns a copy with color channels scaled by f. Alpha is kept, and
// since RGBA is premultiplied scaling the stored channels is exact.
func darken(src *image.RGBA, f float64) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		dst.Pix[i] = uint8(float64(src.Pix[i]) * f)
		dst.Pix[i+1] = uint8(float64(src.Pix[i+1]) * f)
		dst.Pix[i+2] = uint8(float64(src.Pix[i+2]) * f)
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}
