package isoscene

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestCropCellsCountAndSize(t *testing.T) {
	sheet := solidImage(64, 64, color.RGBA{200, 100, 50, 255})
	spec := SheetSpec{CellWidth: 16, CellHeight: 32}.withDefaults()
	cells := cropCells(sheet, spec, 40, 20)
	if len(cells) != 8 {
		t.Fatalf("cells = %d, want 8 (4 cols x 2 rows)", len(cells))
	}
	b := cells[0].Bounds()
	if b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("cell size = %dx%d, want 40x40", b.Dx(), b.Dy())
	}
	if got := cells[7].RGBAAt(20, 20); got != (color.RGBA{200, 100, 50, 255}) {
		t.Errorf("cell pixel = %v", got)
	}
}

func TestCropCellsScaleAndCap(t *testing.T) {
	sheet := solidImage(110*4, 4, color.RGBA{A: 255})
	spec := SheetSpec{CellWidth: 4, CellHeight: 4, Scale: 1.5}.withDefaults()
	cells := cropCells(sheet, spec, 10, 10)
	if len(cells) != MaxSheetCells {
		t.Errorf("cells = %d, want cap %d", len(cells), MaxSheetCells)
	}
	if b := cells[0].Bounds(); b.Dx() != 15 || b.Dy() != 30 {
		t.Errorf("scaled cell = %dx%d, want 15x30", b.Dx(), b.Dy())
	}
}

func TestCropCellsOffset(t *testing.T) {
	sheet := solidImage(8, 8, color.RGBA{255, 255, 255, 255})
	spec := SheetSpec{CellWidth: 8, CellHeight: 8, OffsetY: 4}.withDefaults()
	// Output is 8x16 so each source pixel maps to one column and two rows.
	cells := cropCells(sheet, spec, 8, 8)
	if len(cells) != 1 {
		t.Fatalf("cells = %d, want 1", len(cells))
	}
	if a := cells[0].RGBAAt(4, 2).A; a != 0 {
		t.Errorf("top rows should be empty after the offset, alpha = %d", a)
	}
	if a := cells[0].RGBAAt(4, 12).A; a != 255 {
		t.Errorf("shifted content missing, alpha = %d", a)
	}
}

func TestDarken(t *testing.T) {
	src := solidImage(2, 2, color.RGBA{200, 100, 40, 255})
	dim := darken(src, 0.5)
	if got := dim.RGBAAt(1, 1); got != (color.RGBA{100, 50, 20, 255}) {
		t.Errorf("darken(0.5) = %v", got)
	}
	if src.RGBAAt(0, 0).R != 200 {
		t.Error("darken should not modify its source")
	}
}

func TestRankOf(t *testing.T) {
	s := NewSheets()
	cases := []struct {
		code, want int
	}{
		{5, RankBackWall},
		{100, RankBackWall},
		{101, RankFrontWall},
		{102, RankBackWall},
		{103, RankFrontWall},
		{138, RankBackWall},
		{136, RankFrontWall},
		{189, RankFrontWall},
	}
	for _, c := range cases {
		if got := s.RankOf(c.code); got != c.want {
			t.Errorf("RankOf(%d) = %d, want %d", c.code, got, c.want)
		}
	}
	s.SetRank(101, RankBackWall)
	if s.RankOf(101) != RankBackWall {
		t.Error("SetRank should override the parity rule")
	}
}

func TestSheetsRegister(t *testing.T) {
	s := NewSheets()
	tmpl := &TileTemplate{Type: RenderItem}
	s.Register(42, tmpl)
	got, ok := s.Template(42)
	if !ok || got != tmpl {
		t.Error("Template should return the registered template")
	}
	if _, ok := s.Template(43); ok {
		t.Error("unregistered code should not resolve")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestAddSheetRegistersVariants(t *testing.T) {
	s := NewSheets()
	p := NewProjector(20, 0, 0)
	sheet := solidImage(32, 16, color.RGBA{255, 0, 0, 255})
	n := s.AddSheet(SheetSpec{Code: 300, CellWidth: 16, CellHeight: 16, Type: RenderConstruction}, sheet, p)
	if n != 2 {
		t.Fatalf("cells = %d, want 2", n)
	}
	for _, code := range []int{300, 301, 300 + DimCodeOffset, 301 + DarkCodeOffset} {
		tmpl, ok := s.Template(code)
		if !ok {
			t.Errorf("code %d not registered", code)
			continue
		}
		if tmpl.Type != RenderConstruction {
			t.Errorf("code %d type = %v", code, tmpl.Type)
		}
	}
	if s.Len() != 6 {
		t.Errorf("Len = %d, want 6", s.Len())
	}
}

func TestLoadSheet(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(16, 16, color.RGBA{0, 0, 255, 255})); err != nil {
		t.Fatal(err)
	}
	fsys := fstest.MapFS{"tiles/floor.png": {Data: buf.Bytes()}}
	s := NewSheets()
	p := NewProjector(20, 0, 0)

	if err := s.LoadSheet(fsys, SheetSpec{Path: "/tiles/floor.png", CellWidth: 16, CellHeight: 16}, p); err != nil {
		t.Fatalf("LoadSheet: %v", err)
	}
	if _, ok := s.Template(0); !ok {
		t.Error("code 0 not registered")
	}
	err := s.LoadSheet(fsys, SheetSpec{Path: "/tiles/missing.png"}, p)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestParseSheets(t *testing.T) {
	arr := `[{"path":"/a.png","code":0,"type":"floor","isoBias":-1.5},{"path":"/b.png","code":500,"scale":1.4,"type":"item"}]`
	specs, err := ParseSheets([]byte(arr))
	if err != nil {
		t.Fatalf("ParseSheets(array): %v", err)
	}
	if len(specs) != 2 || specs[0].Type != RenderFloor || specs[0].IsoBias != -1.5 || specs[1].Scale != 1.4 {
		t.Errorf("specs = %+v", specs)
	}

	obj := `{"sheets":[{"path":"/c.png","code":100,"type":"construction"}]}`
	specs, err = ParseSheets([]byte(obj))
	if err != nil {
		t.Fatalf("ParseSheets(object): %v", err)
	}
	if len(specs) != 1 || specs[0].Type != RenderConstruction {
		t.Errorf("specs = %+v", specs)
	}

	if _, err := ParseSheets([]byte(`{"pages":[]}`)); err == nil {
		t.Error("expected error for missing sheets key")
	}
	if _, err := ParseSheets([]byte(`[{"type":"roof"}]`)); err == nil {
		t.Error("expected error for unknown render type")
	}
}

func TestDefaultSheets(t *testing.T) {
	if len(DefaultSheets) != 6 {
		t.Fatalf("DefaultSheets = %d, want 6", len(DefaultSheets))
	}
	for i, spec := range DefaultSheets {
		if spec.Code != i*100 {
			t.Errorf("sheet %d code = %d", i, spec.Code)
		}
	}
	if DefaultSheets[5].Type != RenderItem || DefaultSheets[0].Type != RenderFloor {
		t.Error("unexpected render types")
	}
}
