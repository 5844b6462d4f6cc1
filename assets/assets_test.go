package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/phanxgames/isoscene"
)

func pngOf(t *testing.T, w, h int, c color.RGBA) *fstest.MapFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &fstest.MapFile{Data: buf.Bytes()}
}

var opaque = color.RGBA{255, 255, 255, 255}

func TestFramePath(t *testing.T) {
	req := isoscene.FrameRequest{Path: "/k/walk_", Frames: 8, Direction: 2}
	if got := FramePath(req, 5); got != "/k/walk_20005.png" {
		t.Errorf("FramePath = %q", got)
	}

	req = isoscene.FrameRequest{Path: "/k/idle_", Frames: 3, Turn: isoscene.TurnLeft}
	if got := FramePath(req, 10); got != "/k/idle_20001.png" {
		t.Errorf("left turn FramePath = %q", got)
	}
	req.Turn = isoscene.TurnRight
	if got := FramePath(req, 10); got != "/k/idle_50001.png" {
		t.Errorf("right turn FramePath = %q", got)
	}
}

func TestFitBudget(t *testing.T) {
	cases := []struct {
		w, h, wantW, wantH int
	}{
		{100, 50, 100, 50},
		{1000, 1000, 256, 256},
		{512, 256, 362, 181},
		{0, 0, 1, 1},
	}
	for _, c := range cases {
		w, h := fitBudget(c.w, c.h, MaxPixels)
		if w != c.wantW || h != c.wantH {
			t.Errorf("fitBudget(%d, %d) = (%d, %d), want (%d, %d)", c.w, c.h, w, h, c.wantW, c.wantH)
		}
	}
}

func TestFileFramesScaleAndMissing(t *testing.T) {
	fsys := fstest.MapFS{
		"k/walk_00000.png": pngOf(t, 40, 20, opaque),
		"k/walk_00002.png": pngOf(t, 40, 20, opaque),
	}
	p := New(fsys, 100, 48)
	req := isoscene.FrameRequest{Path: "/k/walk_", Frames: 3, Scale: 2}
	frames := p.fileFrames(req)
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	if frames[1] != nil {
		t.Error("missing file should give a nil frame")
	}
	for _, i := range []int{0, 2} {
		if frames[i] == nil {
			t.Fatalf("frame %d missing", i)
		}
		if b := frames[i].Bounds(); b.Dx() != 20 || b.Dy() != 10 {
			t.Errorf("frame %d = %dx%d, want 20x10", i, b.Dx(), b.Dy())
		}
	}
	if !p.missing["k/walk_00001.png"] {
		t.Error("missing file should be remembered")
	}
	if len(p.decoded) != 2 {
		t.Errorf("decoded = %d, want 2", len(p.decoded))
	}
	p.Forget()
	if len(p.decoded) != 0 || len(p.missing) != 0 {
		t.Error("Forget should clear the caches")
	}
}

func TestFileFramesScaleY(t *testing.T) {
	fsys := fstest.MapFS{"k/a_00000.png": pngOf(t, 40, 40, opaque)}
	p := New(fsys, 100, 48)
	frames := p.fileFrames(isoscene.FrameRequest{Path: "k/a_", Frames: 1, Scale: 1, ScaleY: 0.5})
	if b := frames[0].Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("frame = %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}

func TestStripFrames(t *testing.T) {
	fsys := fstest.MapFS{"Farmer/Walk/0_strip3.png": pngOf(t, 30, 10, opaque)}
	p := New(fsys, 20, 10)
	req := isoscene.FrameRequest{Path: "/Farmer/Walk/0_strip3.png", Layout: isoscene.LayoutStrip, Frames: 3, Scale: 1}
	frames := p.stripFrames(req)
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	if b := frames[2].Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("frame = %dx%d, want 20x20 (tile width x two tile heights)", b.Dx(), b.Dy())
	}

	req.Path = "/Farmer/Walk/missing.png"
	if frames := p.stripFrames(req); frames != nil {
		t.Error("missing strip should give no frames")
	}
}

func TestLoadFramesLength(t *testing.T) {
	p := New(fstest.MapFS{}, 100, 48)
	req := isoscene.FrameRequest{Path: "/none_", Frames: 4, Turn: isoscene.TurnLeft}
	frames := p.LoadFrames(req)
	if len(frames) != req.Len() {
		t.Fatalf("frames = %d, want %d", len(frames), req.Len())
	}
	for i, f := range frames {
		if f != nil {
			t.Errorf("frame %d should be nil", i)
		}
	}
}

func TestTintByLuminosity(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	src.SetRGBA(1, 0, color.RGBA{0, 0, 0, 255})
	src.SetRGBA(2, 0, color.RGBA{10, 20, 30, 0})

	out := TintByLuminosity(src, isoscene.Color{R: 1, A: 1})
	if got := out.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("white -> %v, want red", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("black -> %v, want black", got)
	}
	if got := out.RGBAAt(2, 0); got != (color.RGBA{10, 20, 30, 0}) {
		t.Errorf("transparent -> %v, want unchanged", got)
	}
}

func TestTintKeepsPremultipliedAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.Pix = []uint8{128, 128, 128, 128} // half-transparent white
	got := TintByLuminosity(src, isoscene.Color{G: 1, A: 1}).Pix
	if got[3] != 128 || got[0] > 1 || got[2] > 1 || got[1] < 126 || got[1] > 128 {
		t.Errorf("tinted = %v, want about (0, 128, 0, 128)", got)
	}
}

func TestFinishTintsBeforeSquash(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	out := finish(img, isoscene.FrameRequest{Tint: &isoscene.Color{B: 1, A: 1}, ScaleY: 0.5})
	if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("size = %dx%d, want 4x2", b.Dx(), b.Dy())
	}
	if got := out.RGBAAt(1, 1); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel = %v, want blue", got)
	}
}
