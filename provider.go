package isoscene

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameLayout selects how a frame sequence is stored on disk.
type FrameLayout uint8

const (
	// LayoutFiles stores one file per frame: <path><direction><frame:04>.png.
	LayoutFiles FrameLayout = iota
	// LayoutStrip stores all frames of a direction side by side in one file.
	LayoutStrip
)

// FrameRequest describes one frame sequence to load.
type FrameRequest struct {
	// Path is the file prefix (LayoutFiles) or the strip file (LayoutStrip).
	Path   string
	Layout FrameLayout
	// Frames is the per-direction frame count. Turn requests load Frames*8
	// images sweeping all facings.
	Frames    int
	Direction int
	Turn      Turn
	Scale     float64
	ScaleY    float64
	// Tint recolors opaque pixels by luminosity. nil leaves colors untouched.
	Tint *Color
}

// Len returns the number of images the request must yield.
func (r FrameRequest) Len() int {
	if r.Turn != TurnNone {
		return r.Frames * numDirections
	}
	return r.Frames
}

// AssetProvider turns frame requests into ready-to-draw images. It must
// return exactly req.Len() images with nil in place of missing files.
// Shadow sequences use the same call with the shadow path and no tint.
type AssetProvider interface {
	LoadFrames(req FrameRequest) []*ebiten.Image
}

// SoundCache plays preloaded sounds by name. Play is fire-and-forget.
type SoundCache interface {
	LoadIfAbsent(name, path string, volume float64) error
	Play(name string)
}

// fitFrames pads or truncates a provider result to n entries.
func fitFrames(frames []*ebiten.Image, n int, path string) []*ebiten.Image {
	if len(frames) == n {
		return frames
	}
	if globalDebug {
		log.Printf("isoscene: provider returned %d frames for %q, want %d", len(frames), path, n)
	}
	out := make([]*ebiten.Image, n)
	copy(out, frames)
	return out
}
