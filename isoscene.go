package isoscene

import (
	"errors"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral tint.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black.
var ColorBlack = Color{0, 0, 0, 1}

// RGBA converts the color to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Scaled returns the color with R, G and B multiplied by f. Alpha is kept.
func (c Color) Scaled(f float64) Color {
	return Color{clamp01(c.R * f), clamp01(c.G * f), clamp01(c.B * f), c.A}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Vec2 is a 2D vector used for screen positions and grid picks.
type Vec2 struct {
	X, Y float64
}

// GridPos is a position in tile-grid units. Z is the elevation step.
type GridPos struct {
	X, Y, Z float64
}

// RenderType orders entities that share an elevation and isometric depth.
type RenderType uint8

const (
	RenderFloor        RenderType = iota // ground tiles
	RenderConstruction                   // walls, stairs and characters
	RenderItem                           // props drawn over constructions
)

func (t RenderType) String() string {
	switch t {
	case RenderFloor:
		return "floor"
	case RenderConstruction:
		return "construction"
	case RenderItem:
		return "item"
	default:
		return "unknown"
	}
}

// Rank values separating sprites that share a cell. West and south walls draw
// before characters, north and east walls after.
const (
	RankBackWall  = 0
	RankCharacter = 1
	RankFrontWall = 2
)

var (
	// ErrNotSupported is returned when an entity lacks the requested capability.
	ErrNotSupported = errors.ErrUnsupported

	// ErrUnknownMode is returned when a mode name is not declared by the kind.
	ErrUnknownMode = errors.New("isoscene: unknown mode")

	// ErrUnknownDirection is returned when a direction name does not parse.
	ErrUnknownDirection = errors.New("isoscene: unknown direction")
)

// whitePixel is a 1x1 white image used as the source for solid-color shapes.
// Created lazily; the engine draws from a single goroutine.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}
