package isoscene

import (
	"fmt"
	"math"
	"strings"
)

// Direction is one of the eight compass facings. The numeric value is the
// ordinal used to index per-direction animation rows.
type Direction uint8

const (
	SouthEast Direction = iota
	East
	NorthEast
	North
	NorthWest
	West
	SouthWest
	South

	numDirections = 8
)

// Directions lists every facing in ordinal order.
var Directions = [numDirections]Direction{SouthEast, East, NorthEast, North, NorthWest, West, SouthWest, South}

var directionAngles = [numDirections]int{135, 90, 45, 0, 315, 270, 225, 180}

var directionNames = [numDirections]string{
	"SOUTHEAST", "EAST", "NORTHEAST", "NORTH", "NORTHWEST", "WEST", "SOUTHWEST", "SOUTH",
}

// Angle returns the compass angle in degrees, North = 0, clockwise.
func (d Direction) Angle() int {
	return directionAngles[d]
}

// Radians returns Angle in radians.
func (d Direction) Radians() float64 {
	return float64(d.Angle()) * math.Pi / 180
}

func (d Direction) String() string {
	if int(d) >= numDirections {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Unit returns the grid-space step for one tile of movement in this
// direction. Diagonals are normalised.
func (d Direction) Unit() (dx, dy float64) {
	switch d {
	case North:
		dy = -1
	case South:
		dy = 1
	case East:
		dx = 1
	case West:
		dx = -1
	case NorthEast:
		dx, dy = 1, -1
	case NorthWest:
		dx, dy = -1, -1
	case SouthEast:
		dx, dy = 1, 1
	case SouthWest:
		dx, dy = -1, 1
	}
	if dx != 0 && dy != 0 {
		dx *= math.Sqrt2 / 2
		dy *= math.Sqrt2 / 2
	}
	return dx, dy
}

// ParseDirection resolves a direction by its upper-case name, e.g. "NORTHEAST".
func ParseDirection(name string) (Direction, error) {
	for i, n := range directionNames {
		if strings.EqualFold(n, name) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}

// TurnDelta returns the signed shortest rotation in degrees from one facing
// to another, in [-180, 180). A half turn resolves to -180.
func TurnDelta(from, to Direction) int {
	return ((to.Angle()-from.Angle()+540)%360 - 180)
}

// NearestDirection returns the facing closest to the given angle in degrees.
// Ties resolve to the lowest ordinal.
func NearestDirection(angle float64) Direction {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	best := Directions[0]
	minDiff := 361.0
	for _, d := range Directions {
		diff := math.Abs(math.Mod(float64(d.Angle())-a+540, 360) - 180)
		if diff < minDiff {
			minDiff = diff
			best = d
		}
	}
	return best
}
