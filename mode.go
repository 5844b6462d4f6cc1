package isoscene

import "fmt"

// Turn marks modes that play an in-place rotation sweep instead of one
// sequence per direction.
type Turn uint8

const (
	TurnNone Turn = iota
	TurnLeft
	TurnRight
)

// Mode is a named animation state of a character kind.
type Mode struct {
	// Name identifies the mode, e.g. "WALK".
	Name string
	// Asset is the key used to build frame paths, e.g. "walk".
	Asset string
	// Frames is the frame count per direction.
	Frames int
	Loop   bool
	// Speed is the number of frames advanced per tick. May be fractional.
	Speed float64
	Turn  Turn

	ordinal int
}

// Ordinal returns the mode's index in its ModeSet, or -1 for a zero Mode.
func (m Mode) Ordinal() int {
	if m.Name == "" {
		return -1
	}
	return m.ordinal
}

// IsZero reports whether m is the zero Mode.
func (m Mode) IsZero() bool {
	return m.Name == ""
}

// SequenceLen is the number of frames in one animation of this mode. Turn
// modes hold all eight facings in a single sequence.
func (m Mode) SequenceLen() int {
	if m.Turn != TurnNone {
		return m.Frames * numDirections
	}
	return m.Frames
}

func (m Mode) String() string {
	return m.Name
}

// ModeSet is the closed, ordered enumeration of a kind's modes.
type ModeSet struct {
	modes  []Mode
	byName map[string]int
}

// NewModeSet assigns ordinals in declaration order. Panics on duplicate or
// empty names and on non-positive frame counts.
func NewModeSet(modes ...Mode) *ModeSet {
	s := &ModeSet{
		modes:  make([]Mode, len(modes)),
		byName: make(map[string]int, len(modes)),
	}
	for i, m := range modes {
		if m.Name == "" {
			panic("isoscene: mode name must not be empty")
		}
		if _, dup := s.byName[m.Name]; dup {
			panic(fmt.Sprintf("isoscene: duplicate mode %q", m.Name))
		}
		if m.Frames <= 0 {
			panic(fmt.Sprintf("isoscene: mode %q has %d frames", m.Name, m.Frames))
		}
		m.ordinal = i
		s.modes[i] = m
		s.byName[m.Name] = i
	}
	return s
}

// Len returns the number of modes.
func (s *ModeSet) Len() int {
	return len(s.modes)
}

// At returns the mode with the given ordinal.
func (s *ModeSet) At(ordinal int) Mode {
	return s.modes[ordinal]
}

// All returns the modes in ordinal order. The returned slice MUST NOT be mutated.
func (s *ModeSet) All() []Mode {
	return s.modes
}

// Lookup returns the mode with the given name.
func (s *ModeSet) Lookup(name string) (Mode, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Mode{}, false
	}
	return s.modes[i], true
}

// MustLookup is Lookup that panics on unknown names.
func (s *ModeSet) MustLookup(name string) Mode {
	m, ok := s.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("isoscene: unknown mode %q", name))
	}
	return m
}
