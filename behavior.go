package isoscene

import (
	"math"
	"slices"
)

// footstepPeriod and footstepPhase place one footstep per walk cycle half.
const (
	footstepPeriod = 8
	footstepPhase  = 3
)

// Script is a table-driven Behavior covering the sound and mode-revert rules
// shared by the built-in kinds.
type Script struct {
	// ModeSounds selects the character sound when entering a mode.
	ModeSounds map[string]string
	// Footsteps lists modes that play the current sound on every
	// footstepPhase-th frame of each footstepPeriod.
	Footsteps []string
	// BeginSounds lists modes that play the current sound on frame 0.
	BeginSounds []string
	// Reverting lists one-shot modes that play a sound on their last frame
	// and then restore the previous mode and sound.
	Reverting []string
	// EndSoundFromMode plays the sound named after the mode on revert
	// instead of the current sound.
	EndSoundFromMode bool
	// SnapTurns resets the facing to the first direction when entering a
	// turn mode.
	SnapTurns bool
}

// ModeChanged implements Behavior.
func (s *Script) ModeChanged(c *Character, m Mode) {
	if snd, ok := s.ModeSounds[m.Name]; ok {
		c.SetSound(snd)
	}
	if s.SnapTurns && m.Turn != TurnNone {
		c.SetDirection(Directions[0])
	}
}

// Tick implements Behavior.
func (s *Script) Tick(c *Character, frameIndex float64) {
	if !slices.Contains(s.Footsteps, c.Mode().Name) {
		return
	}
	if int(math.Mod(frameIndex, footstepPeriod)) == footstepPhase {
		c.PlaySound(c.Sound())
	}
}

// Begin implements Behavior.
func (s *Script) Begin(c *Character) {
	if slices.Contains(s.BeginSounds, c.Mode().Name) {
		c.PlaySound(c.Sound())
	}
}

// Mid implements Behavior.
func (s *Script) Mid(*Character) {}

// End implements Behavior.
func (s *Script) End(c *Character) {
	name := c.Mode().Name
	if !slices.Contains(s.Reverting, name) {
		return
	}
	if s.EndSoundFromMode {
		c.PlaySound(name)
	} else {
		c.PlaySound(c.Sound())
	}
	c.RevertMode()
}
