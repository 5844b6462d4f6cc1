package isoscene

import "math"

const impactSounds = "/kenney_impact-sounds/Audio/"

// Sound names used by the built-in kinds.
const (
	SoundCarpet     = "CARPET"
	SoundCarpetSoft = "CARPET_SOFT"
	SoundWood       = "WOOD"
	SoundWoodSoft   = "WOOD_SOFT"
	SoundJump       = "JUMP"
	SoundGotHit     = "GOTHIT"
	SoundAttack     = "ATTACK"
	SoundDeath      = "DEATH"
)

var humanSounds = []SoundSpec{
	{SoundCarpet, impactSounds + "footstep_carpet_000.wav", 0.8},
	{SoundCarpetSoft, impactSounds + "footstep_carpet_000.wav", 0.2},
	{SoundWood, impactSounds + "footstep_wood_000.wav", 0.8},
	{SoundWoodSoft, impactSounds + "footstep_wood_000.wav", 0.2},
	{SoundJump, impactSounds + "footstep_carpet_000.wav", 0.8},
	{SoundGotHit, impactSounds + "impactTin_medium_000.wav", 0.8},
	{SoundAttack, impactSounds + "impactPlate_heavy_000.wav", 0.8},
	{SoundDeath, impactSounds + "impactWood_heavy_000.wav", 0.8},
}

// Crusader is an armored knight with a shadow layer and one-shot combat modes.
var Crusader = &Kind{
	Tag: "crusader",
	Modes: NewModeSet(
		Mode{Name: "WALK", Asset: "walk", Frames: 15, Loop: true, Speed: 1},
		Mode{Name: "BLOCK", Asset: "block", Frames: 16, Speed: 1},
		Mode{Name: "RUN", Asset: "run", Frames: 17, Loop: true, Speed: 1},
		Mode{Name: "JUMP", Asset: "jump", Frames: 16, Speed: 1},
		Mode{Name: "GOTHIT", Asset: "gothit", Frames: 13, Speed: 1},
		Mode{Name: "ATTACK", Asset: "attack", Frames: 18, Speed: 1},
		Mode{Name: "DEATH", Asset: "death", Frames: 9, Speed: 1},
		Mode{Name: "IDLE", Asset: "idle", Frames: 16, Loop: true, Speed: 1},
		Mode{Name: "TURN_LEFT", Asset: "idle", Frames: 16, Loop: true, Speed: 0.6, Turn: TurnLeft},
		Mode{Name: "TURN_RIGHT", Asset: "idle", Frames: 16, Loop: true, Speed: 0.6, Turn: TurnRight},
		Mode{Name: "WALK_LEFT", Asset: "walk", Frames: 15, Loop: true, Speed: 0.6, Turn: TurnLeft},
		Mode{Name: "WALK_RIGHT", Asset: "walk", Frames: 15, Loop: true, Speed: 0.6, Turn: TurnRight},
	),
	Pattern:          "/isometric-Mini-Crusader/%[1]s/crusader_%[1]s_",
	ShadowPattern:    "/isometric-Mini-Crusader/%[1]s/_shadows/shadow-crusader_%[1]s_",
	Layout:           LayoutFiles,
	DefaultScale:     3,
	Rank:             RankCharacter,
	InitialMode:      "IDLE",
	InitialDirection: East,
	InitialSound:     SoundCarpetSoft,
	Sounds:           humanSounds,
	Behavior: &Script{
		ModeSounds: map[string]string{
			"WALK":   SoundCarpetSoft,
			"RUN":    SoundCarpet,
			"ATTACK": SoundAttack,
			"JUMP":   SoundJump,
			"GOTHIT": SoundGotHit,
			"DEATH":  SoundDeath,
		},
		Footsteps:   []string{"RUN", "WALK"},
		BeginSounds: []string{"GOTHIT", "JUMP"},
		Reverting:   []string{"ATTACK", "GOTHIT", "JUMP"},
		SnapTurns:   true,
	},
}

// Spider is a crawling enemy. Its sprite files start one quarter turn off,
// hence the direction shift.
var Spider = &Kind{
	Tag: "spider",
	Modes: NewModeSet(
		Mode{Name: "WALK", Asset: "walk", Frames: 25, Loop: true, Speed: 1},
		Mode{Name: "IDLE", Asset: "walk", Frames: 1, Loop: true, Speed: 1},
		Mode{Name: "ATTACK", Asset: "attack", Frames: 8, Speed: 1},
		Mode{Name: "DEATH", Asset: "death", Frames: 8, Speed: 1},
		Mode{Name: "TURN_LEFT", Asset: "walk", Frames: 25, Loop: true, Speed: 0.6, Turn: TurnLeft},
		Mode{Name: "TURN_RIGHT", Asset: "walk", Frames: 25, Loop: true, Speed: 0.6, Turn: TurnRight},
	),
	Pattern:          "/bw_spider/%[1]s/%[1]s-BW_Spider_",
	ShadowPattern:    "/bw_spider/%[1]s/_shadows/%[1]s-BW_Spider-shadow_",
	Layout:           LayoutFiles,
	DefaultScale:     2.5,
	DirectionShift:   6,
	OffsetX:          -0.1,
	OffsetY:          0.1,
	Rank:             RankCharacter,
	InitialMode:      "WALK",
	InitialDirection: East,
	Sounds: []SoundSpec{
		{"ATTACK", impactSounds + "footstep_snow_000.wav", 0.4},
		{"DEATH", impactSounds + "impactSoft_heavy_000.wav", 0.4},
	},
	Behavior: &Script{
		Reverting:        []string{"ATTACK"},
		EndSoundFromMode: true,
		SnapTurns:        true,
	},
}

// Villager is a shadowless townsperson.
var Villager = &Kind{
	Tag: "villager",
	Modes: NewModeSet(
		Mode{Name: "WALK", Asset: "walk", Frames: 15, Loop: true, Speed: 0.5},
		Mode{Name: "DEATH", Asset: "death", Frames: 16, Speed: 0.5},
		Mode{Name: "IDLE", Asset: "idle", Frames: 1, Loop: true, Speed: 0.5},
		Mode{Name: "TURN_LEFT", Asset: "idle", Frames: 1, Loop: true, Speed: 0.6, Turn: TurnLeft},
		Mode{Name: "TURN_RIGHT", Asset: "idle", Frames: 1, Loop: true, Speed: 0.6, Turn: TurnRight},
		Mode{Name: "WALK_LEFT", Asset: "walk", Frames: 15, Loop: true, Speed: 0.6, Turn: TurnLeft},
		Mode{Name: "WALK_RIGHT", Asset: "walk", Frames: 15, Loop: true, Speed: 0.6, Turn: TurnRight},
	),
	Pattern:          "/Villager_01/%[1]s/villager_%[1]s_",
	Layout:           LayoutFiles,
	DefaultScale:     1,
	ScaleY:           0.9,
	Rank:             RankCharacter,
	InitialMode:      "IDLE",
	InitialDirection: East,
	InitialSound:     SoundCarpetSoft,
	Sounds:           humanSounds,
	Behavior: &Script{
		Footsteps: []string{"WALK"},
		SnapTurns: true,
	},
}

const farmerScaleY = 0.55

// Farmer works a field. Its frames are horizontal strips, and the tool modes
// stretch vertically with the facing to keep the hoe and can in proportion.
var Farmer = &Kind{
	Tag: "farmer",
	Modes: NewModeSet(
		Mode{Name: "HOE", Asset: "Hoe", Frames: 13, Loop: true, Speed: 0.7},
		Mode{Name: "IDLE", Asset: "Idle", Frames: 4, Loop: true, Speed: 0.7},
		Mode{Name: "PLANT", Asset: "Plant", Frames: 11, Loop: true, Speed: 0.7},
		Mode{Name: "WALK", Asset: "Walk", Frames: 15, Loop: true, Speed: 0.7},
		Mode{Name: "WCAN", Asset: "wCan", Frames: 18, Loop: true, Speed: 0.7},
	),
	Pattern:          "/Farmer/%[1]s/%[2]d_Farmer_%[1]s_strip%[3]d.png",
	Layout:           LayoutStrip,
	DefaultScale:     1,
	DirectionShift:   6,
	ScaleYFor:        farmerScaleYFor,
	Rank:             RankCharacter,
	InitialMode:      "WALK",
	InitialDirection: East,
	InitialSound:     SoundCarpetSoft,
	Sounds: []SoundSpec{
		{SoundCarpet, impactSounds + "footstep_carpet_000.wav", 0.8},
		{SoundCarpetSoft, impactSounds + "footstep_carpet_000.wav", 0.2},
	},
	Behavior: &Script{
		ModeSounds: map[string]string{"WALK": SoundCarpetSoft},
		Footsteps:  []string{"WALK"},
	},
}

func farmerScaleYFor(m Mode, d Direction) float64 {
	s := math.Sin(d.Radians())
	switch m.Name {
	case "HOE":
		return farmerScaleY * (1.5 + 0.05*s)
	case "PLANT", "WCAN":
		return farmerScaleY * (1 + 0.05*s)
	default:
		return farmerScaleY
	}
}

// Kinds lists the built-in kinds by tag.
var Kinds = map[string]*Kind{
	Crusader.Tag: Crusader,
	Spider.Tag:   Spider,
	Villager.Tag: Villager,
	Farmer.Tag:   Farmer,
}
