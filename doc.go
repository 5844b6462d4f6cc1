// Package isoscene is an isometric scene and sprite-animation engine for
// [Ebitengine].
//
// A [Scene] owns three collections: ground tiles, static objects cut from
// sprite sheets, and animated [Character] values. Every tick advances each
// character's current [Animation]; every frame culls, depth-sorts and draws
// everything through an isometric [Projector].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := isoscene.NewScene(isoscene.SceneConfig{})
//	_ = scene.LoadSheets(os.DirFS("res"), isoscene.DefaultSheets)
//	scene.FillCheckerboard(0, 0, 8, 8)
//
//	knight := isoscene.NewCharacter(isoscene.Crusader, res, 0, nil)
//	knight.SetPosition(2, 3, 0)
//	scene.AddCharacter(knight)
//
//	isoscene.Run(scene, isoscene.RunConfig{Title: "Board", ShowFPS: true})
//
// For full control, implement [ebiten.Game] yourself and call [Scene.Tick]
// from Update and [Scene.Draw] from Draw.
//
// # Characters
//
// A [Kind] describes a character type: a closed [ModeSet], frame path
// patterns and a [Behavior] reacting to animation triggers. Frames come from
// an [AssetProvider] (see isoscene/assets) and are shared between characters
// of the same kind, scale and tint through a reference-counted [FrameCache].
//
// Animations fire begin, mid, tick and end triggers on integer frame
// crossings. Per-character [TriggerFunc] hooks run first and may veto the
// kind's default reaction by returning false:
//
//	knight.SetEndTrigger(func(c *isoscene.Character) bool {
//		return !c.ModeIs("ATTACK") // hold the last attack frame
//	})
//
// Turning between facings uses [gween] tweens; trigger events can be
// mirrored into a [Donburi] world via isoscene/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package isoscene
