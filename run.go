package isoscene

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// TPS overrides the scene tick rate when set.
	TPS int
	// Background fills the screen before the scene draws. Zero is black.
	Background Color
	// Resizable lets the user resize the window; the scene origin follows.
	Resizable bool
	// ShowFPS overlays the measured FPS and TPS.
	ShowFPS bool
	// Debug enables scene debug mode.
	Debug bool
}

// Run opens a window and drives scene until the window closes or the update
// callback returns an error. ebiten.Termination is not reported as an error.
func Run(scene *Scene, cfg RunConfig) error {
	w, h := scene.Size()
	if cfg.Width > 0 && cfg.Height > 0 {
		w, h = cfg.Width, cfg.Height
		scene.Resize(w, h)
	}
	if cfg.TPS > 0 {
		scene.tps = cfg.TPS
	}
	if cfg.Debug {
		scene.SetDebugMode(true)
	}

	ebiten.SetWindowSize(w, h)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetTPS(scene.TPS())
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := &gameShell{scene: scene, cfg: cfg, bg: cfg.Background.RGBA()}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("isoscene: run: %w", err)
	}
	return nil
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene *Scene
	cfg   RunConfig
	bg    color.RGBA

	fps, tps   float64
	statsTicks int
}

// fpsRefreshTicks is how often the FPS overlay text is refreshed.
const fpsRefreshTicks = 25

func (g *gameShell) Update() error {
	if fn := g.scene.update; fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	g.scene.Tick()

	if g.cfg.ShowFPS {
		g.statsTicks++
		if g.statsTicks >= fpsRefreshTicks {
			g.statsTicks = 0
			g.fps = ebiten.ActualFPS()
			g.tps = ebiten.ActualTPS()
		}
	}
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)
	g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", g.fps, g.tps))
	}
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !g.cfg.Resizable {
		return g.scene.Size()
	}
	if w, h := g.scene.Size(); w != outsideWidth || h != outsideHeight {
		g.scene.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
