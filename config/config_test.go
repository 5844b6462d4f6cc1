package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/isoscene"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Title != def.Title || cfg.Width != def.Width || cfg.Height != def.Height {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
	if cfg.TileSize != isoscene.DefaultTileSize {
		t.Errorf("TileSize = %d, want %d", cfg.TileSize, isoscene.DefaultTileSize)
	}
}

func TestLoadYAMLMergesOverDefaults(t *testing.T) {
	path := writeFile(t, "board.yaml", `
title: Board
width: 800
show_fps: true
background: [0.1, 0.2, 0.3]
sheets:
  - path: /tiles/floor.png
    code: 0
    type: floor
    iso_bias: -1.5
  - path: /tiles/props.png
    code: 500
    scale: 1.4
    offset_y: 36
    type: item
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Title != "Board" {
		t.Errorf("Title = %q, want Board", cfg.Title)
	}
	if cfg.Width != 800 {
		t.Errorf("Width = %d, want 800", cfg.Width)
	}
	if cfg.Height != isoscene.DefaultHeight {
		t.Errorf("Height = %d, want default %d", cfg.Height, isoscene.DefaultHeight)
	}
	if !cfg.ShowFPS {
		t.Error("ShowFPS should be true")
	}
	if got := cfg.Background(); got != (isoscene.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}) {
		t.Errorf("Background = %+v", got)
	}

	specs, err := cfg.SheetSpecs()
	if err != nil {
		t.Fatalf("SheetSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("len(specs) = %d, want 2", len(specs))
	}
	if specs[0].Type != isoscene.RenderFloor || specs[0].IsoBias != -1.5 {
		t.Errorf("specs[0] = %+v", specs[0])
	}
	if specs[1].Type != isoscene.RenderItem || specs[1].Code != 500 || specs[1].Scale != 1.4 || specs[1].OffsetY != 36 {
		t.Errorf("specs[1] = %+v", specs[1])
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "board.yaml", "tile_size: 80\n")
	t.Setenv("ISOSCENE_TILE_SIZE", "64")
	t.Setenv("ISOSCENE_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TileSize != 64 {
		t.Errorf("TileSize = %d, want 64 from env", cfg.TileSize)
	}
	if !cfg.Debug {
		t.Error("Debug should be set from env")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Logf("error does not wrap fs.ErrNotExist: %v", err)
	}
}

func TestLoadRejectsBadSheetType(t *testing.T) {
	path := writeFile(t, "bad.json", `{"sheets":[{"path":"/a.png","type":"roof"}]}`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown render type")
	}
}

func TestLoadRejectsBadBackground(t *testing.T) {
	path := writeFile(t, "bad.toml", "background = [0.5, 0.5]\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for two-component background")
	}
}

func TestSheetSpecsDefault(t *testing.T) {
	specs, err := Default().SheetSpecs()
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != len(isoscene.DefaultSheets) {
		t.Errorf("len = %d, want %d", len(specs), len(isoscene.DefaultSheets))
	}
}

func TestRunAndSceneConfig(t *testing.T) {
	cfg := Default()
	cfg.Title = "demo"
	cfg.Width = 640
	cfg.TPS = 30
	cfg.TileSize = 72
	cfg.ShowFPS = true

	rc, err := cfg.RunConfig()
	if err != nil {
		t.Fatalf("RunConfig: %v", err)
	}
	if rc.Title != "demo" || rc.Width != 640 || rc.TPS != 30 || !rc.ShowFPS {
		t.Errorf("RunConfig = %+v", rc)
	}
	if rc.Background != isoscene.ColorBlack {
		t.Errorf("Background = %+v, want black", rc.Background)
	}

	sc, err := cfg.SceneConfig()
	if err != nil {
		t.Fatalf("SceneConfig: %v", err)
	}
	if sc.Width != 640 || sc.TileSize != 72 || sc.TPS != 30 {
		t.Errorf("SceneConfig = %+v", sc)
	}
	if sc.Sheets != nil || sc.Host != nil {
		t.Error("SceneConfig should leave registry and host unset")
	}
}
