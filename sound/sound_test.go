package sound

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

// writeTone writes a sine tone WAV of the given length into dir.
func writeTone(t *testing.T, dir, name string, sr beep.SampleRate, d time.Duration) {
	t.Helper()
	tone, err := generators.SineTone(sr, 440)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: sr, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Take(sr.N(d), tone), format); err != nil {
		t.Fatal(err)
	}
}

func TestLoadIfAbsent(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, "step.wav", SampleRate, 250*time.Millisecond)
	c := New(os.DirFS(dir))

	if err := c.LoadIfAbsent("STEP", "/step.wav", 0.5); err != nil {
		t.Fatalf("LoadIfAbsent: %v", err)
	}
	if !c.Loaded("STEP") {
		t.Fatal("STEP should be loaded")
	}
	d, ok := c.Duration("STEP")
	if !ok || d != 250*time.Millisecond {
		t.Errorf("Duration = %v, %v; want 250ms", d, ok)
	}
	// A second load under the same name keeps the first entry.
	if err := c.LoadIfAbsent("STEP", "/missing.wav", 1); err != nil {
		t.Errorf("reloading a cached name should not touch the file: %v", err)
	}
}

func TestLoadResamples(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, "low.wav", 22050, 200*time.Millisecond)
	c := New(os.DirFS(dir))
	if err := c.LoadIfAbsent("LOW", "low.wav", 1); err != nil {
		t.Fatalf("LoadIfAbsent: %v", err)
	}
	d, _ := c.Duration("LOW")
	if d < 190*time.Millisecond || d > 210*time.Millisecond {
		t.Errorf("Duration = %v, want about 200ms after resampling", d)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := New(os.DirFS(t.TempDir()))
	err := c.LoadIfAbsent("NOPE", "/nope.wav", 1)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
	if c.Loaded("NOPE") {
		t.Error("failed load should not be cached")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(os.DirFS(dir))
	if err := c.LoadIfAbsent("BAD", "bad.wav", 1); err == nil {
		t.Error("expected decode error")
	}
}

func TestPlayWithoutDevice(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, "hit.wav", SampleRate, 50*time.Millisecond)
	c := New(os.DirFS(dir))
	if err := c.LoadIfAbsent("HIT", "hit.wav", 1); err != nil {
		t.Fatal(err)
	}
	// Without Init every Play is a silent no-op.
	c.Play("HIT")
	c.Play("UNKNOWN")
	if c.Playing() != 0 {
		t.Errorf("Playing = %d, want 0 before Init", c.Playing())
	}
	c.Close()
}

func TestVoiceDoneNeverNegative(t *testing.T) {
	c := New(os.DirFS(t.TempDir()))
	c.voiceDone()
	if c.Playing() != 0 {
		t.Errorf("Playing = %d, want 0", c.Playing())
	}
}
