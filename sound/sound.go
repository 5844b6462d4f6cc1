// Package sound is a named sound cache on gopxl/beep. Sounds are decoded
// once into memory buffers and played fire-and-forget through a shared mixer.
package sound

import (
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/phanxgames/isoscene"
)

const (
	// SampleRate is the mixer rate. Sounds are resampled to it on load.
	SampleRate = beep.SampleRate(44100)

	// MaxPlaying caps simultaneous voices; further Play calls are dropped.
	MaxPlaying = 10

	resampleQuality = 4
)

type entry struct {
	buf    *beep.Buffer
	volume float64
}

// Cache implements isoscene.SoundCache.
type Cache struct {
	fsys fs.FS

	mu          sync.Mutex
	sounds      map[string]*entry
	mixer       *beep.Mixer
	playing     int
	initialized bool
}

var _ isoscene.SoundCache = (*Cache)(nil)

// New returns a cache reading WAV files from fsys. Paths given to
// LoadIfAbsent may carry a leading slash.
func New(fsys fs.FS) *Cache {
	return &Cache{
		fsys:   fsys,
		sounds: make(map[string]*entry),
		mixer:  &beep.Mixer{},
	}
}

// Init opens the audio device. Until Init succeeds, Play is a no-op, so a
// machine without audio still runs.
func (c *Cache) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("sound: init speaker: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences every voice. The device stays open.
func (c *Cache) Close() {
	c.mu.Lock()
	wasInit := c.initialized
	c.initialized = false
	c.mu.Unlock()
	if !wasInit {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.mu.Lock()
	c.playing = 0
	c.mu.Unlock()
}

// LoadIfAbsent decodes the WAV file at path under name. volume scales the
// amplitude; 1 plays the file as is. Loading a name twice keeps the first.
func (c *Cache) LoadIfAbsent(name, path string, volume float64) error {
	c.mu.Lock()
	_, ok := c.sounds[name]
	c.mu.Unlock()
	if ok {
		return nil
	}

	buf, err := c.decode(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sounds[name]; !ok {
		c.sounds[name] = &entry{buf: buf, volume: volume}
	}
	return nil
}

func (c *Cache) decode(path string) (*beep.Buffer, error) {
	f, err := c.fsys.Open(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("sound: open %s: %w", path, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("sound: decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, SampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	return buf, nil
}

// Loaded reports whether name is cached.
func (c *Cache) Loaded(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sounds[name]
	return ok
}

// Duration returns the length of a cached sound.
func (c *Cache) Duration(name string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.sounds[name]
	if !ok {
		return 0, false
	}
	return SampleRate.D(e.buf.Len()), true
}

// Playing returns the number of voices currently playing.
func (c *Cache) Playing() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Play starts a cached sound. Unknown names are logged and ignored.
func (c *Cache) Play(name string) {
	c.mu.Lock()
	e, ok := c.sounds[name]
	if !ok {
		c.mu.Unlock()
		log.Printf("sound: %q not in cache", name)
		return
	}
	if !c.initialized || c.playing >= MaxPlaying {
		c.mu.Unlock()
		return
	}
	c.playing++
	c.mu.Unlock()

	voice := beep.Seq(
		&effects.Gain{Streamer: e.buf.Streamer(0, e.buf.Len()), Gain: e.volume - 1},
		beep.Callback(c.voiceDone),
	)
	// The mixer is read by the speaker goroutine; never hold c.mu here.
	speaker.Lock()
	c.mixer.Add(voice)
	speaker.Unlock()
}

func (c *Cache) voiceDone() {
	c.mu.Lock()
	if c.playing > 0 {
		c.playing--
	}
	c.mu.Unlock()
}
