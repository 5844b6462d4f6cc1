package isoscene

import "testing"

// triggerLog records callbacks fired by an Animation.
type triggerLog struct {
	ticks           []float64
	begin, mid, end int
}

func (l *triggerLog) TickTrigger(fi float64) bool { l.ticks = append(l.ticks, fi); return true }
func (l *triggerLog) BeginTrigger() bool { l.begin++; return true }
func (l *triggerLog) MidTrigger() bool { l.mid++; return true }
func (l *triggerLog) EndTrigger() bool { l.end++; return true }

func TestAnimationLoopFiresOncePerCycle(t *testing.T) {
	a := newAnimation(FrameSet{}, 4, true, 1)
	var l triggerLog
	for range 8 {
		a.Tick(&l)
	}
	if len(l.ticks) != 8 {
		t.Errorf("ticks = %d, want 8", len(l.ticks))
	}
	if l.begin != 2 || l.mid != 2 || l.end != 2 {
		t.Errorf("begin/mid/end = %d/%d/%d, want 2/2/2", l.begin, l.mid, l.end)
	}
	if a.Frozen() {
		t.Error("looping animation should not freeze")
	}
	if a.FrameIndex() != 0 {
		t.Errorf("FrameIndex = %v, want 0 after two full cycles", a.FrameIndex())
	}
}

func TestAnimationFractionalSpeed(t *testing.T) {
	a := newAnimation(FrameSet{}, 4, true, 0.25)
	var l triggerLog
	for range 4 {
		a.Tick(&l)
	}
	// 0, 0.25, 0.5, 0.75 round to frames 0, 0, 1, 1.
	if len(l.ticks) != 2 {
		t.Errorf("ticks = %d, want 2 integer crossings", len(l.ticks))
	}
	if a.FrameIndex() != 1 {
		t.Errorf("FrameIndex = %v, want 1", a.FrameIndex())
	}
}

func TestAnimationNonLoopFreezes(t *testing.T) {
	a := newAnimation(FrameSet{}, 8, false, 1)
	var l triggerLog
	for range 20 {
		a.Tick(&l)
	}
	if !a.Frozen() {
		t.Fatal("non-looping animation should freeze")
	}
	if a.FrameIndex() != 7 {
		t.Errorf("FrameIndex = %v, want 7", a.FrameIndex())
	}
	if l.begin != 1 || l.mid != 1 || l.end != 1 {
		t.Errorf("begin/mid/end = %d/%d/%d, want 1/1/1", l.begin, l.mid, l.end)
	}
	if len(l.ticks) != 8 {
		t.Errorf("ticks = %d, want 8 (none after freezing)", len(l.ticks))
	}

	a.Reset()
	if a.Frozen() || a.FrameIndex() != 0 {
		t.Error("Reset should rewind and unfreeze")
	}
	a.Tick(&l)
	if len(l.ticks) != 9 || l.begin != 2 {
		t.Errorf("after Reset: ticks = %d, begin = %d; want 9, 2", len(l.ticks), l.begin)
	}
	if l.mid != 1 || l.end != 1 {
		t.Errorf("after Reset: mid/end = %d/%d, want 1/1", l.mid, l.end)
	}
}

func TestAnimationMidAtHalfCount(t *testing.T) {
	for _, n := range []int{3, 7, 8} {
		a := newAnimation(FrameSet{}, n, false, 1)
		var at []float64
		l := &midRecorder{a: a, at: &at}
		for range 2 * n {
			a.Tick(l)
		}
		if len(at) != 1 || at[0] != float64(n/2) {
			t.Errorf("count %d: mid fired at %v, want once at %d", n, at, n/2)
		}
	}
}

// midRecorder notes the frame index each time mid fires.
type midRecorder struct {
	triggerLog
	a  *Animation
	at *[]float64
}

func (r *midRecorder) MidTrigger() bool {
	*r.at = append(*r.at, r.a.FrameIndex())
	return true
}

func TestAnimationLastFrame(t *testing.T) {
	a := newAnimation(FrameSet{}, 5, true, 1)
	a.LastFrame()
	var l triggerLog
	a.Tick(&l)
	if !a.Frozen() || a.FrameIndex() != 4 {
		t.Errorf("LastFrame: frozen=%v index=%v", a.Frozen(), a.FrameIndex())
	}
	if len(l.ticks) != 0 {
		t.Error("frozen animation should not fire callbacks")
	}
}

func TestNewAnimationRandomPhase(t *testing.T) {
	for range 20 {
		a := NewAnimation(FrameSet{}, 6, true, 1)
		if fi := a.FrameIndex(); fi < 0 || fi >= 6 || fi != float64(int(fi)) {
			t.Fatalf("initial FrameIndex = %v, want integer in [0, 6)", fi)
		}
	}
}

func TestAnimationMissingFrames(t *testing.T) {
	a := newAnimation(FrameSet{}, 3, true, 1)
	if a.CurrentFrame() != nil || a.CurrentShadow() != nil {
		t.Error("empty frame set should yield nil frames")
	}
}

func TestAnimationZeroFramesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero frames")
		}
	}()
	newAnimation(FrameSet{}, 0, true, 1)
}
