package sched

import (
	"testing"
	"time"
)

func TestAfterFiresInDueOrder(t *testing.T) {
	s := New()
	var got []int

	s.After(30*time.Millisecond, func() { got = append(got, 3) })
	s.After(10*time.Millisecond, func() { got = append(got, 1) })
	s.After(20*time.Millisecond, func() { got = append(got, 2) })

	fired := s.Advance(25 * time.Millisecond)
	if fired != 2 {
		t.Errorf("expected 2 callbacks, got %d", fired)
	}
	if s.Now() != 25*time.Millisecond {
		t.Errorf("expected now 25ms, got %v", s.Now())
	}

	s.Advance(10 * time.Millisecond)
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestEqualDueTimesAreFIFO(t *testing.T) {
	s := New()
	var got []string
	for _, name := range []string{"a", "b", "c"} {
		s.After(5*time.Millisecond, func() { got = append(got, name) })
	}
	s.Advance(5 * time.Millisecond)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("expected [a b c], got %v", got)
	}
}

func TestCallbackSeesItsDueTime(t *testing.T) {
	s := New()
	var at time.Duration
	s.After(7*time.Millisecond, func() { at = s.Now() })
	s.Advance(100 * time.Millisecond)
	if at != 7*time.Millisecond {
		t.Errorf("expected callback at 7ms, got %v", at)
	}
}

func TestChainedTimersFireWithinOneAdvance(t *testing.T) {
	s := New()
	count := 0
	var step func()
	step = func() {
		count++
		if count < 5 {
			s.After(time.Millisecond, step)
		}
	}
	s.After(time.Millisecond, step)

	s.Advance(10 * time.Millisecond)
	if count != 5 {
		t.Errorf("expected 5 chained steps, got %d", count)
	}
}

func TestStop(t *testing.T) {
	s := New()
	fired := false
	timer := s.After(time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Error("expected Stop to report a pending timer")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}
	s.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if s.Pending() != 0 {
		t.Errorf("expected empty queue, got %d", s.Pending())
	}
}

func TestEveryRepeatsUntilStopped(t *testing.T) {
	s := New()
	ticks := 0
	var timer *Timer
	timer = s.Every(2*time.Millisecond, func() {
		ticks++
		if ticks == 4 {
			timer.Stop()
		}
	})

	s.Advance(100 * time.Millisecond)
	if ticks != 4 {
		t.Errorf("expected 4 ticks, got %d", ticks)
	}
}

func TestDrain(t *testing.T) {
	s := New()
	s.After(time.Second, func() {})
	s.After(2*time.Second, func() {})

	if n := s.Drain(10); n != 2 {
		t.Errorf("expected 2 callbacks, got %d", n)
	}
	if s.Now() != 2*time.Second {
		t.Errorf("expected now 2s, got %v", s.Now())
	}
	if _, ok := s.Next(); ok {
		t.Error("expected empty queue")
	}
}

func TestTimeNeverMovesBackwards(t *testing.T) {
	s := New()
	s.Advance(50 * time.Millisecond)
	s.AdvanceTo(10 * time.Millisecond)
	if s.Now() != 50*time.Millisecond {
		t.Errorf("expected now 50ms, got %v", s.Now())
	}
}
