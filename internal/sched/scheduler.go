package sched

import (
	"container/heap"
	"time"
)

// Scheduler is a single-threaded timer queue running on virtual time.
// Callers drive it with Advance/AdvanceTo, either from a real frame tick
// or directly from tests.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// Timer is a handle to a scheduled callback.
type Timer struct {
	s       *Scheduler
	at      time.Duration
	every   time.Duration
	seq     uint64
	fn      func()
	index   int
	stopped bool
}

func New() *Scheduler {
	return &Scheduler{queue: make(timerQueue, 0, 16)}
}

func (s *Scheduler) Now() time.Duration { return s.now }

// After runs fn once, d after the current virtual time.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return s.push(&Timer{at: s.now + d, fn: fn})
}

// Every runs fn repeatedly with period d until the timer is stopped.
// A non-positive period is clamped to one nanosecond.
func (s *Scheduler) Every(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return s.push(&Timer{at: s.now + d, every: d, fn: fn})
}

func (s *Scheduler) push(t *Timer) *Timer {
	t.s = s
	t.seq = s.seq
	s.seq++
	heap.Push(&s.queue, t)
	return t
}

// Stop prevents the timer from firing again. It reports whether the
// timer was still pending.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	if t.index >= 0 && t.index < len(t.s.queue) && t.s.queue[t.index] == t {
		heap.Remove(&t.s.queue, t.index)
	}
	return true
}

// Advance moves virtual time forward by d.
func (s *Scheduler) Advance(d time.Duration) int {
	return s.AdvanceTo(s.now + d)
}

// AdvanceTo fires every timer due at or before t, in due order, and
// returns the number of callbacks run. Time never moves backwards.
func (s *Scheduler) AdvanceTo(t time.Duration) int {
	fired := 0
	for len(s.queue) > 0 && s.queue[0].at <= t {
		s.now = max(s.now, s.queue[0].at)
		fired += s.advanceOne()
	}
	if t > s.now {
		s.now = t
	}
	return fired
}

// Next reports the due time of the earliest pending timer.
func (s *Scheduler) Next() (time.Duration, bool) {
	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].at, true
}

func (s *Scheduler) Pending() int { return len(s.queue) }

// Drain jumps from timer to timer until the queue is empty or limit
// callbacks have run. Repeating timers keep the queue alive, so callers
// must stop them for Drain to finish early.
func (s *Scheduler) Drain(limit int) int {
	fired := 0
	for fired < limit {
		at, ok := s.Next()
		if !ok {
			break
		}
		s.now = max(s.now, at)
		n := s.advanceOne()
		if n == 0 {
			break
		}
		fired += n
	}
	return fired
}

func (s *Scheduler) advanceOne() int {
	if len(s.queue) == 0 {
		return 0
	}
	next := heap.Pop(&s.queue).(*Timer)
	if next.every > 0 {
		next.at += next.every
		next.seq = s.seq
		s.seq++
		heap.Push(&s.queue, next)
	} else {
		next.stopped = true
	}
	next.fn()
	return 1
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
