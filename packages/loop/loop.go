package loop

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// DefaultMaxTasks bounds Run so that a task that keeps rescheduling itself
// cannot spin forever.
const DefaultMaxTasks = 10000

// ErrRunaway is returned by RunErr when the task budget is exhausted.
var ErrRunaway = errors.New("loop: task budget exhausted")

type task struct {
	due time.Duration
	seq uint64
	fn  func()
	t   *Timer
}

// Timer is the handle of a scheduled task.
type Timer struct {
	loop    *Loop
	seq     uint64
	stopped bool
	fired   bool
}

// Stop cancels the task. It reports whether the task was still pending.
// Stopping a fired or stopped timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	return t.loop.cancel(t)
}

// Loop is a virtual-time task queue.
type Loop struct {
	mu       sync.Mutex
	now      time.Duration
	seq      uint64
	queue    []*task
	maxTasks int
}

// Option configures a Loop
type Option func(*Loop)

// WithMaxTasks sets the task budget of a single Run call
func WithMaxTasks(n int) Option {
	return func(l *Loop) {
		l.maxTasks = n
	}
}

// New creates an empty loop with its clock at zero.
func New(opts ...Option) *Loop {
	l := &Loop{
		queue:    make([]*task, 0),
		maxTasks: DefaultMaxTasks,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the virtual time elapsed since the loop was created.
func (l *Loop) Now() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// Pending returns the number of tasks waiting to run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// SetTimeout schedules fn to run once the clock reaches Now()+d.
// Negative delays are treated as zero.
func (l *Loop) SetTimeout(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	t := &Timer{loop: l, seq: l.seq}
	tk := &task{due: l.now + d, seq: l.seq, fn: fn, t: t}

	// Keep the queue ordered by due time, FIFO among equals
	i := sort.Search(len(l.queue), func(i int) bool {
		q := l.queue[i]
		return q.due > tk.due || (q.due == tk.due && q.seq > tk.seq)
	})
	l.queue = append(l.queue, nil)
	copy(l.queue[i+1:], l.queue[i:])
	l.queue[i] = tk

	return t
}

func (l *Loop) cancel(t *Timer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true

	for i, tk := range l.queue {
		if tk.seq == t.seq {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			return true
		}
	}
	return false
}

// pop removes the next task if it is due at or before limit
func (l *Loop) pop(limit time.Duration, bounded bool) *task {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}
	next := l.queue[0]
	if bounded && next.due > limit {
		return nil
	}
	l.queue = l.queue[1:]
	if next.due > l.now {
		l.now = next.due
	}
	next.t.fired = true
	return next
}

// Step runs the next task, moving the clock to its due time.
// It reports whether a task ran.
func (l *Loop) Step() bool {
	tk := l.pop(0, false)
	if tk == nil {
		return false
	}
	tk.fn()
	return true
}

// Advance runs every task due within d of the current time, including tasks
// scheduled by those tasks, then sets the clock to Now()+d. It returns the
// number of tasks run.
func (l *Loop) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	limit := l.Now() + d

	ran := 0
	for {
		tk := l.pop(limit, true)
		if tk == nil {
			break
		}
		tk.fn()
		ran++
	}

	l.mu.Lock()
	if l.now < limit {
		l.now = limit
	}
	l.mu.Unlock()

	return ran
}

// Run drains the queue and returns the number of tasks run. It stops early
// once the task budget is spent.
func (l *Loop) Run() int {
	ran, _ := l.RunErr()
	return ran
}

// RunErr is Run returning ErrRunaway when the budget was exhausted with
// tasks still pending.
func (l *Loop) RunErr() (int, error) {
	ran := 0
	for ran < l.maxTasks {
		if !l.Step() {
			return ran, nil
		}
		ran++
	}
	if l.Pending() > 0 {
		return ran, ErrRunaway
	}
	return ran, nil
}
