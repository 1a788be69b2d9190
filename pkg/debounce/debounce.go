// Package debounce coalesces rapid per-channel volume edits into at most one
// backend write per channel per quiet period.
//
// An edit on one channel immediately commits any other channel's pending
// value, so a channel's write is delayed only while that same channel keeps
// receiving edits.
package debounce

import (
	"sort"
	"sync"
	"time"
)

// DefaultQuietPeriod is the inactivity window after which a channel's last
// value is committed.
const DefaultQuietPeriod = 250 * time.Millisecond

// CommitFunc performs the write for one channel.
type CommitFunc func(channel string, value int)

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(d *Debouncer) { d.clock = c }
}

// WithDisplay registers a callback run synchronously on every edit, before
// any debouncing, to update the locally displayed value.
func WithDisplay(f func(channel string, value int)) Option {
	return func(d *Debouncer) { d.display = f }
}

type pendingEdit struct {
	timer Timer
	value int
	gen   uint64
}

type commitReq struct {
	channel string
	value   int
}

// Debouncer owns the per-channel pending-edit map. It is safe for concurrent
// use; each Edit applies its flush/cancel/arm steps atomically.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	clock   Clock
	commit  CommitFunc
	display func(channel string, value int)
	pending map[string]*pendingEdit
	gen     uint64
	closed  bool
}

// New creates a Debouncer. A non-positive quiet period selects the default.
func New(quiet time.Duration, commit CommitFunc, opts ...Option) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	d := &Debouncer{
		quiet:   quiet,
		clock:   RealClock(),
		commit:  commit,
		pending: make(map[string]*pendingEdit),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Edit records a requested value for a channel.
func (d *Debouncer) Edit(channel string, value int) {
	if d.display != nil {
		d.display(channel, value)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	var flushes []commitReq
	for ch, p := range d.pending {
		if ch == channel {
			continue
		}
		p.timer.Stop()
		delete(d.pending, ch)
		flushes = append(flushes, commitReq{channel: ch, value: p.value})
	}

	if p, ok := d.pending[channel]; ok {
		p.timer.Stop()
	}

	d.gen++
	gen := d.gen
	entry := &pendingEdit{value: value, gen: gen}
	entry.timer = d.clock.AfterFunc(d.quiet, func() { d.fire(channel, gen) })
	d.pending[channel] = entry
	d.mu.Unlock()

	d.run(flushes)
}

// Flush commits every pending value now.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	flushes := d.drain()
	d.mu.Unlock()
	d.run(flushes)
}

// Close flushes pending values and ignores later edits.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	flushes := d.drain()
	d.mu.Unlock()
	d.run(flushes)
}

// Pending returns the pending value for a channel.
func (d *Debouncer) Pending(channel string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[channel]
	if !ok {
		return 0, false
	}
	return p.value, true
}

// PendingChannels returns the channels with a pending value, sorted.
func (d *Debouncer) PendingChannels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.pending))
	for ch := range d.pending {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

func (d *Debouncer) fire(channel string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[channel]
	if !ok || p.gen != gen {
		// Superseded by a later edit or already flushed.
		d.mu.Unlock()
		return
	}
	delete(d.pending, channel)
	d.mu.Unlock()
	d.commit(channel, p.value)
}

// drain must be called with mu held.
func (d *Debouncer) drain() []commitReq {
	flushes := make([]commitReq, 0, len(d.pending))
	for ch, p := range d.pending {
		p.timer.Stop()
		flushes = append(flushes, commitReq{channel: ch, value: p.value})
	}
	d.pending = make(map[string]*pendingEdit)
	sort.Slice(flushes, func(i, j int) bool { return flushes[i].channel < flushes[j].channel })
	return flushes
}

func (d *Debouncer) run(flushes []commitReq) {
	sort.Slice(flushes, func(i, j int) bool { return flushes[i].channel < flushes[j].channel })
	for _, f := range flushes {
		d.commit(f.channel, f.value)
	}
}
