package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	Channel string
	Value   int
}

type recorder struct {
	mu     sync.Mutex
	writes []write
}

func (r *recorder) commit(channel string, value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, write{channel, value})
}

func (r *recorder) all() []write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]write(nil), r.writes...)
}

func newTestDebouncer(opts ...Option) (*Debouncer, *ManualClock, *recorder) {
	clock := NewManualClock()
	rec := &recorder{}
	d := New(250*time.Millisecond, rec.commit, append([]Option{WithClock(clock)}, opts...)...)
	return d, clock, rec
}

func TestEditsCoalesceToLastValue(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Edit("FL", 80)
	clock.Advance(100 * time.Millisecond)
	d.Edit("FL", 90)
	clock.Advance(100 * time.Millisecond)
	d.Edit("FL", 100)

	assert.Empty(t, rec.all(), "nothing is written while the channel is still being edited")

	clock.Advance(249 * time.Millisecond)
	assert.Empty(t, rec.all())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []write{{"FL", 100}}, rec.all())

	_, pending := d.Pending("FL")
	assert.False(t, pending)
	assert.Zero(t, clock.Pending())
}

func TestEditOnOtherChannelFlushesImmediately(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Edit("FL", 70)
	clock.Advance(50 * time.Millisecond)
	d.Edit("FR", 60)

	assert.Equal(t, []write{{"FL", 70}}, rec.all(), "FL flushed synchronously by the FR edit")
	assert.Equal(t, []string{"FR"}, d.PendingChannels())

	// The cancelled FL timer must not fire a second write.
	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, []write{{"FL", 70}, {"FR", 60}}, rec.all())
}

func TestAtMostOneTimerPerChannel(t *testing.T) {
	d, clock, _ := newTestDebouncer()

	for v := 0; v < 20; v++ {
		d.Edit("LFE", v)
		clock.Advance(10 * time.Millisecond)
	}
	assert.Equal(t, 1, clock.Pending())
	v, ok := d.Pending("LFE")
	require.True(t, ok)
	assert.Equal(t, 19, v)
}

func TestIndependentQuietPeriodsAfterFlush(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Edit("FL", 10)
	d.Edit("FR", 20)
	d.Edit("FR", 25)
	clock.Advance(250 * time.Millisecond)
	d.Edit("FC", 30)
	clock.Advance(250 * time.Millisecond)

	assert.Equal(t, []write{{"FL", 10}, {"FR", 25}, {"FC", 30}}, rec.all())
}

func TestDisplayUpdatedOnEveryEdit(t *testing.T) {
	var shown []write
	d, _, rec := newTestDebouncer(WithDisplay(func(ch string, v int) {
		shown = append(shown, write{ch, v})
	}))

	d.Edit("FL", 80)
	d.Edit("FL", 90)

	assert.Equal(t, []write{{"FL", 80}, {"FL", 90}}, shown)
	assert.Empty(t, rec.all())
}

func TestFlushAndClose(t *testing.T) {
	d, clock, rec := newTestDebouncer()

	d.Edit("SL", 40)
	d.Flush()
	assert.Equal(t, []write{{"SL", 40}}, rec.all())

	d.Edit("SR", 50)
	d.Close()
	assert.Equal(t, []write{{"SL", 40}, {"SR", 50}}, rec.all())

	d.Edit("SR", 55)
	clock.Advance(time.Second)
	assert.Len(t, rec.all(), 2, "edits after Close are dropped")
	assert.Zero(t, clock.Pending())
}

func TestRealClockCommits(t *testing.T) {
	rec := &recorder{}
	d := New(10*time.Millisecond, rec.commit)

	d.Edit("FL", 1)
	d.Edit("FL", 2)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []write{{"FL", 2}}, rec.all())
}

func TestDefaultQuietPeriod(t *testing.T) {
	d := New(0, func(string, int) {})
	assert.Equal(t, DefaultQuietPeriod, d.quiet)
}
