package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 10)}
}

func (r *recorder) record(q string) {
	r.mu.Lock()
	r.calls = append(r.calls, q)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestRapidCallsCollapseToLastValue(t *testing.T) {
	rec := newRecorder()
	d := New(30*time.Millisecond, rec.record)

	for _, q := range []string{"l", "lu", "lun", "luna"} {
		d.Call(q)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	select {
	case <-rec.fired:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, []string{"luna"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestSeparatedCallsBothFire(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Call("a")
	<-rec.fired
	d.Call("b")
	<-rec.fired

	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

func TestStopCancelsPending(t *testing.T) {
	rec := newRecorder()
	d := New(10*time.Millisecond, rec.record)

	d.Call("gone")
	d.Stop()
	assert.False(t, d.Pending())
	time.Sleep(40 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func TestDefaultDelay(t *testing.T) {
	d := New(0, func(string) {})
	assert.Equal(t, Delay, d.delay)
	assert.Equal(t, 300*time.Millisecond, Delay)
}
