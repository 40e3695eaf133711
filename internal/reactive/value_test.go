package reactive

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for emission")
		panic("unreachable")
	}
}

func TestGetReturnsInitialValue(t *testing.T) {
	v := New(42)
	assert.Equal(t, 42, v.Get())
}

func TestSetUpdatesSnapshot(t *testing.T) {
	v := New("a")
	v.Set("b")
	assert.Equal(t, "b", v.Get())
}

func TestSubscribeReceivesCurrentValueImmediately(t *testing.T) {
	v := New(7)
	sub := v.Subscribe()
	defer sub.Cancel()

	assert.Equal(t, 7, receive(t, sub.Updates()))
}

func TestSubscriberReceivesChanges(t *testing.T) {
	v := New(0)
	sub := v.Subscribe()
	defer sub.Cancel()

	assert.Equal(t, 0, receive(t, sub.Updates()))

	v.Set(1)
	assert.Equal(t, 1, receive(t, sub.Updates()))

	v.Set(2)
	assert.Equal(t, 2, receive(t, sub.Updates()))
}

func TestSlowSubscriberCoalescesToLatest(t *testing.T) {
	v := New(0)
	sub := v.Subscribe()
	defer sub.Cancel()

	// Subscriber never drains; every Set overwrites the pending emission.
	v.Set(1)
	v.Set(2)
	v.Set(3)

	assert.Equal(t, 3, receive(t, sub.Updates()))
	assert.Equal(t, 3, v.Get())
}

func TestUpdateSerializesReadModifyWrite(t *testing.T) {
	v := New(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, v.Get())
}

func TestFanOutToMultipleSubscribers(t *testing.T) {
	v := New("start")

	subA := v.Subscribe()
	defer subA.Cancel()
	subB := v.Subscribe()
	defer subB.Cancel()

	require.Equal(t, "start", receive(t, subA.Updates()))
	require.Equal(t, "start", receive(t, subB.Updates()))

	v.Set("next")
	assert.Equal(t, "next", receive(t, subA.Updates()))
	assert.Equal(t, "next", receive(t, subB.Updates()))
}

func TestCancelClosesChannelAndUnregisters(t *testing.T) {
	v := New(1)
	sub := v.Subscribe()
	require.Equal(t, 1, v.SubscriberCount())

	sub.Cancel()
	assert.Equal(t, 0, v.SubscriberCount())

	// drain the queued initial value, then observe the close
	<-sub.Updates()
	_, open := <-sub.Updates()
	assert.False(t, open)

	// further emissions must not panic
	v.Set(2)
}

func TestCancelIsIdempotent(t *testing.T) {
	v := New(1)
	sub := v.Subscribe()
	sub.Cancel()
	sub.Cancel()
	assert.Equal(t, 0, v.SubscriberCount())
}

func TestLateSubscriberSeesLatestOnly(t *testing.T) {
	v := New(1)
	v.Set(2)
	v.Set(3)

	sub := v.Subscribe()
	defer sub.Cancel()
	assert.Equal(t, 3, receive(t, sub.Updates()))
}
