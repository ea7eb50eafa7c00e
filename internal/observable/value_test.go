package observable

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSetNotifiesSynchronously(t *testing.T) {
	v := New("a")

	var got []string
	cancel := v.Subscribe(func(s string) { got = append(got, s) })
	defer cancel()

	v.Set("b")
	v.Set("c")

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, "c", v.Get())
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	v := New(0)

	var order []string
	c1 := v.Subscribe(func(int) { order = append(order, "first") })
	c2 := v.Subscribe(func(int) { order = append(order, "second") })
	defer c1()
	defer c2()

	order = nil
	v.Set(1)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestCancelStopsNotifications(t *testing.T) {
	v := New(0)

	calls := 0
	cancel := v.Subscribe(func(int) { calls++ })
	require.Equal(t, 1, v.Subscribers())

	cancel()
	cancel()
	v.Set(1)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, v.Subscribers())
}

func TestSubscriberMayRead(t *testing.T) {
	v := New(1)

	var seen int
	cancel := v.Subscribe(func(int) { seen = v.Get() })
	defer cancel()

	v.Set(42)
	assert.Equal(t, 42, seen)
}

func TestChangesKeepsNewest(t *testing.T) {
	v := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Changes(ctx)
	v.Set(1)
	v.Set(2)
	v.Set(3)

	select {
	case got := <-ch:
		assert.Equal(t, 3, got)
	case <-time.After(time.Second):
		t.Fatal("no value delivered")
	}
}

func TestChangesUnsubscribesOnCancel(t *testing.T) {
	v := New(0)
	ctx, cancel := context.WithCancel(context.Background())

	_ = v.Changes(ctx)
	require.Equal(t, 1, v.Subscribers())

	cancel()
	assert.Eventually(t, func() bool { return v.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestConcurrentSetAndGet(t *testing.T) {
	v := New(0)

	var mu sync.Mutex
	var last int
	cancel := v.Subscribe(func(n int) {
		mu.Lock()
		last = n
		mu.Unlock()
	})
	defer cancel()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Set(n)
			_ = v.Get()
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, v.Get(), last)
}
