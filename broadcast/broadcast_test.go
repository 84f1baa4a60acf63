package broadcast_test

import (
	"sync"
	"testing"

	"github.com/indiriim/go-notify-admin/broadcast"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesActiveSubscribers(t *testing.T) {
	b := broadcast.New()

	var first, second []broadcast.Event
	unsubFirst := b.Subscribe(func(e broadcast.Event) { first = append(first, e) })
	b.Subscribe(func(e broadcast.Event) { second = append(second, e) })

	b.Publish(broadcast.Event{Message: "one", ErrorCode: "E1"})

	unsubFirst()
	b.Publish(broadcast.Event{Message: "two"})

	require.Equal(t, []broadcast.Event{{Message: "one", ErrorCode: "E1"}}, first)
	require.Len(t, second, 2)
	require.Equal(t, "two", second[1].Message)
}

func TestUnsubscribeTwiceIsHarmless(t *testing.T) {
	b := broadcast.New()
	unsub := b.Subscribe(func(broadcast.Event) {})
	unsub()
	unsub()
	b.Publish(broadcast.Event{Message: "still fine"})
}

func TestConcurrentPublish(t *testing.T) {
	b := broadcast.New()

	var lock sync.Mutex
	var got int
	b.Subscribe(func(broadcast.Event) {
		lock.Lock()
		got++
		lock.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(broadcast.Event{Message: "m"})
		}()
	}
	wg.Wait()

	require.Equal(t, 20, got)
}
