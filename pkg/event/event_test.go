package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireReachesEveryListener(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var got []string
	Listen("order.created", func(p interface{}) { got = append(got, "first:"+p.(string)) })
	Listen("order.created", func(p interface{}) { got = append(got, "second:"+p.(string)) })
	Listen("order.canceled", func(p interface{}) { got = append(got, "wrong-event") })

	Fire("order.created", "1234")

	assert.Equal(t, []string{"first:1234", "second:1234"}, got)
}

func TestFireWithoutListenersIsANoOp(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	assert.NotPanics(t, func() { Fire("nobody.listens", nil) })
}

func TestFireAsyncEventuallyDelivers(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var wg sync.WaitGroup
	wg.Add(1)
	var payload interface{}
	Listen("order.created", func(p interface{}) {
		payload = p
		wg.Done()
	})

	FireAsync("order.created", "5678")

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async listener never ran")
	}
	require.Equal(t, "5678", payload)
}

func TestListenersRegisteredAfterFireDoNotSeeIt(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	Fire("order.created", "before")

	called := false
	Listen("order.created", func(p interface{}) { called = true })
	assert.False(t, called)
}
