package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishCallsHandlersInOrder(t *testing.T) {
	b := NewBus[int]("test")
	var got []string
	b.Subscribe(func(v int) { got = append(got, "a") })
	b.Subscribe(func(v int) { got = append(got, "b") })
	b.Subscribe(func(v int) { got = append(got, "c") })

	b.Publish(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestPublishPassesSameValue(t *testing.T) {
	type payload struct{ Repo string }
	b := NewBus[payload]("test")
	var seen []payload
	for i := 0; i < 3; i++ {
		b.Subscribe(func(p payload) { seen = append(seen, p) })
	}

	b.Publish(payload{Repo: "hound"})
	assert.Equal(t, []payload{{"hound"}, {"hound"}, {"hound"}}, seen)
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	b := NewBus[string]("test")
	var calls int
	b.Subscribe(func(string) { calls++ })
	b.Subscribe(func(string) { panic("boom") })
	b.Subscribe(func(string) { calls++ })

	assert.NotPanics(t, func() { b.Publish("x") })
	assert.Equal(t, 2, calls)
}

func TestUnsubscribe(t *testing.T) {
	var b Bus[int]
	var a, c int
	b.Subscribe(func(v int) { a += v })
	sub := b.Subscribe(func(v int) { c += v })
	assert.Equal(t, 2, b.Len())

	b.Publish(1)
	sub.Unsubscribe()
	sub.Unsubscribe()
	b.Publish(1)

	assert.Equal(t, 2, a)
	assert.Equal(t, 1, c)
	assert.Equal(t, 1, b.Len())
}

func TestSubscribeDuringPublishWaitsForNextPublish(t *testing.T) {
	b := NewBus[int]("test")
	var late int
	b.Subscribe(func(int) {
		b.Subscribe(func(int) { late++ })
	})

	b.Publish(1)
	assert.Equal(t, 0, late)
	b.Publish(1)
	assert.Equal(t, 1, late)
}
