// Package event provides a small typed publish/subscribe bus. Handlers run
// synchronously on the publishing goroutine, in the order they subscribed.
package event

import (
	"log"
	"sync"
)

// Handler receives one published value.
type Handler[T any] func(T)

type subscriber[T any] struct {
	id uint64
	h  Handler[T]
}

// Bus fans a value of type T out to every subscribed handler. The zero
// value is ready to use.
type Bus[T any] struct {
	name   string
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber[T]
}

// NewBus returns a bus whose name is used when logging handler panics.
func NewBus[T any](name string) *Bus[T] {
	return &Bus[T]{name: name}
}

// Subscription detaches a handler from its bus.
type Subscription struct {
	unsubscribe func()
	once        sync.Once
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.once.Do(s.unsubscribe)
}

// Subscribe registers h and returns a handle that removes it again.
func (b *Bus[T]) Subscribe(h Handler[T]) *Subscription {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber[T]{id: id, h: h})
	b.mu.Unlock()

	return &Subscription{unsubscribe: func() { b.remove(id) }}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every handler subscribed at the time of the call. A
// handler that panics is logged and skipped; the rest still run.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	subs := make([]subscriber[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		b.call(s, v)
	}
}

func (b *Bus[T]) call(s subscriber[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event %s: handler %d panicked: %v", b.label(), s.id, r)
		}
	}()
	s.h(v)
}

// Len returns the number of subscribed handlers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus[T]) label() string {
	if b.name == "" {
		return "bus"
	}
	return b.name
}
