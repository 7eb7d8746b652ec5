package app

import (
	"sync"

	"zoomview/internal/zoom"
)

// BackButton dispatches hardware back presses to subscribed handlers, most
// recent first, until one consumes the press.
type BackButton struct {
	mu       sync.Mutex
	next     int
	handlers []backHandler
}

type backHandler struct {
	id int
	fn func() bool
}

var _ zoom.BackDispatcher = (*BackButton)(nil)

// NewBackButton creates an empty dispatcher.
func NewBackButton() *BackButton {
	return &BackButton{}
}

// Subscribe registers fn and returns a function that removes it. The remove
// function is idempotent.
func (b *BackButton) Subscribe(fn func() bool) func() {
	b.mu.Lock()
	b.next++
	id := b.next
	b.handlers = append(b.handlers, backHandler{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, h := range b.handlers {
			if h.id == id {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers a back press and reports whether any handler consumed it.
func (b *BackButton) Dispatch() bool {
	b.mu.Lock()
	handlers := make([]backHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		if handlers[i].fn() {
			return true
		}
	}
	return false
}

// Len returns the number of subscribed handlers.
func (b *BackButton) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
