package memory

import (
	"context"
	"sync"

	"goa.design/braid/model"
)

type (
	// Buffer is an unbounded in-process memory.
	Buffer struct {
		mu   sync.RWMutex
		msgs []model.Message
	}

	// Window is an in-process memory holding at most size messages. Adding
	// beyond capacity evicts the oldest message.
	Window struct {
		size int
		mu   sync.RWMutex
		msgs []model.Message
	}

	// Null is a memory that stores nothing. Runs over it are stateless.
	Null struct{}
)

// NewBuffer returns an empty unbounded memory.
func NewBuffer(msgs ...model.Message) *Buffer {
	return &Buffer{msgs: append([]model.Message(nil), msgs...)}
}

// Messages returns a copy of the stored history.
func (b *Buffer) Messages(context.Context) ([]model.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.Message(nil), b.msgs...), nil
}

// Add appends a message.
func (b *Buffer) Add(_ context.Context, msg model.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return nil
}

// Clear removes the whole history.
func (b *Buffer) Clear(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = nil
	return nil
}

// Render returns the history as a transcript.
func (b *Buffer) Render(context.Context) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return model.Render(b.msgs), nil
}

// Update appends a completed run under a single lock acquisition.
func (b *Buffer) Update(_ context.Context, input string, steps []model.AgentStep, finalAnswer string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, RunMessages(input, steps, finalAnswer)...)
	return nil
}

// NewWindow returns an empty memory bounded to size messages.
func NewWindow(size int) *Window {
	return &Window{size: size}
}

// Messages returns a copy of the stored history.
func (w *Window) Messages(context.Context) ([]model.Message, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.Message(nil), w.msgs...), nil
}

// Add appends a message, evicting the oldest one at capacity.
func (w *Window) Add(_ context.Context, msg model.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.add(msg)
	return nil
}

func (w *Window) add(msg model.Message) {
	if w.size <= 0 {
		return
	}
	if len(w.msgs) >= w.size {
		w.msgs = w.msgs[1:]
	}
	w.msgs = append(w.msgs, msg)
}

// Clear removes the whole history.
func (w *Window) Clear(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = nil
	return nil
}

// Render returns the history as a transcript.
func (w *Window) Render(context.Context) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return model.Render(w.msgs), nil
}

// Update appends a completed run under a single lock acquisition, applying
// eviction per message.
func (w *Window) Update(_ context.Context, input string, steps []model.AgentStep, finalAnswer string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, msg := range RunMessages(input, steps, finalAnswer) {
		w.add(msg)
	}
	return nil
}

// Messages always returns an empty history.
func (Null) Messages(context.Context) ([]model.Message, error) { return nil, nil }

// Add discards the message.
func (Null) Add(context.Context, model.Message) error { return nil }

// Clear does nothing.
func (Null) Clear(context.Context) error { return nil }

// Render returns an empty transcript.
func (Null) Render(context.Context) (string, error) { return "", nil }

// Update discards the run.
func (Null) Update(context.Context, string, []model.AgentStep, string) error { return nil }
