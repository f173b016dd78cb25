package testutil

import (
	"context"
	"sync"
)

// FakeTerminator records termination requests.
type FakeTerminator struct {
	mu    sync.Mutex
	Calls [][]string
}

// Terminate records names.
func (f *FakeTerminator) Terminate(_ context.Context, names []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, append([]string(nil), names...))
}

// Called reports whether Terminate ran at least once.
func (f *FakeTerminator) Called() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls) > 0
}
