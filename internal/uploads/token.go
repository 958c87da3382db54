package uploads

import "sync/atomic"

// Token is a cooperative cancellation flag scoped to one in-flight batch.
// The orchestrator checks it only at file boundaries, so an in-flight
// single-file transfer always completes or fails on its own before
// cancellation takes effect.
type Token struct {
	cancelled atomic.Bool
}

// NewToken creates an uncancelled Token.
func NewToken() *Token {
	return &Token{}
}

// RequestCancel marks the token cancelled. Safe for concurrent use.
func (t *Token) RequestCancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}
