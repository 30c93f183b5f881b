package session

import (
	"context"
	"sync"

	"github.com/TomasB/geoloc/internal/command"
)

// Serialized lets several front-ends share one Session: commands run one at
// a time in arrival order. Once EXIT has been answered, Done is closed and
// every command other than EXIT answers ERR without reaching the backend.
type Serialized struct {
	mu       sync.Mutex
	s        *Session
	exited   bool
	done     chan struct{}
	doneOnce sync.Once
}

// NewSerialized wraps s.
func NewSerialized(s *Session) *Serialized {
	return &Serialized{s: s, done: make(chan struct{})}
}

// Execute runs one protocol line and returns its response.
func (l *Serialized) Execute(ctx context.Context, line string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.exited && line != command.Exit().String() {
		return RespErr
	}

	resp, exit := l.s.Respond(ctx, line)
	if exit {
		l.exited = true
		l.doneOnce.Do(func() { close(l.done) })
	}
	return resp
}

// Reload reloads the dataset if the session is already Loaded.
// It reports whether a reload was attempted.
func (l *Serialized) Reload(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.exited || l.s.State() != Loaded {
		return false, nil
	}
	_, _, err := l.s.Handle(ctx, command.Load())
	return true, err
}

// Loaded reports whether the session is in the Loaded state.
func (l *Serialized) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.State() == Loaded
}

// Done is closed once EXIT has been answered.
func (l *Serialized) Done() <-chan struct{} {
	return l.done
}
