// Package operations runs the work a user asks for against one or more collections:
// replicating a collection into another one and collecting matches into a local sink.
package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Names of the steps an OpError can point at.
const (
	OpSearch     = "search"
	OpWrite      = "write"
	OpCommit     = "commit"
	OpSinkAppend = "sink-append"
)

// Operation is a runnable unit of work.
type Operation interface {
	Name() string
	Execute(ctx context.Context) (Report, error)
}

// Report is the outcome of an Operation.
type Report interface {
	RunID() string
	Summary() string
}

// OpError tells which step of which page failed. Page is 1-based and counts fetched pages.
type OpError struct {
	Op   string
	Page int
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s failed at page %d: %v", e.Op, e.Page, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Progress is a snapshot of a running operation.
type Progress struct {
	Run        string    `json:"run" yaml:"run"`
	Kind       string    `json:"kind" yaml:"kind"`
	Collection string    `json:"collection" yaml:"collection"`
	Pages      int       `json:"pages" yaml:"pages"`
	Documents  int       `json:"documents" yaml:"documents"`
	Matched    int64     `json:"matched" yaml:"matched"`
	Cursor     string    `json:"cursor" yaml:"cursor"`
	Done       bool      `json:"done" yaml:"done"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	Started    time.Time `json:"started" yaml:"started"`
	Updated    time.Time `json:"updated" yaml:"updated"`
}

// Listener receives progress after every processed page and once more when the run ends.
// Listeners are called synchronously from the run.
type Listener interface {
	Notify(p Progress)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(p Progress)

func (f ListenerFunc) Notify(p Progress) {
	f(p)
}

func notifyAll(listeners []Listener, p Progress) {
	p.Updated = time.Now()
	for _, l := range listeners {
		if l != nil {
			l.Notify(p)
		}
	}
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.New().String()
}
