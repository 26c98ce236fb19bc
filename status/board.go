// Package status keeps track of running operations and forwards their progress.
package status

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/operations"
)

// DefaultPublishTimeout bounds how long a progress update may wait on the publisher.
const DefaultPublishTimeout = 5 * time.Second

// Publisher forwards progress to somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, p operations.Progress) error
}

// Board holds the latest progress of every run. It is an operations.Listener and is safe
// for concurrent use.
type Board struct {
	mu        sync.RWMutex
	runs      map[string]operations.Progress
	publisher Publisher
	timeout   time.Duration
}

// Summary counts runs by state.
type Summary struct {
	Running   int   `json:"running"`
	Completed int   `json:"completed"`
	Failed    int   `json:"failed"`
	Documents int   `json:"documents"`
	Matched   int64 `json:"matched"`
}

// NewBoard creates a board. publisher may be nil.
func NewBoard(publisher Publisher) *Board {
	return &Board{
		runs:      make(map[string]operations.Progress),
		publisher: publisher,
		timeout:   DefaultPublishTimeout,
	}
}

func (b *Board) Notify(p operations.Progress) {
	b.Update(p)
	if b.publisher == nil {
		return
	}
	// Notify runs inside the page loop, a stuck publisher must not stall it.
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.publisher.Publish(ctx, p); err != nil {
		log.WithFields(log.Fields{"run": p.Run}).Warnf("Couldn't publish progress: %v", err)
	}
}

// Update records p as the latest progress of its run.
func (b *Board) Update(p operations.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs[p.Run] = p
}

// Runs returns every run ordered by start time.
func (b *Board) Runs() []operations.Progress {
	b.mu.RLock()
	out := make([]operations.Progress, 0, len(b.runs))
	for _, p := range b.runs {
		out = append(out, p)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Started.Equal(out[j].Started) {
			return out[i].Run < out[j].Run
		}
		return out[i].Started.Before(out[j].Started)
	})
	return out
}

func (b *Board) Run(id string) (operations.Progress, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.runs[id]
	return p, ok
}

func (b *Board) Summary() Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var s Summary
	for _, p := range b.runs {
		switch {
		case p.Error != "":
			s.Failed++
		case p.Done:
			s.Completed++
		default:
			s.Running++
		}
		s.Documents += p.Documents
		s.Matched += p.Matched
	}
	return s
}
