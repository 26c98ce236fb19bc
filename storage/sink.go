// Package storage holds the local destinations collected documents are appended to.
package storage

import (
	"github.com/sp0x/solrctl/store"
)

// Sink is an append-only destination for documents. Appends are kept in order and nothing
// is rolled back when a run fails.
type Sink interface {
	Append(doc store.Document) error
	Close() error
}

// Counter is implemented by sinks that can tell how many documents they hold.
type Counter interface {
	Count() int
}

// Truncater is implemented by database sinks that can empty their namespace.
type Truncater interface {
	Truncate() error
}
