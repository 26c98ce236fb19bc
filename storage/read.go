package storage

import (
	"errors"
	"fmt"

	"github.com/sp0x/solrctl/storage/bolt"
	"github.com/sp0x/solrctl/storage/firebase"
	"github.com/sp0x/solrctl/storage/sqlite"
	"github.com/sp0x/solrctl/store"
)

// ErrNotReadable is returned for sinks that only write, like files and stdout.
var ErrNotReadable = errors.New("storage backing can't be read back")

// ReadDocuments returns up to limit stored documents in the order the backing keeps them.
// A limit of 0 or less reads everything.
func ReadDocuments(sink Sink, limit int) ([]store.Document, error) {
	var docs []store.Document
	switch s := sink.(type) {
	case *MemorySink:
		docs = s.Documents()
	case *bolt.Sink:
		errFull := errors.New("full")
		err := s.ForEach(func(doc store.Document) error {
			if limit > 0 && len(docs) >= limit {
				return errFull
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil && err != errFull {
			return nil, err
		}
	case *sqlite.Sink:
		var err error
		if docs, err = s.Documents(); err != nil {
			return nil, err
		}
	case *firebase.FirestoreSink:
		return s.Documents(firestoreLimit(limit))
	default:
		return nil, ErrNotReadable
	}
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// FindDocument returns the stored document with the given id, or nil when there is none.
func FindDocument(sink Sink, id string) (store.Document, error) {
	if s, ok := sink.(*sqlite.Sink); ok {
		return s.FindByID(id)
	}
	docs, err := ReadDocuments(sink, 0)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if fmt.Sprint(doc.ID()) == id {
			return doc, nil
		}
	}
	return nil, nil
}

// Size is the number of documents the sink holds.
func Size(sink Sink) (int64, error) {
	switch s := sink.(type) {
	case *firebase.FirestoreSink:
		return s.Size()
	case Counter:
		return int64(s.Count()), nil
	}
	return 0, ErrNotReadable
}

// firestoreLimit maps "everything" to the largest limit a firestore query accepts.
func firestoreLimit(limit int) int {
	if limit <= 0 {
		return int(^uint32(0) >> 1)
	}
	return limit
}
