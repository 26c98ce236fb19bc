package operations

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/store"
)

// ErrMissingID is returned by Update for documents without an id.
var ErrMissingID = errors.New("document has no id")

// Add stages docs at addr and commits them when commit is set.
func Add(ctx context.Context, client store.Client, addr store.Address, docs []store.Document, commit bool) (*store.Ack, error) {
	if len(docs) == 0 {
		return nil, errors.New("no documents to add")
	}
	ack, err := client.Write(ctx, addr, docs, store.WriteOptions{})
	if err != nil {
		return nil, &OpError{Op: OpWrite, Page: 1, Err: err}
	}
	log.WithFields(log.Fields{"collection": addr.Collection, "docs": len(docs)}).Info("Staged documents")
	return finish(ctx, client, addr, ack, commit)
}

// Update replaces existing documents. Every document must carry its id.
func Update(ctx context.Context, client store.Client, addr store.Address, docs []store.Document, commit bool) (*store.Ack, error) {
	for i, doc := range docs {
		if id, ok := doc[store.IDField]; !ok || id == nil || fmt.Sprint(id) == "" {
			return nil, fmt.Errorf("document %d: %w", i, ErrMissingID)
		}
	}
	return Add(ctx, client, addr, docs, commit)
}

// Delete removes documents by id or by query.
func Delete(ctx context.Context, client store.Client, addr store.Address, del store.DeleteSpec, commit bool) (*store.Ack, error) {
	ack, err := client.Delete(ctx, addr, del, store.WriteOptions{})
	if err != nil {
		return nil, &OpError{Op: OpWrite, Page: 1, Err: err}
	}
	log.WithFields(log.Fields{"collection": addr.Collection, "ids": len(del.IDs), "query": del.Query}).
		Info("Staged deletion")
	return finish(ctx, client, addr, ack, commit)
}

func finish(ctx context.Context, client store.Client, addr store.Address, ack *store.Ack, commit bool) (*store.Ack, error) {
	if !commit {
		return ack, nil
	}
	ack, err := client.Commit(ctx, addr)
	if err != nil {
		return nil, &OpError{Op: OpCommit, Page: 1, Err: err}
	}
	return ack, nil
}
