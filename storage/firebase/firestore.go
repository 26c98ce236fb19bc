// Package firebase appends collected documents to a Firestore collection.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/sp0x/solrctl/store"
)

type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	// Collection receives the documents, defaults to "documents".
	Collection string
}

const (
	defaultCollection = "documents"
	metaCollection    = "meta"
	counterShards     = 5
)

// FirestoreSink writes each document under its id, or under a generated id when it has
// none. A sharded counter in the meta collection tracks how many documents were appended.
type FirestoreSink struct {
	client     *firestore.Client
	context    context.Context
	collection string
	counter    *counter
}

//NewFirestoreSink creates a new firestore backed sink
func NewFirestoreSink(ctx context.Context, conf *FirestoreConfig) (*FirestoreSink, error) {
	if conf == nil || conf.ProjectID == "" {
		return nil, errors.New("firestore project id is required")
	}
	var options []option.ClientOption
	if conf.CredentialsFile != "" {
		options = append(options, option.WithCredentialsFile(conf.CredentialsFile))
	}
	// without a credentials file GOOGLE_APPLICATION_CREDENTIALS is used
	client, err := firestore.NewClient(ctx, conf.ProjectID, options...)
	if err != nil {
		return nil, err
	}
	collection := conf.Collection
	if collection == "" {
		collection = defaultCollection
	}
	f := &FirestoreSink{
		client:     client,
		context:    ctx,
		collection: collection,
		counter:    &counter{numOfShards: counterShards},
	}
	err = f.counter.initCounterIfNeeded(ctx, client.Collection(metaCollection), f.counterDoc())
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return f, nil
}

func (f *FirestoreSink) counterDoc() string {
	return f.collection + "_count"
}

// docKey turns a document id into a valid firestore document name.
func docKey(id interface{}) string {
	if id == nil {
		return ""
	}
	return strings.Replace(fmt.Sprint(id), "/", "_", -1)
}

func (f *FirestoreSink) Append(doc store.Document) error {
	collection := f.client.Collection(f.collection)
	var ref *firestore.DocumentRef
	if key := docKey(doc.ID()); key != "" {
		ref = collection.Doc(key)
	} else {
		ref = collection.NewDoc()
	}
	if _, err := ref.Set(f.context, doc.Plain()); err != nil {
		return err
	}
	_, err := f.counter.incrementCounter(f.context, f.client.Collection(metaCollection).Doc(f.counterDoc()))
	if err != nil {
		log.WithFields(log.Fields{"collection": f.collection}).Warnf("Couldn't update document count: %v", err)
	}
	return nil
}

// Size is the number of documents appended to the collection so far, as in records count
func (f *FirestoreSink) Size() (int64, error) {
	return f.counter.getCount(f.context, f.client.Collection(metaCollection).Doc(f.counterDoc()))
}

// Documents reads back up to limit documents ordered by document id.
func (f *FirestoreSink) Documents(limit int) ([]store.Document, error) {
	var output []store.Document
	iter := f.client.Collection(f.collection).OrderBy(firestore.DocumentID, firestore.Asc).Limit(limit).Documents(f.context)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		output = append(output, store.Document(snap.Data()))
	}
	return output, nil
}

func (f *FirestoreSink) Close() error {
	return f.client.Close()
}
