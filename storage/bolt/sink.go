package bolt

import (
	"sync"

	"github.com/boltdb/bolt"
	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/storage/serializers"
	"github.com/sp0x/solrctl/storage/serializers/cbor"
	"github.com/sp0x/solrctl/store"
)

// Sink appends documents under documents/<namespace>, keyed by a sequence so they read
// back in the order they were appended.
type Sink struct {
	Database  *bolt.DB
	namespace string
	marshaler serializers.MarshalUnmarshaler
	mu        sync.Mutex
	count     int
}

func NewSink(dbPath, namespace string) (*Sink, error) {
	db, err := GetBoltDB(dbPath)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	s := &Sink{
		Database:  db,
		namespace: namespace,
		marshaler: cbor.Serializer,
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := createBucketIfItDoesntExist(tx, documentsBucket, namespace)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) Append(doc store.Document) error {
	raw, err := s.marshaler.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.Database.Update(func(tx *bolt.Tx) error {
		bucket, err := createBucketIfItDoesntExist(tx, documentsBucket, s.namespace)
		if err != nil {
			return err
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(itob(seq), raw)
	})
	if err != nil {
		return err
	}
	s.count++
	return nil
}

// Count is the number of documents stored in the namespace.
func (s *Sink) Count() int {
	count := 0
	_ = s.Database.View(func(tx *bolt.Tx) error {
		if bucket := getBucket(tx, documentsBucket, s.namespace); bucket != nil {
			count = bucket.Stats().KeyN
		}
		return nil
	})
	return count
}

// ForEach calls fn with every stored document in append order.
func (s *Sink) ForEach(fn func(doc store.Document) error) error {
	return s.Database.View(func(tx *bolt.Tx) error {
		bucket := getBucket(tx, documentsBucket, s.namespace)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var doc store.Document
			if err := s.marshaler.Unmarshal(v, &doc); err != nil {
				return err
			}
			return fn(doc)
		})
	})
}

// Truncate drops the namespace's documents and restarts its sequence.
func (s *Sink) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.Database.Update(func(tx *bolt.Tx) error {
		parent := tx.Bucket([]byte(documentsBucket))
		if parent == nil || parent.Bucket([]byte(s.namespace)) == nil {
			return nil
		}
		if err := parent.DeleteBucket([]byte(s.namespace)); err != nil {
			return err
		}
		_, err := parent.CreateBucket([]byte(s.namespace))
		return err
	})
	if err != nil {
		return err
	}
	s.count = 0
	return nil
}

func (s *Sink) Close() error {
	log.WithFields(log.Fields{"namespace": s.namespace, "docs": s.count}).Debug("Closing bolt sink")
	return s.Database.Close()
}
