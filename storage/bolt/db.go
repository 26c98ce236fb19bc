// Package bolt persists collected documents and replication checkpoints in a bolt file.
package bolt

import (
	"encoding/binary"
	"errors"
	"os"
	"path"
	"time"

	"github.com/boltdb/bolt"
)

const (
	documentsBucket   = "documents"
	checkpointsBucket = "checkpoints"
	defaultNamespace  = "default"
)

// DefaultBoltPath is used when no path is given.
func DefaultBoltPath() string {
	cwd, _ := os.Getwd()
	return path.Join(cwd, "db", "solrctl.db")
}

// GetBoltDB opens (or creates) the database at file, creating its parent directory.
func GetBoltDB(file string) (*bolt.DB, error) {
	if file == "" {
		file = DefaultBoltPath()
	}
	if err := os.MkdirAll(path.Dir(file), 0755); err != nil {
		return nil, err
	}
	return bolt.Open(file, 0600, &bolt.Options{Timeout: 5 * time.Second})
}

//createBucketIfItDoesntExist creates the nested bucket path if it doesn't exist
func createBucketIfItDoesntExist(tx *bolt.Tx, names ...string) (*bolt.Bucket, error) {
	if tx == nil || !tx.Writable() {
		return nil, errors.New("transaction is nil or not writable")
	}
	if len(names) == 0 {
		return nil, errors.New("bucket name is required")
	}
	var bucket *bolt.Bucket
	var err error
	for _, name := range names {
		if bucket != nil {
			bucket, err = bucket.CreateBucketIfNotExists([]byte(name))
		} else {
			bucket, err = tx.CreateBucketIfNotExists([]byte(name))
		}
		if err != nil {
			return nil, err
		}
	}
	return bucket, nil
}

// getBucket returns the nested bucket, or nil if any part of the path is missing.
func getBucket(tx *bolt.Tx, names ...string) *bolt.Bucket {
	var bucket *bolt.Bucket
	for i, name := range names {
		if i == 0 {
			bucket = tx.Bucket([]byte(name))
		} else {
			bucket = bucket.Bucket([]byte(name))
		}
		if bucket == nil {
			return nil
		}
	}
	return bucket
}

// itob returns an 8-byte big endian representation of v.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
