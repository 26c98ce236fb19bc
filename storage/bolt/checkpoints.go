package bolt

import (
	"errors"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/operations"
	"github.com/sp0x/solrctl/storage/serializers"
	"github.com/sp0x/solrctl/storage/serializers/json"
)

// ErrCheckpointNotFound is returned by Get for unknown runs.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Checkpoints is a ledger of the latest progress of every run, keyed by run id. It records
// the last committed cursor so an operator can restart a failed replication by hand.
type Checkpoints struct {
	Database  *bolt.DB
	marshaler serializers.MarshalUnmarshaler
}

// OpenCheckpoints opens the ledger at dbPath.
func OpenCheckpoints(dbPath string) (*Checkpoints, error) {
	db, err := GetBoltDB(dbPath)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := createBucketIfItDoesntExist(tx, checkpointsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Checkpoints{Database: db, marshaler: json.Serializer}, nil
}

// Save stores p, replacing the previous checkpoint of the same run.
func (c *Checkpoints) Save(p operations.Progress) error {
	if p.Run == "" {
		return errors.New("checkpoint has no run id")
	}
	if p.Updated.IsZero() {
		p.Updated = time.Now()
	}
	raw, err := c.marshaler.Marshal(p)
	if err != nil {
		return err
	}
	return c.Database.Update(func(tx *bolt.Tx) error {
		bucket, err := createBucketIfItDoesntExist(tx, checkpointsBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(p.Run), raw)
	})
}

// Notify saves the progress of a run. Failures are logged, they never stop the run.
func (c *Checkpoints) Notify(p operations.Progress) {
	if err := c.Save(p); err != nil {
		log.WithFields(log.Fields{"run": p.Run}).Warnf("Couldn't save checkpoint: %v", err)
	}
}

func (c *Checkpoints) Get(run string) (*operations.Progress, error) {
	var p *operations.Progress
	err := c.Database.View(func(tx *bolt.Tx) error {
		bucket := getBucket(tx, checkpointsBucket)
		if bucket == nil {
			return ErrCheckpointNotFound
		}
		raw := bucket.Get([]byte(run))
		if raw == nil {
			return ErrCheckpointNotFound
		}
		p = &operations.Progress{}
		return c.marshaler.Unmarshal(raw, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every checkpoint, most recently updated first.
func (c *Checkpoints) List() ([]operations.Progress, error) {
	var out []operations.Progress
	err := c.Database.View(func(tx *bolt.Tx) error {
		bucket := getBucket(tx, checkpointsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			var p operations.Progress
			if err := c.marshaler.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Updated.After(out[j].Updated)
	})
	return out, nil
}

// Clear removes every checkpoint.
func (c *Checkpoints) Clear() error {
	return c.Database.Update(func(tx *bolt.Tx) error {
		if getBucket(tx, checkpointsBucket) == nil {
			return nil
		}
		if err := tx.DeleteBucket([]byte(checkpointsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(checkpointsBucket))
		return err
	})
}

func (c *Checkpoints) Close() error {
	return c.Database.Close()
}
