package firebase

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type counter struct {
	numOfShards int
}

type counterShard struct {
	Count int
}

func (c *counter) initCounterIfNeeded(ctx context.Context, collection *firestore.CollectionRef, doc string) error {
	_, err := collection.Doc(doc).Get(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return err
	}
	return c.initCounter(ctx, collection.Doc(doc))
}

func (c *counter) initCounter(ctx context.Context, docRef *firestore.DocumentRef) error {
	if _, err := docRef.Set(ctx, map[string]interface{}{"shards": c.numOfShards}); err != nil {
		return fmt.Errorf("set: %v", err)
	}
	colRef := docRef.Collection("shards")
	for num := 0; num < c.numOfShards; num++ {
		if _, err := colRef.Doc(strconv.Itoa(num)).Set(ctx, counterShard{0}); err != nil {
			return fmt.Errorf("set: %v", err)
		}
	}
	return nil
}

//incrementCounter bumps a random shard
func (c *counter) incrementCounter(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.WriteResult, error) {
	docID := strconv.Itoa(rand.Intn(c.numOfShards))
	shardRef := docRef.Collection("shards").Doc(docID)
	return shardRef.Update(ctx, []firestore.Update{
		{Path: "Count", Value: firestore.Increment(1)},
	})
}

// getCount returns a total count across all shards.
func (c *counter) getCount(ctx context.Context, docRef *firestore.DocumentRef) (int64, error) {
	var total int64
	shards := docRef.Collection("shards").Documents(ctx)
	defer shards.Stop()
	for {
		doc, err := shards.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("next: %v", err)
		}
		vTotal := doc.Data()["Count"]
		shardCount, ok := vTotal.(int64)
		if !ok {
			return 0, fmt.Errorf("firestore: invalid dataType %T, want int64", vTotal)
		}
		total += shardCount
	}
	return total, nil
}
