package status

import (
	"context"

	"github.com/lileio/pubsub"
	"github.com/lileio/pubsub/middleware/defaults"
	"github.com/lileio/pubsub/providers/google"

	"github.com/sp0x/solrctl/operations"
)

const (
	progressTopic = "solrctl.progress"
	errorTopic    = "solrctl.errors"
	serviceName   = "solrctl"
)

// ProgressMessage is the payload published for every progress update.
type ProgressMessage struct {
	Run        string
	Kind       string
	Collection string
	Pages      int
	Documents  int
	Matched    int64
	Cursor     string
	Done       bool
}

// ErrorMessage is published when a run fails.
type ErrorMessage struct {
	Run        string
	Collection string
	Cursor     string
	Message    string
}

// SetupPubsub points the pubsub client at a Google Cloud project.
// Service credentials are read from GOOGLE_APPLICATION_CREDENTIALS.
func SetupPubsub(projectID string) error {
	provider, err := google.NewGoogleCloud(projectID)
	if err != nil {
		return err
	}
	pubsub.SetClient(&pubsub.Client{
		ServiceName: serviceName,
		Provider:    provider,
		Middleware:  defaults.Middleware,
	})
	return nil
}

// PubsubPublisher publishes progress as json messages. SetupPubsub must be called first.
type PubsubPublisher struct{}

func (PubsubPublisher) Publish(ctx context.Context, p operations.Progress) error {
	topic, msg := messageFor(p)
	res := pubsub.PublishJSON(ctx, topic, msg)
	select {
	case <-res.Ready:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func messageFor(p operations.Progress) (string, interface{}) {
	if p.Error != "" {
		return errorTopic, &ErrorMessage{
			Run:        p.Run,
			Collection: p.Collection,
			Cursor:     p.Cursor,
			Message:    p.Error,
		}
	}
	return progressTopic, &ProgressMessage{
		Run:        p.Run,
		Kind:       p.Kind,
		Collection: p.Collection,
		Pages:      p.Pages,
		Documents:  p.Documents,
		Matched:    p.Matched,
		Cursor:     p.Cursor,
		Done:       p.Done,
	}
}
