package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/requests"
)

//go:generate mockgen -source client.go -destination=mocks/client.go -package=mocks
type Client interface {
	// Search issues a single bounded read.
	Search(ctx context.Context, addr Address, spec QuerySpec) (*ResultPage, error)
	// Write stages documents at addr. Nothing becomes visible until Commit unless the
	// options ask for it.
	Write(ctx context.Context, addr Address, docs []Document, opts WriteOptions) (*Ack, error)
	// Delete stages the removal of documents by id or by query.
	Delete(ctx context.Context, addr Address, del DeleteSpec, opts WriteOptions) (*Ack, error)
	// Commit makes every staged change at addr durable and visible.
	Commit(ctx context.Context, addr Address) (*Ack, error)
}

// WriteOptions are the commit flags sent with a mutation. The zero value buffers the
// write server side only.
type WriteOptions struct {
	Commit       bool
	SoftCommit   bool
	WaitSearcher bool
	WaitFlush    bool
}

func (o WriteOptions) params() url.Values {
	params := url.Values{}
	params.Set("commit", strconv.FormatBool(o.Commit))
	params.Set("softCommit", strconv.FormatBool(o.SoftCommit))
	params.Set("waitSearcher", strconv.FormatBool(o.WaitSearcher))
	params.Set("waitFlush", strconv.FormatBool(o.WaitFlush))
	params.Set("wt", FormatJSON)
	return params
}

// DeleteSpec selects documents to delete, either by ids or by a query, never both.
type DeleteSpec struct {
	IDs   []string
	Query string
}

func (d DeleteSpec) payload() (interface{}, error) {
	switch {
	case len(d.IDs) > 0 && d.Query != "":
		return nil, errors.New("delete by ids and by query can't be combined")
	case len(d.IDs) > 0:
		return map[string]interface{}{"delete": d.IDs}, nil
	case d.Query != "":
		return map[string]interface{}{"delete": map[string]string{"query": d.Query}}, nil
	default:
		return nil, errors.New("nothing to delete, give ids or a query")
	}
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// HTTPClient talks to the store over http. It keeps no per-collection state so one
// instance can serve any number of concurrent runs.
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient wraps an http client, usually one from requests.NewClient.
func NewHTTPClient(client *http.Client) *HTTPClient {
	return &HTTPClient{client: client}
}

func (c *HTTPClient) Search(ctx context.Context, addr Address, spec QuerySpec) (*ResultPage, error) {
	const op = "search"
	if err := spec.validate(); err != nil {
		return nil, err
	}
	route := addr.URL("select", spec.params())
	log.WithFields(log.Fields{"collection": addr.Collection, "cursor": spec.Cursor}).
		Debug("Searching")
	res, err := requests.Get(ctx, c.client, route, nil)
	if err != nil {
		return nil, &TransportError{Op: op, URL: route, Err: err}
	}
	if res.IsError() {
		return nil, errorFromStatus(op, res.StatusCode, res.Body)
	}
	return decodeSelect(op, res.Body)
}

func (c *HTTPClient) Write(ctx context.Context, addr Address, docs []Document, opts WriteOptions) (*Ack, error) {
	if docs == nil {
		docs = []Document{}
	}
	log.WithFields(log.Fields{"collection": addr.Collection, "docs": len(docs)}).
		Debug("Staging documents")
	return c.update(ctx, "write", addr, docs, opts)
}

func (c *HTTPClient) Delete(ctx context.Context, addr Address, del DeleteSpec, opts WriteOptions) (*Ack, error) {
	payload, err := del.payload()
	if err != nil {
		return nil, err
	}
	return c.update(ctx, "delete", addr, payload, opts)
}

func (c *HTTPClient) Commit(ctx context.Context, addr Address) (*Ack, error) {
	const op = "commit"
	params := url.Values{}
	params.Set("commit", "true")
	params.Set("wt", FormatJSON)
	route := addr.URL("update", params)
	res, err := requests.Get(ctx, c.client, route, nil)
	if err != nil {
		return nil, &TransportError{Op: op, URL: route, Err: err}
	}
	if res.IsError() {
		return nil, errorFromStatus(op, res.StatusCode, res.Body)
	}
	return decodeUpdate(op, res.Body)
}

// Ping asks the collection's ping handler whether it can serve requests.
func (c *HTTPClient) Ping(ctx context.Context, addr Address) error {
	const op = "ping"
	params := url.Values{}
	params.Set("wt", FormatJSON)
	route := addr.URL("admin/ping", params)
	res, err := requests.Get(ctx, c.client, route, nil)
	if err != nil {
		return &TransportError{Op: op, URL: route, Err: err}
	}
	if res.IsError() {
		return errorFromStatus(op, res.StatusCode, res.Body)
	}
	return nil
}

func (c *HTTPClient) update(ctx context.Context, op string, addr Address, payload interface{}, opts WriteOptions) (*Ack, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	route := addr.URL("update", opts.params())
	res, err := requests.Post(ctx, c.client, route, body, jsonHeaders)
	if err != nil {
		return nil, &TransportError{Op: op, URL: route, Err: err}
	}
	if res.IsError() {
		return nil, errorFromStatus(op, res.StatusCode, res.Body)
	}
	return decodeUpdate(op, res.Body)
}
