package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sp0x/solrctl/search"
	"github.com/sp0x/solrctl/store"
)

const (
	KeyQuery         = "query"
	KeyFormat        = "wt"
	KeyPageSize      = "page_size"
	KeySort          = "sort"
	KeyRate          = "rate"
	KeyMaxPages      = "max_pages"
	KeyCursor        = "cursor"
	KeyLimit         = "limit"
	KeyScheme        = "scheme"
	KeyRoot          = "root"
	KeyTimeout       = "timeout"
	KeyParallel      = "parallel"
	KeyCheckpoints   = "checkpoints"
	KeyStatusPort    = "status_port"
	KeyPubsubProject = "pubsub_project"
	KeyVerbose       = "verbose"
)

// QueryOptions is the validated form of the query related keys.
type QueryOptions struct {
	Spec      store.QuerySpec
	RateDelay time.Duration
	MaxPages  int
	// Limit caps the number of collected documents, 0 means no cap.
	Limit int
}

// SearchOptions returns the paginator options.
func (o QueryOptions) SearchOptions() search.Options {
	return search.Options{
		MaxPages:  o.MaxPages,
		RateDelay: o.RateDelay,
	}
}

// LoadQueryOptions reads and validates the query keys. Empty values fall back to the defaults.
func LoadQueryOptions(cfg Config) (QueryOptions, error) {
	spec := store.NewQuerySpec()
	if q := strings.TrimSpace(cfg.GetString(KeyQuery)); q != "" {
		spec.Query = q
	}
	if wt := strings.TrimSpace(cfg.GetString(KeyFormat)); wt != "" {
		if wt != store.FormatJSON {
			return QueryOptions{}, fmt.Errorf("%s: %w: %q", KeyFormat, store.ErrUnsupportedFormat, wt)
		}
		spec.ResultFormat = wt
	}
	if ps := cfg.GetString(KeyPageSize); ps != "" {
		size, err := store.ParsePageSize(ps)
		if err != nil {
			return QueryOptions{}, fmt.Errorf("%s: %w", KeyPageSize, err)
		}
		spec.PageSize = size
	}
	if sort := strings.TrimSpace(cfg.GetString(KeySort)); sort != "" {
		if !sortsByID(sort) {
			return QueryOptions{}, fmt.Errorf("%s: %q must include the id field", KeySort, sort)
		}
		spec.Sort = sort
	}
	if cursor := strings.TrimSpace(cfg.GetString(KeyCursor)); cursor != "" {
		spec.Cursor = cursor
	}
	opts := QueryOptions{
		Spec:      spec,
		RateDelay: cfg.GetDuration(KeyRate),
		MaxPages:  cfg.GetInt(KeyMaxPages),
		Limit:     cfg.GetInt(KeyLimit),
	}
	switch {
	case opts.RateDelay < 0:
		return QueryOptions{}, errors.New("rate can't be negative")
	case opts.MaxPages < 0:
		return QueryOptions{}, errors.New("max_pages can't be negative")
	case opts.Limit < 0:
		return QueryOptions{}, errors.New("limit can't be negative")
	}
	return opts, nil
}

// sortsByID reports whether one of the sort clauses is on the id field.
func sortsByID(sort string) bool {
	for _, clause := range strings.Split(sort, ",") {
		fields := strings.Fields(clause)
		if len(fields) > 0 && fields[0] == "id" {
			return true
		}
	}
	return false
}

// StoreOptions describe how to reach the remote store.
type StoreOptions struct {
	Scheme  string
	Root    string
	Timeout time.Duration
}

func LoadStoreOptions(cfg Config) (StoreOptions, error) {
	opts := StoreOptions{
		Scheme:  cfg.GetString(KeyScheme),
		Root:    strings.Trim(cfg.GetString(KeyRoot), "/"),
		Timeout: cfg.GetDuration(KeyTimeout),
	}
	if opts.Scheme == "" {
		opts.Scheme = store.DefaultScheme
	}
	if opts.Scheme != "http" && opts.Scheme != "https" {
		return StoreOptions{}, fmt.Errorf("%s: unsupported scheme %q", KeyScheme, opts.Scheme)
	}
	if opts.Root == "" {
		opts.Root = store.DefaultRoot
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return opts, nil
}

// Address builds the address of collection on hostPort.
func (o StoreOptions) Address(hostPort, collection string) (store.Address, error) {
	return store.ParseAddress(hostPort, collection, o.Scheme, o.Root)
}
