// Package search walks a collection with the store's cursor, one bounded page at a time.
package search

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sp0x/solrctl/store"
)

// ErrPageLimit is returned when a run fetched Options.MaxPages pages and the cursor still
// hadn't settled.
var ErrPageLimit = errors.New("page limit reached before the cursor settled")

type Options struct {
	// MaxPages caps the number of fetches. Zero means unlimited.
	MaxPages int
	// RateDelay is the minimum gap between two fetches.
	RateDelay time.Duration
}

// Paginator yields the pages of a query lazily. A page is only requested when Next is
// called, so callers finish their work on one page before the next is read.
// A Paginator is single use: its cursor advances with every fetch.
//
//	p := search.NewPaginator(client, addr, spec, search.Options{})
//	for p.Next(ctx) {
//		page := p.Page()
//	}
//	if err := p.Err(); err != nil { ... }
type Paginator struct {
	client  store.Client
	addr    store.Address
	spec    store.QuerySpec
	opts    Options
	limiter *rate.Limiter

	page    *store.ResultPage
	matched int64
	pages   int
	done    bool
	err     error
}

// NewPaginator prepares a run over addr. An "all" page size is walked with bounded
// pages, and an empty cursor starts from the beginning of the result set.
func NewPaginator(client store.Client, addr store.Address, spec store.QuerySpec, opts Options) *Paginator {
	spec.PageSize = spec.PageSize.Bounded()
	if spec.Cursor == "" {
		spec.Cursor = store.StartCursor
	}
	p := &Paginator{
		client: client,
		addr:   addr,
		spec:   spec,
		opts:   opts,
	}
	if opts.RateDelay > 0 {
		p.limiter = rate.NewLimiter(rate.Every(opts.RateDelay), 1)
	}
	return p
}

// Next fetches the next page. It returns false once the result set is exhausted or a
// fetch failed, check Err to tell the two apart.
func (p *Paginator) Next(ctx context.Context) bool {
	if p.done {
		return false
	}
	if p.opts.MaxPages > 0 && p.pages >= p.opts.MaxPages {
		return p.fail(ErrPageLimit)
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return p.fail(err)
		}
	}
	used := p.spec.Cursor
	page, err := p.client.Search(ctx, p.addr, p.spec)
	if err != nil {
		return p.fail(err)
	}
	p.pages++
	p.matched = page.NumFound
	if page.NumFound == 0 {
		log.WithFields(log.Fields{"collection": p.addr.Collection, "query": p.spec.Query}).
			Debug("No documents matched")
		p.done = true
		p.page = nil
		return false
	}
	p.page = page
	if page.NextCursor == used {
		p.done = true
	} else {
		p.spec.Cursor = page.NextCursor
	}
	log.WithFields(log.Fields{"collection": p.addr.Collection, "page": p.pages, "docs": len(page.Docs), "last": p.done}).
		Debug("Fetched page")
	return true
}

func (p *Paginator) fail(err error) bool {
	p.err = err
	p.done = true
	p.page = nil
	return false
}

// Page is the page fetched by the last successful Next.
func (p *Paginator) Page() *store.ResultPage {
	return p.page
}

// Err is the error that stopped the run, if any.
func (p *Paginator) Err() error {
	return p.err
}

// Cursor is the token the current page continues from. Once the run is complete it is
// the fixed point returned by the store.
func (p *Paginator) Cursor() string {
	if p.page != nil {
		return p.page.NextCursor
	}
	return p.spec.Cursor
}

// Matched is the total match count reported by the store on the latest fetch.
func (p *Paginator) Matched() int64 {
	return p.matched
}

// Pages is the number of pages fetched so far.
func (p *Paginator) Pages() int {
	return p.pages
}

// Spec is the effective query, with the cursor of the next fetch.
func (p *Paginator) Spec() store.QuerySpec {
	return p.spec
}

// Drain walks every remaining page and passes it to fn. The walk stops at the first error
// returned by fn.
func Drain(ctx context.Context, p *Paginator, fn func(*store.ResultPage) error) error {
	for p.Next(ctx) {
		if err := fn(p.Page()); err != nil {
			return err
		}
	}
	return p.Err()
}
