package operations

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/search"
	"github.com/sp0x/solrctl/store"
)

// Sink receives collected documents in the order they were read.
type Sink interface {
	Append(doc store.Document) error
}

// errLimitReached stops the page walk once Limit documents were appended.
var errLimitReached = errors.New("document limit reached")

// Collect reads every document matching Query into Sink. With a positive Limit it stops
// requesting pages once that many documents were appended.
type Collect struct {
	RunID     string
	Client    store.Client
	Address   store.Address
	Query     store.QuerySpec
	Options   search.Options
	Sink      Sink
	Limit     int
	Listeners []Listener
}

type CollectionReport struct {
	Run       string    `json:"run" yaml:"run"`
	Address   string    `json:"address" yaml:"address"`
	Query     string    `json:"query" yaml:"query"`
	Matched   int64     `json:"matched" yaml:"matched"`
	Pages     int       `json:"pages" yaml:"pages"`
	Documents int       `json:"documents" yaml:"documents"`
	Cursor    string    `json:"cursor" yaml:"cursor"`
	Truncated bool      `json:"truncated" yaml:"truncated"`
	Started   time.Time `json:"started" yaml:"started"`
	Finished  time.Time `json:"finished" yaml:"finished"`
}

func (r *CollectionReport) RunID() string {
	return r.Run
}

// Empty reports a run that finished because nothing matched.
func (r *CollectionReport) Empty() bool {
	return r.Matched == 0
}

func (r *CollectionReport) Duration() time.Duration {
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}

func (r *CollectionReport) Summary() string {
	if r.Empty() {
		return fmt.Sprintf("%s: no documents matched %q", r.Address, r.Query)
	}
	return fmt.Sprintf("%s: collected %d of %d documents in %d pages", r.Address, r.Documents, r.Matched, r.Pages)
}

func (c *Collect) Name() string {
	return "search " + c.Address.Collection
}

func (c *Collect) Execute(ctx context.Context) (Report, error) {
	return c.Run(ctx)
}

// Run forwards every document to the sink. A failing append aborts the run and leaves
// what was already appended in place.
func (c *Collect) Run(ctx context.Context) (*CollectionReport, error) {
	if c.RunID == "" {
		c.RunID = NewRunID()
	}
	paginator := search.NewPaginator(c.Client, c.Address, c.Query, c.Options)
	report := &CollectionReport{
		Run:     c.RunID,
		Address: c.Address.String(),
		Query:   c.Query.Query,
		Started: time.Now(),
	}
	logger := log.WithFields(log.Fields{"run": c.RunID, "collection": c.Address.Collection})

	err := search.Drain(ctx, paginator, func(page *store.ResultPage) error {
		report.Matched = page.NumFound
		report.Pages = paginator.Pages()
		report.Cursor = page.NextCursor
		for _, doc := range page.Docs {
			if c.limitReached(report) {
				report.Truncated = true
				break
			}
			if err := c.Sink.Append(doc); err != nil {
				return &OpError{Op: OpSinkAppend, Page: paginator.Pages(), Err: err}
			}
			report.Documents++
		}
		logger.WithFields(log.Fields{"page": paginator.Pages(), "docs": len(page.Docs)}).Debug("Collected page")
		c.notify(report, false, nil)
		if c.limitReached(report) {
			return errLimitReached
		}
		return nil
	})
	var opErr *OpError
	switch {
	case err == nil, err == errLimitReached:
	case errors.As(err, &opErr):
		return c.fail(report, err)
	default:
		return c.fail(report, &OpError{Op: OpSearch, Page: paginator.Pages() + 1, Err: err})
	}
	if c.limitReached(report) && int64(report.Documents) < report.Matched {
		report.Truncated = true
	}
	report.Matched = paginator.Matched()
	report.Finished = time.Now()
	c.notify(report, true, nil)
	return report, nil
}

func (c *Collect) limitReached(report *CollectionReport) bool {
	return c.Limit > 0 && report.Documents >= c.Limit
}

func (c *Collect) fail(report *CollectionReport, err error) (*CollectionReport, error) {
	report.Finished = time.Now()
	log.WithFields(log.Fields{"run": c.RunID, "collection": c.Address.Collection}).Error(err)
	c.notify(report, true, err)
	return report, err
}

func (c *Collect) notify(report *CollectionReport, done bool, err error) {
	p := Progress{
		Run:        report.Run,
		Kind:       "search",
		Collection: c.Address.Collection,
		Pages:      report.Pages,
		Documents:  report.Documents,
		Matched:    report.Matched,
		Cursor:     report.Cursor,
		Done:       done,
		Started:    report.Started,
	}
	if err != nil {
		p.Error = err.Error()
	}
	notifyAll(c.Listeners, p)
}
