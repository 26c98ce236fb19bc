package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/search"
	"github.com/sp0x/solrctl/store"
)

// Replicate copies every document matching Query from Source into Dest, one committed
// page at a time. Store managed version fields are dropped on the way so the destination
// assigns its own.
type Replicate struct {
	RunID        string
	SourceClient store.Client
	Source       store.Address
	DestClient   store.Client
	Dest         store.Address
	Query        store.QuerySpec
	Options      search.Options
	Listeners    []Listener
}

// MigrationReport describes how far a replication got. Everything up to
// LastCommittedCursor is durable at the destination, even when the run failed later.
type MigrationReport struct {
	Run                 string    `json:"run" yaml:"run"`
	Source              string    `json:"source" yaml:"source"`
	Destination         string    `json:"destination" yaml:"destination"`
	Query               string    `json:"query" yaml:"query"`
	Matched             int64     `json:"matched" yaml:"matched"`
	PagesProcessed      int       `json:"pages_processed" yaml:"pages_processed"`
	DocumentsWritten    int       `json:"documents_written" yaml:"documents_written"`
	LastCommittedCursor string    `json:"last_committed_cursor" yaml:"last_committed_cursor"`
	Failed              bool      `json:"failed" yaml:"failed"`
	Started             time.Time `json:"started" yaml:"started"`
	Finished            time.Time `json:"finished" yaml:"finished"`
}

func (r *MigrationReport) RunID() string {
	return r.Run
}

// Duration is the wall time of the run, or the time spent so far.
func (r *MigrationReport) Duration() time.Duration {
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}

func (r *MigrationReport) Summary() string {
	return fmt.Sprintf("%s -> %s: %d documents in %d pages, last committed cursor %s",
		r.Source, r.Destination, r.DocumentsWritten, r.PagesProcessed, r.LastCommittedCursor)
}

func (r *Replicate) Name() string {
	return "migrate " + r.Source.Collection
}

func (r *Replicate) Execute(ctx context.Context) (Report, error) {
	return r.Run(ctx)
}

// Run walks the source and, for every non-empty page, writes the cleaned documents to
// the destination and commits them before the next page is requested. The first failure
// stops the run, the returned report is valid in every case.
func (r *Replicate) Run(ctx context.Context) (*MigrationReport, error) {
	if r.RunID == "" {
		r.RunID = NewRunID()
	}
	paginator := search.NewPaginator(r.SourceClient, r.Source, r.Query, r.Options)
	report := &MigrationReport{
		Run:                 r.RunID,
		Source:              r.Source.String(),
		Destination:         r.Dest.String(),
		Query:               r.Query.Query,
		LastCommittedCursor: paginator.Cursor(),
		Started:             time.Now(),
	}
	logger := log.WithFields(log.Fields{"run": r.RunID, "collection": r.Source.Collection, "dest": r.Dest.Collection})
	logger.Info("Starting replication")

	for paginator.Next(ctx) {
		page := paginator.Page()
		report.Matched = page.NumFound
		if len(page.Docs) == 0 {
			continue
		}
		docs, err := cleanDocuments(page.Docs)
		if err != nil {
			return r.fail(report, &OpError{Op: OpWrite, Page: paginator.Pages(), Err: err})
		}
		if log.IsLevelEnabled(log.TraceLevel) {
			logger.Trace(spew.Sdump(docs[0]))
		}
		if _, err := r.DestClient.Write(ctx, r.Dest, docs, store.WriteOptions{}); err != nil {
			return r.fail(report, &OpError{Op: OpWrite, Page: paginator.Pages(), Err: err})
		}
		if _, err := r.DestClient.Commit(ctx, r.Dest); err != nil {
			return r.fail(report, &OpError{Op: OpCommit, Page: paginator.Pages(), Err: err})
		}
		report.PagesProcessed++
		report.DocumentsWritten += len(docs)
		report.LastCommittedCursor = page.NextCursor
		logger.WithFields(log.Fields{"page": paginator.Pages(), "docs": len(docs), "cursor": page.NextCursor}).
			Debug("Committed page")
		r.notify(report, false, nil)
	}
	if err := paginator.Err(); err != nil {
		return r.fail(report, &OpError{Op: OpSearch, Page: paginator.Pages() + 1, Err: err})
	}
	// a stale count of zero after written pages must not hide them
	if report.DocumentsWritten == 0 || paginator.Matched() > 0 {
		report.Matched = paginator.Matched()
	}
	report.Finished = time.Now()
	if report.DocumentsWritten == 0 && report.Matched == 0 {
		logger.Info("No documents matched")
	} else {
		logger.WithFields(log.Fields{"docs": report.DocumentsWritten, "pages": report.PagesProcessed}).
			Info("Replication complete")
	}
	r.notify(report, true, nil)
	return report, nil
}

func (r *Replicate) fail(report *MigrationReport, err error) (*MigrationReport, error) {
	report.Failed = true
	report.Finished = time.Now()
	log.WithFields(log.Fields{"run": r.RunID, "collection": r.Source.Collection, "cursor": report.LastCommittedCursor}).
		Error(err)
	r.notify(report, true, err)
	return report, err
}

func (r *Replicate) notify(report *MigrationReport, done bool, err error) {
	p := Progress{
		Run:        report.Run,
		Kind:       "migrate",
		Collection: r.Source.Collection,
		Pages:      report.PagesProcessed,
		Documents:  report.DocumentsWritten,
		Matched:    report.Matched,
		Cursor:     report.LastCommittedCursor,
		Done:       done,
		Started:    report.Started,
	}
	if err != nil {
		p.Error = err.Error()
	}
	notifyAll(r.Listeners, p)
}

func cleanDocuments(docs []store.Document) ([]store.Document, error) {
	out := make([]store.Document, 0, len(docs))
	for _, doc := range docs {
		clean, err := doc.StripVersion()
		if err != nil {
			return nil, err
		}
		out = append(out, clean)
	}
	return out, nil
}
