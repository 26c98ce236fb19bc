package store

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// StartCursor asks the store for the beginning of the result set.
	StartCursor = "*"

	// MatchAll is the predicate that matches every document.
	MatchAll = "*:*"

	FormatJSON  = "json"
	DefaultSort = "id asc"
	DefaultRows = 1000
	pageSizeAll = "all"
)

// PageSize is either a positive row count or "all". "all" is never sent to the store,
// a paginator resolves it into repeated bounded requests.
type PageSize struct {
	Rows int
	All  bool
}

// Rows returns a bounded page size.
func Rows(n int) PageSize {
	return PageSize{Rows: n}
}

// AllRows is the unbounded page size.
func AllRows() PageSize {
	return PageSize{All: true}
}

// ParsePageSize accepts a positive integer or the literal "all".
func ParsePageSize(value string) (PageSize, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, pageSizeAll) {
		return AllRows(), nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return PageSize{}, fmt.Errorf("page size must be a positive integer or %q, got %q", pageSizeAll, value)
	}
	if n <= 0 {
		return PageSize{}, fmt.Errorf("page size must be positive, got %d", n)
	}
	return Rows(n), nil
}

// Bounded resolves "all" into the default row count.
func (p PageSize) Bounded() PageSize {
	if p.All || p.Rows <= 0 {
		return Rows(DefaultRows)
	}
	return p
}

func (p PageSize) String() string {
	if p.All {
		return pageSizeAll
	}
	return strconv.Itoa(p.Rows)
}

// QuerySpec describes one bounded read. Cursor is opaque: only ever StartCursor or a
// value the store returned.
type QuerySpec struct {
	Query        string
	ResultFormat string
	PageSize     PageSize
	Sort         string
	Cursor       string
}

// NewQuerySpec returns a spec with the defaults: match all, json, 1000 rows, sorted by id.
func NewQuerySpec() QuerySpec {
	return QuerySpec{
		Query:        MatchAll,
		ResultFormat: FormatJSON,
		PageSize:     Rows(DefaultRows),
		Sort:         DefaultSort,
		Cursor:       StartCursor,
	}
}

// WithCursor returns a copy of the spec positioned at cursor.
func (q QuerySpec) WithCursor(cursor string) QuerySpec {
	q.Cursor = cursor
	return q
}

func (q QuerySpec) params() url.Values {
	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("wt", q.ResultFormat)
	params.Set("rows", strconv.Itoa(q.PageSize.Rows))
	params.Set("sort", q.Sort)
	params.Set("cursorMark", q.Cursor)
	return params
}

// validate checks the local preconditions of a search request.
func (q QuerySpec) validate() error {
	if q.PageSize.All {
		return ErrUnboundedPageSize
	}
	if q.PageSize.Rows <= 0 {
		return fmt.Errorf("page size must be positive, got %d", q.PageSize.Rows)
	}
	if q.ResultFormat != FormatJSON {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, q.ResultFormat)
	}
	if q.Cursor == "" {
		return fmt.Errorf("cursor is required, use %q for the start of the result set", StartCursor)
	}
	return nil
}
