// Package fakesolr is an in-process stand-in for a search index server. It implements the
// select and update handlers with cursorMark paging, version stamping, optimistic
// concurrency on _version_ and staged writes that stay invisible until a commit.
package fakesolr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/sp0x/solrctl/store"
)

// Call is one request the server received, in arrival order.
type Call struct {
	Op         string
	Collection string
	Cursor     string
}

const (
	OpSelect = "select"
	OpWrite  = "write"
	OpCommit = "commit"
	OpPing   = "ping"
)

type fault struct {
	nth     int
	status  int
	garbage bool
}

type stagedOp struct {
	add       store.Document
	deleteIDs []string
	deleteQ   string
}

type collection struct {
	committed map[string]store.Document
	staged    []stagedOp
}

// Server is a fake store listening on a local port.
type Server struct {
	*httptest.Server
	mu          sync.Mutex
	collections map[string]*collection
	version     int64
	calls       []Call
	counts      map[string]int
	faults      map[string]fault
}

// New starts a server. Collections are created on first use.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		collections: make(map[string]*collection),
		counts:      make(map[string]int),
		faults:      make(map[string]fault),
		version:     1634000000000000000,
	}
	r := gin.New()
	r.GET("/solr/:collection/select", s.handleSelect)
	r.GET("/solr/:collection/update", s.handleUpdate)
	r.POST("/solr/:collection/update", s.handleUpdate)
	r.GET("/solr/:collection/admin/ping", s.handlePing)
	s.Server = httptest.NewServer(r)
	return s
}

// Address points at a collection on this server.
func (s *Server) Address(coll string) store.Address {
	u, _ := url.Parse(s.URL)
	host, port, _ := net.SplitHostPort(u.Host)
	p, _ := strconv.Atoi(port)
	return store.Address{
		Scheme:     "http",
		Host:       host,
		Port:       p,
		Root:       "solr",
		Collection: coll,
	}
}

// Seed stores committed documents, stamping each with a version.
func (s *Server) Seed(coll string, docs ...store.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(coll)
	for _, d := range docs {
		doc := copyDoc(d)
		doc[store.VersionField] = s.nextVersion()
		c.committed[idOf(doc)] = doc
	}
}

// Docs returns the committed documents of a collection sorted by id.
func (s *Server) Docs(coll string) []store.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(coll)
	ids := sortedIDs(c.committed)
	out := make([]store.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyDoc(c.committed[id]))
	}
	return out
}

// Staged is the number of pending operations waiting for a commit.
func (s *Server) Staged(coll string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collection(coll).staged)
}

// Calls returns a copy of the request log.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsOf returns the logged calls of a single operation.
func (s *Server) CallsOf(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// FailOn makes the nth call (1-based, counted across collections) of op answer with the
// given http status and an error body.
func (s *Server) FailOn(op string, nth int, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = fault{nth: nth, status: status}
}

// GarbleOn makes the nth call of op answer 200 with a body that isn't json.
func (s *Server) GarbleOn(op string, nth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = fault{nth: nth, garbage: true}
}

func (s *Server) collection(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{committed: make(map[string]store.Document)}
		s.collections[name] = c
	}
	return c
}

func (s *Server) nextVersion() json.Number {
	s.version++
	return json.Number(strconv.FormatInt(s.version, 10))
}

// record logs the call and reports whether an injected fault should be served instead.
func (s *Server) record(c *gin.Context, op, coll, cursor string) bool {
	s.calls = append(s.calls, Call{Op: op, Collection: coll, Cursor: cursor})
	s.counts[op]++
	f, ok := s.faults[op]
	if !ok || f.nth != s.counts[op] {
		return false
	}
	if f.garbage {
		c.String(http.StatusOK, "<html>not json")
		return true
	}
	writeError(c, f.status, fmt.Sprintf("injected %s failure", op))
	return true
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"responseHeader": gin.H{"status": status, "QTime": 0},
		"error":          gin.H{"msg": msg, "code": status},
	})
}

func okHeader() gin.H {
	return gin.H{"status": 0, "QTime": 1}
}

func (s *Server) handlePing(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record(c, OpPing, c.Param("collection"), "") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"responseHeader": okHeader(), "status": "OK"})
}

func (s *Server) handleSelect(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := c.Param("collection")
	cursor := c.Query("cursorMark")
	if s.record(c, OpSelect, coll, cursor) {
		return
	}
	if wt := c.DefaultQuery("wt", "json"); wt != "json" {
		writeError(c, http.StatusBadRequest, "only json responses are supported")
		return
	}
	rows, err := strconv.Atoi(c.DefaultQuery("rows", "10"))
	if err != nil || rows < 0 {
		writeError(c, http.StatusBadRequest, "invalid rows")
		return
	}
	sortSpec := strings.Fields(strings.ToLower(c.Query("sort")))
	if len(sortSpec) != 2 || sortSpec[0] != "id" || (sortSpec[1] != "asc" && sortSpec[1] != "desc") {
		writeError(c, http.StatusBadRequest, "Cursor functionality requires a sort containing a uniqueKey field tie breaker")
		return
	}
	if cursor == "" {
		writeError(c, http.StatusBadRequest, "cursorMark is required")
		return
	}
	after := ""
	if cursor != store.StartCursor {
		raw, err := base64.RawURLEncoding.DecodeString(cursor)
		if err != nil {
			writeError(c, http.StatusBadRequest, fmt.Sprintf("Unable to parse 'cursorMark' after totem: value=%s", cursor))
			return
		}
		after = string(raw)
	}
	match, err := parsePredicate(c.DefaultQuery("q", store.MatchAll))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	col := s.collection(coll)
	ids := sortedIDs(col.committed)
	if sortSpec[1] == "desc" {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	var matched []store.Document
	for _, id := range ids {
		if doc := col.committed[id]; match(doc) {
			matched = append(matched, doc)
		}
	}
	page := make([]store.Document, 0, rows)
	for _, doc := range matched {
		if len(page) == rows {
			break
		}
		id := idOf(doc)
		if after != "" {
			if sortSpec[1] == "asc" && id <= after {
				continue
			}
			if sortSpec[1] == "desc" && id >= after {
				continue
			}
		}
		page = append(page, copyDoc(doc))
	}
	next := cursor
	if len(page) > 0 {
		next = base64.RawURLEncoding.EncodeToString([]byte(idOf(page[len(page)-1])))
	}
	c.JSON(http.StatusOK, gin.H{
		"responseHeader": okHeader(),
		"response": gin.H{
			"numFound": len(matched),
			"start":    0,
			"docs":     page,
		},
		"nextCursorMark": next,
	})
}

func (s *Server) handleUpdate(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := c.Param("collection")
	commit := c.Query("commit") == "true"
	op := OpWrite
	if c.Request.Method == http.MethodGet {
		op = OpCommit
	}
	if s.record(c, op, coll, "") {
		return
	}
	col := s.collection(coll)
	if c.Request.Method == http.MethodPost {
		body, err := ioutil.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		ops, err := parseUpdate(body)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		for _, o := range ops {
			if o.add == nil {
				continue
			}
			if status, msg := checkVersion(col, o.add); status != 0 {
				writeError(c, status, msg)
				return
			}
		}
		col.staged = append(col.staged, ops...)
	}
	if commit {
		s.apply(col)
	}
	c.JSON(http.StatusOK, gin.H{"responseHeader": okHeader()})
}

// checkVersion emulates optimistic concurrency: a positive _version_ on an incoming
// document must equal the version already stored under the same id.
func checkVersion(col *collection, doc store.Document) (int, string) {
	v, ok := doc[store.VersionField]
	if !ok {
		return 0, ""
	}
	n, err := strconv.ParseInt(fmt.Sprint(v), 10, 64)
	if err != nil {
		return http.StatusBadRequest, "invalid _version_"
	}
	if n <= 0 {
		return 0, ""
	}
	existing, found := col.committed[idOf(doc)]
	if !found || fmt.Sprint(existing[store.VersionField]) != fmt.Sprint(v) {
		return http.StatusConflict, fmt.Sprintf("version conflict for %s expected=%v", idOf(doc), v)
	}
	return 0, ""
}

func (s *Server) apply(col *collection) {
	for _, o := range col.staged {
		switch {
		case o.add != nil:
			doc := copyDoc(o.add)
			doc[store.VersionField] = s.nextVersion()
			col.committed[idOf(doc)] = doc
		case len(o.deleteIDs) > 0:
			for _, id := range o.deleteIDs {
				delete(col.committed, id)
			}
		case o.deleteQ != "":
			match, err := parsePredicate(o.deleteQ)
			if err != nil {
				continue
			}
			for id, doc := range col.committed {
				if match(doc) {
					delete(col.committed, id)
				}
			}
		}
	}
	col.staged = nil
}

func parseUpdate(body []byte) ([]stagedOp, error) {
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid update body: %v", err)
	}
	switch v := raw.(type) {
	case []interface{}:
		ops := make([]stagedOp, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("expected a document, got %T", item)
			}
			if _, ok := m[store.IDField]; !ok {
				return nil, fmt.Errorf("Document is missing mandatory uniqueKey field: id")
			}
			ops = append(ops, stagedOp{add: store.Document(m)})
		}
		return ops, nil
	case map[string]interface{}:
		del, ok := v["delete"]
		if !ok {
			return nil, fmt.Errorf("unknown update command")
		}
		switch d := del.(type) {
		case string:
			return []stagedOp{{deleteIDs: []string{d}}}, nil
		case []interface{}:
			ids := make([]string, 0, len(d))
			for _, id := range d {
				ids = append(ids, fmt.Sprint(id))
			}
			return []stagedOp{{deleteIDs: ids}}, nil
		case map[string]interface{}:
			if q, ok := d["query"].(string); ok {
				return []stagedOp{{deleteQ: q}}, nil
			}
			if id, ok := d["id"]; ok {
				return []stagedOp{{deleteIDs: []string{fmt.Sprint(id)}}}, nil
			}
		}
		return nil, fmt.Errorf("invalid delete command")
	}
	return nil, fmt.Errorf("invalid update body")
}

// parsePredicate understands "*:*" and "field:value".
func parsePredicate(q string) (func(store.Document) bool, error) {
	if q == store.MatchAll {
		return func(store.Document) bool { return true }, nil
	}
	parts := strings.SplitN(q, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("org.apache.solr.search.SyntaxError: Cannot parse '%s'", q)
	}
	field, value := parts[0], strings.Trim(parts[1], `"`)
	return func(d store.Document) bool {
		v, ok := d[field]
		return ok && fmt.Sprint(v) == value
	}, nil
}

func idOf(d store.Document) string {
	return fmt.Sprint(d[store.IDField])
}

func sortedIDs(docs map[string]store.Document) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func copyDoc(d store.Document) store.Document {
	out := make(store.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
