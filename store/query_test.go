package store

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/onsi/gomega"
)

func TestParsePageSize(t *testing.T) {
	g := gomega.NewWithT(t)
	tests := []struct {
		in      string
		want    PageSize
		wantErr bool
	}{
		{"1000", Rows(1000), false},
		{" 25 ", Rows(25), false},
		{"all", AllRows(), false},
		{"ALL", AllRows(), false},
		{"0", PageSize{}, true},
		{"-3", PageSize{}, true},
		{"lots", PageSize{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePageSize(tt.in)
		if tt.wantErr {
			g.Expect(err).ToNot(gomega.BeNil(), tt.in)
			continue
		}
		g.Expect(err).To(gomega.BeNil(), tt.in)
		g.Expect(got).To(gomega.Equal(tt.want), tt.in)
	}
}

func TestPageSize_Bounded(t *testing.T) {
	g := gomega.NewWithT(t)
	g.Expect(AllRows().Bounded()).To(gomega.Equal(Rows(DefaultRows)))
	g.Expect(Rows(10).Bounded()).To(gomega.Equal(Rows(10)))
	g.Expect(AllRows().String()).To(gomega.Equal("all"))
	g.Expect(Rows(10).String()).To(gomega.Equal("10"))
}

func TestQuerySpec_Validate(t *testing.T) {
	g := gomega.NewWithT(t)
	spec := NewQuerySpec()
	g.Expect(spec.validate()).To(gomega.BeNil())

	spec.PageSize = AllRows()
	g.Expect(errors.Is(spec.validate(), ErrUnboundedPageSize)).To(gomega.BeTrue())

	spec = NewQuerySpec()
	spec.ResultFormat = "xml"
	g.Expect(errors.Is(spec.validate(), ErrUnsupportedFormat)).To(gomega.BeTrue())

	spec = NewQuerySpec().WithCursor("")
	g.Expect(spec.validate()).ToNot(gomega.BeNil())
}

func TestQuerySpec_Params(t *testing.T) {
	g := gomega.NewWithT(t)
	params := NewQuerySpec().WithCursor("AoE=").params()
	g.Expect(params.Get("q")).To(gomega.Equal("*:*"))
	g.Expect(params.Get("wt")).To(gomega.Equal("json"))
	g.Expect(params.Get("rows")).To(gomega.Equal("1000"))
	g.Expect(params.Get("sort")).To(gomega.Equal("id asc"))
	g.Expect(params.Get("cursorMark")).To(gomega.Equal("AoE="))
}

func TestDocument_StripVersion(t *testing.T) {
	g := gomega.NewWithT(t)
	doc := Document{"id": "a", "title": "x", VersionField: json.Number("1681234567890123776")}
	clean, err := doc.StripVersion()
	g.Expect(err).To(gomega.BeNil())
	g.Expect(clean).To(gomega.Equal(Document{"id": "a", "title": "x"}))
	// the source document is left alone
	g.Expect(doc).To(gomega.HaveKey(VersionField))

	_, err = Document{"id": "b"}.StripVersion()
	var malformed *MalformedDocumentError
	g.Expect(errors.As(err, &malformed)).To(gomega.BeTrue())
	g.Expect(malformed.ID).To(gomega.Equal("b"))
	g.Expect(malformed.Field).To(gomega.Equal(VersionField))
}

func TestParseAddress(t *testing.T) {
	g := gomega.NewWithT(t)
	addr, err := ParseAddress("localhost", "films", "", "")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(addr.Port).To(gomega.Equal(DefaultPort))
	g.Expect(addr.BaseURL()).To(gomega.Equal("http://localhost:8983/solr/films"))

	addr, err = ParseAddress("10.0.0.2:7574", "films", "https", "search")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(addr.String()).To(gomega.Equal("https://10.0.0.2:7574/search/films"))
	g.Expect(addr.WithCollection("books").Collection).To(gomega.Equal("books"))
	g.Expect(addr.Collection).To(gomega.Equal("films"))

	_, err = ParseAddress("localhost:port", "films", "", "")
	g.Expect(err).ToNot(gomega.BeNil())
	_, err = ParseAddress("", "films", "", "")
	g.Expect(err).ToNot(gomega.BeNil())
	_, err = ParseAddress("localhost", "", "", "")
	g.Expect(err).ToNot(gomega.BeNil())
}

func TestDecodeSelect(t *testing.T) {
	g := gomega.NewWithT(t)
	body := []byte(`{"responseHeader":{"status":0},"response":{"numFound":2,"docs":[{"id":"a","_version_":1681234567890123776}]},"nextCursorMark":"AoE"}`)
	page, err := decodeSelect("search", body)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(page.NumFound).To(gomega.Equal(int64(2)))
	g.Expect(page.NextCursor).To(gomega.Equal("AoE"))
	g.Expect(page.Docs[0][VersionField]).To(gomega.Equal(json.Number("1681234567890123776")))

	_, err = decodeSelect("search", []byte(`{"response":{"numFound":0,"docs":[]}}`))
	var decodeErr *DecodeError
	g.Expect(errors.As(err, &decodeErr)).To(gomega.BeTrue())

	_, err = decodeSelect("search", []byte(`{"error":{"msg":"undefined field foo","code":400}}`))
	var storeErr *StoreError
	g.Expect(errors.As(err, &storeErr)).To(gomega.BeTrue())
	g.Expect(storeErr.Message).To(gomega.Equal("undefined field foo"))
}

func TestErrorFromStatus(t *testing.T) {
	g := gomega.NewWithT(t)
	err := errorFromStatus("commit", 404, []byte("<html>Not Found</html>"))
	var storeErr *StoreError
	g.Expect(errors.As(err, &storeErr)).To(gomega.BeTrue())
	g.Expect(storeErr.Status).To(gomega.Equal(404))
	g.Expect(storeErr.Message).To(gomega.ContainSubstring("Not Found"))
	g.Expect(IsRetryable(err)).To(gomega.BeFalse())
	g.Expect(IsRetryable(&TransportError{Op: "search", Err: errors.New("timeout")})).To(gomega.BeTrue())
}

func TestDocument_Plain(t *testing.T) {
	g := gomega.NewWithT(t)
	doc := Document{
		"id":        "a",
		"year":      json.Number("1999"),
		"rating":    json.Number("7.5"),
		"tags":      []interface{}{json.Number("1"), "x"},
		"nested":    map[string]interface{}{"n": json.Number("2")},
		VersionField: json.Number("1681234567890123776"),
	}
	plain := doc.Plain()
	g.Expect(plain["year"]).To(gomega.Equal(int64(1999)))
	g.Expect(plain["rating"]).To(gomega.Equal(7.5))
	g.Expect(plain["tags"]).To(gomega.Equal([]interface{}{int64(1), "x"}))
	g.Expect(plain["nested"]).To(gomega.Equal(map[string]interface{}{"n": int64(2)}))
	g.Expect(plain[VersionField]).To(gomega.Equal(int64(1681234567890123776)))
	g.Expect(doc["year"]).To(gomega.Equal(json.Number("1999")))
}
