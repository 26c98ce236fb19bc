package bolt_test

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/sp0x/solrctl/operations"
	. "github.com/sp0x/solrctl/storage/bolt"
	"github.com/sp0x/solrctl/store"
)

var _ = Describe("Bolt sink", func() {
	var path string
	var sink *Sink

	BeforeEach(func() {
		path = tempfile()
		var err error
		sink, err = NewSink(path, "films")
		Expect(err).ToNot(HaveOccurred())
	})
	AfterEach(func() {
		_ = sink.Close()
		_ = os.Remove(path)
	})

	It("Should read documents back in the order they were appended", func() {
		for i := 5; i > 0; i-- {
			doc := store.Document{"id": fmt.Sprintf("film-%d", i), store.VersionField: json.Number("1681234567890123776")}
			Expect(sink.Append(doc)).To(Succeed())
		}
		Expect(sink.Count()).To(Equal(5))
		var ids []string
		Expect(sink.ForEach(func(doc store.Document) error {
			ids = append(ids, fmt.Sprint(doc.ID()))
			return nil
		})).To(Succeed())
		Expect(ids).To(Equal([]string{"film-5", "film-4", "film-3", "film-2", "film-1"}))
	})

	It("Should keep large version stamps exact", func() {
		Expect(sink.Append(store.Document{"id": "a", store.VersionField: json.Number("1681234567890123776")})).To(Succeed())
		var got store.Document
		Expect(sink.ForEach(func(doc store.Document) error {
			got = doc
			return nil
		})).To(Succeed())
		Expect(got.Plain()[store.VersionField]).To(BeEquivalentTo(int64(1681234567890123776)))
	})

	It("Should keep namespaces apart", func() {
		Expect(sink.Append(store.Document{"id": "a"})).To(Succeed())
		Expect(sink.Close()).To(Succeed())
		other, err := NewSink(path, "books")
		Expect(err).ToNot(HaveOccurred())
		Expect(other.Count()).To(Equal(0))
		Expect(other.Append(store.Document{"id": "b"})).To(Succeed())
		Expect(other.Count()).To(Equal(1))
		sink = other
	})
})

var _ = Describe("Checkpoints", func() {
	var path string
	var ledger *Checkpoints

	BeforeEach(func() {
		path = tempfile()
		var err error
		ledger, err = OpenCheckpoints(path)
		Expect(err).ToNot(HaveOccurred())
	})
	AfterEach(func() {
		_ = ledger.Close()
		_ = os.Remove(path)
	})

	It("Should keep the latest progress of a run", func() {
		ledger.Notify(operations.Progress{Run: "r1", Collection: "films", Pages: 1, Cursor: "c1"})
		ledger.Notify(operations.Progress{Run: "r1", Collection: "films", Pages: 2, Cursor: "c2"})
		p, err := ledger.Get("r1")
		Expect(err).ToNot(HaveOccurred())
		Expect(p.Pages).To(Equal(2))
		Expect(p.Cursor).To(Equal("c2"))
	})

	It("Should list runs most recent first", func() {
		now := time.Now()
		Expect(ledger.Save(operations.Progress{Run: "old", Updated: now.Add(-time.Hour)})).To(Succeed())
		Expect(ledger.Save(operations.Progress{Run: "new", Updated: now})).To(Succeed())
		list, err := ledger.List()
		Expect(err).ToNot(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[0].Run).To(Equal("new"))
		Expect(list[1].Run).To(Equal("old"))
	})

	It("Should report unknown runs", func() {
		_, err := ledger.Get("missing")
		Expect(err).To(Equal(ErrCheckpointNotFound))
	})

	It("Should refuse checkpoints without a run", func() {
		Expect(ledger.Save(operations.Progress{})).ToNot(Succeed())
	})

	It("Should clear the ledger", func() {
		Expect(ledger.Save(operations.Progress{Run: "r1"})).To(Succeed())
		Expect(ledger.Clear()).To(Succeed())
		list, err := ledger.List()
		Expect(err).ToNot(HaveOccurred())
		Expect(list).To(BeEmpty())
	})
})

var _ = Describe("Truncate", func() {
	It("Should only empty its own namespace", func() {
		path := tempfile()
		defer os.Remove(path)
		films, err := NewSink(path, "films")
		Expect(err).ToNot(HaveOccurred())
		Expect(films.Append(store.Document{"id": "a"})).To(Succeed())
		Expect(films.Append(store.Document{"id": "b"})).To(Succeed())
		Expect(films.Close()).To(Succeed())

		books, err := NewSink(path, "books")
		Expect(err).ToNot(HaveOccurred())
		Expect(books.Append(store.Document{"id": "x"})).To(Succeed())
		Expect(books.Close()).To(Succeed())

		films, err = NewSink(path, "films")
		Expect(err).ToNot(HaveOccurred())
		Expect(films.Truncate()).To(Succeed())
		Expect(films.Count()).To(Equal(0))
		Expect(films.Append(store.Document{"id": "c"})).To(Succeed())

		var ids []interface{}
		Expect(films.ForEach(func(doc store.Document) error {
			ids = append(ids, doc.ID())
			return nil
		})).To(Succeed())
		Expect(ids).To(Equal([]interface{}{"c"}))
		Expect(films.Close()).To(Succeed())

		books, err = NewSink(path, "books")
		Expect(err).ToNot(HaveOccurred())
		defer books.Close()
		Expect(books.Count()).To(Equal(1))
	})
})
