package sqlite

import (
	"encoding/json"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/sp0x/solrctl/store"
)

var _ = Describe("Sqlite sink", func() {
	var sink *Sink

	BeforeEach(func() {
		var err error
		sink, err = NewSink(tempfile(), "films")
		Expect(err).ToNot(HaveOccurred())
	})
	AfterEach(func() {
		_ = sink.Truncate()
		_ = sink.Close()
		_ = os.Remove(sink.Path)
	})

	It("Should store documents in order", func() {
		Expect(sink.Append(store.Document{"id": "b", "year": json.Number("1999")})).To(Succeed())
		Expect(sink.Append(store.Document{"id": "a"})).To(Succeed())
		Expect(sink.Count()).To(Equal(2))
		docs, err := sink.Documents()
		Expect(err).ToNot(HaveOccurred())
		Expect(docs).To(HaveLen(2))
		Expect(docs[0].ID()).To(Equal("b"))
		Expect(docs[0]["year"]).To(Equal(json.Number("1999")))
		Expect(docs[1].ID()).To(Equal("a"))
	})

	It("Should find documents by id", func() {
		Expect(sink.Append(store.Document{"id": 42, "title": "x"})).To(Succeed())
		doc, err := sink.FindByID("42")
		Expect(err).ToNot(HaveOccurred())
		Expect(doc).ToNot(BeNil())
		Expect(doc["title"]).To(Equal("x"))

		missing, err := sink.FindByID("nope")
		Expect(err).ToNot(HaveOccurred())
		Expect(missing).To(BeNil())
	})

	It("Should report lookup failures other than a missing record", func() {
		Expect(sink.db.DropTable(&Record{}).Error).ToNot(HaveOccurred())
		doc, err := sink.FindByID("a")
		Expect(err).To(HaveOccurred())
		Expect(doc).To(BeNil())
	})

	It("Should keep namespaces apart", func() {
		Expect(sink.Append(store.Document{"id": "a"})).To(Succeed())
		other := &Sink{Path: sink.Path, namespace: "books", db: sink.db, marshaler: sink.marshaler}
		Expect(other.Count()).To(Equal(0))
	})
})
