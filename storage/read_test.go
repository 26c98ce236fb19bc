package storage

import (
	"bytes"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/sp0x/solrctl/storage/sqlite"
	"github.com/sp0x/solrctl/store"
)

func fill(sink Sink, ids ...string) {
	for _, id := range ids {
		Expect(sink.Append(store.Document{"id": id})).To(Succeed())
	}
}

func ids(docs []store.Document) []interface{} {
	out := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.ID())
	}
	return out
}

var _ = Describe("Reading stored documents", func() {
	for _, backing := range []string{BackingBolt, BackingSqlite} {
		backing := backing

		It("Should read back "+backing+" documents in order", func() {
			path := tempfile("solrctl-read-")
			defer os.Remove(path)
			sink, err := NewBuilder().WithBacking(backing).WithEndpoint(path).WithNamespace("films").Build()
			Expect(err).ToNot(HaveOccurred())
			defer sink.Close()
			fill(sink, "c", "a", "b")

			docs, err := ReadDocuments(sink, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(ids(docs)).To(Equal([]interface{}{"c", "a", "b"}))

			docs, err = ReadDocuments(sink, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(ids(docs)).To(Equal([]interface{}{"c", "a"}))

			size, err := Size(sink)
			Expect(err).ToNot(HaveOccurred())
			Expect(size).To(Equal(int64(3)))

			doc, err := FindDocument(sink, "a")
			Expect(err).ToNot(HaveOccurred())
			Expect(doc.ID()).To(Equal("a"))
			missing, err := FindDocument(sink, "z")
			Expect(err).ToNot(HaveOccurred())
			Expect(missing).To(BeNil())
		})

		It("Should reset the "+backing+" namespace when asked to", func() {
			path := tempfile("solrctl-reset-")
			defer os.Remove(path)
			sink, err := NewBuilder().WithBacking(backing).WithEndpoint(path).WithNamespace("films").Build()
			Expect(err).ToNot(HaveOccurred())
			fill(sink, "a", "b")
			Expect(sink.Close()).To(Succeed())

			sink, err = NewBuilder().WithBacking(backing).WithEndpoint(path).WithNamespace("films").WithReset(true).Build()
			Expect(err).ToNot(HaveOccurred())
			defer sink.Close()
			size, err := Size(sink)
			Expect(err).ToNot(HaveOccurred())
			Expect(size).To(BeZero())
		})
	}

	It("Should keep documents without a reset", func() {
		path := tempfile("solrctl-keep-")
		defer os.Remove(path)
		sink, err := sqlite.NewSink(path, "films")
		Expect(err).ToNot(HaveOccurred())
		fill(sink, "a")
		Expect(sink.Close()).To(Succeed())

		reopened, err := NewBuilder().WithBacking(BackingSqlite).WithEndpoint(path).WithNamespace("films").Build()
		Expect(err).ToNot(HaveOccurred())
		defer reopened.Close()
		Expect(reopened.(Counter).Count()).To(Equal(1))
	})

	It("Should refuse to read file sinks", func() {
		sink, err := NewBuilder().WithWriter(&bytes.Buffer{}).Build()
		Expect(err).ToNot(HaveOccurred())
		_, err = ReadDocuments(sink, 0)
		Expect(err).To(Equal(ErrNotReadable))
	})

	It("Should read memory sinks", func() {
		sink := NewMemorySink()
		fill(sink, "a", "b")
		docs, err := ReadDocuments(sink, 1)
		Expect(err).ToNot(HaveOccurred())
		Expect(ids(docs)).To(Equal([]interface{}{"a"}))
	})
})
