package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v2"

	"github.com/sp0x/solrctl/storage/bolt"
	"github.com/sp0x/solrctl/store"
)

var _ = Describe("File sink", func() {
	It("Should write one json object per line", func() {
		buf := &bytes.Buffer{}
		sink, err := NewWriterSink(buf, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(sink.Append(store.Document{"id": "a", store.VersionField: json.Number("1681234567890123776")})).To(Succeed())
		Expect(sink.Append(store.Document{"id": "b", "title": "<Brazil>"})).To(Succeed())
		Expect(sink.Close()).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(Equal(`{"_version_":1681234567890123776,"id":"a"}`))
		Expect(lines[1]).To(Equal(`{"id":"b","title":"<Brazil>"}`))
		Expect(sink.Count()).To(Equal(2))
	})

	It("Should write a yaml stream", func() {
		path := tempfile("solrctl-yaml-")
		defer os.Remove(path)
		sink, err := NewFileSink(path, FormatYAML)
		Expect(err).ToNot(HaveOccurred())
		Expect(sink.Append(store.Document{"id": "a", "year": json.Number("1999")})).To(Succeed())
		Expect(sink.Append(store.Document{"id": "b"})).To(Succeed())
		Expect(sink.Close()).To(Succeed())

		raw, err := ioutil.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		var first map[string]interface{}
		Expect(dec.Decode(&first)).To(Succeed())
		Expect(first["id"]).To(Equal("a"))
		Expect(first["year"]).To(Equal(1999))
		var second map[string]interface{}
		Expect(dec.Decode(&second)).To(Succeed())
		Expect(second["id"]).To(Equal("b"))
	})

	It("Should reject unknown formats", func() {
		_, err := NewWriterSink(&bytes.Buffer{}, "csv")
		Expect(err).To(HaveOccurred())
	})

	It("Should surface write errors", func() {
		sink, err := NewWriterSink(failingWriter{}, FormatNDJSON)
		Expect(err).ToNot(HaveOccurred())
		Expect(sink.Append(store.Document{"id": "a"})).To(Succeed())
		Expect(sink.Close()).To(HaveOccurred())
	})
})

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

var _ = Describe("Memory sink", func() {
	It("Should keep documents in order", func() {
		sink := NewMemorySink()
		for _, id := range []string{"c", "a", "b"} {
			Expect(sink.Append(store.Document{"id": id})).To(Succeed())
		}
		Expect(sink.Count()).To(Equal(3))
		docs := sink.Documents()
		Expect(docs[0].ID()).To(Equal("c"))
		Expect(docs[2].ID()).To(Equal("b"))
		Expect(sink.Close()).To(Succeed())
	})
})

var _ = Describe("Builder", func() {
	It("Should default to the file backing", func() {
		buf := &bytes.Buffer{}
		sink, err := NewBuilder().WithWriter(buf).Build()
		Expect(err).ToNot(HaveOccurred())
		Expect(sink).To(BeAssignableToTypeOf(&FileSink{}))
		Expect(sink.Append(store.Document{"id": "a"})).To(Succeed())
		Expect(sink.Close()).To(Succeed())
		Expect(buf.String()).To(Equal("{\"id\":\"a\"}\n"))
	})

	It("Should build a memory sink", func() {
		sink, err := NewBuilder().WithBacking(BackingMemory).Build()
		Expect(err).ToNot(HaveOccurred())
		Expect(sink).To(BeAssignableToTypeOf(&MemorySink{}))
	})

	It("Should build a bolt sink", func() {
		path := tempfile("solrctl-bolt-")
		defer os.Remove(path)
		sink, err := NewBuilder().WithBacking(BackingBolt).WithEndpoint(path).WithNamespace("films").Build()
		Expect(err).ToNot(HaveOccurred())
		Expect(sink).To(BeAssignableToTypeOf(&bolt.Sink{}))
		Expect(sink.Append(store.Document{"id": "a"})).To(Succeed())
		Expect(sink.(Counter).Count()).To(Equal(1))
		Expect(sink.Close()).To(Succeed())
	})

	It("Should fail on unknown backings", func() {
		_, err := NewBuilder().WithBacking("tape").Build()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("boltdb"))
	})

	It("Should list every backing", func() {
		Expect(Backings()).To(Equal([]string{BackingBolt, BackingFile, BackingFirebase, BackingMemory, BackingSqlite}))
	})
})
