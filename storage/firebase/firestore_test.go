package firebase

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/onsi/gomega"

	"github.com/sp0x/solrctl/store"
)

func TestNewFirestoreSink_RequiresAProject(t *testing.T) {
	g := gomega.NewWithT(t)
	_, err := NewFirestoreSink(context.Background(), &FirestoreConfig{})
	g.Expect(err).ToNot(gomega.BeNil())
	_, err = NewFirestoreSink(context.Background(), nil)
	g.Expect(err).ToNot(gomega.BeNil())
}

func TestDocKey(t *testing.T) {
	g := gomega.NewWithT(t)
	g.Expect(docKey("a/b")).To(gomega.Equal("a_b"))
	g.Expect(docKey(42)).To(gomega.Equal("42"))
	g.Expect(docKey(nil)).To(gomega.Equal(""))
}

// Runs against the firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestFirestoreSink_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	g := gomega.NewWithT(t)
	ctx := context.Background()
	sink, err := NewFirestoreSink(ctx, &FirestoreConfig{ProjectID: "solrctl-test", Collection: fmt.Sprintf("films_%d", os.Getpid())})
	g.Expect(err).To(gomega.BeNil())
	defer sink.Close()

	g.Expect(sink.Append(store.Document{"id": "a", "title": "Alien"})).To(gomega.Succeed())
	g.Expect(sink.Append(store.Document{"id": "b", "title": "Brazil"})).To(gomega.Succeed())
	size, err := sink.Size()
	g.Expect(err).To(gomega.BeNil())
	g.Expect(size).To(gomega.Equal(int64(2)))
	docs, err := sink.Documents(10)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(docs).To(gomega.HaveLen(2))
	g.Expect(docs[0]["title"]).To(gomega.Equal("Alien"))
}
