package operations_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/onsi/gomega"

	"github.com/sp0x/solrctl/internal/fakesolr"
	"github.com/sp0x/solrctl/operations"
	"github.com/sp0x/solrctl/store"
	"github.com/sp0x/solrctl/store/mocks"
)

func TestAdd_CommitsByDefault(t *testing.T) {
	g := gomega.NewWithT(t)
	srv := fakesolr.New()
	defer srv.Close()
	client := store.NewHTTPClient(&http.Client{Timeout: 5 * time.Second})
	addr := srv.Address("films")

	_, err := operations.Add(context.Background(), client, addr, []store.Document{{"id": "a", "title": "Alien"}}, true)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(srv.Docs("films")).To(gomega.HaveLen(1))

	_, err = operations.Add(context.Background(), client, addr, []store.Document{{"id": "b"}}, false)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(srv.Docs("films")).To(gomega.HaveLen(1))
	g.Expect(srv.Staged("films")).To(gomega.Equal(1))
}

func TestAdd_RejectsNothing(t *testing.T) {
	g := gomega.NewWithT(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	_, err := operations.Add(context.Background(), mocks.NewMockClient(ctrl), store.Address{}, nil, true)
	g.Expect(err).ToNot(gomega.BeNil())
}

func TestUpdate_RequiresAnID(t *testing.T) {
	g := gomega.NewWithT(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mocks.NewMockClient(ctrl)

	_, err := operations.Update(context.Background(), client, store.Address{}, []store.Document{{"id": "a"}, {"title": "x"}}, true)
	g.Expect(errors.Is(err, operations.ErrMissingID)).To(gomega.BeTrue())
	g.Expect(err.Error()).To(gomega.ContainSubstring("document 1"))
}

func TestUpdate_WritesThenCommits(t *testing.T) {
	g := gomega.NewWithT(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mocks.NewMockClient(ctrl)
	addr := store.Address{Host: "localhost", Port: 8983, Root: "solr", Collection: "films"}
	docs := []store.Document{{"id": "a", "title": "Aliens"}}
	gomock.InOrder(
		client.EXPECT().Write(gomock.Any(), addr, docs, store.WriteOptions{}).Return(&store.Ack{}, nil),
		client.EXPECT().Commit(gomock.Any(), addr).Return(&store.Ack{QTime: 3}, nil),
	)

	ack, err := operations.Update(context.Background(), client, addr, docs, true)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(ack.QTime).To(gomega.Equal(3))
}

func TestDelete_ByQuery(t *testing.T) {
	g := gomega.NewWithT(t)
	srv := fakesolr.New()
	defer srv.Close()
	srv.Seed("films", store.Document{"id": "a", "genre": "horror"}, store.Document{"id": "b", "genre": "drama"})
	client := store.NewHTTPClient(&http.Client{Timeout: 5 * time.Second})

	_, err := operations.Delete(context.Background(), client, srv.Address("films"), store.DeleteSpec{Query: "genre:horror"}, true)
	g.Expect(err).To(gomega.BeNil())
	docs := srv.Docs("films")
	g.Expect(docs).To(gomega.HaveLen(1))
	g.Expect(docs[0].ID()).To(gomega.Equal("b"))
}

func TestDelete_CommitFailure(t *testing.T) {
	g := gomega.NewWithT(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mocks.NewMockClient(ctrl)
	del := store.DeleteSpec{IDs: []string{"a"}}
	client.EXPECT().Delete(gomock.Any(), gomock.Any(), del, store.WriteOptions{}).Return(&store.Ack{}, nil)
	client.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil, &store.StoreError{Op: "commit", Status: 503})

	_, err := operations.Delete(context.Background(), client, store.Address{}, del, true)
	var opErr *operations.OpError
	g.Expect(errors.As(err, &opErr)).To(gomega.BeTrue())
	g.Expect(opErr.Op).To(gomega.Equal(operations.OpCommit))
}
