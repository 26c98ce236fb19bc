package status

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/onsi/gomega"

	"github.com/sp0x/solrctl/internal/fakesolr"
	"github.com/sp0x/solrctl/store"
)

func TestConnectivityCache_CachesSuccess(t *testing.T) {
	g := gomega.NewWithT(t)
	srv := fakesolr.New()
	defer srv.Close()
	client := store.NewHTTPClient(&http.Client{Timeout: 5 * time.Second})
	cache := NewConnectivityCache(client, time.Minute)
	addr := srv.Address("films")

	g.Expect(cache.IsOk(addr)).To(gomega.BeFalse())
	g.Expect(cache.Test(context.Background(), addr)).To(gomega.Succeed())
	g.Expect(cache.Test(context.Background(), addr)).To(gomega.Succeed())
	g.Expect(srv.CallsOf(fakesolr.OpPing)).To(gomega.HaveLen(1))
	g.Expect(cache.IsOk(addr)).To(gomega.BeTrue())

	cache.Invalidate(addr)
	g.Expect(cache.Test(context.Background(), addr)).To(gomega.Succeed())
	g.Expect(srv.CallsOf(fakesolr.OpPing)).To(gomega.HaveLen(2))
}

func TestConnectivityCache_DoesntCacheFailures(t *testing.T) {
	g := gomega.NewWithT(t)
	srv := fakesolr.New()
	defer srv.Close()
	srv.FailOn(fakesolr.OpPing, 1, http.StatusServiceUnavailable)
	client := store.NewHTTPClient(&http.Client{Timeout: 5 * time.Second})
	cache := NewConnectivityCache(client, time.Minute)
	addr := srv.Address("films")

	err := cache.Test(context.Background(), addr)
	var storeErr *store.StoreError
	g.Expect(errors.As(err, &storeErr)).To(gomega.BeTrue())
	g.Expect(cache.IsOk(addr)).To(gomega.BeFalse())
	g.Expect(cache.Test(context.Background(), addr)).To(gomega.Succeed())
}

func TestConnectivityCache_Expires(t *testing.T) {
	g := gomega.NewWithT(t)
	srv := fakesolr.New()
	defer srv.Close()
	client := store.NewHTTPClient(&http.Client{Timeout: 5 * time.Second})
	cache := NewConnectivityCache(client, time.Millisecond)
	addr := srv.Address("films")

	g.Expect(cache.Test(context.Background(), addr)).To(gomega.Succeed())
	time.Sleep(5 * time.Millisecond)
	g.Expect(cache.IsOk(addr)).To(gomega.BeFalse())
}
