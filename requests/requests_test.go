package requests

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onsi/gomega"
)

func TestGet_ReturnsStatusAndBody(t *testing.T) {
	g := gomega.NewWithT(t)
	var received http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"msg":"bad"}}`))
	}))
	defer srv.Close()

	res, err := Get(context.Background(), srv.Client(), srv.URL, map[string]string{"X-Test": "1"})
	g.Expect(err).To(gomega.BeNil())
	g.Expect(res.StatusCode).To(gomega.Equal(http.StatusBadRequest))
	g.Expect(res.IsError()).To(gomega.BeTrue())
	g.Expect(string(res.Body)).To(gomega.ContainSubstring("bad"))
	g.Expect(received.Get("User-Agent")).To(gomega.Equal("solrctl 0.1"))
	g.Expect(received.Get("X-Test")).To(gomega.Equal("1"))
}

func TestPost_SendsBody(t *testing.T) {
	g := gomega.NewWithT(t)
	method := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		method = r.Method
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	res, err := Post(context.Background(), srv.Client(), srv.URL, []byte("[1]"), nil)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(res.IsError()).To(gomega.BeFalse())
	g.Expect(string(res.Body)).To(gomega.Equal("[1]"))
	g.Expect(method).To(gomega.Equal(http.MethodPost))
}

func TestGet_WithoutClientFails(t *testing.T) {
	g := gomega.NewWithT(t)
	_, err := Get(context.Background(), nil, "http://localhost", nil)
	g.Expect(err).ToNot(gomega.BeNil())
}

func TestGet_CancelledContextFails(t *testing.T) {
	g := gomega.NewWithT(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get(ctx, srv.Client(), srv.URL, nil)
	g.Expect(err).ToNot(gomega.BeNil())
}

func TestWithDebugLogging(t *testing.T) {
	g := gomega.NewWithT(t)
	base := http.DefaultTransport
	rt, err := withDebugLogging(base, "")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(rt).To(gomega.Equal(base))

	rt, err = withDebugLogging(base, "basic")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(rt).ToNot(gomega.BeNil())

	_, err = withDebugLogging(base, "loud")
	g.Expect(err).ToNot(gomega.BeNil())
}
