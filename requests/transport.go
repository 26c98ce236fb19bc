package requests

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/f2prateek/train"
	trainlog "github.com/f2prateek/train/log"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// NewTransport builds the round tripper used to talk to stores.
// SOCKS_PROXY routes every connection through a socks5 proxy, TLS_INSECURE skips
// certificate verification.
func NewTransport() (http.RoundTripper, error) {
	t := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 5 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConnsPerHost: 4,
	}
	if proxyAddr, isset := os.LookupEnv("SOCKS_PROXY"); isset {
		log.WithFields(log.Fields{"addr": proxyAddr}).
			Debugf("Using SOCKS5 proxy")

		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("can't connect to the proxy %s: %v", proxyAddr, err)
		}
		dc, ok := dialer.(interface {
			DialContext(ctx context.Context, network, addr string) (net.Conn, error)
		})
		if !ok {
			return nil, fmt.Errorf("proxy %s doesn't support dialing with a context", proxyAddr)
		}
		t.DialContext = dc.DialContext
	}
	if _, isset := os.LookupEnv("TLS_INSECURE"); isset {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return withDebugLogging(t, os.Getenv("DEBUG_HTTP"))
}

func withDebugLogging(transport http.RoundTripper, mode string) (http.RoundTripper, error) {
	switch mode {
	case "1", "true", "basic":
		return train.TransportWith(transport, trainlog.New(os.Stderr, trainlog.Basic)), nil
	case "body":
		return train.TransportWith(transport, trainlog.New(os.Stderr, trainlog.Body)), nil
	case "":
		return transport, nil
	default:
		return nil, fmt.Errorf("unknown value for DEBUG_HTTP: %q", mode)
	}
}

// NewClient returns an http client with the store transport and a per-request timeout.
// The client holds no per-collection state and is safe for concurrent use.
func NewClient(timeout time.Duration) (*http.Client, error) {
	transport, err := NewTransport()
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
