package requests

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"net/http"

	"golang.org/x/net/context/ctxhttp"
)

// Response is what came back from a request that reached the server.
// Non-2xx statuses are not errors at this level, callers decide what they mean.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsError is true for any 4xx or 5xx status.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

var errNoClient = errors.New("null transport client")

func setupHeaders(req *http.Request) {
	req.Header.Add("User-Agent", "solrctl 0.1")
	req.Header.Add("cache-control", "no-cache")
	req.Header.Add("Accept-Charset", "utf-8")
}

// Get issues a GET to route. The returned error is only set when the request could not be
// completed (dial, timeout, cancelled context, truncated body).
func Get(ctx context.Context, client *http.Client, route string, headers map[string]string) (*Response, error) {
	if client == nil {
		return nil, errNoClient
	}
	req, err := http.NewRequest(http.MethodGet, route, nil)
	if err != nil {
		return nil, err
	}
	setupHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(ctx, client, req)
}

// Post sends data as the request body.
func Post(ctx context.Context, client *http.Client, route string, data []byte, headers map[string]string) (*Response, error) {
	if client == nil {
		return nil, errNoClient
	}
	req, err := http.NewRequest(http.MethodPost, route, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	setupHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(ctx, client, req)
}

func do(ctx context.Context, client *http.Client, req *http.Request) (*Response, error) {
	res, err := ctxhttp.Do(ctx, client, req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: res.StatusCode, Body: body}, nil
}
