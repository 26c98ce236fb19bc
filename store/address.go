package store

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strconv"
	"strings"
)

const (
	DefaultPort   = 8983
	DefaultScheme = "http"
	DefaultRoot   = "solr"
)

// Address identifies one collection on one server. It is a value type and never changes
// once built.
type Address struct {
	Scheme     string
	Host       string
	Port       int
	Root       string
	Collection string
}

// ParseAddress builds an address from "host" or "host:port" and a collection name.
// Scheme and root fall back to http and solr when empty.
func ParseAddress(hostPort, collection, scheme, root string) (Address, error) {
	addr := Address{
		Scheme:     scheme,
		Root:       root,
		Collection: collection,
		Port:       DefaultPort,
	}
	if addr.Scheme == "" {
		addr.Scheme = DefaultScheme
	}
	if addr.Root == "" {
		addr.Root = DefaultRoot
	}
	if hostPort == "" {
		return Address{}, errors.New("host is required")
	}
	if collection == "" {
		return Address{}, errors.New("collection is required")
	}
	if strings.Contains(hostPort, ":") {
		host, port, err := net.SplitHostPort(hostPort)
		if err != nil {
			return Address{}, fmt.Errorf("invalid host %q: %w", hostPort, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return Address{}, fmt.Errorf("invalid port in %q", hostPort)
		}
		addr.Host = host
		addr.Port = p
	} else {
		addr.Host = hostPort
	}
	return addr, nil
}

// WithCollection returns a copy of the address that points to another collection on the
// same server.
func (a Address) WithCollection(collection string) Address {
	a.Collection = collection
	return a
}

// BaseURL is the collection endpoint, e.g. http://localhost:8983/solr/films
func (a Address) BaseURL() string {
	u := url.URL{
		Scheme: a.Scheme,
		Host:   net.JoinHostPort(a.Host, strconv.Itoa(a.Port)),
		Path:   "/" + path.Join(a.Root, a.Collection),
	}
	return u.String()
}

// URL returns the request url for a handler under the collection with the given parameters.
func (a Address) URL(handler string, params url.Values) string {
	u := a.BaseURL() + "/" + handler
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (a Address) String() string {
	return a.BaseURL()
}
