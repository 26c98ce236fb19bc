package store

import (
	"encoding/json"
	"fmt"
)

const (
	// VersionField is the bookkeeping stamp every stored document carries. It must not be
	// written into another collection.
	VersionField = "_version_"
	IDField      = "id"
)

// Document is a single semi-structured record as returned by the store.
// Numbers are kept as json.Number so large version stamps and ids round trip untouched.
type Document map[string]interface{}

// ID returns the unique key of the document, or nil if it has none.
func (d Document) ID() interface{} {
	return d[IDField]
}

// StripVersion returns a copy of the document without the version stamp.
// The receiver is left untouched.
func (d Document) StripVersion() (Document, error) {
	if _, ok := d[VersionField]; !ok {
		return nil, &MalformedDocumentError{Field: VersionField, ID: d.ID()}
	}
	clean := make(Document, len(d)-1)
	for k, v := range d {
		if k == VersionField {
			continue
		}
		clean[k] = v
	}
	return clean, nil
}

func (d Document) String() string {
	return fmt.Sprintf("doc(%v)", d.ID())
}

// Plain returns a deep copy with json.Number values turned into int64 or float64, for
// encoders that don't know about json.Number.
func (d Document) Plain() map[string]interface{} {
	out := make(map[string]interface{}, len(d))
	for k, v := range d {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case Document:
		return val.Plain()
	case map[string]interface{}:
		return Document(val).Plain()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
