// Package serializers holds the encodings used to persist documents and checkpoints.
package serializers

// MarshalUnmarshaler encodes values to bytes and back.
type MarshalUnmarshaler interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(b []byte, output interface{}) error
	Name() string
}
