package cbor

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/sp0x/solrctl/store"
)

const name = "cbor"

//Serializer is a cbor serializer. Documents are stored with native numbers.
var Serializer = new(cborSerializer)

type cborSerializer int

func (c cborSerializer) Marshal(v interface{}) ([]byte, error) {
	if doc, ok := v.(store.Document); ok {
		v = doc.Plain()
	}
	return cbor.Marshal(v)
}

func (c cborSerializer) Unmarshal(b []byte, output interface{}) error {
	if doc, ok := output.(*store.Document); ok {
		var raw map[string]interface{}
		if err := cbor.Unmarshal(b, &raw); err != nil {
			return err
		}
		*doc = store.Document(raw)
		return nil
	}
	return cbor.Unmarshal(b, output)
}

func (c cborSerializer) Name() string {
	return name
}
