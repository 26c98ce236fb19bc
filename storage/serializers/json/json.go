package json

import (
	"bytes"
	"encoding/json"
)

const name = "json"

//Serializer is a json serializer. Numbers are decoded as json.Number.
var Serializer = new(jsonSerializer)

type jsonSerializer int

func (j jsonSerializer) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (j jsonSerializer) Unmarshal(b []byte, output interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(output)
}

func (j jsonSerializer) Name() string {
	return name
}
