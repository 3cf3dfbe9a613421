package memoize

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec translates between typed values and the raw bytes held by the store.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the default Codec. Values are stored as JSON text, so entries are
// readable by non-Go consumers of the same store.
var JSON Codec = jsonCodec{}

// Msgpack is a binary Codec using [github.com/vmihailenco/msgpack/v5]. More
// compact than JSON but opaque to non-msgpack consumers.
var Msgpack Codec = msgpackCodec{}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
