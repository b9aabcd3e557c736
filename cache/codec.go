package cache

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

// Codec turns arbitrary values into bytes and back. The codec is part
// of the Manager's construction rather than runtime reflection per
// call: every Set/Get on a Manager goes through the one codec it was
// built with, so stored bytes are always self-consistent.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Determinism: Marshal of the same logical value should produce the
//   same bytes, so payload sizes are stable for accounting.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// Name identifies the encoding, for logs.
	Name() string
}

// cborEncMode uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items.
var cborEncMode cbor.EncMode

var cborDecMode cbor.DecMode

func init() {
	// Sub-second precision for time.Time fields; the default mode
	// rounds to whole seconds.
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano

	var err error
	cborEncMode, err = opts.EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
	cborDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cache: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBORCodec encodes values as deterministic CBOR. It is the default
// codec: compact, schema-free, and stable across runs.
type CBORCodec struct{}

func (CBORCodec) Marshal(v any) ([]byte, error) {
	return cborEncMode.Marshal(v)
}

func (CBORCodec) Unmarshal(data []byte, v any) error {
	return cborDecMode.Unmarshal(data, v)
}

func (CBORCodec) Name() string { return "cbor" }

// JSONCodec encodes values as JSON, for cache directories a human
// needs to inspect.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) Name() string { return "json" }

// Ensure codecs implement Codec
var (
	_ Codec = CBORCodec{}
	_ Codec = JSONCodec{}
)
