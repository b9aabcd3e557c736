package diskcache

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// compressionTag identifies the compression applied to a stored
// payload. Tags are persisted inside the envelope; changing them
// breaks compatibility with existing cache directories.
type compressionTag uint8

const (
	compressionNone compressionTag = 0
	compressionZstd compressionTag = 1
)

// compressMin is the payload size below which compression is skipped;
// small entries rarely shrink enough to pay for the CPU.
const compressMin = 4 * 1024

// envelope is the persisted unit: one per key. Size records the
// uncompressed payload length so Stats can report logical sizes
// without decompressing.
type envelope struct {
	WrittenAt   time.Time  `cbor:"1,keyasint"`
	ExpiresAt   *time.Time `cbor:"2,keyasint,omitempty"`
	Compression uint8      `cbor:"3,keyasint"`
	Size        int64      `cbor:"4,keyasint"`
	Payload     []byte     `cbor:"5,keyasint"`
}

// encMode uses Core Deterministic Encoding so the same logical entry
// always produces identical bytes.
var encMode cbor.EncMode

// decMode accepts standard CBOR; unknown fields are ignored for
// forward compatibility.
var decMode cbor.DecMode

var (
	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder
)

func init() {
	// The default time mode encodes whole seconds, which would truncate
	// a sub-second TTL's expiry below its write time.
	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano

	var err error
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic("diskcache: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("diskcache: CBOR decoder initialization failed: " + err.Error())
	}
	zstdEnc, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("diskcache: zstd encoder initialization failed: " + err.Error())
	}
	zstdDec, err = zstd.NewReader(nil)
	if err != nil {
		panic("diskcache: zstd decoder initialization failed: " + err.Error())
	}
}

// newEnvelope builds the envelope for value, compressing large
// payloads when compression actually shrinks them.
func newEnvelope(value []byte, ttl time.Duration, now time.Time) envelope {
	env := envelope{
		WrittenAt:   now,
		Compression: uint8(compressionNone),
		Size:        int64(len(value)),
		Payload:     value,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		env.ExpiresAt = &expires
	}
	if len(value) >= compressMin {
		compressed := zstdEnc.EncodeAll(value, make([]byte, 0, len(value)))
		if len(compressed) < len(value) {
			env.Compression = uint8(compressionZstd)
			env.Payload = compressed
		}
	}
	return env
}

// expiredAt reports whether the envelope is past its expiry at t.
// Envelopes without expiry never expire.
func (e *envelope) expiredAt(t time.Time) bool {
	return e.ExpiresAt != nil && t.After(*e.ExpiresAt)
}

// decodePayload returns the uncompressed payload.
func (e *envelope) decodePayload() ([]byte, error) {
	switch compressionTag(e.Compression) {
	case compressionNone:
		return e.Payload, nil
	case compressionZstd:
		return zstdDec.DecodeAll(e.Payload, make([]byte, 0, e.Size))
	default:
		return nil, fmt.Errorf("unknown compression tag %d", e.Compression)
	}
}
