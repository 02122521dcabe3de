package telemetry

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// Wire plaintext framing: a one-byte flag followed by the record bytes.
// Status records are small, but compressing larger payloads (peer sensor
// sharing) keeps datagrams inside the receive buffer budget.
const (
	flagRaw        = 0x00
	flagCompressed = 0x01
)

var ErrPayloadMalformed = errors.New("telemetry: malformed payload")

// compressorPool reuses LZ4 writers to reduce allocations.
var compressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewWriter(nil)
	},
}

var decompressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewReader(nil)
	},
}

// pack prefixes data with the compression flag, compressing only when it
// actually shrinks the payload.
func pack(data []byte) []byte {
	compressed, err := compress(data)
	if err != nil || len(compressed) >= len(data) {
		out := make([]byte, 1+len(data))
		out[0] = flagRaw
		copy(out[1:], data)
		return out
	}
	out := make([]byte, 1+len(compressed))
	out[0] = flagCompressed
	copy(out[1:], compressed)
	return out
}

func unpack(data []byte) ([]byte, error) {
	if len(data) < 1 {
		return nil, ErrPayloadMalformed
	}
	switch data[0] {
	case flagRaw:
		return data[1:], nil
	case flagCompressed:
		return decompress(data[1:])
	default:
		return nil, ErrPayloadMalformed
	}
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := compressorPool.Get().(*lz4.Writer)
	defer compressorPool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r := decompressorPool.Get().(*lz4.Reader)
	defer decompressorPool.Put(r)

	r.Reset(bytes.NewReader(data))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, ErrPayloadMalformed
	}
	return buf.Bytes(), nil
}
