package unsaferand

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	mrand "math/rand"
)

// UnsafeRand is a test implementation of io.Reader based on math/rand.Rand.
// The generated sequence is not cryptographically secure and should only be used for testing purposes.
// The underlying math.Rand is not safe for concurrent use.
type UnsafeRand struct {
	*mrand.Rand
}

var _ io.Reader = &UnsafeRand{}

// Initializes a new UnsafeRand that produces a deterministic randomness based on the given seed argument(s).
// Deterministic behavior depends on the fmt.Sprintf("%#v", seedArgs...) representation of the passed arguments.
// Map iteration order is not guaranteed, so passing a map as a seed argument may lead to non-deterministic behavior.
func New(seedArgs ...any) *UnsafeRand {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%#v", seedArgs)

	seed := int64(h.Sum64())
	return &UnsafeRand{mrand.New(mrand.NewSource(seed))}
}

// NewSequence returns a reader producing the given values in order, each encoded as a big-endian integer occupying
// exactly chunkSize bytes. Once all values are consumed, the reader returns io.EOF.
//
// Use with chunkSize = math.SampleSize(m) to script the candidates drawn by math.RandomInt: as every value is smaller
// than the modulus, the i-th draw returns exactly values[i].
func NewSequence(chunkSize int, values ...uint64) io.Reader {
	if chunkSize < 8 {
		panic("unsaferand: chunkSize must be at least 8 bytes")
	}
	buffer := make([]byte, 0, chunkSize*len(values))
	for _, v := range values {
		chunk := make([]byte, chunkSize)
		binary.BigEndian.PutUint64(chunk[chunkSize-8:], v)
		buffer = append(buffer, chunk...)
	}
	return bytes.NewReader(buffer)
}

// Zero is an io.Reader that produces an endless stream of zero bytes.
type Zero struct{}

func (Zero) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
