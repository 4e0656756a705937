package xof

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/sha3"
)

// Deterministic source of randomness based on the SHAKE256 XOF, with domain separation and unique encoding of the
// absorbed parameters. Used to make demo runs reproducible from a seed. Not a replacement for crypto/rand.

var _ io.Reader = &XOF{}

type argType byte

const (
	_ argType = iota
	argTypeNil
	argTypeBytes
	argTypeString
)

type XOF struct {
	dst        string
	shake      sha3.ShakeHash
	readCalled bool
}

// New initializes a new XOF instance, applying the given domain separation tag. Parameters (e.g. a seed) are absorbed
// via WriteBytes(...) and WriteString(...), output is then obtained via Read(...).
func New(dst string) *XOF {
	h := &XOF{dst, sha3.NewShake256(), false}
	h.WriteString(h.dst)
	return h
}

// NewSeeded is shorthand for New(dst) followed by WriteString(seed).
func NewSeeded(dst string, seed string) *XOF {
	h := New(dst)
	h.WriteString(seed)
	return h
}

func (h *XOF) writeArgType(t argType) {
	h.mustWritable()
	_, _ = h.shake.Write([]byte{byte(t)})
}

func (h *XOF) mustWritable() {
	if h.readCalled {
		panic("xof: cannot write after Read")
	}
}

// WriteBytes writes a byte slice to the XOF's internal state.
// WriteBytes panics if it is called after a call to Read(...) has been made.
func (h *XOF) WriteBytes(data []byte) {
	if data == nil {
		h.writeArgType(argTypeNil)
		return
	}

	h.writeArgType(argTypeBytes)
	_ = binary.Write(h.shake, binary.BigEndian, uint64(len(data)))
	_, _ = h.shake.Write(data)
}

// WriteString writes a string to the XOF's internal state.
// WriteString panics if it is called after a call to Read(...) has been made.
func (h *XOF) WriteString(str string) {
	h.writeArgType(argTypeString)
	_ = binary.Write(h.shake, binary.BigEndian, uint64(len(str)))
	_, _ = h.shake.Write([]byte(str))
}

// Read squeezes output from the underlying SHAKE XOF. Calling Read multiple times continues reading from the XOF.
// Return values are required for the io.Reader interface, but this implementation never returns an error.
func (h *XOF) Read(p []byte) (n int, err error) {
	h.readCalled = true
	return h.shake.Read(p)
}

