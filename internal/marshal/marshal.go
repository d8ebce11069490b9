// Package marshal implements a compact binary encoder and decoder used by
// internal/modcache to persist parsed Modu modules to disk.
package marshal

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/unsafe"

	"github.com/grailbio/modu/internal/hash"
)

// Encoder accumulates a binary encoding of a stream of primitive values.
type Encoder struct {
	buf []byte
	tmp [binary.MaxVarintLen64]byte
}

var encoderPool = sync.Pool{New: func() interface{} { return &Encoder{} }}

// NewEncoder creates an encoder. If buf!=nil, the encoder takes ownership of
// the buffer and reuses its storage, writing from offset 0 over any existing
// contents (reallocating if it's too small). The caller
// should call ReleaseEncoder after use; doing so is optional but saves an
// allocation on the next NewEncoder call.
func NewEncoder(buf []byte) *Encoder {
	enc := encoderPool.Get().(*Encoder)
	enc.Reset(buf)
	return enc
}

// ReleaseEncoder returns enc.Bytes() and releases enc into the freepool.
func ReleaseEncoder(enc *Encoder) []byte {
	data := enc.Bytes()
	enc.Reset(nil)
	encoderPool.Put(enc)
	return data
}

// Reset discards any encoded data and begins encoding into buf.
func (e *Encoder) Reset(buf []byte) { e.buf = buf[:0] }

func (e *Encoder) reserve(delta int) []byte {
	curLen := len(e.buf)
	newLen := delta + len(e.buf)
	if newLen <= cap(e.buf) {
		e.buf = e.buf[:newLen]
		return e.buf[curLen:]
	}
	newCap := cap(e.buf) * 2
	if newCap < 128 {
		newCap = 128
	}
	for newCap < newLen {
		newCap *= 2
	}
	tmp := make([]byte, newCap)
	copy(tmp, e.buf)
	e.buf = tmp[:newLen]
	return e.buf[curLen:]
}

func (e *Encoder) write(data []byte) { copy(e.reserve(len(data)), data) }

// Len returns the size of the encoded data so far.
func (e *Encoder) Len() int { return len(e.buf) }

// PutVarint adds a signed varint.
func (e *Encoder) PutVarint(v int64) {
	n := binary.PutVarint(e.tmp[:], v)
	e.write(e.tmp[0:n])
}

// PutHash adds a hash.Hash.
func (e *Encoder) PutHash(h hash.Hash) { e.write(h[:]) }

// PutByte adds a single byte, typically a type tag.
func (e *Encoder) PutByte(b byte) {
	buf := e.reserve(1)
	buf[0] = b
}

// PutBool adds a bool.
func (e *Encoder) PutBool(b bool) {
	if b {
		e.PutByte(1)
		return
	}
	e.PutByte(0)
}

// PutBytes adds a length-prefixed byte slice.
func (e *Encoder) PutBytes(data []byte) {
	e.PutVarint(int64(len(data)))
	e.write(data)
}

// PutString adds a length-prefixed string.
func (e *Encoder) PutString(data string) {
	e.PutBytes(unsafe.StringToBytes(data))
}

// Bytes returns the data encoded so far. The slice is owned by e; copy it
// before calling Reset or ReleaseEncoder if it must outlive either call.
func (e *Encoder) Bytes() []byte { return e.buf }

// Decoder reads values encoded by Encoder, in the order they were written.
type Decoder struct {
	buf *bytes.Reader
}

var decoderPool = sync.Pool{New: func() interface{} { return &Decoder{buf: bytes.NewReader(nil)} }}

// NewDecoder creates a decoder reading from data. The caller should call
// ReleaseDecoder after use.
func NewDecoder(data []byte) *Decoder {
	dec := decoderPool.Get().(*Decoder)
	dec.Reset(data)
	return dec
}

// ReleaseDecoder releases dec into the freepool. It panics if dec still has
// unread trailing data, catching format mismatches early.
func ReleaseDecoder(dec *Decoder) {
	if dec.buf.Len() != 0 {
		panic("marshal.Decoder: found trailing junk")
	}
	decoderPool.Put(dec)
}

// Reset begins decoding from data.
func (d *Decoder) Reset(data []byte) { d.buf.Reset(data) }

// Byte reads a byte.
func (d *Decoder) Byte() byte {
	b, err := d.buf.ReadByte()
	if err != nil {
		log.Panicf("marshal: unmarshalByte: %v", err)
	}
	return b
}

// Bool reads a bool.
func (d *Decoder) Bool() bool { return d.Byte() != 0 }

// Varint reads a signed varint.
func (d *Decoder) Varint() int64 {
	n, err := binary.ReadVarint(d.buf)
	if err != nil {
		log.Panicf("marshal: unmarshalVarint: %v", err)
	}
	return n
}

// Bytes reads data encoded by Encoder.PutBytes.
func (d *Decoder) Bytes() []byte {
	n := d.Varint()
	if n == 0 {
		return nil
	}
	data := make([]byte, n)
	nn, err := d.buf.Read(data)
	if int64(nn) != n || err != nil {
		log.Panicf("marshal: unmarshalBytes: %d %d %v", n, nn, err)
	}
	return data
}

// String reads data encoded by Encoder.PutString.
func (d *Decoder) String() string { return unsafe.BytesToString(d.Bytes()) }

// Len returns the number of bytes remaining to be read.
func (d *Decoder) Len() int { return d.buf.Len() }

// RawBytes reads len(data) bytes into data.
func (d *Decoder) RawBytes(data []byte) {
	n, err := d.buf.Read(data)
	if n != len(data) || err != nil {
		log.Panicf("marshal: RawBytes: %d %d %v", n, len(data), err)
	}
}

// Hash reads a hash.Hash.
func (d *Decoder) Hash() hash.Hash {
	var h hash.Hash
	d.RawBytes(h[:])
	return h
}
