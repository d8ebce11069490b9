package marshal_test

import (
	"testing"

	"github.com/grailbio/modu/internal/hash"
	"github.com/grailbio/modu/internal/marshal"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := marshal.NewEncoder(nil)
	enc.PutVarint(-42)
	enc.PutByte(7)
	enc.PutBool(true)
	enc.PutString("hello")
	h := hash.String("module source")
	enc.PutHash(h)
	data := append([]byte(nil), marshal.ReleaseEncoder(enc)...)

	dec := marshal.NewDecoder(data)
	assert.EqualValues(t, -42, dec.Varint())
	assert.EqualValues(t, 7, dec.Byte())
	assert.True(t, dec.Bool())
	assert.Equal(t, "hello", dec.String())
	assert.Equal(t, h, dec.Hash())
	marshal.ReleaseDecoder(dec)
}
