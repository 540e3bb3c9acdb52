package leb128

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint32RoundTrip(t *testing.T) {
	cases := []struct {
		value   uint32
		encoded []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{0xFFFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
	}
	for _, c := range cases {
		got := PutUint32(nil, c.value)
		assert.Equal(t, c.encoded, got)

		v, n, err := ReadUint32(bytes.NewReader(c.encoded))
		require.NoError(t, err)
		assert.Equal(t, c.value, v)
		assert.Equal(t, uint32(len(c.encoded)), n)
	}
}

func TestInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, -1, 1, 63, -64, 64, -65, 2147483647, -2147483648} {
		encoded := PutInt32(nil, v)
		got, n, err := ReadInt32(bytes.NewReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, uint32(len(encoded)), n)
	}
}

func TestInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, -1, 1, 9223372036854775807, -9223372036854775808} {
		encoded := PutInt64(nil, v)
		got, _, err := ReadInt64(bytes.NewReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestMaxBytes(t *testing.T) {
	assert.Equal(t, uint32(5), maxBytes(32))
	assert.Equal(t, uint32(10), maxBytes(64))
}

func TestReadUint32RejectsOverLongEncoding(t *testing.T) {
	// Five continuation-flagged bytes and a terminator: six bytes, one
	// more than u32's 5-byte limit.
	overLong := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00}
	_, _, err := ReadUint32(bytes.NewReader(overLong))
	assert.ErrorIs(t, err, ErrMalformedVarint)
}

func TestReadUint64RejectsOverLongEncoding(t *testing.T) {
	overLong := make([]byte, 11)
	for i := range overLong {
		overLong[i] = 0x80
	}
	overLong[len(overLong)-1] = 0x00
	_, _, err := ReadUint64(bytes.NewReader(overLong))
	assert.ErrorIs(t, err, ErrMalformedVarint)
}

func TestReadUint32RejectsTruncatedInput(t *testing.T) {
	_, _, err := ReadUint32(bytes.NewReader([]byte{0x80}))
	assert.Error(t, err)
}
