// Package leb128 implements LEB128 variable-length integer encoding and
// decoding for the unsigned and signed 32- and 64-bit integers used
// throughout the Wasm binary format.
package leb128

import (
	"errors"
	"fmt"
	"io"
)

// ErrMalformedVarint is returned when a LEB128 sequence is truncated or
// encodes more bytes than its target width permits.
var ErrMalformedVarint = errors.New("leb128: malformed varint")

// maxBytes returns the maximum number of 7-bit groups a value of the
// given bit width can legally occupy.
func maxBytes(bits uint32) uint32 {
	return (bits + 6) / 7
}

// read decodes a single LEB128 varint from r. maxbit is the target
// integer width (32 or 64); hasSign selects signed sign-extension of the
// final group. It returns the raw accumulated value, the number of bytes
// consumed, and an error if the input is truncated or over-long.
func read(r io.Reader, maxbit uint32, hasSign bool) (uint64, uint32, error) {
	var (
		result uint64
		shift  uint32
		count  uint32
		limit  = maxBytes(maxbit)
		buf    [1]byte
	)
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, count, fmt.Errorf("%w: truncated input", ErrMalformedVarint)
			}
			return 0, count, err
		}
		b := buf[0]
		count++
		if count > limit {
			return 0, count, fmt.Errorf("%w: exceeds %d bytes for %d-bit value", ErrMalformedVarint, limit, maxbit)
		}
		result |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if hasSign && shift < maxbit && b&0x40 != 0 {
				result |= ^uint64(0) << shift
			}
			break
		}
	}
	return result, count, nil
}

// ReadUint32 decodes an unsigned 32-bit LEB128 varint.
func ReadUint32(r io.Reader) (uint32, uint32, error) {
	v, n, err := read(r, 32, false)
	if err != nil {
		return 0, n, err
	}
	return uint32(v), n, nil
}

// ReadInt32 decodes a signed 32-bit LEB128 varint.
func ReadInt32(r io.Reader) (int32, uint32, error) {
	v, n, err := read(r, 32, true)
	if err != nil {
		return 0, n, err
	}
	return int32(v), n, nil
}

// ReadUint64 decodes an unsigned 64-bit LEB128 varint.
func ReadUint64(r io.Reader) (uint64, uint32, error) {
	v, n, err := read(r, 64, false)
	if err != nil {
		return 0, n, err
	}
	return v, n, nil
}

// ReadInt64 decodes a signed 64-bit LEB128 varint.
func ReadInt64(r io.Reader) (int64, uint32, error) {
	v, n, err := read(r, 64, true)
	if err != nil {
		return 0, n, err
	}
	return int64(v), n, nil
}

// PutUint32 appends the unsigned LEB128 encoding of v to dst.
func PutUint32(dst []byte, v uint32) []byte {
	return putUnsigned(dst, uint64(v))
}

// PutUint64 appends the unsigned LEB128 encoding of v to dst.
func PutUint64(dst []byte, v uint64) []byte {
	return putUnsigned(dst, v)
}

func putUnsigned(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
		} else {
			dst = append(dst, b)
			return dst
		}
	}
}

// PutInt32 appends the signed LEB128 encoding of v to dst.
func PutInt32(dst []byte, v int32) []byte {
	return putSigned(dst, int64(v))
}

// PutInt64 appends the signed LEB128 encoding of v to dst.
func PutInt64(dst []byte, v int64) []byte {
	return putSigned(dst, v)
}

func putSigned(dst []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			dst = append(dst, b)
			return dst
		}
		dst = append(dst, b|0x80)
	}
}
