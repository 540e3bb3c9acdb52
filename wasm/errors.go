package wasm

import "errors"

// Decode-time sentinel errors. Errors raised while decoding a section are
// wrapped with positional context via fmt.Errorf("%w: ...") so callers
// can recover the kind with errors.Is while still getting a
// human-readable location. ErrInvalidTypeIndex, raised when Parse builds
// the function index space after all sections are read, is returned
// unwrapped.
var (
	ErrMalformedHeader  = errors.New("wasm: malformed header")
	ErrMalformedVarint  = errors.New("wasm: malformed varint")
	ErrMalformedName    = errors.New("wasm: malformed name")
	ErrMalformedSection = errors.New("wasm: malformed section")
	ErrUnknownOpcode    = errors.New("wasm: unknown opcode")
	ErrUnknownTypeTag   = errors.New("wasm: unknown type tag")
	ErrInvalidTypeIndex = errors.New("wasm: invalid type index")
)
