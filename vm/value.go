package vm

import "github.com/vertexdlt/vertexvm/wasm"

// ValueKind tags which field of a WasmValue is meaningful.
type ValueKind int

const (
	KindI32 ValueKind = iota
	KindI64
	KindF32
	KindF64
)

// WasmValue is a single typed value living on the interpreter's value
// stack or in a locals slot. Go has no tagged union, so this follows the
// same tag-plus-struct shape as Instruction.
type WasmValue struct {
	Kind ValueKind
	I32  int32
	I64  int64
	F32  float32
	F64  float64
}

func I32Value(v int32) WasmValue { return WasmValue{Kind: KindI32, I32: v} }
func I64Value(v int64) WasmValue { return WasmValue{Kind: KindI64, I64: v} }
func F32Value(v float32) WasmValue { return WasmValue{Kind: KindF32, F32: v} }
func F64Value(v float64) WasmValue { return WasmValue{Kind: KindF64, F64: v} }

func zeroValue(vt wasm.ValueType) WasmValue {
	switch vt {
	case wasm.I32:
		return I32Value(0)
	case wasm.I64:
		return I64Value(0)
	case wasm.F32:
		return F32Value(0)
	case wasm.F64:
		return F64Value(0)
	default:
		return I32Value(0)
	}
}

// Bool reports whether v is the Wasm-conventional "true" (any nonzero
// i32), used for branch condition tests.
func (v WasmValue) Bool() bool {
	return v.I32 != 0
}
