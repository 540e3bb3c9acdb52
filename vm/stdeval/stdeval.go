// Package stdeval is the optional, opt-in reference evaluator: it gives
// real arithmetic, comparison, and conversion semantics to the Wasm 1.0
// numeric instructions, plus select, which the library's default
// evaluator deliberately leaves unimplemented. A host binds Evaluate as a
// fallback behind ExecutionUnit.Evaluate. Memory loads and stores,
// memory.grow, local.tee, global.get/global.set, br_table and
// call_indirect are not covered here either and still return
// vm.ErrUnsupportedInstruction.
package stdeval

import (
	"math"
	"math/bits"

	"github.com/chewxy/math32"

	"github.com/vertexdlt/vertexvm/number"
	"github.com/vertexdlt/vertexvm/vm"
	"github.com/vertexdlt/vertexvm/wasm"
)

// Evaluate extends vm's default evaluator with full numeric semantics.
// Call it as a fallback when ExecutionUnit.Evaluate returns
// vm.ErrUnsupportedInstruction.
func Evaluate(u vm.ExecutionUnit) (vm.ExecutionResponse, error) {
	if u.Kind != vm.UnitBasicInstruction {
		return vm.ExecutionResponse{}, vm.ErrUnsupportedInstruction
	}
	op := u.Instruction.Op

	if fn, ok := unaryOps[op]; ok {
		return popPush(1, fn), nil
	}
	if fn, ok := binaryOps[op]; ok {
		return popPush(2, fn), nil
	}

	switch op {
	case wasm.OpSelect:
		return vm.ValueStackModificationResponse(evalSelect), nil
	default:
		return vm.ExecutionResponse{}, vm.ErrUnsupportedInstruction
	}
}

// popPush builds a StackModifier that pops n operands (in stack order,
// oldest first), applies fn, and pushes its single result.
func popPush(n int, fn func([]vm.WasmValue) (vm.WasmValue, error)) vm.ExecutionResponse {
	return vm.ValueStackModificationResponse(func(stack []vm.WasmValue) ([]vm.WasmValue, error) {
		if len(stack) < n {
			return nil, vm.ErrStackUnderflow
		}
		operands := stack[len(stack)-n:]
		result, err := fn(operands)
		if err != nil {
			return nil, err
		}
		return append(stack[:len(stack)-n], result), nil
	})
}

func evalSelect(stack []vm.WasmValue) ([]vm.WasmValue, error) {
	if len(stack) < 3 {
		return nil, vm.ErrStackUnderflow
	}
	cond := stack[len(stack)-1]
	b := stack[len(stack)-2]
	a := stack[len(stack)-3]
	rest := stack[:len(stack)-3]
	if cond.Bool() {
		return append(rest, a), nil
	}
	return append(rest, b), nil
}

var unaryOps = map[wasm.Op]func([]vm.WasmValue) (vm.WasmValue, error){
	wasm.OpI32Eqz: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I32 == 0), nil },
	wasm.OpI64Eqz: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I64 == 0), nil },

	wasm.OpI32Clz:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(int32(bits.LeadingZeros32(uint32(v[0].I32)))), nil },
	wasm.OpI32Ctz:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(int32(bits.TrailingZeros32(uint32(v[0].I32)))), nil },
	wasm.OpI32Popcnt: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(int32(bits.OnesCount32(uint32(v[0].I32)))), nil },
	wasm.OpI64Clz:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(int64(bits.LeadingZeros64(uint64(v[0].I64)))), nil },
	wasm.OpI64Ctz:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(int64(bits.TrailingZeros64(uint64(v[0].I64)))), nil },
	wasm.OpI64Popcnt: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(int64(bits.OnesCount64(uint64(v[0].I64)))), nil },

	wasm.OpF32Abs:     func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math32.Abs(v[0].F32)), nil },
	wasm.OpF32Neg:     func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(-v[0].F32), nil },
	wasm.OpF32Ceil:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math32.Ceil(v[0].F32)), nil },
	wasm.OpF32Floor:   func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math32.Floor(v[0].F32)), nil },
	wasm.OpF32Trunc:   func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math32.Trunc(v[0].F32)), nil },
	wasm.OpF32Nearest: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(float32(math.RoundToEven(float64(v[0].F32)))), nil },
	wasm.OpF32Sqrt:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math32.Sqrt(v[0].F32)), nil },

	wasm.OpF64Abs:     func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Abs(v[0].F64)), nil },
	wasm.OpF64Neg:     func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(-v[0].F64), nil },
	wasm.OpF64Ceil:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Ceil(v[0].F64)), nil },
	wasm.OpF64Floor:   func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Floor(v[0].F64)), nil },
	wasm.OpF64Trunc:   func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Trunc(v[0].F64)), nil },
	wasm.OpF64Nearest: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.RoundToEven(v[0].F64)), nil },
	wasm.OpF64Sqrt:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Sqrt(v[0].F64)), nil },

	wasm.OpI32WrapI64:    func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(int32(v[0].I64)), nil },
	wasm.OpI64ExtendI32S: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(int64(v[0].I32)), nil },
	wasm.OpI64ExtendI32U: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(int64(uint32(v[0].I32))), nil },

	wasm.OpF32DemoteF64:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(float32(v[0].F64)), nil },
	wasm.OpF64PromoteF32: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(float64(v[0].F32)), nil },

	wasm.OpF32ConvertI32S: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(float32(v[0].I32)), nil },
	wasm.OpF32ConvertI32U: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(float32(uint32(v[0].I32))), nil },
	wasm.OpF32ConvertI64S: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(float32(v[0].I64)), nil },
	wasm.OpF32ConvertI64U: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(float32(uint64(v[0].I64))), nil },
	wasm.OpF64ConvertI32S: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(float64(v[0].I32)), nil },
	wasm.OpF64ConvertI32U: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(float64(uint32(v[0].I32))), nil },
	wasm.OpF64ConvertI64S: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(float64(v[0].I64)), nil },
	wasm.OpF64ConvertI64U: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(float64(uint64(v[0].I64))), nil },

	wasm.OpI32ReinterpretF32: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(int32(math.Float32bits(v[0].F32))), nil },
	wasm.OpI64ReinterpretF64: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(int64(math.Float64bits(v[0].F64))), nil },
	wasm.OpF32ReinterpretI32: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math.Float32frombits(uint32(v[0].I32))), nil },
	wasm.OpF64ReinterpretI64: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Float64frombits(uint64(v[0].I64))), nil },

	wasm.OpI32TruncF32S: truncOp(number.F32, number.I32),
	wasm.OpI32TruncF32U: truncOp(number.F32, number.U32),
	wasm.OpI32TruncF64S: truncOp(number.F64, number.I32),
	wasm.OpI32TruncF64U: truncOp(number.F64, number.U32),
	wasm.OpI64TruncF32S: truncOp(number.F32, number.I64),
	wasm.OpI64TruncF32U: truncOp(number.F32, number.U64),
	wasm.OpI64TruncF64S: truncOp(number.F64, number.I64),
	wasm.OpI64TruncF64U: truncOp(number.F64, number.U64),
}

// truncOp builds a unary evaluator for one of the iN.trunc_fN_s/u
// opcodes, using number.FloatTruncate for the NaN/out-of-range trap
// semantics Wasm requires.
func truncOp(from, to number.Type) func([]vm.WasmValue) (vm.WasmValue, error) {
	return func(v []vm.WasmValue) (vm.WasmValue, error) {
		var bits64 uint64
		if from == number.F32 {
			bits64 = uint64(math.Float32bits(v[0].F32))
		} else {
			bits64 = math.Float64bits(v[0].F64)
		}
		r, trap := number.FloatTruncate(from, to, bits64)
		if trap != number.NoTrap {
			return vm.WasmValue{}, vm.ErrInvalidIntConversion
		}
		if to == number.I64 || to == number.U64 {
			return vm.I64Value(int64(r)), nil
		}
		return vm.I32Value(int32(r)), nil
	}
}

func boolI32(b bool) vm.WasmValue {
	if b {
		return vm.I32Value(1)
	}
	return vm.I32Value(0)
}

var binaryOps = map[wasm.Op]func([]vm.WasmValue) (vm.WasmValue, error){
	wasm.OpI32Add:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 + v[1].I32), nil },
	wasm.OpI32Sub:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 - v[1].I32), nil },
	wasm.OpI32Mul:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 * v[1].I32), nil },
	wasm.OpI32DivS: i32DivS,
	wasm.OpI32DivU: i32DivU,
	wasm.OpI32RemS: i32RemS,
	wasm.OpI32RemU: i32RemU,
	wasm.OpI32And:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 & v[1].I32), nil },
	wasm.OpI32Or:   func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 | v[1].I32), nil },
	wasm.OpI32Xor:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 ^ v[1].I32), nil },
	wasm.OpI32Shl:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 << (uint32(v[1].I32) % 32)), nil },
	wasm.OpI32ShrS: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I32Value(v[0].I32 >> (uint32(v[1].I32) % 32)), nil },
	wasm.OpI32ShrU: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.I32Value(int32(uint32(v[0].I32) >> (uint32(v[1].I32) % 32))), nil
	},
	wasm.OpI32Rotl: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.I32Value(int32(bits.RotateLeft32(uint32(v[0].I32), int(v[1].I32)))), nil
	},
	wasm.OpI32Rotr: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.I32Value(int32(bits.RotateLeft32(uint32(v[0].I32), -int(v[1].I32)))), nil
	},

	wasm.OpI32Eq:  func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I32 == v[1].I32), nil },
	wasm.OpI32Ne:  func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I32 != v[1].I32), nil },
	wasm.OpI32LtS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I32 < v[1].I32), nil },
	wasm.OpI32GtS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I32 > v[1].I32), nil },
	wasm.OpI32LeS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I32 <= v[1].I32), nil },
	wasm.OpI32GeS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I32 >= v[1].I32), nil },
	wasm.OpI32LtU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint32(v[0].I32) < uint32(v[1].I32)), nil },
	wasm.OpI32GtU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint32(v[0].I32) > uint32(v[1].I32)), nil },
	wasm.OpI32LeU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint32(v[0].I32) <= uint32(v[1].I32)), nil },
	wasm.OpI32GeU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint32(v[0].I32) >= uint32(v[1].I32)), nil },

	wasm.OpI64Add:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 + v[1].I64), nil },
	wasm.OpI64Sub:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 - v[1].I64), nil },
	wasm.OpI64Mul:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 * v[1].I64), nil },
	wasm.OpI64DivS: i64DivS,
	wasm.OpI64DivU: i64DivU,
	wasm.OpI64RemS: i64RemS,
	wasm.OpI64RemU: i64RemU,
	wasm.OpI64And:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 & v[1].I64), nil },
	wasm.OpI64Or:   func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 | v[1].I64), nil },
	wasm.OpI64Xor:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 ^ v[1].I64), nil },
	wasm.OpI64Shl:  func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 << (uint64(v[1].I64) % 64)), nil },
	wasm.OpI64ShrS: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.I64Value(v[0].I64 >> (uint64(v[1].I64) % 64)), nil },
	wasm.OpI64ShrU: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.I64Value(int64(uint64(v[0].I64) >> (uint64(v[1].I64) % 64))), nil
	},
	wasm.OpI64Rotl: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.I64Value(int64(bits.RotateLeft64(uint64(v[0].I64), int(v[1].I64)))), nil
	},
	wasm.OpI64Rotr: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.I64Value(int64(bits.RotateLeft64(uint64(v[0].I64), -int(v[1].I64)))), nil
	},

	wasm.OpI64Eq:  func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I64 == v[1].I64), nil },
	wasm.OpI64Ne:  func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I64 != v[1].I64), nil },
	wasm.OpI64LtS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I64 < v[1].I64), nil },
	wasm.OpI64GtS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I64 > v[1].I64), nil },
	wasm.OpI64LeS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I64 <= v[1].I64), nil },
	wasm.OpI64GeS: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].I64 >= v[1].I64), nil },
	wasm.OpI64LtU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint64(v[0].I64) < uint64(v[1].I64)), nil },
	wasm.OpI64GtU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint64(v[0].I64) > uint64(v[1].I64)), nil },
	wasm.OpI64LeU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint64(v[0].I64) <= uint64(v[1].I64)), nil },
	wasm.OpI64GeU: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(uint64(v[0].I64) >= uint64(v[1].I64)), nil },

	wasm.OpF32Add: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(v[0].F32 + v[1].F32), nil },
	wasm.OpF32Sub: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(v[0].F32 - v[1].F32), nil },
	wasm.OpF32Mul: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(v[0].F32 * v[1].F32), nil },
	wasm.OpF32Div: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(v[0].F32 / v[1].F32), nil },
	wasm.OpF32Min: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math32.Min(v[0].F32, v[1].F32)), nil },
	wasm.OpF32Max: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F32Value(math32.Max(v[0].F32, v[1].F32)), nil },
	wasm.OpF32Copysign: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.F32Value(math32.Copysign(v[0].F32, v[1].F32)), nil
	},
	wasm.OpF32Eq: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F32 == v[1].F32), nil },
	wasm.OpF32Ne: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F32 != v[1].F32), nil },
	wasm.OpF32Lt: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F32 < v[1].F32), nil },
	wasm.OpF32Gt: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F32 > v[1].F32), nil },
	wasm.OpF32Le: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F32 <= v[1].F32), nil },
	wasm.OpF32Ge: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F32 >= v[1].F32), nil },

	wasm.OpF64Add: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(v[0].F64 + v[1].F64), nil },
	wasm.OpF64Sub: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(v[0].F64 - v[1].F64), nil },
	wasm.OpF64Mul: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(v[0].F64 * v[1].F64), nil },
	wasm.OpF64Div: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(v[0].F64 / v[1].F64), nil },
	wasm.OpF64Min: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Min(v[0].F64, v[1].F64)), nil },
	wasm.OpF64Max: func(v []vm.WasmValue) (vm.WasmValue, error) { return vm.F64Value(math.Max(v[0].F64, v[1].F64)), nil },
	wasm.OpF64Copysign: func(v []vm.WasmValue) (vm.WasmValue, error) {
		return vm.F64Value(math.Copysign(v[0].F64, v[1].F64)), nil
	},
	wasm.OpF64Eq: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F64 == v[1].F64), nil },
	wasm.OpF64Ne: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F64 != v[1].F64), nil },
	wasm.OpF64Lt: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F64 < v[1].F64), nil },
	wasm.OpF64Gt: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F64 > v[1].F64), nil },
	wasm.OpF64Le: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F64 <= v[1].F64), nil },
	wasm.OpF64Ge: func(v []vm.WasmValue) (vm.WasmValue, error) { return boolI32(v[0].F64 >= v[1].F64), nil },
}

func i32DivS(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I32 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	if v[0].I32 == math.MinInt32 && v[1].I32 == -1 {
		return vm.WasmValue{}, vm.ErrIntegerOverflow
	}
	return vm.I32Value(v[0].I32 / v[1].I32), nil
}

func i32DivU(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I32 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	return vm.I32Value(int32(uint32(v[0].I32) / uint32(v[1].I32))), nil
}

func i32RemS(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I32 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	return vm.I32Value(v[0].I32 % v[1].I32), nil
}

func i32RemU(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I32 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	return vm.I32Value(int32(uint32(v[0].I32) % uint32(v[1].I32))), nil
}

func i64DivS(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I64 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	if v[0].I64 == math.MinInt64 && v[1].I64 == -1 {
		return vm.WasmValue{}, vm.ErrIntegerOverflow
	}
	return vm.I64Value(v[0].I64 / v[1].I64), nil
}

func i64DivU(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I64 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	return vm.I64Value(int64(uint64(v[0].I64) / uint64(v[1].I64))), nil
}

func i64RemS(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I64 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	return vm.I64Value(v[0].I64 % v[1].I64), nil
}

func i64RemU(v []vm.WasmValue) (vm.WasmValue, error) {
	if v[1].I64 == 0 {
		return vm.WasmValue{}, vm.ErrIntegerDivisionByZero
	}
	return vm.I64Value(int64(uint64(v[0].I64) % uint64(v[1].I64))), nil
}
