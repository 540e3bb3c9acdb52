package stdeval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexdlt/vertexvm/vm"
	"github.com/vertexdlt/vertexvm/vm/stdeval"
	"github.com/vertexdlt/vertexvm/wasm"
)

func evalBinary(t *testing.T, op wasm.Op, a, b vm.WasmValue) vm.WasmValue {
	t.Helper()
	unit := vm.ExecutionUnit{Kind: vm.UnitBasicInstruction, Instruction: wasm.Instruction{Op: op}}
	resp, err := stdeval.Evaluate(unit)
	require.NoError(t, err)
	require.Equal(t, vm.RespValueStackModification, resp.Kind)

	stack, err := resp.Modify([]vm.WasmValue{a, b})
	require.NoError(t, err)
	require.Len(t, stack, 1)
	return stack[0]
}

func TestI32Add(t *testing.T) {
	got := evalBinary(t, wasm.OpI32Add, vm.I32Value(2), vm.I32Value(3))
	assert.Equal(t, int32(5), got.I32)
}

func TestI32DivSByZeroTraps(t *testing.T) {
	unit := vm.ExecutionUnit{Kind: vm.UnitBasicInstruction, Instruction: wasm.Instruction{Op: wasm.OpI32DivS}}
	resp, err := stdeval.Evaluate(unit)
	require.NoError(t, err)
	_, err = resp.Modify([]vm.WasmValue{vm.I32Value(1), vm.I32Value(0)})
	assert.ErrorIs(t, err, vm.ErrIntegerDivisionByZero)
}

func TestI32Eqz(t *testing.T) {
	unit := vm.ExecutionUnit{Kind: vm.UnitBasicInstruction, Instruction: wasm.Instruction{Op: wasm.OpI32Eqz}}
	resp, err := stdeval.Evaluate(unit)
	require.NoError(t, err)
	stack, err := resp.Modify([]vm.WasmValue{vm.I32Value(0)})
	require.NoError(t, err)
	assert.Equal(t, int32(1), stack[0].I32)
}

func TestF64Sqrt(t *testing.T) {
	unit := vm.ExecutionUnit{Kind: vm.UnitBasicInstruction, Instruction: wasm.Instruction{Op: wasm.OpF64Sqrt}}
	resp, err := stdeval.Evaluate(unit)
	require.NoError(t, err)
	stack, err := resp.Modify([]vm.WasmValue{vm.F64Value(16)})
	require.NoError(t, err)
	assert.Equal(t, float64(4), stack[0].F64)
}

func TestUnsupportedControlOpcodeIsRejected(t *testing.T) {
	unit := vm.ExecutionUnit{Kind: vm.UnitBasicInstruction, Instruction: wasm.Instruction{Op: wasm.OpCallIndirect}}
	_, err := stdeval.Evaluate(unit)
	assert.ErrorIs(t, err, vm.ErrUnsupportedInstruction)
}
