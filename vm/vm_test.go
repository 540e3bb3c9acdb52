package vm_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexdlt/vertexvm/vm"
	"github.com/vertexdlt/vertexvm/wasm"
)

func exportConst(t *testing.T, value int32) *wasm.Module {
	t.Helper()
	m := &wasm.Module{}
	cb, _ := m.CreateExport("f", nil, []wasm.ValueType{wasm.I32})
	cb.Instructions = []wasm.Instruction{{Op: wasm.OpI32Const, I32: value}}
	return m
}

func TestBasicStepScenario(t *testing.T) {
	m := exportConst(t, 42)
	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)

	exec, err := interp.Call("f", nil)
	require.NoError(t, err)

	unit, err := exec.NextUnit()
	require.NoError(t, err)
	require.Equal(t, vm.UnitBasicInstruction, unit.Kind)
	assert.Equal(t, wasm.OpI32Const, unit.Instruction.Op)
	assert.Equal(t, int32(42), unit.Instruction.I32)

	resp, err := unit.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, vm.RespAddValues, resp.Kind)

	require.NoError(t, exec.Execute(resp))

	unit, err = exec.NextUnit()
	require.NoError(t, err)
	require.Equal(t, vm.UnitComplete, unit.Kind)
	require.Len(t, unit.Results, 1)
	assert.Equal(t, int32(42), unit.Results[0].I32)
}

func TestNextUnitAfterCompleteReturnsAlreadyDone(t *testing.T) {
	m := exportConst(t, 1)
	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	exec, err := interp.Call("f", nil)
	require.NoError(t, err)

	unit, err := exec.NextUnit()
	require.NoError(t, err)
	resp, err := unit.Evaluate()
	require.NoError(t, err)
	require.NoError(t, exec.Execute(resp))

	_, err = exec.NextUnit()
	require.NoError(t, err) // this is the Complete unit

	_, err = exec.NextUnit()
	assert.ErrorIs(t, err, vm.ErrAlreadyDone)
}

func TestCallImportStepsArgumentsAndResult(t *testing.T) {
	m := &wasm.Module{}
	m.CreateImport("add", []wasm.ValueType{wasm.I32, wasm.I32}, []wasm.ValueType{wasm.I32})
	cb, _ := m.CreateExport("run", nil, []wasm.ValueType{wasm.I32})
	cb.Instructions = []wasm.Instruction{
		{Op: wasm.OpI32Const, I32: 1},
		{Op: wasm.OpI32Const, I32: 2},
		{Op: wasm.OpCall, FuncIdx: 0},
	}

	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	exec, err := interp.Call("run", nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		unit, err := exec.NextUnit()
		require.NoError(t, err)
		resp, err := unit.Evaluate()
		require.NoError(t, err)
		require.NoError(t, exec.Execute(resp))
	}

	unit, err := exec.NextUnit()
	require.NoError(t, err)
	require.Equal(t, vm.UnitCallImport, unit.Kind)
	assert.Equal(t, "env", unit.Call.Module)
	assert.Equal(t, "add", unit.Call.Name)
	require.Len(t, unit.Call.Params, 2)
	assert.Equal(t, int32(1), unit.Call.Params[0].I32)
	assert.Equal(t, int32(2), unit.Call.Params[1].I32)

	require.NoError(t, exec.Execute(vm.AddValuesResponse(vm.I32Value(3))))

	unit, err = exec.NextUnit()
	require.NoError(t, err)
	require.Equal(t, vm.UnitComplete, unit.Kind)
	require.Len(t, unit.Results, 1)
	assert.Equal(t, int32(3), unit.Results[0].I32)
}

func TestUnreachableTraps(t *testing.T) {
	m := &wasm.Module{}
	cb, _ := m.CreateExport("boom", nil, nil)
	cb.Instructions = []wasm.Instruction{{Op: wasm.OpUnreachable}}

	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	exec, err := interp.Call("boom", nil)
	require.NoError(t, err)

	unit, err := exec.NextUnit()
	require.NoError(t, err)
	require.Equal(t, vm.UnitUnreachable, unit.Kind)

	resp, err := unit.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, vm.RespTrap, resp.Kind)

	err = exec.Execute(resp)
	assert.Error(t, err)
	assert.True(t, exec.Done())
}

func TestBlockBrIfSkipsRestOfBlock(t *testing.T) {
	m := &wasm.Module{}
	cb, _ := m.CreateExport("branchy", nil, []wasm.ValueType{wasm.I32})
	cb.Instructions = []wasm.Instruction{
		{
			Op: wasm.OpBlock,
			Then: []wasm.Instruction{
				{Op: wasm.OpI32Const, I32: 1},
				{Op: wasm.OpBrIf, Label: 0},
				{Op: wasm.OpI32Const, I32: 99},
			},
		},
		{Op: wasm.OpI32Const, I32: 7},
	}

	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	exec, err := interp.Call("branchy", nil)
	require.NoError(t, err)

	var results []vm.WasmValue
	for {
		unit, err := exec.NextUnit()
		require.NoError(t, err)
		if unit.Kind == vm.UnitComplete {
			results = unit.Results
			break
		}
		resp, err := unit.Evaluate()
		require.NoError(t, err)
		require.NoError(t, exec.Execute(resp))
	}

	require.Len(t, results, 1)
	assert.Equal(t, int32(7), results[0].I32)
}

func TestCallWrongArgCount(t *testing.T) {
	m := exportConst(t, 1)
	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	_, err = interp.Call("f", []vm.WasmValue{vm.I32Value(0)})
	assert.ErrorIs(t, err, vm.ErrWrongNumberOfArgs)
}

func TestCallUnknownExport(t *testing.T) {
	m := exportConst(t, 1)
	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	_, err = interp.Call("nope", nil)
	assert.ErrorIs(t, err, vm.ErrFuncNotFound)
}

func TestMemoryReadWriteAndDataSegment(t *testing.T) {
	m := &wasm.Module{}
	var maxPages uint32 = 1
	m.CreateMemory("memory", 1, &maxPages)
	m.Data = &wasm.DataSection{Data: []wasm.DataBlock{
		{Offset: []wasm.Instruction{{Op: wasm.OpI32Const, I32: 4}}, Bytes: []byte{0xAA, 0xBB}},
	}}

	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	assert.Equal(t, 1, interp.MemoryPages())

	got := make([]byte, 2)
	n, err := interp.ReadMemory(got, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xAA, 0xBB}, got)

	n, err = interp.WriteMemory([]byte{0x01, 0x02, 0x03}, wasm.PageSize-1)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestMemorySizeStepsAsGetRegisterish(t *testing.T) {
	m := &wasm.Module{}
	var maxPages uint32 = 1
	m.CreateMemory("memory", 1, &maxPages)
	cb, _ := m.CreateExport("pages", nil, []wasm.ValueType{wasm.I32})
	cb.Instructions = []wasm.Instruction{{Op: wasm.OpMemorySize}}

	interp, err := vm.NewInterpreter(m)
	require.NoError(t, err)
	exec, err := interp.Call("pages", nil)
	require.NoError(t, err)

	unit, err := exec.NextUnit()
	require.NoError(t, err)
	require.Equal(t, vm.UnitBasicInstruction, unit.Kind)

	resp, err := unit.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, vm.RespGetMemorySize, resp.Kind)
	require.NoError(t, exec.Execute(resp))

	unit, err = exec.NextUnit()
	require.NoError(t, err)
	require.Equal(t, vm.UnitComplete, unit.Kind)
	require.Len(t, unit.Results, 1)
	assert.Equal(t, int32(1), unit.Results[0].I32)
}
