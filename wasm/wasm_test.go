package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyModuleRoundTrip(t *testing.T) {
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	m, err := Parse(want)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), m.Version)
	assert.Nil(t, m.Type)
	assert.Nil(t, m.Export)

	assert.Equal(t, want, m.Compile())
}

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x61, 0x73, 0x00, 0x01, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestParseRejectsBadVersion(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestParseRejectsOutOfOrderSections(t *testing.T) {
	m := &Module{}
	m.CreateExport("f", nil, nil)

	_, err := Parse(buildOutOfOrder(t, m))
	assert.ErrorIs(t, err, ErrMalformedSection)
}

// buildOutOfOrder re-serializes m's Export, Function and Code sections
// in that order (the Type section is left out), so the Export section
// precedes the Function section and the non-custom section order is
// invalid.
func buildOutOfOrder(t *testing.T, m *Module) []byte {
	t.Helper()
	out := append([]byte{}, magic[:]...)
	out = append(out, 1, 0, 0, 0)
	out = appendSection(out, SecExport, encodeExportSection(m.Export))
	out = appendSection(out, SecFunction, encodeFunctionSection(m.Function))
	out = appendSection(out, SecCode, encodeCodeSection(m.Code))
	return out
}

func TestIdentityExportRoundTrip(t *testing.T) {
	m := &Module{}
	cb, localIdx := m.CreateExport("identity", []ValueType{I32}, []ValueType{I32})
	assert.Equal(t, uint32(0), localIdx)
	cb.Instructions = []Instruction{{Op: OpLocalGet, Idx: 0}}

	data := m.Compile()
	got, err := Parse(data)
	require.NoError(t, err)

	exp, ok := got.FindExport("identity")
	require.True(t, ok)
	assert.Equal(t, ExportFunction, exp.Kind)
	assert.Equal(t, uint32(0), exp.Index)

	body, ok := got.CodeAt(0)
	require.True(t, ok)
	require.Len(t, body.Instructions, 1)
	assert.Equal(t, OpLocalGet, body.Instructions[0].Op)
	assert.Equal(t, uint32(0), body.Instructions[0].Idx)
}

func TestBrainfuckPlusTranslation(t *testing.T) {
	m := &Module{}
	var max uint32 = 1
	m.CreateMemory("memory", 1, &max)
	cb, _ := m.CreateExport("bf_plus", []ValueType{I32}, nil)
	cb.Instructions = []Instruction{
		{Op: OpLocalGet, Idx: 0},
		{Op: OpLocalGet, Idx: 0},
		{Op: OpI32Load},
		{Op: OpI32Const, I32: 1},
		{Op: OpI32Add},
		{Op: OpI32Store},
	}

	got, err := Parse(m.Compile())
	require.NoError(t, err)
	body, ok := got.CodeAt(0)
	require.True(t, ok)
	mnemonics := make([]string, len(body.Instructions))
	for i, ins := range body.Instructions {
		mnemonics[i] = ins.Mnemonic()
	}
	assert.Equal(t, []string{
		"local.get", "local.get", "i32.load", "i32.const", "i32.add", "i32.store",
	}, mnemonics)
}

func TestCreateImportDedupesSignature(t *testing.T) {
	m := &Module{}
	a := m.CreateImport("log", []ValueType{I32}, nil)
	b := m.CreateImport("log2", []ValueType{I32}, nil)
	assert.Equal(t, uint32(0), a)
	assert.Equal(t, uint32(1), b)
	require.Len(t, m.Type.Types, 1)
	require.Len(t, m.Import.Imports, 2)
}

func TestCreateExportIndexIsGlobal(t *testing.T) {
	m := &Module{}
	m.CreateImport("log", []ValueType{I32}, nil)
	_, localIdx := m.CreateExport("run", nil, nil)
	assert.Equal(t, uint32(0), localIdx)

	exp, ok := m.FindExport("run")
	require.True(t, ok)
	assert.Equal(t, uint32(1), exp.Index) // 1 import + local index 0
}

func TestBlockAndIfRoundTrip(t *testing.T) {
	m := &Module{}
	cb, _ := m.CreateExport("branchy", []ValueType{I32}, []ValueType{I32})
	cb.Instructions = []Instruction{
		{
			Op:           OpIf,
			HasBlockType: true,
			BlockType:    I32,
			Then:         []Instruction{{Op: OpI32Const, I32: 1}},
			Else:         []Instruction{{Op: OpI32Const, I32: 0}},
		},
	}

	got, err := Parse(m.Compile())
	require.NoError(t, err)
	body, ok := got.CodeAt(0)
	require.True(t, ok)
	require.Len(t, body.Instructions, 1)

	ifIns := body.Instructions[0]
	assert.Equal(t, OpIf, ifIns.Op)
	assert.True(t, ifIns.HasBlockType)
	assert.Equal(t, I32, ifIns.BlockType)
	require.Len(t, ifIns.Then, 1)
	require.Len(t, ifIns.Else, 1)
	assert.Equal(t, int32(1), ifIns.Then[0].I32)
	assert.Equal(t, int32(0), ifIns.Else[0].I32)
}

func TestCustomSectionRoundTripsVerbatim(t *testing.T) {
	m := &Module{Customs: []CustomSectionData{{Name: "producers", Data: []byte{0x01, 0x02, 0x03}}}}
	got, err := Parse(m.Compile())
	require.NoError(t, err)
	require.Len(t, got.Customs, 1)
	assert.Equal(t, "producers", got.Customs[0].Name)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got.Customs[0].Data)
}

func TestFunctionTypeEqual(t *testing.T) {
	a := FunctionType{Inputs: []ValueType{I32, I64}, Outputs: []ValueType{F32}}
	b := FunctionType{Inputs: []ValueType{I32, I64}, Outputs: []ValueType{F32}}
	c := FunctionType{Inputs: []ValueType{I32}, Outputs: []ValueType{F32}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
