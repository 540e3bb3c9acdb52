package wasm

// Builder operations. Each leaves the module in a valid state per §4.4:
// the relevant sections are created lazily, signatures are deduplicated,
// and cross-section indices stay consistent.

func (m *Module) ensureType() *TypeSection {
	if m.Type == nil {
		m.Type = &TypeSection{}
	}
	return m.Type
}

// dedupType returns the index of an existing Type entry equal to ft, or
// appends ft and returns its new index.
func (m *Module) dedupType(ft FunctionType) uint32 {
	ts := m.ensureType()
	for i, t := range ts.Types {
		if t.Equal(ft) {
			return uint32(i)
		}
	}
	ts.Types = append(ts.Types, ft)
	return uint32(len(ts.Types) - 1)
}

// CreateImport appends a function import named name with the given
// signature, deduplicating against any existing Type entry, and returns
// its positional index within the function imports.
func (m *Module) CreateImport(name string, inputs, outputs []ValueType) uint32 {
	typeIdx := m.dedupType(FunctionType{Inputs: inputs, Outputs: outputs})
	if m.Import == nil {
		m.Import = &ImportSection{}
	}
	funcImportIdx := uint32(m.ImportFuncCount())
	m.Import.Imports = append(m.Import.Imports, Import{
		Module: "env", Name: name, Kind: ImportFunction, TypeIndex: typeIdx,
	})
	_ = m.populateFunctionIndexSpace()
	return funcImportIdx
}

// CreateExport appends a locally-defined function with the given
// signature, an empty code body, and an export entry for it. The
// returned index is the local function index (not counting imports);
// the Export entry itself records the global function index
// (import_count + local_function_index), per §4.4.
func (m *Module) CreateExport(name string, inputs, outputs []ValueType) (*CodeBlock, uint32) {
	typeIdx := m.dedupType(FunctionType{Inputs: inputs, Outputs: outputs})
	if m.Function == nil {
		m.Function = &FunctionSection{}
	}
	m.Function.TypeIndices = append(m.Function.TypeIndices, typeIdx)
	localIdx := uint32(len(m.Function.TypeIndices) - 1)

	if m.Code == nil {
		m.Code = &CodeSection{}
	}
	m.Code.Code = append(m.Code.Code, CodeBlock{})

	if m.Export == nil {
		m.Export = &ExportSection{}
	}
	globalIdx := uint32(m.ImportFuncCount()) + localIdx
	m.Export.Exports = append(m.Export.Exports, Export{Name: name, Kind: ExportFunction, Index: globalIdx})

	_ = m.populateFunctionIndexSpace()
	return &m.Code.Code[localIdx], localIdx
}

// CreateMemory appends a memory declaration and exports it, returning a
// handle to the stored limits and its memory index.
func (m *Module) CreateMemory(name string, minPages uint32, maxPages *uint32) (*Limits, uint32) {
	if m.Memory == nil {
		m.Memory = &MemorySection{}
	}
	m.Memory.Memories = append(m.Memory.Memories, Limits{Min: minPages, Max: maxPages})
	idx := uint32(len(m.Memory.Memories) - 1)

	if m.Export == nil {
		m.Export = &ExportSection{}
	}
	m.Export.Exports = append(m.Export.Exports, Export{Name: name, Kind: ExportMemory, Index: idx})
	return &m.Memory.Memories[idx], idx
}
