package wasm

// Section ids, in the canonical order the core spec requires for
// compiled output (§3, §4.3).
const (
	SecCustom   byte = 0
	SecType     byte = 1
	SecImport   byte = 2
	SecFunction byte = 3
	SecTable    byte = 4
	SecMemory   byte = 5
	SecGlobal   byte = 6
	SecExport   byte = 7
	SecStart    byte = 8
	SecElement  byte = 9
	SecCode     byte = 10
	SecData     byte = 11
)

// Section is the tagged, tree-shaped view of one module section, used
// for the external serializable form (§6): every section exposes a Tag
// and its decoded Content, without this package committing to a
// particular text or JSON encoding of either.
type Section struct {
	Tag     string
	Content interface{}
}

// Module is the in-memory Wasm module graph: a fixed slot for each
// non-custom section kind (Wasm 1.0 permits at most one of each) plus an
// ordered list of custom sections, which may repeat.
type Module struct {
	Version uint32

	Type     *TypeSection
	Import   *ImportSection
	Function *FunctionSection
	Table    *TableSection
	Memory   *MemorySection
	Global   *GlobalSection
	Export   *ExportSection
	Start    *StartSection
	Element  *ElementSection
	Code     *CodeSection
	Data     *DataSection
	Customs  []CustomSectionData

	// FunctionIndexSpace maps a global function index to its declared
	// type, combining imported and locally-defined functions, populated
	// after decode or whenever the builder mutates Import/Function/Code.
	FunctionIndexSpace []FunctionType
}

type TypeSection struct{ Types []FunctionType }
type ImportSection struct{ Imports []Import }
type FunctionSection struct{ TypeIndices []uint32 }
type TableSection struct{ Tables []TableType }
type MemorySection struct{ Memories []Limits }
type GlobalSection struct{ Globals []Global }
type ExportSection struct{ Exports []Export }
type StartSection struct{ FuncIndex uint32 }
type ElementSection struct{ Elements []ElementSegment }
type CodeSection struct{ Code []CodeBlock }
type DataSection struct{ Data []DataBlock }

// ImportFuncCount returns the number of function imports, used
// throughout the builder and interpreter to translate between local and
// global function index spaces.
func (m *Module) ImportFuncCount() int {
	if m.Import == nil {
		return 0
	}
	n := 0
	for _, im := range m.Import.Imports {
		if im.Kind == ImportFunction {
			n++
		}
	}
	return n
}

// Sections returns the module's sections as a tagged, ordered tree for
// external (de)serialization, per §6. Order follows the canonical id
// order; absent sections are omitted.
func (m *Module) Sections() []Section {
	var out []Section
	for _, c := range m.Customs {
		out = append(out, Section{Tag: "custom", Content: c})
	}
	if m.Type != nil {
		out = append(out, Section{Tag: "type", Content: *m.Type})
	}
	if m.Import != nil {
		out = append(out, Section{Tag: "import", Content: *m.Import})
	}
	if m.Function != nil {
		out = append(out, Section{Tag: "function", Content: *m.Function})
	}
	if m.Table != nil {
		out = append(out, Section{Tag: "table", Content: *m.Table})
	}
	if m.Memory != nil {
		out = append(out, Section{Tag: "memory", Content: *m.Memory})
	}
	if m.Global != nil {
		out = append(out, Section{Tag: "global", Content: *m.Global})
	}
	if m.Export != nil {
		out = append(out, Section{Tag: "export", Content: *m.Export})
	}
	if m.Start != nil {
		out = append(out, Section{Tag: "start", Content: *m.Start})
	}
	if m.Element != nil {
		out = append(out, Section{Tag: "element", Content: *m.Element})
	}
	if m.Code != nil {
		out = append(out, Section{Tag: "code", Content: *m.Code})
	}
	if m.Data != nil {
		out = append(out, Section{Tag: "data", Content: *m.Data})
	}
	return out
}

// populateFunctionIndexSpace rebuilds FunctionIndexSpace from the
// current Import and Type/Function sections. Call after decode or after
// any builder mutation.
func (m *Module) populateFunctionIndexSpace() error {
	m.FunctionIndexSpace = nil
	if m.Import != nil {
		for _, im := range m.Import.Imports {
			if im.Kind != ImportFunction {
				continue
			}
			ft, err := m.typeAt(im.TypeIndex)
			if err != nil {
				return err
			}
			m.FunctionIndexSpace = append(m.FunctionIndexSpace, ft)
		}
	}
	if m.Function != nil {
		for _, typeIdx := range m.Function.TypeIndices {
			ft, err := m.typeAt(typeIdx)
			if err != nil {
				return err
			}
			m.FunctionIndexSpace = append(m.FunctionIndexSpace, ft)
		}
	}
	return nil
}

func (m *Module) typeAt(idx uint32) (FunctionType, error) {
	if m.Type == nil || int(idx) >= len(m.Type.Types) {
		return FunctionType{}, ErrInvalidTypeIndex
	}
	return m.Type.Types[idx], nil
}

// CodeAt returns the CodeBlock for the local function index li (i.e. not
// counting function imports).
func (m *Module) CodeAt(li int) (*CodeBlock, bool) {
	if m.Code == nil || li < 0 || li >= len(m.Code.Code) {
		return nil, false
	}
	return &m.Code.Code[li], true
}

// FindExport looks up an export by name.
func (m *Module) FindExport(name string) (Export, bool) {
	if m.Export == nil {
		return Export{}, false
	}
	for _, e := range m.Export.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return Export{}, false
}
