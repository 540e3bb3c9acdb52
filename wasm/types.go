package wasm

// ValueType is one of the four Wasm 1.0 value types.
type ValueType byte

const (
	I32 ValueType = 0x7F
	I64 ValueType = 0x7E
	F32 ValueType = 0x7D
	F64 ValueType = 0x7C
)

// PageSize is the standard Wasm linear memory page size in bytes. The
// reference implementation this port is based on scales pages by 1024
// bytes instead; this port follows the Wasm specification rather than
// that deviation (see DESIGN.md).
const PageSize = 65536

func (v ValueType) String() string {
	switch v {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

func valueTypeFromByte(b byte) (ValueType, error) {
	switch ValueType(b) {
	case I32, I64, F32, F64:
		return ValueType(b), nil
	default:
		return 0, ErrUnknownTypeTag
	}
}

// FunctionType is an ordered list of input value types and an ordered
// list of output value types.
type FunctionType struct {
	Inputs  []ValueType
	Outputs []ValueType
}

// Equal reports whether two function types have identical input and
// output sequences, used by the builder to deduplicate signatures.
func (f FunctionType) Equal(o FunctionType) bool {
	if len(f.Inputs) != len(o.Inputs) || len(f.Outputs) != len(o.Outputs) {
		return false
	}
	for i := range f.Inputs {
		if f.Inputs[i] != o.Inputs[i] {
			return false
		}
	}
	for i := range f.Outputs {
		if f.Outputs[i] != o.Outputs[i] {
			return false
		}
	}
	return true
}

// Limits describes the min/optional-max pair shared by memory and table
// declarations.
type Limits struct {
	Min uint32
	Max *uint32
}

// ImportKind tags which index space an Import contributes to.
type ImportKind byte

const (
	ImportFunction ImportKind = 0x00
	ImportTable    ImportKind = 0x01
	ImportMemory   ImportKind = 0x02
	ImportGlobal   ImportKind = 0x03
)

// Import is a single entry of the Import section, tagged by Kind. Only
// the fields relevant to Kind are populated.
type Import struct {
	Module string
	Name   string
	Kind   ImportKind

	TypeIndex  uint32 // ImportFunction
	TableType  TableType
	MemoryType Limits
	GlobalType GlobalType
}

// TableType describes a table import or declaration.
type TableType struct {
	ElementKind byte // always 0x70 (funcref) in Wasm 1.0
	Limits      Limits
}

// GlobalType describes the value type and mutability of a global.
type GlobalType struct {
	ValueType ValueType
	Mutable   bool
}

// ExportKind tags which index space an Export refers to.
type ExportKind byte

const (
	ExportFunction ExportKind = 0x00
	ExportTable    ExportKind = 0x01
	ExportMemory   ExportKind = 0x02
	ExportGlobal   ExportKind = 0x03
)

// Export is a single entry of the Export section.
type Export struct {
	Name  string
	Kind  ExportKind
	Index uint32
}

// Global is one entry of the Global section: its type and a constant
// initializer expression.
type Global struct {
	Type GlobalType
	Init []Instruction
}

// DataBlock is one entry of the Data section.
type DataBlock struct {
	MemoryIndex uint32
	Offset      []Instruction
	Bytes       []byte
}

// ElementSegment is one entry of the Element section.
type ElementSegment struct {
	TableIndex uint32
	Offset     []Instruction
	FuncIndex  []uint32
}

// Local is a run of count locals sharing one value type, as declared in
// a CodeBlock's local declarations.
type Local struct {
	Count     uint32
	ValueType ValueType
}

// CodeBlock is a function body: its local declarations and the
// instruction sequence making up its expression. The implicit trailing
// `end` is not represented here (see DESIGN.md, wasm section).
type CodeBlock struct {
	Locals       []Local
	Instructions []Instruction
}

// CustomSectionData is one Custom section's raw, opaque payload,
// preserved verbatim across decode/compile round-trips.
type CustomSectionData struct {
	Name string
	Data []byte
}
