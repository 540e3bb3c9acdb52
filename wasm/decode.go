package wasm

import (
	"fmt"
	"unicode/utf8"

	"github.com/vertexdlt/vertexvm/leb128"
	"github.com/vertexdlt/vertexvm/util"
)

var magic = [4]byte{0x00, 0x61, 0x73, 0x6D}

// Parse decodes a Wasm binary module. Custom sections may appear
// anywhere; a non-custom section that repeats or appears out of its
// canonical relative id order is rejected with ErrMalformedSection,
// matching the reference decoder.
func Parse(data []byte) (*Module, error) {
	r := util.NewByteReader(data)

	hdr, err := r.ReadN(4)
	if err != nil || [4]byte(hdr) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformedHeader)
	}
	ver, err := r.ReadN(4)
	if err != nil || ver[0] != 1 || ver[1] != 0 || ver[2] != 0 || ver[3] != 0 {
		return nil, fmt.Errorf("%w: bad version", ErrMalformedHeader)
	}

	m := &Module{Version: 1}
	var lastID *byte
	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: section id: %v", ErrMalformedSection, err)
		}
		if id != SecCustom {
			if lastID != nil && *lastID >= id {
				return nil, fmt.Errorf("%w: section id %d out of order after %d", ErrMalformedSection, id, *lastID)
			}
			lastID = &id
		}
		length, _, err := leb128.ReadUint32(r)
		if err != nil {
			return nil, fmt.Errorf("%w: section length: %v", ErrMalformedVarint, err)
		}
		payload, err := r.ReadN(int(length))
		if err != nil {
			return nil, fmt.Errorf("%w: section %d payload: %v", ErrMalformedSection, id, err)
		}
		pr := util.NewByteReader(payload)
		if err := decodeSection(m, id, pr); err != nil {
			return nil, fmt.Errorf("section id %d: %w", id, err)
		}
		if pr.Len() != 0 {
			return nil, fmt.Errorf("%w: section %d: %d trailing bytes", ErrMalformedSection, id, pr.Len())
		}
	}

	if err := m.populateFunctionIndexSpace(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSection(m *Module, id byte, r *util.ByteReader) error {
	switch id {
	case SecCustom:
		return decodeCustomSection(m, r)
	case SecType:
		return decodeTypeSection(m, r)
	case SecImport:
		return decodeImportSection(m, r)
	case SecFunction:
		return decodeFunctionSection(m, r)
	case SecTable:
		return decodeTableSection(m, r)
	case SecMemory:
		return decodeMemorySection(m, r)
	case SecGlobal:
		return decodeGlobalSection(m, r)
	case SecExport:
		return decodeExportSection(m, r)
	case SecStart:
		return decodeStartSection(m, r)
	case SecElement:
		return decodeElementSection(m, r)
	case SecCode:
		return decodeCodeSection(m, r)
	case SecData:
		return decodeDataSection(m, r)
	default:
		return fmt.Errorf("%w: unknown section id %d", ErrMalformedSection, id)
	}
}

func decodeName(r *util.ByteReader) (string, error) {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return "", fmt.Errorf("%w: name length: %v", ErrMalformedVarint, err)
	}
	raw, err := r.ReadN(int(n))
	if err != nil {
		return "", fmt.Errorf("%w: name bytes: %v", ErrMalformedName, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: invalid utf-8", ErrMalformedName)
	}
	return string(raw), nil
}

func decodeLimits(r *util.ByteReader) (Limits, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return Limits{}, fmt.Errorf("%w: limits flag: %v", ErrMalformedSection, err)
	}
	min, _, err := leb128.ReadUint32(r)
	if err != nil {
		return Limits{}, fmt.Errorf("%w: limits min: %v", ErrMalformedVarint, err)
	}
	l := Limits{Min: min}
	switch flag {
	case 0x00:
	case 0x01:
		max, _, err := leb128.ReadUint32(r)
		if err != nil {
			return Limits{}, fmt.Errorf("%w: limits max: %v", ErrMalformedVarint, err)
		}
		l.Max = &max
	default:
		return Limits{}, fmt.Errorf("%w: limits flag %d", ErrMalformedSection, flag)
	}
	return l, nil
}

func decodeGlobalType(r *util.ByteReader) (GlobalType, error) {
	vtb, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, fmt.Errorf("%w: global value type: %v", ErrMalformedSection, err)
	}
	vt, err := valueTypeFromByte(vtb)
	if err != nil {
		return GlobalType{}, err
	}
	mb, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, fmt.Errorf("%w: global mutability: %v", ErrMalformedSection, err)
	}
	if mb != 0x00 && mb != 0x01 {
		return GlobalType{}, fmt.Errorf("%w: global mutability %d", ErrMalformedSection, mb)
	}
	return GlobalType{ValueType: vt, Mutable: mb == 0x01}, nil
}

func decodeTypeSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: type count: %v", ErrMalformedVarint, err)
	}
	sec := &TypeSection{Types: make([]FunctionType, 0, n)}
	for i := uint32(0); i < n; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: function type form: %v", ErrMalformedSection, err)
		}
		if form != 0x60 {
			return fmt.Errorf("%w: function type form 0x%02x", ErrUnknownTypeTag, form)
		}
		inputs, err := decodeValueTypeVec(r)
		if err != nil {
			return err
		}
		outputs, err := decodeValueTypeVec(r)
		if err != nil {
			return err
		}
		sec.Types = append(sec.Types, FunctionType{Inputs: inputs, Outputs: outputs})
	}
	m.Type = sec
	return nil
}

func decodeValueTypeVec(r *util.ByteReader) ([]ValueType, error) {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: value type count: %v", ErrMalformedVarint, err)
	}
	out := make([]ValueType, 0, n)
	for i := uint32(0); i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: value type: %v", ErrMalformedSection, err)
		}
		vt, err := valueTypeFromByte(b)
		if err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return out, nil
}

func decodeImportSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: import count: %v", ErrMalformedVarint, err)
	}
	sec := &ImportSection{Imports: make([]Import, 0, n)}
	for i := uint32(0); i < n; i++ {
		mod, err := decodeName(r)
		if err != nil {
			return err
		}
		name, err := decodeName(r)
		if err != nil {
			return err
		}
		kindByte, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: import kind: %v", ErrMalformedSection, err)
		}
		im := Import{Module: mod, Name: name, Kind: ImportKind(kindByte)}
		switch im.Kind {
		case ImportFunction:
			idx, _, err := leb128.ReadUint32(r)
			if err != nil {
				return fmt.Errorf("%w: import type index: %v", ErrMalformedVarint, err)
			}
			im.TypeIndex = idx
		case ImportTable:
			ek, err := r.ReadByte()
			if err != nil {
				return fmt.Errorf("%w: import table elem kind: %v", ErrMalformedSection, err)
			}
			if ek != 0x70 {
				return fmt.Errorf("%w: table elem kind 0x%02x", ErrUnknownTypeTag, ek)
			}
			lim, err := decodeLimits(r)
			if err != nil {
				return err
			}
			im.TableType = TableType{ElementKind: ek, Limits: lim}
		case ImportMemory:
			lim, err := decodeLimits(r)
			if err != nil {
				return err
			}
			im.MemoryType = lim
		case ImportGlobal:
			gt, err := decodeGlobalType(r)
			if err != nil {
				return err
			}
			im.GlobalType = gt
		default:
			return fmt.Errorf("%w: import kind %d", ErrMalformedSection, kindByte)
		}
		sec.Imports = append(sec.Imports, im)
	}
	m.Import = sec
	return nil
}

func decodeFunctionSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: function count: %v", ErrMalformedVarint, err)
	}
	sec := &FunctionSection{TypeIndices: make([]uint32, 0, n)}
	for i := uint32(0); i < n; i++ {
		idx, _, err := leb128.ReadUint32(r)
		if err != nil {
			return fmt.Errorf("%w: function type index: %v", ErrMalformedVarint, err)
		}
		sec.TypeIndices = append(sec.TypeIndices, idx)
	}
	m.Function = sec
	return nil
}

func decodeTableSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: table count: %v", ErrMalformedVarint, err)
	}
	sec := &TableSection{Tables: make([]TableType, 0, n)}
	for i := uint32(0); i < n; i++ {
		ek, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: table elem kind: %v", ErrMalformedSection, err)
		}
		if ek != 0x70 {
			return fmt.Errorf("%w: table elem kind 0x%02x", ErrUnknownTypeTag, ek)
		}
		lim, err := decodeLimits(r)
		if err != nil {
			return err
		}
		sec.Tables = append(sec.Tables, TableType{ElementKind: ek, Limits: lim})
	}
	m.Table = sec
	return nil
}

func decodeMemorySection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: memory count: %v", ErrMalformedVarint, err)
	}
	sec := &MemorySection{Memories: make([]Limits, 0, n)}
	for i := uint32(0); i < n; i++ {
		lim, err := decodeLimits(r)
		if err != nil {
			return err
		}
		sec.Memories = append(sec.Memories, lim)
	}
	m.Memory = sec
	return nil
}

func decodeGlobalSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: global count: %v", ErrMalformedVarint, err)
	}
	sec := &GlobalSection{Globals: make([]Global, 0, n)}
	for i := uint32(0); i < n; i++ {
		gt, err := decodeGlobalType(r)
		if err != nil {
			return err
		}
		init, err := decodeExpr(r)
		if err != nil {
			return err
		}
		sec.Globals = append(sec.Globals, Global{Type: gt, Init: init})
	}
	m.Global = sec
	return nil
}

func decodeExportSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: export count: %v", ErrMalformedVarint, err)
	}
	sec := &ExportSection{Exports: make([]Export, 0, n)}
	for i := uint32(0); i < n; i++ {
		name, err := decodeName(r)
		if err != nil {
			return err
		}
		kindByte, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: export kind: %v", ErrMalformedSection, err)
		}
		idx, _, err := leb128.ReadUint32(r)
		if err != nil {
			return fmt.Errorf("%w: export index: %v", ErrMalformedVarint, err)
		}
		sec.Exports = append(sec.Exports, Export{Name: name, Kind: ExportKind(kindByte), Index: idx})
	}
	m.Export = sec
	return nil
}

func decodeStartSection(m *Module, r *util.ByteReader) error {
	idx, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: start function index: %v", ErrMalformedVarint, err)
	}
	m.Start = &StartSection{FuncIndex: idx}
	return nil
}

func decodeElementSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: element count: %v", ErrMalformedVarint, err)
	}
	sec := &ElementSection{Elements: make([]ElementSegment, 0, n)}
	for i := uint32(0); i < n; i++ {
		tableIdx, _, err := leb128.ReadUint32(r)
		if err != nil {
			return fmt.Errorf("%w: element table index: %v", ErrMalformedVarint, err)
		}
		offset, err := decodeExpr(r)
		if err != nil {
			return err
		}
		fn, _, err := leb128.ReadUint32(r)
		if err != nil {
			return fmt.Errorf("%w: element func count: %v", ErrMalformedVarint, err)
		}
		funcs := make([]uint32, 0, fn)
		for j := uint32(0); j < fn; j++ {
			idx, _, err := leb128.ReadUint32(r)
			if err != nil {
				return fmt.Errorf("%w: element func index: %v", ErrMalformedVarint, err)
			}
			funcs = append(funcs, idx)
		}
		sec.Elements = append(sec.Elements, ElementSegment{TableIndex: tableIdx, Offset: offset, FuncIndex: funcs})
	}
	m.Element = sec
	return nil
}

func decodeCodeSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: code count: %v", ErrMalformedVarint, err)
	}
	sec := &CodeSection{Code: make([]CodeBlock, 0, n)}
	for i := uint32(0); i < n; i++ {
		bodyLen, _, err := leb128.ReadUint32(r)
		if err != nil {
			return fmt.Errorf("%w: code body length: %v", ErrMalformedVarint, err)
		}
		body, err := r.ReadN(int(bodyLen))
		if err != nil {
			return fmt.Errorf("%w: code body: %v", ErrMalformedSection, err)
		}
		br := util.NewByteReader(body)
		cb, err := decodeCodeBlock(br)
		if err != nil {
			return err
		}
		if br.Len() != 0 {
			return fmt.Errorf("%w: code entry %d: %d trailing bytes", ErrMalformedSection, i, br.Len())
		}
		sec.Code = append(sec.Code, cb)
	}
	m.Code = sec
	return nil
}

func decodeCodeBlock(r *util.ByteReader) (CodeBlock, error) {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return CodeBlock{}, fmt.Errorf("%w: local decl count: %v", ErrMalformedVarint, err)
	}
	locals := make([]Local, 0, n)
	for i := uint32(0); i < n; i++ {
		count, _, err := leb128.ReadUint32(r)
		if err != nil {
			return CodeBlock{}, fmt.Errorf("%w: local count: %v", ErrMalformedVarint, err)
		}
		b, err := r.ReadByte()
		if err != nil {
			return CodeBlock{}, fmt.Errorf("%w: local value type: %v", ErrMalformedSection, err)
		}
		vt, err := valueTypeFromByte(b)
		if err != nil {
			return CodeBlock{}, err
		}
		locals = append(locals, Local{Count: count, ValueType: vt})
	}
	instr, err := decodeExpr(r)
	if err != nil {
		return CodeBlock{}, err
	}
	return CodeBlock{Locals: locals, Instructions: instr}, nil
}

func decodeDataSection(m *Module, r *util.ByteReader) error {
	n, _, err := leb128.ReadUint32(r)
	if err != nil {
		return fmt.Errorf("%w: data count: %v", ErrMalformedVarint, err)
	}
	sec := &DataSection{Data: make([]DataBlock, 0, n)}
	for i := uint32(0); i < n; i++ {
		memIdx, _, err := leb128.ReadUint32(r)
		if err != nil {
			return fmt.Errorf("%w: data memory index: %v", ErrMalformedVarint, err)
		}
		offset, err := decodeExpr(r)
		if err != nil {
			return err
		}
		bn, _, err := leb128.ReadUint32(r)
		if err != nil {
			return fmt.Errorf("%w: data byte count: %v", ErrMalformedVarint, err)
		}
		bytes, err := r.ReadN(int(bn))
		if err != nil {
			return fmt.Errorf("%w: data bytes: %v", ErrMalformedSection, err)
		}
		cp := make([]byte, len(bytes))
		copy(cp, bytes)
		sec.Data = append(sec.Data, DataBlock{MemoryIndex: memIdx, Offset: offset, Bytes: cp})
	}
	m.Data = sec
	return nil
}

func decodeCustomSection(m *Module, r *util.ByteReader) error {
	name, err := decodeName(r)
	if err != nil {
		return err
	}
	raw := r.Remaining()
	cp := make([]byte, len(raw))
	copy(cp, raw)
	_, _ = r.ReadN(len(raw))
	m.Customs = append(m.Customs, CustomSectionData{Name: name, Data: cp})
	return nil
}
