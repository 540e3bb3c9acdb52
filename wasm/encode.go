package wasm

import "github.com/vertexdlt/vertexvm/leb128"

// Compile re-encodes the module to its binary Wasm form. Custom sections
// are preserved verbatim and emitted first, followed by the eleven
// standard section kinds present in canonical id order — matching the
// round-trip contract in §6 and the explicit id ordering in §3.
func (m *Module) Compile() []byte {
	out := make([]byte, 0, 64)
	out = append(out, magic[:]...)
	out = append(out, 1, 0, 0, 0)

	for _, c := range m.Customs {
		out = appendSection(out, SecCustom, encodeCustomSection(c))
	}
	if m.Type != nil {
		out = appendSection(out, SecType, encodeTypeSection(m.Type))
	}
	if m.Import != nil {
		out = appendSection(out, SecImport, encodeImportSection(m.Import))
	}
	if m.Function != nil {
		out = appendSection(out, SecFunction, encodeFunctionSection(m.Function))
	}
	if m.Table != nil {
		out = appendSection(out, SecTable, encodeTableSection(m.Table))
	}
	if m.Memory != nil {
		out = appendSection(out, SecMemory, encodeMemorySection(m.Memory))
	}
	if m.Global != nil {
		out = appendSection(out, SecGlobal, encodeGlobalSection(m.Global))
	}
	if m.Export != nil {
		out = appendSection(out, SecExport, encodeExportSection(m.Export))
	}
	if m.Start != nil {
		out = appendSection(out, SecStart, leb128.PutUint32(nil, m.Start.FuncIndex))
	}
	if m.Element != nil {
		out = appendSection(out, SecElement, encodeElementSection(m.Element))
	}
	if m.Code != nil {
		out = appendSection(out, SecCode, encodeCodeSection(m.Code))
	}
	if m.Data != nil {
		out = appendSection(out, SecData, encodeDataSection(m.Data))
	}
	return out
}

func appendSection(dst []byte, id byte, payload []byte) []byte {
	dst = append(dst, id)
	dst = leb128.PutUint32(dst, uint32(len(payload)))
	dst = append(dst, payload...)
	return dst
}

func encodeName(dst []byte, s string) []byte {
	dst = leb128.PutUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

func encodeLimits(dst []byte, l Limits) []byte {
	if l.Max != nil {
		dst = append(dst, 0x01)
		dst = leb128.PutUint32(dst, l.Min)
		dst = leb128.PutUint32(dst, *l.Max)
	} else {
		dst = append(dst, 0x00)
		dst = leb128.PutUint32(dst, l.Min)
	}
	return dst
}

func encodeGlobalType(dst []byte, gt GlobalType) []byte {
	dst = append(dst, byte(gt.ValueType))
	if gt.Mutable {
		dst = append(dst, 0x01)
	} else {
		dst = append(dst, 0x00)
	}
	return dst
}

func encodeValueTypeVec(dst []byte, vts []ValueType) []byte {
	dst = leb128.PutUint32(dst, uint32(len(vts)))
	for _, vt := range vts {
		dst = append(dst, byte(vt))
	}
	return dst
}

func encodeTypeSection(sec *TypeSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Types)))
	for _, ft := range sec.Types {
		dst = append(dst, 0x60)
		dst = encodeValueTypeVec(dst, ft.Inputs)
		dst = encodeValueTypeVec(dst, ft.Outputs)
	}
	return dst
}

func encodeImportSection(sec *ImportSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Imports)))
	for _, im := range sec.Imports {
		dst = encodeName(dst, im.Module)
		dst = encodeName(dst, im.Name)
		dst = append(dst, byte(im.Kind))
		switch im.Kind {
		case ImportFunction:
			dst = leb128.PutUint32(dst, im.TypeIndex)
		case ImportTable:
			dst = append(dst, im.TableType.ElementKind)
			dst = encodeLimits(dst, im.TableType.Limits)
		case ImportMemory:
			dst = encodeLimits(dst, im.MemoryType)
		case ImportGlobal:
			dst = encodeGlobalType(dst, im.GlobalType)
		}
	}
	return dst
}

func encodeFunctionSection(sec *FunctionSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.TypeIndices)))
	for _, idx := range sec.TypeIndices {
		dst = leb128.PutUint32(dst, idx)
	}
	return dst
}

func encodeTableSection(sec *TableSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Tables)))
	for _, t := range sec.Tables {
		dst = append(dst, t.ElementKind)
		dst = encodeLimits(dst, t.Limits)
	}
	return dst
}

func encodeMemorySection(sec *MemorySection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Memories)))
	for _, l := range sec.Memories {
		dst = encodeLimits(dst, l)
	}
	return dst
}

func encodeGlobalSection(sec *GlobalSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Globals)))
	for _, g := range sec.Globals {
		dst = encodeGlobalType(dst, g.Type)
		dst = encodeExprWithEnd(dst, g.Init)
	}
	return dst
}

func encodeExportSection(sec *ExportSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Exports)))
	for _, e := range sec.Exports {
		dst = encodeName(dst, e.Name)
		dst = append(dst, byte(e.Kind))
		dst = leb128.PutUint32(dst, e.Index)
	}
	return dst
}

func encodeElementSection(sec *ElementSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Elements)))
	for _, e := range sec.Elements {
		dst = leb128.PutUint32(dst, e.TableIndex)
		dst = encodeExprWithEnd(dst, e.Offset)
		dst = leb128.PutUint32(dst, uint32(len(e.FuncIndex)))
		for _, idx := range e.FuncIndex {
			dst = leb128.PutUint32(dst, idx)
		}
	}
	return dst
}

func encodeCodeSection(sec *CodeSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Code)))
	for _, cb := range sec.Code {
		body := encodeCodeBlock(cb)
		dst = leb128.PutUint32(dst, uint32(len(body)))
		dst = append(dst, body...)
	}
	return dst
}

func encodeCodeBlock(cb CodeBlock) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(cb.Locals)))
	for _, l := range cb.Locals {
		dst = leb128.PutUint32(dst, l.Count)
		dst = append(dst, byte(l.ValueType))
	}
	dst = encodeExprWithEnd(dst, cb.Instructions)
	return dst
}

func encodeDataSection(sec *DataSection) []byte {
	var dst []byte
	dst = leb128.PutUint32(dst, uint32(len(sec.Data)))
	for _, d := range sec.Data {
		dst = leb128.PutUint32(dst, d.MemoryIndex)
		dst = encodeExprWithEnd(dst, d.Offset)
		dst = leb128.PutUint32(dst, uint32(len(d.Bytes)))
		dst = append(dst, d.Bytes...)
	}
	return dst
}

func encodeCustomSection(c CustomSectionData) []byte {
	var dst []byte
	dst = encodeName(dst, c.Name)
	dst = append(dst, c.Data...)
	return dst
}
