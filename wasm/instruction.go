package wasm

import (
	"fmt"
	"math"

	"github.com/vertexdlt/vertexvm/leb128"
	"github.com/vertexdlt/vertexvm/util"
)

// emptyBlockType is the block_type byte meaning "no result type".
const emptyBlockType = 0x40

// Instruction is a single decoded Wasm opcode plus its immediates. Go has
// no native sum type, so this follows the core spec's suggested encoding
// (§9): one tag field (Op) plus a struct carrying every immediate shape
// any opcode might need; only the fields relevant to Op are populated.
//
// Structured opcodes (block/loop/if) carry their nested body as Then
// (and, for if/else, Else); the terminating end/else byte is consumed by
// the decoder and is not represented as an element of either slice.
type Instruction struct {
	Op Op

	HasBlockType bool
	BlockType    ValueType // meaningful only if HasBlockType
	Then         []Instruction
	Else         []Instruction

	Label   uint32
	Labels  []uint32 // br_table
	Default uint32   // br_table

	FuncIdx uint32
	TypeIdx uint32 // call_indirect

	Idx uint32 // local.*/global.*

	Align  uint32
	Offset uint32

	I32 int32
	I64 int64
	F32 float32
	F64 float64
}

// Mnemonic returns the textual opcode name.
func (ins Instruction) Mnemonic() string {
	return ins.Op.Mnemonic()
}

func decodeBlockType(r *util.ByteReader) (bool, ValueType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, 0, fmt.Errorf("%w: block type: %v", ErrMalformedSection, err)
	}
	if b == emptyBlockType {
		return false, 0, nil
	}
	vt, err := valueTypeFromByte(b)
	if err != nil {
		return false, 0, err
	}
	return true, vt, nil
}

func decodeMemarg(r *util.ByteReader) (align, offset uint32, err error) {
	align, _, err = leb128.ReadUint32(r)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: memarg align: %v", ErrMalformedVarint, err)
	}
	offset, _, err = leb128.ReadUint32(r)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: memarg offset: %v", ErrMalformedVarint, err)
	}
	return align, offset, nil
}

// decodeInstruction decodes exactly one instruction, recursing into
// nested bodies for structured opcodes.
func decodeInstruction(r *util.ByteReader) (Instruction, error) {
	opByte, err := r.ReadByte()
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: opcode: %v", ErrMalformedSection, err)
	}
	return decodeInstructionOp(Op(opByte), r)
}

// decodeInstructionOp decodes one instruction given its opcode byte has
// already been consumed by the caller. decodeExpr and decodeIfElse must
// peek one byte to test for end/else before knowing they have an
// ordinary instruction, so they call this directly instead of
// decodeInstruction.
func decodeInstructionOp(op Op, r *util.ByteReader) (Instruction, error) {
	info, ok := op.info()
	if !ok {
		return Instruction{}, fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, byte(op))
	}

	ins := Instruction{Op: op}
	switch info.kind {
	case immNone:
		// no immediate
	case immBlock:
		has, vt, err := decodeBlockType(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.HasBlockType, ins.BlockType = has, vt
		if op == OpIf {
			then, els, err := decodeIfElse(r)
			if err != nil {
				return Instruction{}, err
			}
			ins.Then, ins.Else = then, els
		} else {
			body, err := decodeExpr(r)
			if err != nil {
				return Instruction{}, err
			}
			ins.Then = body
		}
	case immLabel:
		v, _, err := leb128.ReadUint32(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: label: %v", ErrMalformedVarint, err)
		}
		ins.Label = v
	case immBrTable:
		n, _, err := leb128.ReadUint32(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: br_table count: %v", ErrMalformedVarint, err)
		}
		labels := make([]uint32, 0, n)
		for i := uint32(0); i < n; i++ {
			l, _, err := leb128.ReadUint32(r)
			if err != nil {
				return Instruction{}, fmt.Errorf("%w: br_table label: %v", ErrMalformedVarint, err)
			}
			labels = append(labels, l)
		}
		def, _, err := leb128.ReadUint32(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: br_table default: %v", ErrMalformedVarint, err)
		}
		ins.Labels, ins.Default = labels, def
	case immFuncIdx:
		v, _, err := leb128.ReadUint32(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: funcidx: %v", ErrMalformedVarint, err)
		}
		ins.FuncIdx = v
	case immCallIndirect:
		v, _, err := leb128.ReadUint32(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: typeidx: %v", ErrMalformedVarint, err)
		}
		if _, err := r.ReadByte(); err != nil { // reserved byte, must be 0
			return Instruction{}, fmt.Errorf("%w: call_indirect reserved byte: %v", ErrMalformedSection, err)
		}
		ins.TypeIdx = v
	case immLocalIdx, immGlobalIdx:
		v, _, err := leb128.ReadUint32(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: index: %v", ErrMalformedVarint, err)
		}
		ins.Idx = v
	case immMemarg:
		align, offset, err := decodeMemarg(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.Align, ins.Offset = align, offset
	case immReservedByte:
		if _, err := r.ReadByte(); err != nil {
			return Instruction{}, fmt.Errorf("%w: reserved byte: %v", ErrMalformedSection, err)
		}
	case immI32:
		v, _, err := leb128.ReadInt32(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: i32.const: %v", ErrMalformedVarint, err)
		}
		ins.I32 = v
	case immI64:
		v, _, err := leb128.ReadInt64(r)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: i64.const: %v", ErrMalformedVarint, err)
		}
		ins.I64 = v
	case immF32:
		raw, err := r.ReadN(4)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: f32.const: %v", ErrMalformedSection, err)
		}
		bits := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
		ins.F32 = math.Float32frombits(bits)
	case immF64:
		raw, err := r.ReadN(8)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: f64.const: %v", ErrMalformedSection, err)
		}
		var bits uint64
		for i := 0; i < 8; i++ {
			bits |= uint64(raw[i]) << (8 * i)
		}
		ins.F64 = math.Float64frombits(bits)
	}
	return ins, nil
}

// decodeExpr decodes instructions until it consumes a terminating end
// byte, which is not appended to the returned slice.
func decodeExpr(r *util.ByteReader) ([]Instruction, error) {
	var out []Instruction
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: missing end: %v", ErrMalformedSection, err)
		}
		if Op(b) == OpEnd {
			return out, nil
		}
		ins, err := decodeInstructionOp(Op(b), r)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
}

// decodeIfElse decodes an if body: instructions up to else or end. If an
// else was seen, it also decodes the else body up to end.
func decodeIfElse(r *util.ByteReader) (then []Instruction, els []Instruction, err error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: missing end/else: %v", ErrMalformedSection, err)
		}
		switch Op(b) {
		case OpEnd:
			return then, nil, nil
		case OpElse:
			els, err = decodeExpr(r)
			if err != nil {
				return nil, nil, err
			}
			return then, els, nil
		default:
			ins, err := decodeInstructionOp(Op(b), r)
			if err != nil {
				return nil, nil, err
			}
			then = append(then, ins)
		}
	}
}

// encodeInstruction appends the binary encoding of ins to dst.
func encodeInstruction(dst []byte, ins Instruction) []byte {
	dst = append(dst, byte(ins.Op))
	info, _ := ins.Op.info()
	switch info.kind {
	case immNone:
	case immBlock:
		if ins.HasBlockType {
			dst = append(dst, byte(ins.BlockType))
		} else {
			dst = append(dst, emptyBlockType)
		}
		if ins.Op == OpIf {
			dst = encodeSeq(dst, ins.Then)
			if ins.Else != nil {
				dst = append(dst, byte(OpElse))
				dst = encodeSeq(dst, ins.Else)
			}
			dst = append(dst, byte(OpEnd))
		} else {
			dst = encodeSeq(dst, ins.Then)
			dst = append(dst, byte(OpEnd))
		}
	case immLabel:
		dst = leb128.PutUint32(dst, ins.Label)
	case immBrTable:
		dst = leb128.PutUint32(dst, uint32(len(ins.Labels)))
		for _, l := range ins.Labels {
			dst = leb128.PutUint32(dst, l)
		}
		dst = leb128.PutUint32(dst, ins.Default)
	case immFuncIdx:
		dst = leb128.PutUint32(dst, ins.FuncIdx)
	case immCallIndirect:
		dst = leb128.PutUint32(dst, ins.TypeIdx)
		dst = append(dst, 0x00)
	case immLocalIdx, immGlobalIdx:
		dst = leb128.PutUint32(dst, ins.Idx)
	case immMemarg:
		dst = leb128.PutUint32(dst, ins.Align)
		dst = leb128.PutUint32(dst, ins.Offset)
	case immReservedByte:
		dst = append(dst, 0x00)
	case immI32:
		dst = leb128.PutInt32(dst, ins.I32)
	case immI64:
		dst = leb128.PutInt64(dst, ins.I64)
	case immF32:
		bits := math.Float32bits(ins.F32)
		dst = append(dst, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	case immF64:
		bits := math.Float64bits(ins.F64)
		for i := 0; i < 8; i++ {
			dst = append(dst, byte(bits>>(8*i)))
		}
	}
	return dst
}

// encodeSeq appends the encoding of each instruction in body, without any
// terminator — callers add the end/else byte appropriate to context.
func encodeSeq(dst []byte, body []Instruction) []byte {
	for _, ins := range body {
		dst = encodeInstruction(dst, ins)
	}
	return dst
}

// encodeExprWithEnd emits a full top-level instruction sequence (a
// function body or a constant init expression) terminated by end.
func encodeExprWithEnd(dst []byte, body []Instruction) []byte {
	dst = encodeSeq(dst, body)
	dst = append(dst, byte(OpEnd))
	return dst
}
