package vm

import (
	"io"

	"go.uber.org/zap"

	"github.com/vertexdlt/vertexvm/wasm"
)

// Interpreter owns a module's linear memory and provides the entry point
// for stepping one of its exported functions. It holds no per-call
// state itself — each Call returns an independent Execution — so one
// Interpreter can have several Executions in flight (see §5).
type Interpreter struct {
	module *wasm.Module
	memory []byte
	logger *zap.Logger
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithLogger attaches a structured logger used for construction-time
// diagnostics (e.g. malformed data segments). A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewInterpreter allocates the module's linear memory (sized from its
// first Memory declaration, or empty if it declares none) and applies
// every Data segment's initializer, matching §4.5's memory model.
func NewInterpreter(m *wasm.Module, opts ...Option) (*Interpreter, error) {
	var pages uint32
	if m.Memory != nil && len(m.Memory.Memories) > 0 {
		pages = m.Memory.Memories[0].Min
	}

	interp := &Interpreter{
		module: m,
		memory: make([]byte, int(pages)*wasm.PageSize),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(interp)
	}

	if err := interp.loadData(); err != nil {
		return nil, err
	}
	return interp, nil
}

func (i *Interpreter) loadData() error {
	if i.module.Data == nil {
		return nil
	}
	for _, d := range i.module.Data.Data {
		v, err := evalConstExpr(d.Offset)
		if err != nil {
			i.logger.Warn("data segment has an unsupported offset expression", zap.Error(err))
			return err
		}
		off := int(v.I32)
		if off < 0 || off+len(d.Bytes) > len(i.memory) {
			return ErrOutOfBoundMemoryAccess
		}
		copy(i.memory[off:], d.Bytes)
	}
	return nil
}

// evalConstExpr evaluates a constant initializer expression. Only the
// four literal const opcodes are supported; a global.get initializer
// returns ErrUnsupportedInstruction.
func evalConstExpr(expr []wasm.Instruction) (WasmValue, error) {
	if len(expr) != 1 {
		return WasmValue{}, ErrUnsupportedInstruction
	}
	ins := expr[0]
	switch ins.Op {
	case wasm.OpI32Const:
		return I32Value(ins.I32), nil
	case wasm.OpI64Const:
		return I64Value(ins.I64), nil
	case wasm.OpF32Const:
		return F32Value(ins.F32), nil
	case wasm.OpF64Const:
		return F64Value(ins.F64), nil
	default:
		return WasmValue{}, ErrUnsupportedInstruction
	}
}

// MemoryPages returns the current memory size in pages, the value
// memory.size reports.
func (i *Interpreter) MemoryPages() int {
	return len(i.memory) / wasm.PageSize
}

// ReadMemory copies len(dst) bytes starting at offset into dst.
func (i *Interpreter) ReadMemory(dst []byte, offset int) (int, error) {
	if offset < 0 || offset > len(i.memory) {
		return 0, ErrOutOfBoundMemoryAccess
	}
	n := copy(dst, i.memory[offset:])
	if n < len(dst) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

// WriteMemory copies src into memory starting at offset.
func (i *Interpreter) WriteMemory(src []byte, offset int) (int, error) {
	if offset < 0 || offset > len(i.memory) {
		return 0, ErrOutOfBoundMemoryAccess
	}
	n := copy(i.memory[offset:], src)
	if n < len(src) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// importAt returns the idx-th function import (idx is a global function
// index, guaranteed by the caller to be below ImportFuncCount()).
func (i *Interpreter) importAt(idx int) (wasm.Import, bool) {
	if i.module.Import == nil {
		return wasm.Import{}, false
	}
	n := 0
	for _, im := range i.module.Import.Imports {
		if im.Kind != wasm.ImportFunction {
			continue
		}
		if n == idx {
			return im, true
		}
		n++
	}
	return wasm.Import{}, false
}

// Call begins a new Execution of the exported function named name with
// the given arguments. The returned Execution is stepped with
// NextUnit/Execute; Call itself does not run any instruction.
func (i *Interpreter) Call(name string, params []WasmValue) (*Execution, error) {
	export, ok := i.module.FindExport(name)
	if !ok || export.Kind != wasm.ExportFunction {
		return nil, ErrFuncNotFound
	}

	localIdx := int(export.Index) - i.module.ImportFuncCount()
	if localIdx < 0 {
		return nil, ErrFuncNotFound
	}
	cb, ok := i.module.CodeAt(localIdx)
	if !ok {
		return nil, ErrInvalidIndex
	}
	if int(export.Index) >= len(i.module.FunctionIndexSpace) {
		return nil, ErrInvalidIndex
	}
	ft := i.module.FunctionIndexSpace[export.Index]
	if len(params) != len(ft.Inputs) {
		return nil, ErrWrongNumberOfArgs
	}

	locals := make([]WasmValue, 0, len(ft.Inputs)+len(cb.Locals))
	locals = append(locals, params...)
	for _, l := range cb.Locals {
		zero := zeroValue(l.ValueType)
		for k := uint32(0); k < l.Count; k++ {
			locals = append(locals, zero)
		}
	}

	return &Execution{
		interp:          i,
		locals:          locals,
		importFuncCount: i.module.ImportFuncCount(),
		frames:          []*codeFrame{{instructions: cb.Instructions}},
		state:           stateReady,
	}, nil
}
