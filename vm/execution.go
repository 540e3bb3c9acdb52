package vm

import "github.com/vertexdlt/vertexvm/wasm"

type execState int

const (
	stateReady execState = iota
	stateAwaiting
	stateDone
	stateTrapped
)

// codeFrame is one level of the instruction cursor: a flattened sequence
// plus the index of the next instruction to fetch from it. The top-level
// function body is frames[0]; stepping into a block or loop pushes a
// second frame. A frame stack is an equivalent representation of the
// (code_section_index, function_index, instr_idx...) position path
// described for next_unit, chosen because Go has no convenient native
// tuple-of-varying-length type to grow in place.
type codeFrame struct {
	instructions []wasm.Instruction
	idx          int
	isLoop       bool
}

// Execution is one in-flight call: its locals, value stack, and
// instruction cursor. It is stepped by alternating NextUnit and Execute;
// it never runs instructions to completion on its own.
type Execution struct {
	interp *Interpreter

	locals     []WasmValue
	valueStack []WasmValue
	frames     []*codeFrame

	importFuncCount int
	state           execState
}

// ValueStack returns a snapshot of the current value stack, top last.
func (e *Execution) ValueStack() []WasmValue {
	out := make([]WasmValue, len(e.valueStack))
	copy(out, e.valueStack)
	return out
}

// Done reports whether the execution has completed or trapped and can no
// longer accept NextUnit/Execute calls.
func (e *Execution) Done() bool {
	return e.state == stateDone || e.state == stateTrapped
}

func (e *Execution) currentFrame() *codeFrame {
	return e.frames[len(e.frames)-1]
}

// NextUnit advances the instruction cursor, transparently handling
// control-flow bookkeeping (block/loop/if entry, one level deep, and
// br/br_if targeting the innermost active block) that does not require
// host-supplied arithmetic, and returns the next unit that does: a basic
// instruction, a call into an import, an unreachable trap, or the
// function's result once the top-level body is exhausted.
//
// Structured control flow deeper than one nested block surfaces
// ErrUnsupportedInstruction rather than silently misexecuting; see
// SPEC_FULL.md §9 for the scope this resolves to.
func (e *Execution) NextUnit() (ExecutionUnit, error) {
	if e.state != stateReady {
		return ExecutionUnit{}, ErrAlreadyDone
	}

	for {
		frame := e.currentFrame()
		if frame.idx >= len(frame.instructions) {
			if len(e.frames) > 1 {
				e.frames = e.frames[:len(e.frames)-1]
				continue
			}
			e.state = stateDone
			results := make([]WasmValue, len(e.valueStack))
			copy(results, e.valueStack)
			return ExecutionUnit{Kind: UnitComplete, Results: results}, nil
		}

		ins := frame.instructions[frame.idx]
		frame.idx++

		handled, err := e.stepControlFlow(ins)
		if err != nil {
			e.state = stateTrapped
			return ExecutionUnit{}, err
		}
		if handled {
			continue
		}

		switch ins.Op {
		case wasm.OpCall:
			unit, err := e.stepCall(ins)
			if err != nil {
				e.state = stateTrapped
				return ExecutionUnit{}, err
			}
			e.state = stateAwaiting
			return unit, nil
		case wasm.OpUnreachable:
			e.state = stateAwaiting
			return ExecutionUnit{Kind: UnitUnreachable}, nil
		default:
			e.state = stateAwaiting
			return ExecutionUnit{Kind: UnitBasicInstruction, Instruction: ins}, nil
		}
	}
}

// stepControlFlow processes opcodes that the interpreter resolves itself
// without host involvement: entering block/loop/if bodies, and taking
// br/br_if branches at label depth 0. It reports handled=true when the
// instruction was fully processed and the caller should keep looping.
func (e *Execution) stepControlFlow(ins wasm.Instruction) (bool, error) {
	switch ins.Op {
	case wasm.OpBlock, wasm.OpLoop:
		if len(e.frames) > 1 {
			return false, ErrUnsupportedInstruction
		}
		e.frames = append(e.frames, &codeFrame{instructions: ins.Then, isLoop: ins.Op == wasm.OpLoop})
		return true, nil

	case wasm.OpIf:
		if len(e.frames) > 1 {
			return false, ErrUnsupportedInstruction
		}
		if len(e.valueStack) == 0 {
			return false, ErrStackUnderflow
		}
		cond := e.valueStack[len(e.valueStack)-1]
		e.valueStack = e.valueStack[:len(e.valueStack)-1]
		body := ins.Else
		if cond.Bool() {
			body = ins.Then
		}
		e.frames = append(e.frames, &codeFrame{instructions: body})
		return true, nil

	case wasm.OpBr, wasm.OpBrIf:
		take := ins.Op == wasm.OpBr
		if !take {
			if len(e.valueStack) == 0 {
				return false, ErrStackUnderflow
			}
			cond := e.valueStack[len(e.valueStack)-1]
			e.valueStack = e.valueStack[:len(e.valueStack)-1]
			take = cond.Bool()
		}
		if !take {
			return true, nil
		}
		if ins.Label != 0 || len(e.frames) <= 1 {
			return false, ErrUnsupportedInstruction
		}
		top := e.currentFrame()
		if top.isLoop {
			top.idx = 0
		} else {
			e.frames = e.frames[:len(e.frames)-1]
		}
		return true, nil

	case wasm.OpReturn:
		e.frames = e.frames[:1]
		e.frames[0].idx = len(e.frames[0].instructions)
		return true, nil

	default:
		return false, nil
	}
}

// stepCall pops this call's arguments and, if it targets an import,
// returns the CallImport unit describing it. Calls to locally-defined
// functions are out of scope for this port's single-activation stepper
// (see DESIGN.md, vm section) and report ErrUnsupportedInstruction.
func (e *Execution) stepCall(ins wasm.Instruction) (ExecutionUnit, error) {
	idx := int(ins.FuncIdx)
	if idx < 0 || idx >= len(e.interp.module.FunctionIndexSpace) {
		return ExecutionUnit{}, ErrInvalidIndex
	}
	if idx >= e.importFuncCount {
		return ExecutionUnit{}, ErrUnsupportedInstruction
	}

	ft := e.interp.module.FunctionIndexSpace[idx]
	arity := len(ft.Inputs)
	if len(e.valueStack) < arity {
		return ExecutionUnit{}, ErrStackUnderflow
	}
	params := make([]WasmValue, arity)
	copy(params, e.valueStack[len(e.valueStack)-arity:])
	e.valueStack = e.valueStack[:len(e.valueStack)-arity]

	im, ok := e.interp.importAt(idx)
	if !ok {
		return ExecutionUnit{}, ErrInvalidIndex
	}
	return ExecutionUnit{Kind: UnitCallImport, Call: ImportCall{Module: im.Module, Name: im.Name, Params: params}}, nil
}

// Execute applies the host's response to the most recently issued unit,
// mutating the value stack, locals, or control state, and returns the
// Execution to stateReady so NextUnit can be called again. It is an
// error to call Execute without a pending unit, or twice for the same
// unit.
func (e *Execution) Execute(resp ExecutionResponse) error {
	if e.state != stateAwaiting {
		return ErrAlreadyDone
	}

	switch resp.Kind {
	case RespDoNothing:

	case RespAddValues:
		e.valueStack = append(e.valueStack, resp.Values...)

	case RespValueStackModification:
		newStack, err := resp.Modify(e.valueStack)
		if err != nil {
			e.state = stateTrapped
			return err
		}
		e.valueStack = newStack

	case RespGetRegister:
		if int(resp.Register) >= len(e.locals) {
			e.state = stateTrapped
			return ErrInvalidIndex
		}
		e.valueStack = append(e.valueStack, e.locals[resp.Register])

	case RespSetRegister:
		if len(e.valueStack) == 0 {
			e.state = stateTrapped
			return ErrStackUnderflow
		}
		v := e.valueStack[len(e.valueStack)-1]
		e.valueStack = e.valueStack[:len(e.valueStack)-1]
		if int(resp.Register) >= len(e.locals) {
			e.state = stateTrapped
			return ErrInvalidIndex
		}
		e.locals[resp.Register] = v

	case RespGetMemorySize:
		e.valueStack = append(e.valueStack, I32Value(int32(e.interp.MemoryPages())))

	case RespTrap:
		e.state = stateTrapped
		return NewExecError(resp.Message)
	}

	e.state = stateReady
	return nil
}
