package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertexdlt/vertexvm/wasm"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <scenario> <out.wasm>",
		Short: "emit one of the library's canned builder scenarios",
		Long: "Scenarios: empty (the zero-section module), identity (i32) -> i32 " +
			"returning its argument), bf-plus (increments the i32 value at the " +
			"i32 pointer argument).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildScenario(args[0])
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], m.Compile(), 0o644)
		},
	}
}

func buildScenario(name string) (*wasm.Module, error) {
	switch name {
	case "empty":
		return &wasm.Module{}, nil
	case "identity":
		return buildIdentity(), nil
	case "bf-plus":
		return buildBrainfuckPlus(), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q (want empty, identity, or bf-plus)", name)
	}
}

func buildIdentity() *wasm.Module {
	m := &wasm.Module{}
	cb, _ := m.CreateExport("identity", []wasm.ValueType{wasm.I32}, []wasm.ValueType{wasm.I32})
	cb.Instructions = []wasm.Instruction{
		{Op: wasm.OpLocalGet, Idx: 0},
	}
	return m
}

// buildBrainfuckPlus builds a single-instruction Brainfuck `+`: it loads
// the i32 value its i32 argument points at, adds one, and stores it back.
func buildBrainfuckPlus() *wasm.Module {
	m := &wasm.Module{}
	var maxPages uint32 = 1
	m.CreateMemory("memory", 1, &maxPages)
	cb, _ := m.CreateExport("bf_plus", []wasm.ValueType{wasm.I32}, nil)
	cb.Instructions = []wasm.Instruction{
		{Op: wasm.OpLocalGet, Idx: 0}, // address, kept on the stack for the store below
		{Op: wasm.OpLocalGet, Idx: 0}, // address, consumed by load
		{Op: wasm.OpI32Load},
		{Op: wasm.OpI32Const, I32: 1},
		{Op: wasm.OpI32Add},
		{Op: wasm.OpI32Store},
	}
	return m
}
