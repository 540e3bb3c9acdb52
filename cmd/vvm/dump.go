package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vertexdlt/vertexvm/wasm"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.wasm>",
		Short: "disassemble a binary Wasm module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := wasm.Parse(data)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			dumpModule(cmd, m)
			return nil
		},
	}
}

func dumpModule(cmd *cobra.Command, m *wasm.Module) {
	out := cmd.OutOrStdout()
	for _, sec := range m.Sections() {
		fmt.Fprintf(out, "section %s\n", sec.Tag)
	}
	if m.Export != nil {
		fmt.Fprintln(out, "exports:")
		for _, e := range m.Export.Exports {
			fmt.Fprintf(out, "  %s -> %s #%d\n", e.Name, exportKindName(e.Kind), e.Index)
		}
	}
	if m.Code != nil {
		fmt.Fprintln(out, "code:")
		for i, cb := range m.Code.Code {
			fmt.Fprintf(out, "  func %d\n", i)
			dumpInstructions(out, cb.Instructions, 2)
		}
	}
}

func exportKindName(k wasm.ExportKind) string {
	switch k {
	case wasm.ExportFunction:
		return "func"
	case wasm.ExportTable:
		return "table"
	case wasm.ExportMemory:
		return "memory"
	case wasm.ExportGlobal:
		return "global"
	default:
		return "unknown"
	}
}

func dumpInstructions(out interface{ Write([]byte) (int, error) }, body []wasm.Instruction, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, ins := range body {
		fmt.Fprintf(out, "%s%s\n", prefix, ins.Mnemonic())
		if ins.Then != nil {
			dumpInstructions(out, ins.Then, indent+1)
		}
		if ins.Else != nil {
			fmt.Fprintf(out, "%selse\n", prefix)
			dumpInstructions(out, ins.Else, indent+1)
		}
	}
}
