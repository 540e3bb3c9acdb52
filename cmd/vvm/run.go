package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vertexdlt/vertexvm/vm"
	"github.com/vertexdlt/vertexvm/vm/stdeval"
	"github.com/vertexdlt/vertexvm/wasm"
)

func newRunCmd() *cobra.Command {
	var funcName string
	var rawArgs []string

	cmd := &cobra.Command{
		Use:   "run <file.wasm>",
		Short: "step an exported function to completion",
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

			params, err := parseArgs(rawArgs)
			if err != nil {
				return err
			}

			interp, err := vm.NewInterpreter(m, vm.WithLogger(newLogger()))
			if err != nil {
				return fmt.Errorf("instantiate: %w", err)
			}
			exec, err := interp.Call(funcName, params)
			if err != nil {
				return fmt.Errorf("call %s: %w", funcName, err)
			}

			results, err := drive(exec)
			if err != nil {
				return fmt.Errorf("trap: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValues(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&funcName, "func", "", "exported function name to call")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "argument as type:value, e.g. i32:42 (repeatable)")
	cmd.MarkFlagRequired("func")
	return cmd
}

// drive steps exec to completion, answering each unit with the default
// evaluator and falling back to stdeval for anything it doesn't cover.
// CallImport units have no host bound from the CLI and trap.
func drive(exec *vm.Execution) ([]vm.WasmValue, error) {
	for {
		unit, err := exec.NextUnit()
		if err != nil {
			return nil, err
		}
		if unit.Kind == vm.UnitComplete {
			return unit.Results, nil
		}
		if unit.Kind == vm.UnitCallImport {
			return nil, fmt.Errorf("no host binding for import %s.%s", unit.Call.Module, unit.Call.Name)
		}

		resp, err := unit.Evaluate()
		if err == vm.ErrUnsupportedInstruction {
			resp, err = stdeval.Evaluate(unit)
		}
		if err != nil {
			return nil, err
		}
		if err := exec.Execute(resp); err != nil {
			return nil, err
		}
	}
}

func parseArgs(raw []string) ([]vm.WasmValue, error) {
	out := make([]vm.WasmValue, 0, len(raw))
	for _, a := range raw {
		parts := strings.SplitN(a, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --arg %q, want type:value", a)
		}
		switch parts[0] {
		case "i32":
			v, err := strconv.ParseInt(parts[1], 10, 32)
			if err != nil {
				return nil, err
			}
			out = append(out, vm.I32Value(int32(v)))
		case "i64":
			v, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, err
			}
			out = append(out, vm.I64Value(v))
		case "f32":
			v, err := strconv.ParseFloat(parts[1], 32)
			if err != nil {
				return nil, err
			}
			out = append(out, vm.F32Value(float32(v)))
		case "f64":
			v, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, err
			}
			out = append(out, vm.F64Value(v))
		default:
			return nil, fmt.Errorf("unknown arg type %q", parts[0])
		}
	}
	return out, nil
}

func formatValues(values []vm.WasmValue) string {
	parts := make([]string, len(values))
	for i, v := range values {
		switch v.Kind {
		case vm.KindI32:
			parts[i] = strconv.FormatInt(int64(v.I32), 10)
		case vm.KindI64:
			parts[i] = strconv.FormatInt(v.I64, 10)
		case vm.KindF32:
			parts[i] = strconv.FormatFloat(float64(v.F32), 'g', -1, 32)
		case vm.KindF64:
			parts[i] = strconv.FormatFloat(v.F64, 'g', -1, 64)
		}
	}
	return strings.Join(parts, " ")
}
