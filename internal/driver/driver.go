// Package driver orchestrates the full pipeline: parse, check
// compatibility, translate every function, allocate registers, resolve
// cross-function calls, and emit the finished program (spec.md §6
// "Driver entry points").
package driver

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/zkirc-project/zkirc/internal/compat"
	"github.com/zkirc-project/zkirc/internal/emit"
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
	"github.com/zkirc-project/zkirc/internal/translate"
)

// Options configures one Compile call.
type Options struct {
	// Entry names the function execution begins at. Defaults to "main"
	// when empty.
	Entry string

	// Log receives stage-transition and per-function statistics. A nil
	// Log disables logging (the CLI wires a text logger on stderr; tests
	// typically pass nil).
	Log *slog.Logger
}

func (o Options) entry() string {
	if o.Entry == "" {
		return "main"
	}
	return o.Entry
}

func (o Options) log() *slog.Logger {
	if o.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Log
}

// Error wraps a driver-level failure that isn't already one of the typed
// stage errors (e.g. an unresolvable entry point or call target).
type Error struct {
	Detail string
}

func (e *Error) Error() string { return "DriverError: " + e.Detail }

func driverError(detail string) error {
	return errors.WithStack(&Error{Detail: detail})
}

// Compile runs parse -> check_compatibility -> translate_module ->
// allocate -> emit over src, returning the serialized target program
// (spec.md §6, §13).
func Compile(src string, opts Options) ([]byte, error) {
	log := opts.log()

	log.Info("parsing source")
	module, err := ir.Parse(src)
	if err != nil {
		return nil, err
	}

	log.Info("checking compatibility", "functions", len(module.Functions))
	if err := compat.Check(module); err != nil {
		return nil, err
	}

	log.Info("translating module")
	contexts, err := translate.Module(module)
	if err != nil {
		return nil, err
	}

	var instrs []isa.Instruction
	funcOffsets := make(map[string]int)
	var pendingCalls []callFixup

	for _, c := range contexts {
		frameBase := c.StackSize()
		out, _, err := regalloc.Run(c.Instructions(), frameBase)
		if err != nil {
			return nil, err
		}
		log.Info("allocated function", "function", c.FunctionName(), "instructions", len(out))

		funcOffsets[c.FunctionName()] = len(instrs)
		for i, in := range out {
			if in.Op == isa.OpJal && in.CallTarget != "" {
				pendingCalls = append(pendingCalls, callFixup{index: len(instrs) + i, callee: in.CallTarget})
			}
		}
		instrs = append(instrs, out...)
	}

	for _, fx := range pendingCalls {
		target, ok := funcOffsets[fx.callee]
		if !ok {
			return nil, driverError("call to undefined function " + fx.callee)
		}
		instrs[fx.index].Imm = int32(target-fx.index) * isa.Size
		instrs[fx.index].CallTarget = ""
	}

	entryOffset, ok := funcOffsets[opts.entry()]
	if !ok {
		return nil, driverError("entry function " + opts.entry() + " not found")
	}

	log.Info("emitting program", "instructions", len(instrs))
	return emit.Serialize(emit.Program{
		EntryOffset:  uint32(entryOffset * isa.Size),
		Instructions: instrs,
	}), nil
}

type callFixup struct {
	index  int
	callee string
}
