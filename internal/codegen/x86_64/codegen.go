// Package x86_64 implements the x86-64 backend: instruction selection from
// three-address IR, resolution of temporaries into stack slots, legalization
// of operand placement, and rendering of AT&T-syntax assembly.
package x86_64

import (
	"io"

	"mcc/internal/asm"
	"mcc/internal/ir"
)

type CodeGenerator struct{}

func (cg *CodeGenerator) Generate(irp ir.Program) (asm.Program, error) {
	fn, err := generateFunction(irp.Function)
	if err != nil {
		return asm.Program{}, err
	}
	return asm.Program{Function: fn}, nil
}

func (cg *CodeGenerator) Format(out io.Writer, p asm.Program) error {
	return formatProgram(out, p)
}

func generateFunction(irfn ir.Function) (asm.Function, error) {
	instructions, err := selectInstructions(irfn.Ops)
	if err != nil {
		return asm.Function{}, err
	}

	resolver := newStackResolver()
	for i, instruction := range instructions {
		instructions[i] = resolver.resolveInstruction(instruction)
	}

	instructions = legalize(instructions, resolver.frameSize())

	return asm.Function{
		Name:         irfn.Name,
		Instructions: instructions,
	}, nil
}
