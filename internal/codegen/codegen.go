package codegen

import (
	"fmt"
	"io"

	"mcc/internal/asm"
	"mcc/internal/codegen/x86_64"
	"mcc/internal/ir"
)

type Target int

const (
	TargetX8664Linux Target = iota
)

func TargetFromName(name string) (Target, error) {
	switch name {
	case "x86_64-linux":
		return TargetX8664Linux, nil
	}
	return 0, fmt.Errorf("unknown target: %s", name)
}

// CodeGenerator translates IR into the machine data model and renders it as
// assembly text. Format reports an error both on I/O failure and on contract
// violations such as an unresolved pseudo operand.
type CodeGenerator interface {
	Generate(irp ir.Program) (asm.Program, error)
	Format(out io.Writer, p asm.Program) error
}

func Generate(out io.Writer, target Target, irp ir.Program) error {
	var cg CodeGenerator
	switch target {
	case TargetX8664Linux:
		cg = &x86_64.CodeGenerator{}
	default:
		return fmt.Errorf("unknown target: %v", target)
	}

	asmProgram, err := cg.Generate(irp)
	if err != nil {
		return err
	}

	return cg.Format(out, asmProgram)
}
