package x86_64

import (
	"fmt"
	"io"

	"mcc/internal/asm"
)

var unaryMnemonics = map[string]string{
	"-": "negl",
	"~": "notl",
}

var binaryMnemonics = map[string]string{
	"+": "addl",
	"-": "subl",
	"*": "imull",
	"&": "andl",
	"|": "orl",
	"^": "xorl",
}

func formatProgram(out io.Writer, p asm.Program) error {
	if err := formatFunction(out, p.Function); err != nil {
		return err
	}
	// Mark the object as not requiring an executable stack.
	_, err := fmt.Fprintf(out, "\t.section .note.GNU-stack,\"\",@progbits\n")
	return err
}

func formatFunction(out io.Writer, fn asm.Function) error {
	if _, err := fmt.Fprintf(out, "\t.globl %s\n", fn.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s:\n", fn.Name); err != nil {
		return err
	}

	// Prologue: save the caller's frame pointer and establish our own.
	if _, err := fmt.Fprintf(out, "\tpushq %%rbp\n\tmovq %%rsp, %%rbp\n"); err != nil {
		return err
	}

	for _, instruction := range fn.Instructions {
		if err := formatInstruction(out, instruction); err != nil {
			return fmt.Errorf("function %s: %w", fn.Name, err)
		}
	}

	return nil
}

func formatInstruction(out io.Writer, instruction asm.Instruction) error {
	switch instr := instruction.(type) {
	case asm.Mov:
		src, err := formatOperand(instr.Src)
		if err != nil {
			return err
		}
		dst, err := formatOperand(instr.Dst)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "\tmovl %s, %s\n", src, dst)
		return err
	case asm.Unary:
		mnemonic, ok := unaryMnemonics[instr.Operation]
		if !ok {
			return fmt.Errorf("no mnemonic for unary operator %q in %s", instr.Operation, instr)
		}
		operand, err := formatOperand(instr.Operand)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "\t%s %s\n", mnemonic, operand)
		return err
	case asm.Binary:
		mnemonic, ok := binaryMnemonics[instr.Operation]
		if !ok {
			return fmt.Errorf("no mnemonic for binary operator %q in %s", instr.Operation, instr)
		}
		src, err := formatOperand(instr.Src)
		if err != nil {
			return err
		}
		dst, err := formatOperand(instr.Dst)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "\t%s %s, %s\n", mnemonic, src, dst)
		return err
	case asm.Idiv:
		operand, err := formatOperand(instr.Operand)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "\tidivl %s\n", operand)
		return err
	case asm.Cdq:
		_, err := fmt.Fprintf(out, "\tcdq\n")
		return err
	case asm.AllocStack:
		_, err := fmt.Fprintf(out, "\tsubq $%d, %%rsp\n", instr.Bytes)
		return err
	case asm.Ret:
		// Epilogue before every return: tear down the frame.
		_, err := fmt.Fprintf(out, "\tmovq %%rbp, %%rsp\n\tpopq %%rbp\n\tret\n")
		return err
	default:
		return fmt.Errorf("unknown instruction: %s", instruction)
	}
}

// formatOperand renders an operand in AT&T syntax. A pseudo operand here
// means stack resolution never ran or missed it, which is a bug in the
// pipeline, not in the input program.
func formatOperand(operand asm.Operand) (string, error) {
	if operand.Imm != nil {
		return fmt.Sprintf("$%d", *operand.Imm), nil
	} else if operand.Reg != "" {
		return "%" + operand.Reg, nil
	} else if operand.Stack != nil {
		return fmt.Sprintf("%d(%%rbp)", *operand.Stack), nil
	} else if operand.Pseudo != nil {
		return "", fmt.Errorf("unresolved pseudo operand pseudo(%d) reached the emitter", *operand.Pseudo)
	}
	return "", fmt.Errorf("invalid operand: %#v", operand)
}
