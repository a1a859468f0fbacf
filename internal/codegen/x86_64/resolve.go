package x86_64

import (
	"fmt"

	"mcc/internal/asm"
)

const slotSize = 4

// stackResolver assigns each distinct pseudo operand a stack slot at a fixed
// stride below the frame base. Slots are never reused across temporaries, so
// the frame grows with the number of distinct temporaries. State is scoped to
// a single function.
type stackResolver struct {
	offsets map[int]int // pseudo id -> negative offset from rbp
	used    int         // total bytes assigned so far
}

func newStackResolver() *stackResolver {
	return &stackResolver{
		offsets: make(map[int]int),
	}
}

// frameSize returns the number of frame bytes required for all temporaries
// seen so far.
func (r *stackResolver) frameSize() int {
	return r.used
}

// resolveInstruction rewrites every pseudo operand of the instruction to a
// stack slot. Operands are visited left to right so that slot assignment is
// deterministic.
func (r *stackResolver) resolveInstruction(instruction asm.Instruction) asm.Instruction {
	switch instr := instruction.(type) {
	case asm.Mov:
		return asm.Mov{Src: r.resolveOperand(instr.Src), Dst: r.resolveOperand(instr.Dst)}
	case asm.Unary:
		return asm.Unary{Operation: instr.Operation, Operand: r.resolveOperand(instr.Operand)}
	case asm.Binary:
		return asm.Binary{
			Operation: instr.Operation,
			Src:       r.resolveOperand(instr.Src),
			Dst:       r.resolveOperand(instr.Dst),
		}
	case asm.Idiv:
		return asm.Idiv{Operand: r.resolveOperand(instr.Operand)}
	case asm.Cdq, asm.Ret, asm.AllocStack:
		return instruction
	default:
		panic(fmt.Sprintf("unknown instruction in stack resolution: %s", instruction))
	}
}

func (r *stackResolver) resolveOperand(operand asm.Operand) asm.Operand {
	if !operand.IsPseudo() {
		return operand
	}
	return asm.Stack(r.offset(*operand.Pseudo))
}

// offset returns the slot for the given temporary, assigning the next one at
// slotSize below the last on first encounter.
func (r *stackResolver) offset(id int) int {
	if off, ok := r.offsets[id]; ok {
		return off
	}
	r.used += slotSize
	off := -r.used
	r.offsets[id] = off
	return off
}
