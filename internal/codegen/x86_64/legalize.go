package x86_64

import (
	"mcc/internal/asm"
)

// legalize rewrites the resolved instruction sequence so that every
// instruction satisfies the target's operand-placement rules:
//
//   - mov cannot move between two memory operands;
//   - imul cannot write to a memory operand;
//   - the other two-operand instructions cannot read two memory operands;
//   - idiv cannot take an immediate operand.
//
// Violations are fixed by routing values through the scratch registers R10D
// and R11D, which are never live across instruction boundaries. A frame
// allocation sized for the resolved temporaries is prepended when needed.
// The result is a fixed point: legalizing it again changes nothing.
func legalize(instructions []asm.Instruction, frameBytes int) []asm.Instruction {
	result := make([]asm.Instruction, 0, len(instructions)+1)
	if frameBytes > 0 {
		result = append(result, asm.AllocStack{Bytes: frameBytes})
	}

	for _, instruction := range instructions {
		result = append(result, legalizeInstruction(instruction)...)
	}

	return result
}

func legalizeInstruction(instruction asm.Instruction) []asm.Instruction {
	switch instr := instruction.(type) {
	case asm.Mov:
		if instr.Src.IsStack() && instr.Dst.IsStack() {
			return []asm.Instruction{
				asm.Mov{Src: instr.Src, Dst: asm.R10},
				asm.Mov{Src: asm.R10, Dst: instr.Dst},
			}
		}
	case asm.Binary:
		return legalizeBinary(instr)
	case asm.Idiv:
		if instr.Operand.IsImm() {
			return []asm.Instruction{
				asm.Mov{Src: instr.Operand, Dst: asm.R10},
				asm.Idiv{Operand: asm.R10},
			}
		}
	}
	return []asm.Instruction{instruction}
}

func legalizeBinary(instr asm.Binary) []asm.Instruction {
	if instr.Operation == "*" {
		// imul cannot write to memory: compute into R11D and store back.
		if instr.Dst.IsStack() {
			return []asm.Instruction{
				asm.Mov{Src: instr.Dst, Dst: asm.R11},
				asm.Binary{Operation: instr.Operation, Src: instr.Src, Dst: asm.R11},
				asm.Mov{Src: asm.R11, Dst: instr.Dst},
			}
		}
		return []asm.Instruction{instr}
	}

	if instr.Src.IsStack() && instr.Dst.IsStack() {
		return []asm.Instruction{
			asm.Mov{Src: instr.Src, Dst: asm.R10},
			asm.Binary{Operation: instr.Operation, Src: asm.R10, Dst: instr.Dst},
		}
	}
	return []asm.Instruction{instr}
}
