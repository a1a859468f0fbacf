package x86_64

import (
	"fmt"

	"mcc/internal/asm"
	"mcc/internal/ir"
)

// Binary operators handled by the generic two-operand form. Divide and
// remainder are excluded: they route through the fixed EAX/EDX pair.
var twoOperandBinaryOps = map[string]bool{
	"+": true,
	"-": true,
	"*": true,
	"&": true,
	"|": true,
	"^": true,
}

var unaryOps = map[string]bool{
	"-": true,
	"~": true,
}

// selectInstructions maps IR operations onto generic machine instructions.
// Operands referring to temporaries come out as pseudo operands; the stack
// resolver rewrites them later. An operator outside the supported set means
// the IR generator produced something this backend was never taught, which is
// reported as an error rather than silently miscompiled.
func selectInstructions(ops []ir.Op) ([]asm.Instruction, error) {
	instructions := make([]asm.Instruction, 0, len(ops)*2)

	for _, op := range ops {
		selected, err := selectOp(op)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, selected...)
	}

	return instructions, nil
}

func selectOp(op ir.Op) ([]asm.Instruction, error) {
	switch o := op.(type) {
	case ir.Return:
		return []asm.Instruction{
			asm.Mov{Src: translateVal(o.Value), Dst: asm.AX},
			asm.Ret{},
		}, nil
	case ir.Unary:
		if !unaryOps[o.Operation] {
			return nil, fmt.Errorf("unsupported unary operator %q in %s", o.Operation, o)
		}
		// The instruction mutates its sole operand in place, so the source is
		// copied into the destination first.
		dst := translateVal(o.Dst)
		return []asm.Instruction{
			asm.Mov{Src: translateVal(o.Src), Dst: dst},
			asm.Unary{Operation: o.Operation, Operand: dst},
		}, nil
	case ir.Binary:
		return selectBinaryOp(o)
	default:
		return nil, fmt.Errorf("unsupported IR operation: %s", op)
	}
}

func selectBinaryOp(o ir.Binary) ([]asm.Instruction, error) {
	switch {
	case o.Operation == "/" || o.Operation == "%":
		// idiv divides the sign-extended EDX:EAX pair; the quotient lands in
		// EAX and the remainder in EDX.
		result := asm.AX
		if o.Operation == "%" {
			result = asm.DX
		}
		return []asm.Instruction{
			asm.Mov{Src: translateVal(o.Left), Dst: asm.AX},
			asm.Cdq{},
			asm.Idiv{Operand: translateVal(o.Right)},
			asm.Mov{Src: result, Dst: translateVal(o.Dst)},
		}, nil
	case twoOperandBinaryOps[o.Operation]:
		// Two-operand form: the left operand is loaded into the destination,
		// and the right operand is combined in place.
		dst := translateVal(o.Dst)
		return []asm.Instruction{
			asm.Mov{Src: translateVal(o.Left), Dst: dst},
			asm.Binary{Operation: o.Operation, Src: translateVal(o.Right), Dst: dst},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q in %s", o.Operation, o)
	}
}

// translateVal maps an IR value to a machine operand. Temporaries become
// pseudo operands; no frame layout is known at this point.
func translateVal(v ir.Val) asm.Operand {
	if v.Const != nil {
		return asm.Operand{Imm: v.Const}
	} else if v.Temp != nil {
		return asm.Operand{Pseudo: v.Temp}
	}
	panic(fmt.Sprintf("invalid IR value: %#v", v))
}
