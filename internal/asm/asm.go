package asm

import (
	"fmt"

	"mcc/internal/util"
)

// Machine-level data model shared by the instruction selector, the stack
// resolver, the legalizer and the formatter. Operands and instructions are
// generic: the operation tags are the source-level operator symbols, and the
// formatter maps them to target mnemonics.

// Fixed registers used by the backend. EAX/EDX are mandated by the divide
// instruction; R10D/R11D are the scratch registers used during legalization
// and are never live across instruction boundaries.
var (
	AX  = Operand{Reg: "eax"}
	DX  = Operand{Reg: "edx"}
	R10 = Operand{Reg: "r10d"}
	R11 = Operand{Reg: "r11d"}
)

// Operand is a union: exactly one field is set.
// Pseudo operands stand for IR temporaries and are only valid between
// instruction selection and stack resolution.
type Operand struct {
	Imm    *int32
	Reg    string
	Pseudo *int
	Stack  *int // negative byte offset from the frame base
}

func (o Operand) IsImm() bool {
	return o.Imm != nil
}

func (o Operand) IsPseudo() bool {
	return o.Pseudo != nil
}

func (o Operand) IsStack() bool {
	return o.Stack != nil
}

func (o Operand) String() string {
	if o.Imm != nil {
		return fmt.Sprintf("$%d", *o.Imm)
	} else if o.Reg != "" {
		return "%" + o.Reg
	} else if o.Pseudo != nil {
		return fmt.Sprintf("pseudo(%d)", *o.Pseudo)
	} else if o.Stack != nil {
		return fmt.Sprintf("%d(%%rbp)", *o.Stack)
	}
	panic(fmt.Sprintf("invalid operand: %#v", o))
}

func Imm(value int32) Operand {
	return Operand{Imm: util.Int32Ptr(int(value))}
}

func Pseudo(id int) Operand {
	return Operand{Pseudo: util.IntPtr(id)}
}

func Stack(offset int) Operand {
	return Operand{Stack: util.IntPtr(offset)}
}

type Program struct {
	Function Function
}

type Function struct {
	Name         string
	Instructions []Instruction
}

type Instruction interface {
	fmt.Stringer
}

type Mov struct {
	Src Operand
	Dst Operand
}

func (m Mov) String() string {
	return fmt.Sprintf("Mov(%s, %s)", m.Src, m.Dst)
}

type Unary struct {
	Operation string
	Operand   Operand
}

func (u Unary) String() string {
	return fmt.Sprintf("Unary(%s, %s)", u.Operation, u.Operand)
}

type Binary struct {
	Operation string
	Src       Operand
	Dst       Operand
}

func (b Binary) String() string {
	return fmt.Sprintf("Binary(%s, %s, %s)", b.Operation, b.Src, b.Dst)
}

// Idiv divides the sign-extended EDX:EAX pair by the operand, leaving the
// quotient in EAX and the remainder in EDX.
type Idiv struct {
	Operand Operand
}

func (i Idiv) String() string {
	return fmt.Sprintf("Idiv(%s)", i.Operand)
}

// Cdq sign-extends EAX into EDX:EAX before a divide.
type Cdq struct{}

func (c Cdq) String() string {
	return "Cdq"
}

type AllocStack struct {
	Bytes int
}

func (a AllocStack) String() string {
	return fmt.Sprintf("AllocStack(%d)", a.Bytes)
}

type Ret struct{}

func (r Ret) String() string {
	return "Ret"
}
