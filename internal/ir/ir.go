package ir

import (
	"fmt"
	"io"

	"mcc/internal/util"
)

/*
Intermediate representation for mcc. This sits between the AST and machine code.
The IR is a basic three-address code over signed 32-bit integers. Values are
either constants or numbered temporaries; temporaries are produced in unbounded
quantity and mapped to storage by the backend.

Supported operations:
 * Return(Value) - return a value from the function.
 * Unary(Operation, Src, Dst) - apply a unary operator ("-" or "~") and store the result in Dst.
 * Binary(Operation, Left, Right, Dst) - apply a binary operator ("+", "-", "*", "/", "%", "&", "|", "^").

Destinations are always temporaries; the generator never writes to a constant.
*/

type Program struct {
	Function Function
}

func (p Program) Print(writer io.Writer) {
	p.Function.Print(writer)
}

type Function struct {
	Name string
	Ops  []Op
}

func (f Function) Print(writer io.Writer) {
	fmt.Fprintf(writer, "Function %s:\n", f.Name)
	for i, op := range f.Ops {
		fmt.Fprintf(writer, "%4d  %s\n", i, op)
	}
}

type Op interface {
	fmt.Stringer
}

type Return struct {
	Value Val
}

func (r Return) String() string {
	return fmt.Sprintf("Return(%s)", r.Value)
}

type Unary struct {
	Operation string
	Src       Val
	Dst       Val
}

func (u Unary) String() string {
	return fmt.Sprintf("Unary(%s = %s %s)", u.Dst, u.Operation, u.Src)
}

type Binary struct {
	Operation string
	Left      Val
	Right     Val
	Dst       Val
}

func (b Binary) String() string {
	return fmt.Sprintf("Binary(%s = %s %s %s)", b.Dst, b.Left, b.Operation, b.Right)
}

// Val is either a constant or a temporary. Exactly one field is set.
type Val struct {
	Const *int32
	Temp  *int
}

func (v Val) String() string {
	if v.Const != nil {
		return fmt.Sprintf("%d", *v.Const)
	} else if v.Temp != nil {
		return fmt.Sprintf("t%d", *v.Temp)
	}
	panic(fmt.Sprintf("invalid IR value: %#v", v))
}

func ConstVal(value int32) Val {
	return Val{Const: util.Int32Ptr(int(value))}
}

func TempVal(id int) Val {
	return Val{Temp: util.IntPtr(id)}
}
