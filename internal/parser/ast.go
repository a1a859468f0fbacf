package parser

import (
	"fmt"
	"strings"

	"mcc/internal/util"
)

type Program struct {
	Function *Function
}

func (p *Program) String() string {
	return fmt.Sprintf("(program %s)", p.Function)
}

type Function struct {
	Name string
	Body *Block
}

func (f *Function) String() string {
	return fmt.Sprintf("(func %s %s)", f.Name, f.Body)
}

type Block struct {
	Statements []Statement
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, stmt := range b.Statements {
		sb.WriteString(" ")
		sb.WriteString(stmt.String())
	}
	sb.WriteString(")")
	return sb.String()
}

type Statement struct {
	ExpressionStatement *ExpressionStatement
	ReturnStatement     *ReturnStatement
}

func (s Statement) String() string {
	if s.ExpressionStatement != nil {
		return s.ExpressionStatement.String()
	} else if s.ReturnStatement != nil {
		return s.ReturnStatement.String()
	}
	panic(fmt.Sprintf("unsupported statement type: %#v", s))
}

type ExpressionStatement struct {
	Expression Expression
}

func (s *ExpressionStatement) String() string {
	return s.Expression.String()
}

type ReturnStatement struct {
	Value Expression
}

func (s *ReturnStatement) String() string {
	return fmt.Sprintf("(return %s)", s.Value)
}

type Expression struct {
	IntLiteral      *int32
	UnaryOperation  *UnaryOperation
	BinaryOperation *BinaryOperation
}

func (e Expression) String() string {
	if e.IntLiteral != nil {
		return fmt.Sprintf("%d", *e.IntLiteral)
	} else if e.UnaryOperation != nil {
		return e.UnaryOperation.String()
	} else if e.BinaryOperation != nil {
		return e.BinaryOperation.String()
	}
	panic(fmt.Sprintf("invalid expression: %#v", e))
}

type UnaryOperation struct {
	Operation string
	Operand   Expression
}

func (u *UnaryOperation) String() string {
	return fmt.Sprintf("(%s %s)", u.Operation, u.Operand)
}

type BinaryOperation struct {
	Operation string
	Left      Expression
	Right     Expression
}

func (b *BinaryOperation) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Operation, b.Left, b.Right)
}

func NewIntLiteral(value int32) Expression {
	return Expression{IntLiteral: util.Int32Ptr(int(value))}
}
