package ir

import (
	"fmt"

	"mcc/internal/parser"
)

// Generator lowers the AST into three-address code. Temporaries are numbered
// densely from zero within each function.
type Generator struct {
	nextTempIndex int
}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(node *parser.Program) (Program, error) {
	fn, err := g.generateFunction(node.Function)
	if err != nil {
		return Program{}, err
	}
	return Program{Function: fn}, nil
}

func (g *Generator) generateFunction(node *parser.Function) (Function, error) {
	irfunc := Function{
		Name: node.Name,
		Ops:  []Op{},
	}

	g.nextTempIndex = 0
	for _, stmt := range node.Body.Statements {
		ops, err := g.generateStatementOps(stmt)
		if err != nil {
			return irfunc, err
		}
		irfunc.Ops = append(irfunc.Ops, ops...)
	}

	// Add an implicit "return 0" in case the function doesn't end with a return.
	needReturn := len(irfunc.Ops) == 0
	if !needReturn {
		_, isReturn := irfunc.Ops[len(irfunc.Ops)-1].(Return)
		needReturn = !isReturn
	}
	if needReturn {
		irfunc.Ops = append(irfunc.Ops, Return{Value: ConstVal(0)})
	}

	return irfunc, nil
}

func (g *Generator) generateStatementOps(node parser.Statement) ([]Op, error) {
	if node.ExpressionStatement != nil {
		// The result of the expression is discarded.
		ops, _, err := g.generateExpressionOps(node.ExpressionStatement.Expression)
		return ops, err
	} else if node.ReturnStatement != nil {
		ops, result, err := g.generateExpressionOps(node.ReturnStatement.Value)
		if err != nil {
			return nil, err
		}
		ops = append(ops, Return{Value: result})
		return ops, nil
	}
	return nil, fmt.Errorf("unknown statement type: %v", node)
}

func (g *Generator) generateExpressionOps(node parser.Expression) ([]Op, Val, error) {
	if node.IntLiteral != nil {
		return []Op{}, Val{Const: node.IntLiteral}, nil
	} else if node.UnaryOperation != nil {
		ops, src, err := g.generateExpressionOps(node.UnaryOperation.Operand)
		if err != nil {
			return nil, Val{}, err
		}
		dst := g.allocTemp()
		ops = append(ops, Unary{Operation: node.UnaryOperation.Operation, Src: src, Dst: dst})
		return ops, dst, nil
	} else if node.BinaryOperation != nil {
		ops, left, err := g.generateExpressionOps(node.BinaryOperation.Left)
		if err != nil {
			return nil, Val{}, err
		}
		rightOps, right, err := g.generateExpressionOps(node.BinaryOperation.Right)
		if err != nil {
			return nil, Val{}, err
		}
		ops = append(ops, rightOps...)
		dst := g.allocTemp()
		ops = append(ops, Binary{
			Operation: node.BinaryOperation.Operation,
			Left:      left,
			Right:     right,
			Dst:       dst,
		})
		return ops, dst, nil
	}
	return nil, Val{}, fmt.Errorf("unknown expression type: %v", node)
}

func (g *Generator) allocTemp() Val {
	idx := g.nextTempIndex
	g.nextTempIndex++
	return TempVal(idx)
}
