package ir

import (
	"reflect"
	"testing"

	"mcc/internal/parser"
)

func TestGenerator_Statements(t *testing.T) {
	testCases := []struct {
		name     string
		program  *parser.Program
		expected Program
	}{
		{
			name: "return constant",
			program: &parser.Program{
				Function: &parser.Function{
					Name: "main",
					Body: &parser.Block{
						Statements: []parser.Statement{
							{ReturnStatement: &parser.ReturnStatement{Value: parser.NewIntLiteral(42)}},
						},
					},
				},
			},
			expected: Program{
				Function: Function{
					Name: "main",
					Ops: []Op{
						Return{Value: ConstVal(42)},
					},
				},
			},
		},
		{
			name: "return unary operation",
			program: &parser.Program{
				Function: &parser.Function{
					Name: "main",
					Body: &parser.Block{
						Statements: []parser.Statement{
							{ReturnStatement: &parser.ReturnStatement{
								Value: parser.Expression{UnaryOperation: &parser.UnaryOperation{
									Operation: "-",
									Operand:   parser.NewIntLiteral(5),
								}},
							}},
						},
					},
				},
			},
			expected: Program{
				Function: Function{
					Name: "main",
					Ops: []Op{
						Unary{Operation: "-", Src: ConstVal(5), Dst: TempVal(0)},
						Return{Value: TempVal(0)},
					},
				},
			},
		},
		{
			name: "return binary operation",
			program: &parser.Program{
				Function: &parser.Function{
					Name: "main",
					Body: &parser.Block{
						Statements: []parser.Statement{
							{ReturnStatement: &parser.ReturnStatement{
								Value: parser.Expression{BinaryOperation: &parser.BinaryOperation{
									Operation: "+",
									Left:      parser.NewIntLiteral(1),
									Right:     parser.NewIntLiteral(2),
								}},
							}},
						},
					},
				},
			},
			expected: Program{
				Function: Function{
					Name: "main",
					Ops: []Op{
						Binary{Operation: "+", Left: ConstVal(1), Right: ConstVal(2), Dst: TempVal(0)},
						Return{Value: TempVal(0)},
					},
				},
			},
		},
		{
			name: "nested expressions allocate temporaries post-order",
			program: &parser.Program{
				Function: &parser.Function{
					Name: "main",
					Body: &parser.Block{
						Statements: []parser.Statement{
							{ReturnStatement: &parser.ReturnStatement{
								Value: parser.Expression{BinaryOperation: &parser.BinaryOperation{
									Operation: "*",
									Left: parser.Expression{BinaryOperation: &parser.BinaryOperation{
										Operation: "+",
										Left:      parser.NewIntLiteral(1),
										Right:     parser.NewIntLiteral(2),
									}},
									Right: parser.Expression{BinaryOperation: &parser.BinaryOperation{
										Operation: "+",
										Left:      parser.NewIntLiteral(3),
										Right:     parser.NewIntLiteral(4),
									}},
								}},
							}},
						},
					},
				},
			},
			expected: Program{
				Function: Function{
					Name: "main",
					Ops: []Op{
						Binary{Operation: "+", Left: ConstVal(1), Right: ConstVal(2), Dst: TempVal(0)},
						Binary{Operation: "+", Left: ConstVal(3), Right: ConstVal(4), Dst: TempVal(1)},
						Binary{Operation: "*", Left: TempVal(0), Right: TempVal(1), Dst: TempVal(2)},
						Return{Value: TempVal(2)},
					},
				},
			},
		},
		{
			name: "implicit return zero for empty body",
			program: &parser.Program{
				Function: &parser.Function{
					Name: "main",
					Body: &parser.Block{Statements: []parser.Statement{}},
				},
			},
			expected: Program{
				Function: Function{
					Name: "main",
					Ops: []Op{
						Return{Value: ConstVal(0)},
					},
				},
			},
		},
		{
			name: "implicit return zero after expression statement",
			program: &parser.Program{
				Function: &parser.Function{
					Name: "main",
					Body: &parser.Block{
						Statements: []parser.Statement{
							{ExpressionStatement: &parser.ExpressionStatement{
								Expression: parser.Expression{BinaryOperation: &parser.BinaryOperation{
									Operation: "+",
									Left:      parser.NewIntLiteral(1),
									Right:     parser.NewIntLiteral(2),
								}},
							}},
						},
					},
				},
			},
			expected: Program{
				Function: Function{
					Name: "main",
					Ops: []Op{
						Binary{Operation: "+", Left: ConstVal(1), Right: ConstVal(2), Dst: TempVal(0)},
						Return{Value: ConstVal(0)},
					},
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := NewGenerator().Generate(tc.program)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(actual, tc.expected) {
				t.Errorf("expected:\n%#v\ngot:\n%#v", tc.expected, actual)
			}
		})
	}
}

func TestGenerator_TempNumberingRestartsPerFunction(t *testing.T) {
	program := &parser.Program{
		Function: &parser.Function{
			Name: "main",
			Body: &parser.Block{
				Statements: []parser.Statement{
					{ReturnStatement: &parser.ReturnStatement{
						Value: parser.Expression{UnaryOperation: &parser.UnaryOperation{
							Operation: "~",
							Operand:   parser.NewIntLiteral(1),
						}},
					}},
				},
			},
		},
	}

	g := NewGenerator()
	first, err := g.Generate(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := g.Generate(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected repeated generation to be identical, got %v and %v", first, second)
	}
}
