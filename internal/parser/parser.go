package parser

import (
	"fmt"
	"math"
	"strconv"

	"mcc/internal/lexer"
)

// Binary operator precedence, higher binds tighter.
var binaryPrecedence = map[string]int{
	"|": 1,
	"^": 2,
	"&": 3,
	"+": 4,
	"-": 4,
	"*": 5,
	"/": 5,
	"%": 5,
}

type Parser struct {
	lexer   *lexer.Lexer
	lexemes []lexer.Lexeme
	pos     int
}

func New(lex *lexer.Lexer) *Parser {
	return &Parser{lexer: lex}
}

func (p *Parser) consume() (lexer.Lexeme, error) {
	if p.pos >= len(p.lexemes) {
		lex, err := p.lexer.Next()
		if err != nil {
			return lexer.Lexeme{}, err
		}
		p.lexemes = append(p.lexemes, lex)
	}
	lex := p.lexemes[p.pos]
	p.pos++
	return lex, nil
}

func (p *Parser) peek() (lexer.Lexeme, error) {
	if p.pos >= len(p.lexemes) {
		lex, err := p.lexer.Next()
		if err != nil {
			return lexer.Lexeme{}, err
		}
		p.lexemes = append(p.lexemes, lex)
	}
	return p.lexemes[p.pos], nil
}

func (p *Parser) expectKeyword(kw string) error {
	lex, err := p.consume()
	if err != nil {
		return err
	}
	if !lex.IsKeyword(kw) {
		return fmt.Errorf("expected %q, got %v at line %d", kw, lex, lex.Line)
	}
	return nil
}

func (p *Parser) expectPunctuation(pv string) error {
	lex, err := p.consume()
	if err != nil {
		return err
	}
	if !lex.IsPunctuation(pv) {
		return fmt.Errorf("expected %q, got %v at line %d", pv, lex, lex.Line)
	}
	return nil
}

func (p *Parser) ParseProgram() (*Program, error) {
	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}

	// The whole program is a single function.
	lex, err := p.peek()
	if err != nil {
		return nil, err
	}
	if lex.Type != lexer.LEX_EOF {
		return nil, fmt.Errorf("unexpected input after function body: %v at line %d", lex, lex.Line)
	}

	return &Program{Function: fn}, nil
}

func (p *Parser) parseFunction() (*Function, error) {
	// Parse: int name ( [void] ) { statement* }
	if err := p.expectKeyword("int"); err != nil {
		return nil, err
	}

	lex, err := p.consume()
	if err != nil {
		return nil, err
	}
	if lex.Type != lexer.LEX_IDENT {
		return nil, fmt.Errorf("expected function name, got %v at line %d", lex, lex.Line)
	}
	name := lex.Str

	if err := p.expectPunctuation("("); err != nil {
		return nil, err
	}
	lex, err = p.peek()
	if err != nil {
		return nil, err
	}
	if lex.IsKeyword("void") {
		p.consume()
	}
	if err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}
	if err := p.expectPunctuation("{"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &Function{Name: name, Body: body}, nil
}

func (p *Parser) parseBlock() (*Block, error) {
	statements := []Statement{}

	for {
		lex, err := p.peek()
		if err != nil {
			return nil, err
		}
		if lex.IsPunctuation("}") {
			break
		}
		if lex.Type == lexer.LEX_EOF {
			return nil, fmt.Errorf("unexpected end of input, expected '}'")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	// consume '}'
	if _, err := p.consume(); err != nil {
		return nil, err
	}

	return &Block{Statements: statements}, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	lex, err := p.peek()
	if err != nil {
		return Statement{}, err
	}

	if lex.IsKeyword("return") {
		p.consume()
		value, err := p.parseExpression()
		if err != nil {
			return Statement{}, err
		}
		if err := p.expectPunctuation(";"); err != nil {
			return Statement{}, err
		}
		return Statement{ReturnStatement: &ReturnStatement{Value: value}}, nil
	}

	// Anything else must be an expression statement.
	expr, err := p.parseExpression()
	if err != nil {
		return Statement{}, err
	}
	if err := p.expectPunctuation(";"); err != nil {
		return Statement{}, err
	}
	return Statement{ExpressionStatement: &ExpressionStatement{Expression: expr}}, nil
}

func (p *Parser) parseExpression() (Expression, error) {
	return p.parseBinaryExpression(1)
}

// parseBinaryExpression implements precedence climbing over the
// binaryPrecedence table.
func (p *Parser) parseBinaryExpression(minPrecedence int) (Expression, error) {
	left, err := p.parseUnaryExpression()
	if err != nil {
		return Expression{}, err
	}

	for {
		lex, err := p.peek()
		if err != nil {
			return Expression{}, err
		}
		if lex.Type != lexer.LEX_OPERATOR {
			break
		}
		precedence, ok := binaryPrecedence[lex.Str]
		if !ok || precedence < minPrecedence {
			break
		}
		p.consume()

		right, err := p.parseBinaryExpression(precedence + 1)
		if err != nil {
			return Expression{}, err
		}

		left = Expression{BinaryOperation: &BinaryOperation{
			Operation: lex.Str,
			Left:      left,
			Right:     right,
		}}
	}

	return left, nil
}

func (p *Parser) parseUnaryExpression() (Expression, error) {
	lex, err := p.peek()
	if err != nil {
		return Expression{}, err
	}

	if lex.IsOperator("-") || lex.IsOperator("~") {
		p.consume()
		operand, err := p.parseUnaryExpression()
		if err != nil {
			return Expression{}, err
		}
		return Expression{UnaryOperation: &UnaryOperation{
			Operation: lex.Str,
			Operand:   operand,
		}}, nil
	}

	return p.parsePrimaryExpression()
}

func (p *Parser) parsePrimaryExpression() (Expression, error) {
	lex, err := p.consume()
	if err != nil {
		return Expression{}, err
	}

	switch {
	case lex.Type == lexer.LEX_NUMBER:
		value, err := strconv.ParseInt(lex.Str, 10, 64)
		if err != nil || value > math.MaxInt32 {
			return Expression{}, fmt.Errorf("integer constant %s out of range at line %d", lex.Str, lex.Line)
		}
		return NewIntLiteral(int32(value)), nil
	case lex.IsPunctuation("("):
		expr, err := p.parseExpression()
		if err != nil {
			return Expression{}, err
		}
		if err := p.expectPunctuation(")"); err != nil {
			return Expression{}, err
		}
		return expr, nil
	default:
		return Expression{}, fmt.Errorf("unexpected token %v at line %d", lex, lex.Line)
	}
}
