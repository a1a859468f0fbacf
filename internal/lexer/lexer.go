package lexer

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

type TokenType int

// Token types
const (
	LEX_EOF TokenType = iota
	LEX_IDENT
	LEX_NUMBER
	LEX_KEYWORD
	LEX_OPERATOR
	LEX_PUNCTUATION
)

func (t TokenType) String() string {
	switch t {
	case LEX_EOF:
		return "EOF"
	case LEX_IDENT:
		return "IDENT"
	case LEX_NUMBER:
		return "NUMBER"
	case LEX_KEYWORD:
		return "KEYWORD"
	case LEX_OPERATOR:
		return "OPERATOR"
	case LEX_PUNCTUATION:
		return "PUNCTUATION"
	default:
		return "UNKNOWN"
	}
}

// Keywords of the language
var keywords = map[string]bool{
	"int":    true,
	"void":   true,
	"return": true,
}

// Single-character operators and punctuation
var singleCharTokens = map[rune]TokenType{
	'(': LEX_PUNCTUATION,
	')': LEX_PUNCTUATION,
	'{': LEX_PUNCTUATION,
	'}': LEX_PUNCTUATION,
	';': LEX_PUNCTUATION,
	'+': LEX_OPERATOR,
	'-': LEX_OPERATOR,
	'*': LEX_OPERATOR,
	'%': LEX_OPERATOR,
	'~': LEX_OPERATOR,
	'&': LEX_OPERATOR,
	'|': LEX_OPERATOR,
	'^': LEX_OPERATOR,
}

type Lexeme struct {
	Type TokenType
	Str  string
	Line int
	Col  int
}

func (l Lexeme) String() string {
	if l.Str == "" {
		return fmt.Sprintf("<%s>", l.Type)
	}
	return fmt.Sprintf("<%s %q>", l.Type, l.Str)
}

func (l Lexeme) IsKeyword(kv string) bool {
	return l.Type == LEX_KEYWORD && l.Str == kv
}

func (l Lexeme) IsPunctuation(pv string) bool {
	return l.Type == LEX_PUNCTUATION && l.Str == pv
}

func (l Lexeme) IsOperator(op string) bool {
	return l.Type == LEX_OPERATOR && l.Str == op
}

type Lexer struct {
	input     *bufio.Reader
	line      int
	col       int
	prevCol   int
	lastRune  rune
	lastSize  int
	hasUnread bool
}

func New(inputReader io.Reader) *Lexer {
	return &Lexer{
		input:   bufio.NewReader(inputReader),
		line:    1,
		col:     1,
		prevCol: 1,
	}
}

// readRune reads the next rune from the input
func (l *Lexer) readRune() (rune, int, error) {
	var r rune
	var size int
	var err error

	if l.hasUnread {
		l.hasUnread = false
		r, size, err = l.lastRune, l.lastSize, nil
	} else {
		l.prevCol = l.col
		r, size, err = l.input.ReadRune()
	}

	if err != nil {
		return 0, 0, err
	}

	l.lastRune = r
	l.lastSize = size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, size, nil
}

// unreadRune puts back the last read rune.
// Should be called at most once per readRune.
func (l *Lexer) unreadRune() {
	l.hasUnread = true
	if l.lastRune == '\n' {
		l.line--
	}
	l.col = l.prevCol
}

// skipSpace skips whitespace characters
func (l *Lexer) skipSpace() error {
	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !unicode.IsSpace(r) {
			l.unreadRune()
			return nil
		}
	}
}

// skipComment skips a C++ style comment (from // to end of line)
func (l *Lexer) skipComment() error {
	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if r == '\n' {
			// Don't unread the newline - we want to consume it
			return nil
		}
	}
}

// Next returns the next lexeme from the input
func (l *Lexer) Next() (Lexeme, error) {
	if err := l.skipSpace(); err != nil {
		return Lexeme{Type: LEX_EOF}, err
	}
	// Start position of the lexeme
	startLine := l.line
	startCol := l.col
	r, _, err := l.readRune()
	if err != nil {
		if err == io.EOF {
			return Lexeme{Type: LEX_EOF}, nil
		}
		return Lexeme{Type: LEX_EOF}, err
	}

	switch {
	case unicode.IsLetter(r) || r == '_':
		l.unreadRune()
		return l.lexIdent(startLine, startCol)
	case unicode.IsDigit(r):
		l.unreadRune()
		return l.lexNumber(startLine, startCol)
	case r == '/':
		// Division operator or start of a comment.
		nextR, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return Lexeme{Type: LEX_OPERATOR, Str: "/", Line: startLine, Col: startCol}, nil
			}
			return Lexeme{Type: LEX_EOF}, err
		}
		if nextR == '/' {
			if err := l.skipComment(); err != nil {
				return Lexeme{Type: LEX_EOF}, err
			}
			return l.Next()
		}
		l.unreadRune()
		return Lexeme{Type: LEX_OPERATOR, Str: "/", Line: startLine, Col: startCol}, nil
	default:
		if tokenType, ok := singleCharTokens[r]; ok {
			return Lexeme{Type: tokenType, Str: string(r), Line: startLine, Col: startCol}, nil
		}
		return Lexeme{}, fmt.Errorf("unexpected character %q at line %d, column %d", r, startLine, startCol)
	}
}

// lexIdent reads an identifier or a keyword
func (l *Lexer) lexIdent(startLine, startCol int) (Lexeme, error) {
	var ident string

	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Lexeme{}, err
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			l.unreadRune()
			break
		}
		ident += string(r)
	}

	tokenType := LEX_IDENT
	if keywords[ident] {
		tokenType = LEX_KEYWORD
	}

	return Lexeme{
		Type: tokenType,
		Str:  ident,
		Line: startLine,
		Col:  startCol,
	}, nil
}

// lexNumber reads a decimal number literal
func (l *Lexer) lexNumber(startLine, startCol int) (Lexeme, error) {
	var num string

	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Lexeme{}, err
		}
		if !unicode.IsDigit(r) {
			l.unreadRune()
			break
		}
		num += string(r)
	}

	return Lexeme{
		Type: LEX_NUMBER,
		Str:  num,
		Line: startLine,
		Col:  startCol,
	}, nil
}
