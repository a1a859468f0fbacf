package lexer

import (
	"reflect"
	"strings"
	"testing"
)

func lexAll(t *testing.T, input string) []Lexeme {
	t.Helper()
	lex := New(strings.NewReader(input))
	var lexemes []Lexeme
	for {
		l, err := lex.Next()
		if err != nil {
			t.Fatalf("unexpected lexer error: %v", err)
		}
		if l.Type == LEX_EOF {
			return lexemes
		}
		lexemes = append(lexemes, l)
	}
}

func TestLexer_Tokens(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []Lexeme
	}{
		{
			name:  "keywords and identifier",
			input: "int main void return",
			expected: []Lexeme{
				{Type: LEX_KEYWORD, Str: "int", Line: 1, Col: 1},
				{Type: LEX_IDENT, Str: "main", Line: 1, Col: 5},
				{Type: LEX_KEYWORD, Str: "void", Line: 1, Col: 10},
				{Type: LEX_KEYWORD, Str: "return", Line: 1, Col: 15},
			},
		},
		{
			name:  "number",
			input: "1234",
			expected: []Lexeme{
				{Type: LEX_NUMBER, Str: "1234", Line: 1, Col: 1},
			},
		},
		{
			name:  "operators",
			input: "- ~ + * / % & | ^",
			expected: []Lexeme{
				{Type: LEX_OPERATOR, Str: "-", Line: 1, Col: 1},
				{Type: LEX_OPERATOR, Str: "~", Line: 1, Col: 3},
				{Type: LEX_OPERATOR, Str: "+", Line: 1, Col: 5},
				{Type: LEX_OPERATOR, Str: "*", Line: 1, Col: 7},
				{Type: LEX_OPERATOR, Str: "/", Line: 1, Col: 9},
				{Type: LEX_OPERATOR, Str: "%", Line: 1, Col: 11},
				{Type: LEX_OPERATOR, Str: "&", Line: 1, Col: 13},
				{Type: LEX_OPERATOR, Str: "|", Line: 1, Col: 15},
				{Type: LEX_OPERATOR, Str: "^", Line: 1, Col: 17},
			},
		},
		{
			name:  "punctuation",
			input: "(){};",
			expected: []Lexeme{
				{Type: LEX_PUNCTUATION, Str: "(", Line: 1, Col: 1},
				{Type: LEX_PUNCTUATION, Str: ")", Line: 1, Col: 2},
				{Type: LEX_PUNCTUATION, Str: "{", Line: 1, Col: 3},
				{Type: LEX_PUNCTUATION, Str: "}", Line: 1, Col: 4},
				{Type: LEX_PUNCTUATION, Str: ";", Line: 1, Col: 5},
			},
		},
		{
			name:  "comment is skipped",
			input: "1 // a comment\n2",
			expected: []Lexeme{
				{Type: LEX_NUMBER, Str: "1", Line: 1, Col: 1},
				{Type: LEX_NUMBER, Str: "2", Line: 2, Col: 1},
			},
		},
		{
			name:  "division is not a comment",
			input: "6/2",
			expected: []Lexeme{
				{Type: LEX_NUMBER, Str: "6", Line: 1, Col: 1},
				{Type: LEX_OPERATOR, Str: "/", Line: 1, Col: 2},
				{Type: LEX_NUMBER, Str: "2", Line: 1, Col: 3},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := lexAll(t, tc.input)
			if !reflect.DeepEqual(actual, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, actual)
			}
		})
	}
}

func TestLexer_SmallProgram(t *testing.T) {
	input := "int main(void) {\n    return 42;\n}\n"
	actual := lexAll(t, input)

	var kinds []TokenType
	var strs []string
	for _, l := range actual {
		kinds = append(kinds, l.Type)
		strs = append(strs, l.Str)
	}

	expectedStrs := []string{"int", "main", "(", "void", ")", "{", "return", "42", ";", "}"}
	if !reflect.DeepEqual(strs, expectedStrs) {
		t.Errorf("expected token strings %v, got %v", expectedStrs, strs)
	}

	expectedKinds := []TokenType{
		LEX_KEYWORD, LEX_IDENT, LEX_PUNCTUATION, LEX_KEYWORD, LEX_PUNCTUATION,
		LEX_PUNCTUATION, LEX_KEYWORD, LEX_NUMBER, LEX_PUNCTUATION, LEX_PUNCTUATION,
	}
	if !reflect.DeepEqual(kinds, expectedKinds) {
		t.Errorf("expected token types %v, got %v", expectedKinds, kinds)
	}
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	lex := New(strings.NewReader("return @;"))
	if _, err := lex.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := lex.Next(); err == nil {
		t.Errorf("expected an error for unexpected character, got none")
	}
}
