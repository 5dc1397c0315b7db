package lexer

import (
	"math"
	"strings"
	"testing"

	"lox/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
var half = 0.5;
// comment
fun add(x, y) { print x + y; }
!= ! == = <= < >= > - / * . ,
if (a and b or c) {} else {}
while for nil true false
"foobar" 12.`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
		expectedLine   int
	}{
		{token.VAR, "var", 1},
		{token.IDENTIFIER, "five", 1},
		{token.EQUAL, "=", 1},
		{token.NUMBER, "5", 1},
		{token.SEMICOLON, ";", 1},
		{token.VAR, "var", 2},
		{token.IDENTIFIER, "half", 2},
		{token.EQUAL, "=", 2},
		{token.NUMBER, "0.5", 2},
		{token.SEMICOLON, ";", 2},
		{token.FUN, "fun", 4},
		{token.IDENTIFIER, "add", 4},
		{token.LEFT_PAREN, "(", 4},
		{token.IDENTIFIER, "x", 4},
		{token.COMMA, ",", 4},
		{token.IDENTIFIER, "y", 4},
		{token.RIGHT_PAREN, ")", 4},
		{token.LEFT_BRACE, "{", 4},
		{token.PRINT, "print", 4},
		{token.IDENTIFIER, "x", 4},
		{token.PLUS, "+", 4},
		{token.IDENTIFIER, "y", 4},
		{token.SEMICOLON, ";", 4},
		{token.RIGHT_BRACE, "}", 4},
		{token.BANG_EQUAL, "!=", 5},
		{token.BANG, "!", 5},
		{token.EQUAL_EQUAL, "==", 5},
		{token.EQUAL, "=", 5},
		{token.LESS_EQUAL, "<=", 5},
		{token.LESS, "<", 5},
		{token.GREATER_EQUAL, ">=", 5},
		{token.GREATER, ">", 5},
		{token.MINUS, "-", 5},
		{token.SLASH, "/", 5},
		{token.STAR, "*", 5},
		{token.DOT, ".", 5},
		{token.COMMA, ",", 5},
		{token.IF, "if", 6},
		{token.LEFT_PAREN, "(", 6},
		{token.IDENTIFIER, "a", 6},
		{token.AND, "and", 6},
		{token.IDENTIFIER, "b", 6},
		{token.OR, "or", 6},
		{token.IDENTIFIER, "c", 6},
		{token.RIGHT_PAREN, ")", 6},
		{token.LEFT_BRACE, "{", 6},
		{token.RIGHT_BRACE, "}", 6},
		{token.ELSE, "else", 6},
		{token.LEFT_BRACE, "{", 6},
		{token.RIGHT_BRACE, "}", 6},
		{token.WHILE, "while", 7},
		{token.FOR, "for", 7},
		{token.NIL, "nil", 7},
		{token.TRUE, "true", 7},
		{token.FALSE, "false", 7},
		{token.STRING, `"foobar"`, 8},
		{token.NUMBER, "12", 8},
		{token.DOT, ".", 8},
		{token.EOF, "", 8},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}
		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong for %q. expected=%d, got=%d",
				i, tok.Lexeme, tt.expectedLine, tok.Line)
		}
	}

	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", l.Errors())
	}
}

func TestLiterals(t *testing.T) {
	tokens, errs := Tokenize(`123 4.25 "hi there" ""`)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	want := []any{123.0, 4.25, "hi there", "", nil}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, w := range want {
		if tokens[i].Literal != w {
			t.Errorf("tokens[%d] literal = %#v, want %#v", i, tokens[i].Literal, w)
		}
	}
}

func TestOversizedNumberIsInfinite(t *testing.T) {
	digits := strings.Repeat("9", 400)
	tokens, errs := Tokenize("print " + digits + ";")
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	if tokens[1].Type != token.NUMBER || tokens[1].Lexeme != digits {
		t.Fatalf("unexpected token %v", tokens[1])
	}
	if v, ok := tokens[1].Literal.(float64); !ok || !math.IsInf(v, 1) {
		t.Fatalf("literal = %#v, want +Inf", tokens[1].Literal)
	}
}

func TestMultiLineString(t *testing.T) {
	tokens, errs := Tokenize("\"a\nb\" x")
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	if tokens[0].Literal != "a\nb" {
		t.Fatalf("literal = %q", tokens[0].Literal)
	}
	if tokens[1].Line != 2 {
		t.Fatalf("identifier after multi-line string on line %d, want 2", tokens[1].Line)
	}
}

func TestUnexpectedCharacterIsSkipped(t *testing.T) {
	tokens, errs := Tokenize("var @ x;\n#")
	if len(errs) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", errs)
	}
	if errs[0].Message != "Unexpected character." || errs[0].Line != 1 {
		t.Errorf("first diagnostic = %+v", errs[0])
	}
	if errs[1].Line != 2 {
		t.Errorf("second diagnostic line = %d, want 2", errs[1].Line)
	}

	types := []token.TokenType{token.VAR, token.IDENTIFIER, token.SEMICOLON, token.EOF}
	if len(tokens) != len(types) {
		t.Fatalf("expected %d tokens, got %v", len(types), tokens)
	}
	for i, typ := range types {
		if tokens[i].Type != typ {
			t.Errorf("tokens[%d] = %s, want %s", i, tokens[i].Type, typ)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, errs := Tokenize("print \"oops\n")
	if len(errs) != 1 || errs[0].Message != "Unterminated string." {
		t.Fatalf("diagnostics = %v", errs)
	}
	if len(tokens) != 2 || tokens[1].Type != token.EOF {
		t.Fatalf("tokens = %v", tokens)
	}
}

func TestCommentAtEOF(t *testing.T) {
	tokens, errs := Tokenize("1 // trailing")
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
	if len(tokens) != 2 || tokens[1].Type != token.EOF {
		t.Fatalf("tokens = %v", tokens)
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	tokens, _ := Tokenize("café_1")
	if tokens[0].Type != token.IDENTIFIER || tokens[0].Lexeme != "café_1" {
		t.Fatalf("token = %v", tokens[0])
	}
}

// Re-scanning a token's lexeme must give back the same kind and literal.
func TestLexemeRoundTrip(t *testing.T) {
	src := `var x = 10.5; fun f(a) { print "s" + a; } x <= 3 != !true and nil or y >= 0;`
	tokens, errs := Tokenize(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}

	for _, tok := range tokens {
		if tok.Type == token.EOF {
			continue
		}
		again, errs := Tokenize(tok.Lexeme)
		if len(errs) != 0 {
			t.Fatalf("re-scanning %q: %v", tok.Lexeme, errs)
		}
		if len(again) != 2 {
			t.Fatalf("re-scanning %q produced %d tokens", tok.Lexeme, len(again))
		}
		if again[0].Type != tok.Type || again[0].Literal != tok.Literal {
			t.Errorf("round trip of %q: got %v, want %v", tok.Lexeme, again[0], tok)
		}
	}
}
