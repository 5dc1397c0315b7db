// Package diag holds the syntax diagnostics shared by the lexer and parser.
package diag

import (
	"fmt"

	"lox/internal/token"
)

// Diagnostic is a single reported syntax problem. Where is empty for lexer
// diagnostics, " at end" for the EOF token and " at 'lexeme'" otherwise.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// At builds a diagnostic located at tok.
func At(tok token.Token, message string) Diagnostic {
	if tok.Type == token.EOF {
		return Diagnostic{Line: tok.Line, Where: " at end", Message: message}
	}
	return Diagnostic{Line: tok.Line, Where: " at '" + tok.Lexeme + "'", Message: message}
}
