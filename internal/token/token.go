package token

import "fmt"

type TokenType string

const (
	EOF = "EOF"

	// Single-character tokens
	LEFT_PAREN  = "("
	RIGHT_PAREN = ")"
	LEFT_BRACE  = "{"
	RIGHT_BRACE = "}"
	COMMA       = ","
	DOT         = "."
	MINUS       = "-"
	PLUS        = "+"
	SEMICOLON   = ";"
	SLASH       = "/"
	STAR        = "*"

	// One or two character tokens
	BANG          = "!"
	BANG_EQUAL    = "!="
	EQUAL         = "="
	EQUAL_EQUAL   = "=="
	GREATER       = ">"
	GREATER_EQUAL = ">="
	LESS          = "<"
	LESS_EQUAL    = "<="

	// Literals
	IDENTIFIER = "IDENTIFIER"
	STRING     = "STRING"
	NUMBER     = "NUMBER"

	// Keywords
	AND   = "AND"
	OR    = "OR"
	IF    = "IF"
	ELSE  = "ELSE"
	WHILE = "WHILE"
	FOR   = "FOR"
	VAR   = "VAR"
	FUN   = "FUN"
	PRINT = "PRINT"
	TRUE  = "TRUE"
	FALSE = "FALSE"
	NIL   = "NIL"
)

// Token is produced once by the lexer and never mutated afterwards.
// Literal holds a float64 for NUMBER, the unquoted text for STRING and nil
// for everything else.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
}

var keywords = map[string]TokenType{
	"and":   AND,
	"or":    OR,
	"if":    IF,
	"else":  ELSE,
	"while": WHILE,
	"for":   FOR,
	"var":   VAR,
	"fun":   FUN,
	"print": PRINT,
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}
