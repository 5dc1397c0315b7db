package parser

import (
	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/token"
)

// maxArgs caps both call arguments and function parameters.
const maxArgs = 255

// Error is a syntax fault. It has already been recorded in the parser's
// diagnostics by the time it is returned.
type Error struct {
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return diag.At(e.Token, e.Message).String()
}

type Parser struct {
	tokens  []token.Token
	current int
	errors  []diag.Diagnostic
}

// New expects tokens to end with an EOF token, as produced by the lexer.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Line: line})
	}
	return &Parser{tokens: tokens}
}

// Parse runs program mode over tokens.
func Parse(tokens []token.Token) ([]ast.Statement, []diag.Diagnostic) {
	p := New(tokens)
	stmts := p.Parse()
	return stmts, p.Errors()
}

// ParseExpression runs single-expression mode over tokens. The expression
// is nil when a syntax fault occurred.
func ParseExpression(tokens []token.Token) (ast.Expression, []diag.Diagnostic) {
	p := New(tokens)
	expr := p.ParseExpression()
	return expr, p.Errors()
}

func (p *Parser) Errors() []diag.Diagnostic {
	return p.errors
}

// Parse parses declarations until EOF. Broken declarations are reported,
// skipped through synchronization and left out of the result.
//
//	program → declaration* EOF ;
func (p *Parser) Parse() []ast.Statement {
	var statements []ast.Statement
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// ParseExpression parses one expression. Trailing tokens after the
// expression are reported.
func (p *Parser) ParseExpression() ast.Expression {
	expr, err := p.expression()
	if err != nil {
		return nil
	}
	if !p.isAtEnd() {
		p.error(p.peek(), "Expect end of expression.")
		return nil
	}
	return expr
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.TokenType, message string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.error(p.peek(), message)
}

func (p *Parser) check(t token.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

// error records a diagnostic at tok and returns the fault for callers that
// need to unwind. Callers that can keep going simply drop the result.
func (p *Parser) error(tok token.Token, message string) *Error {
	p.errors = append(p.errors, diag.At(tok, message))
	return &Error{Token: tok, Message: message}
}

// synchronize discards tokens until a likely statement boundary: just past
// a ';' or just before a keyword that starts a declaration or statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT:
			return
		}
		// "class" and "return" are boundaries too, but they are not
		// reserved words here and always lex as identifiers.
		if p.peek().Type == token.IDENTIFIER && (p.peek().Lexeme == "class" || p.peek().Lexeme == "return") {
			return
		}
		p.advance()
	}
}
