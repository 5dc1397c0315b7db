package lexer

import (
	"errors"
	"strconv"
	"unicode"
	"unicode/utf8"

	"lox/internal/diag"
	"lox/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 at end of input
	line         int

	errors []diag.Diagnostic
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Tokenize scans src to completion. The returned slice always ends with an
// EOF token; any unexpected characters or unterminated strings are reported
// in the diagnostics and skipped.
func Tokenize(src string) ([]token.Token, []diag.Diagnostic) {
	l := New(src)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, l.Errors()
		}
	}
}

func (l *Lexer) Errors() []diag.Diagnostic {
	return l.errors
}

func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		start := l.position
		if l.atEnd() {
			return token.Token{Type: token.EOF, Line: l.line}
		}

		switch l.ch {
		case '(':
			return l.single(token.LEFT_PAREN, start)
		case ')':
			return l.single(token.RIGHT_PAREN, start)
		case '{':
			return l.single(token.LEFT_BRACE, start)
		case '}':
			return l.single(token.RIGHT_BRACE, start)
		case ',':
			return l.single(token.COMMA, start)
		case '.':
			return l.single(token.DOT, start)
		case '-':
			return l.single(token.MINUS, start)
		case '+':
			return l.single(token.PLUS, start)
		case ';':
			return l.single(token.SEMICOLON, start)
		case '*':
			return l.single(token.STAR, start)
		case '/':
			// comments were consumed by skipWhitespace
			return l.single(token.SLASH, start)
		case '!':
			return l.handleCompoundToken(token.BANG, '=', token.BANG_EQUAL, start)
		case '=':
			return l.handleCompoundToken(token.EQUAL, '=', token.EQUAL_EQUAL, start)
		case '<':
			return l.handleCompoundToken(token.LESS, '=', token.LESS_EQUAL, start)
		case '>':
			return l.handleCompoundToken(token.GREATER, '=', token.GREATER_EQUAL, start)
		case '"':
			if tok, ok := l.readString(start); ok {
				return tok
			}
			continue
		}

		switch {
		case isLetter(l.ch):
			l.readIdentifier()
			lexeme := l.input[start:l.position]
			return token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Line: l.line}
		case isDigit(l.ch):
			return l.readNumber(start)
		default:
			l.error("Unexpected character.")
			l.readChar()
		}
	}
}

func (l *Lexer) error(message string) {
	l.errors = append(l.errors, diag.Diagnostic{Line: l.line, Message: message})
}

func (l *Lexer) emit(t token.TokenType, start int, literal any) token.Token {
	return token.Token{Type: t, Lexeme: l.input[start:l.position], Literal: literal, Line: l.line}
}

func (l *Lexer) single(t token.TokenType, start int) token.Token {
	l.readChar()
	return l.emit(t, start, nil)
}

// handleCompoundToken consumes a second character only when it is ch1,
// otherwise the token degrades to its one-character form.
func (l *Lexer) handleCompoundToken(t token.TokenType, ch1 rune, t1 token.TokenType, start int) token.Token {
	l.readChar()
	if !l.atEnd() && l.ch == ch1 {
		l.readChar()
		return l.emit(t1, start, nil)
	}
	return l.emit(t, start, nil)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '\n':
			l.line++
			l.readChar()
		case '/':
			if l.peekChar() != '/' {
				return
			}
			l.skipToLineEnd()
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for !l.atEnd() && l.ch != '\n' {
		l.readChar()
	}
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) readIdentifier() {
	for !l.atEnd() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
}

// readNumber accepts digits with an optional fractional part; a trailing
// '.' not followed by a digit is left for the next token.
func (l *Lexer) readNumber(start int) token.Token {
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for !l.atEnd() && isDigit(l.ch) {
			l.readChar()
		}
	}
	// a digit run too long for float64 keeps the ±Inf ParseFloat returns
	value, err := strconv.ParseFloat(l.input[start:l.position], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		l.error("Invalid number literal.")
	}
	return l.emit(token.NUMBER, start, value)
}

// readString scans from the opening quote through the closing one. There
// are no escape sequences; newlines inside the string are counted.
func (l *Lexer) readString(start int) (token.Token, bool) {
	l.readChar() // consume the opening "
	for !l.atEnd() && l.ch != '"' {
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}
	if l.atEnd() {
		l.error("Unterminated string.")
		return token.Token{}, false
	}
	l.readChar() // consume the closing "
	value := l.input[start+1 : l.position-1]
	return l.emit(token.STRING, start, value), true
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
