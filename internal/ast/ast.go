package ast

import (
	"bytes"
	"strconv"
	"strings"

	"lox/internal/token"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement and Expression are closed sets: only types in this package
// implement the marker methods.
type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

// Expressions

// Literal holds a float64, string, bool or nil.
type Literal struct {
	Token token.Token
	Value any
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return l.Token.Lexeme
	}
}

type Grouping struct {
	Token      token.Token // the '(' token
	Expression Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }
func (g *Grouping) String() string       { return "(group " + g.Expression.String() + ")" }

type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Operator.Lexeme }
func (u *Unary) String() string       { return "(" + u.Operator.Lexeme + u.Right.String() + ")" }

type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Operator.Lexeme }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator.Lexeme + " " + b.Right.String() + ")"
}

// Logical is kept apart from Binary because its right operand is evaluated
// conditionally.
type Logical struct {
	Left     Expression
	Operator token.Token // 'and' or 'or'
	Right    Expression
}

func (l *Logical) expressionNode()      {}
func (l *Logical) TokenLiteral() string { return l.Operator.Lexeme }
func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + l.Operator.Lexeme + " " + l.Right.String() + ")"
}

type Variable struct {
	Name token.Token
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Name.Lexeme }
func (v *Variable) String() string       { return v.Name.Lexeme }

type Assign struct {
	Name  token.Token
	Value Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) TokenLiteral() string { return a.Name.Lexeme }
func (a *Assign) String() string       { return "(" + a.Name.Lexeme + " = " + a.Value.String() + ")" }

type Call struct {
	Callee    Expression
	Paren     token.Token // the closing ')', used for error lines
	Arguments []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Paren.Lexeme }
func (c *Call) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// Statements

type ExpressionStatement struct {
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Expression.TokenLiteral() }
func (es *ExpressionStatement) String() string       { return es.Expression.String() + ";" }

type PrintStatement struct {
	Token      token.Token // the 'print' token
	Expression Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Lexeme }
func (ps *PrintStatement) String() string       { return "print " + ps.Expression.String() + ";" }

// VarStatement with a nil Initializer declares a pending name.
type VarStatement struct {
	Name        token.Token
	Initializer Expression
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Name.Lexeme }
func (vs *VarStatement) String() string {
	if vs.Initializer == nil {
		return "var " + vs.Name.Lexeme + ";"
	}
	return "var " + vs.Name.Lexeme + " = " + vs.Initializer.String() + ";"
}

type BlockStatement struct {
	Statements []Statement
}

func (bs *BlockStatement) statementNode() {}
func (bs *BlockStatement) TokenLiteral() string {
	if len(bs.Statements) > 0 {
		return bs.Statements[0].TokenLiteral()
	}
	return "{"
}
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

type IfStatement struct {
	Token      token.Token // the 'if' token
	Condition  Expression
	ThenBranch Statement
	ElseBranch Statement // optional
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.ThenBranch.String())
	if is.ElseBranch != nil {
		out.WriteString(" else ")
		out.WriteString(is.ElseBranch.String())
	}
	return out.String()
}

type WhileStatement struct {
	Token     token.Token // the 'while' or 'for' token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Lexeme }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

type FunctionStatement struct {
	Name   token.Token
	Params []token.Token
	Body   []Statement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Name.Lexeme }
func (fs *FunctionStatement) String() string {
	params := make([]string, len(fs.Params))
	for i, p := range fs.Params {
		params[i] = p.Lexeme
	}

	var out bytes.Buffer
	out.WriteString("fun ")
	out.WriteString(fs.Name.Lexeme)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString((&BlockStatement{Statements: fs.Body}).String())
	return out.String()
}
