package object

import (
	"fmt"

	"lox/internal/token"
)

type FaultKind int

const (
	TypeMismatch FaultKind = iota
	DivisionByZero
	NilOperand
	UndefinedVariable
	NotCallable
	ArityMismatch
)

var faultNames = [...]string{
	"TypeMismatch",
	"DivisionByZero",
	"NilOperand",
	"UndefinedVariable",
	"NotCallable",
	"ArityMismatch",
}

func (k FaultKind) String() string {
	if int(k) < len(faultNames) {
		return faultNames[k]
	}
	return fmt.Sprintf("FaultKind(%d)", int(k))
}

// RuntimeError is raised during evaluation. It unwinds the whole statement
// sequence being executed; Token supplies the line for reporting.
type RuntimeError struct {
	Kind    FaultKind
	Token   token.Token
	Message string
}

func NewRuntimeError(kind FaultKind, tok token.Token, format string, a ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Token: tok, Message: fmt.Sprintf(format, a...)}
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Report renders the fault the way it is shown to a user.
func (e *RuntimeError) Report() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}
