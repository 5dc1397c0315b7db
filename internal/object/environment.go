package object

import (
	"log/slog"
	"sync/atomic"

	"lox/internal/token"
)

var nextID atomic.Uint64

// Environment is one scope frame. A name is either bound (in bindings),
// pending (declared with no initializer and never assigned) or unknown to
// this frame.
type Environment struct {
	ID       uint64
	bindings map[string]Object
	pending  map[string]struct{}
	Outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextID.Add(1),
		bindings: make(map[string]Object),
		pending:  make(map[string]struct{}),
	}
}

// NewEnclosedEnvironment creates a child frame of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("new env", slog.Uint64("id", env.ID), slog.Uint64("outer", outer.ID))
	return env
}

// Get walks outward from this frame. Pending names are not readable.
func (e *Environment) Get(name token.Token) (Object, error) {
	for env := e; env != nil; env = env.Outer {
		if val, ok := env.bindings[name.Lexeme]; ok {
			return val, nil
		}
	}
	return nil, undefined(name)
}

// Assign checks bound-in-this-frame, then pending-in-this-frame, and only
// then the enclosing frame. The first assignment to a pending name binds it
// in the frame that declared it.
func (e *Environment) Assign(name token.Token, val Object) error {
	if _, ok := e.bindings[name.Lexeme]; ok {
		e.bindings[name.Lexeme] = val
		return nil
	}
	if _, ok := e.pending[name.Lexeme]; ok {
		delete(e.pending, name.Lexeme)
		e.bindings[name.Lexeme] = val
		return nil
	}
	if e.Outer != nil {
		return e.Outer.Assign(name, val)
	}
	return undefined(name)
}

// Define binds name in this frame, replacing any previous binding.
func (e *Environment) Define(name string, val Object) {
	delete(e.pending, name)
	e.bindings[name] = val
}

// DeclarePending records name as declared but unassigned in this frame. It
// leaves an existing local binding untouched.
func (e *Environment) DeclarePending(name string) {
	e.pending[name] = struct{}{}
}

// IsPending reports whether name is declared but unassigned in this frame.
func (e *Environment) IsPending(name string) bool {
	_, ok := e.pending[name]
	return ok
}

func undefined(name token.Token) *RuntimeError {
	return NewRuntimeError(UndefinedVariable, name, "Undefined variable '%s'.", name.Lexeme)
}
