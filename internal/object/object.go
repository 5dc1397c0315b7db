package object

import (
	"math"
	"strconv"
	"strings"

	"lox/internal/ast"
)

const (
	NIL_OBJ      = "NIL"
	BOOLEAN_OBJ  = "BOOLEAN"
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return FormatNumber(n.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// Callable is implemented by both native builtins and user functions. The
// evaluator owns invocation; Arity is checked before either kind runs.
type Callable interface {
	Object
	Arity() int
}

type BuiltinFunction func(args []Object) (Object, error)

// Builtin is a host-supplied function with a fixed arity and no AST body.
type Builtin struct {
	Name       string
	ParamCount int
	Fn         BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<native fn>" }
func (b *Builtin) Arity() int       { return b.ParamCount }

// Function is a user-defined callable. Closure is the environment that was
// current when the declaration executed, not the one at the call site.
type Function struct {
	Declaration *ast.FunctionStatement
	Closure     *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn " + f.Declaration.Name.Lexeme + ">" }
func (f *Function) Arity() int       { return len(f.Declaration.Params) }

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// FormatNumber prints plain decimals for magnitudes in [1e-3, 1e7) and
// "1.5E22" style outside that range. Integral decimals carry no ".0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	text := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(text, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}

// IsTruthy treats nil and false as falsey and everything else, including 0
// and the empty string, as truthy.
func IsTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return obj.Value
	default:
		return obj != nil
	}
}

// Equal compares by value for numbers, strings and booleans; nil only equals
// nil, callables compare by identity and different types are never equal.
// Numbers compare by bit pattern, so -0 != 0 and NaN == NaN.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Number:
		bn, ok := b.(*Number)
		return ok && sameNumber(a.Value, bn.Value)
	case *String:
		bs, ok := b.(*String)
		return ok && a.Value == bs.Value
	case *Boolean:
		bb, ok := b.(*Boolean)
		return ok && a.Value == bb.Value
	default:
		return a == b
	}
}

func sameNumber(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Float64bits(a) == math.Float64bits(b)
}
