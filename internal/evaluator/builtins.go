package evaluator

import (
	"time"

	"lox/internal/object"
)

// now is swapped out by tests.
var now = time.Now

var builtins = []*object.Builtin{
	fnClock(),
}

// Globals returns a fresh global environment holding the native functions.
// The host keeps it for the whole session.
func Globals() *object.Environment {
	env := object.NewEnvironment()
	for _, b := range builtins {
		env.Define(b.Name, b)
	}
	return env
}

// fnClock returns the wall clock in seconds since the Unix epoch.
func fnClock() *object.Builtin {
	return &object.Builtin{
		Name:       "clock",
		ParamCount: 0,
		Fn: func(args []object.Object) (object.Object, error) {
			return &object.Number{Value: float64(now().UnixMilli()) / 1000.0}, nil
		},
	}
}
