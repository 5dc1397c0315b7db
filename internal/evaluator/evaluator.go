package evaluator

import (
	"fmt"
	"io"
	"log/slog"

	"lox/internal/ast"
	"lox/internal/object"
	"lox/internal/token"
)

// Evaluator walks statements and expressions. All faults come back as
// errors; a *object.RuntimeError unwinds the whole sequence passed to
// Execute.
type Evaluator struct {
	out      io.Writer
	envStack []*object.Environment
}

// New returns an evaluator that writes print output to out.
func New(out io.Writer) *Evaluator {
	return &Evaluator{out: out}
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		panic("Environment stack is empty")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("Attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

// Execute runs stmts in order against env and stops at the first fault.
func (e *Evaluator) Execute(stmts []ast.Statement, env *object.Environment) error {
	return e.executeBlock(stmts, env)
}

// Evaluate computes the value of a single expression against env.
func (e *Evaluator) Evaluate(expr ast.Expression, env *object.Environment) (object.Object, error) {
	e.PushEnv(env)
	defer e.PopEnv()
	return e.eval(expr)
}

// executeBlock makes env current for the duration of stmts and restores the
// previous environment on every exit path.
func (e *Evaluator) executeBlock(stmts []ast.Statement, env *object.Environment) error {
	e.PushEnv(env)
	defer e.PopEnv()

	for _, stmt := range stmts {
		if err := e.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execute(stmt ast.Statement) error {
	switch node := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := e.eval(node.Expression)
		return err

	case *ast.PrintStatement:
		val, err := e.eval(node.Expression)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(e.out, val.Inspect()); err != nil {
			return fmt.Errorf("print: %w", err)
		}
		return nil

	case *ast.VarStatement:
		if node.Initializer == nil {
			e.CurrentEnv().DeclarePending(node.Name.Lexeme)
			return nil
		}
		val, err := e.eval(node.Initializer)
		if err != nil {
			return err
		}
		e.CurrentEnv().Define(node.Name.Lexeme, val)
		return nil

	case *ast.BlockStatement:
		return e.executeBlock(node.Statements, object.NewEnclosedEnvironment(e.CurrentEnv()))

	case *ast.IfStatement:
		cond, err := e.eval(node.Condition)
		if err != nil {
			return err
		}
		if object.IsTruthy(cond) {
			return e.execute(node.ThenBranch)
		}
		if node.ElseBranch != nil {
			return e.execute(node.ElseBranch)
		}
		return nil

	case *ast.WhileStatement:
		for {
			cond, err := e.eval(node.Condition)
			if err != nil {
				return err
			}
			if !object.IsTruthy(cond) {
				return nil
			}
			if err := e.execute(node.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionStatement:
		fn := &object.Function{Declaration: node, Closure: e.CurrentEnv()}
		e.CurrentEnv().Define(node.Name.Lexeme, fn)
		return nil

	default:
		return fmt.Errorf("unknown statement type %T", stmt)
	}
}

func (e *Evaluator) eval(expr ast.Expression) (object.Object, error) {
	switch node := expr.(type) {
	case *ast.Literal:
		return literalToObject(node.Value), nil

	case *ast.Grouping:
		return e.eval(node.Expression)

	case *ast.Unary:
		right, err := e.eval(node.Right)
		if err != nil {
			return nil, err
		}
		return evalUnaryExpression(node.Operator, right)

	case *ast.Binary:
		left, err := e.eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.eval(node.Right)
		if err != nil {
			return nil, err
		}
		return evalBinaryExpression(node.Operator, left, right)

	case *ast.Logical:
		return e.evalLogicalExpression(node)

	case *ast.Variable:
		return e.CurrentEnv().Get(node.Name)

	case *ast.Assign:
		val, err := e.eval(node.Value)
		if err != nil {
			return nil, err
		}
		if err := e.CurrentEnv().Assign(node.Name, val); err != nil {
			return nil, err
		}
		return val, nil

	case *ast.Call:
		return e.evalCallExpression(node)

	default:
		return nil, fmt.Errorf("unknown expression type %T", expr)
	}
}

func literalToObject(value any) object.Object {
	switch v := value.(type) {
	case float64:
		return &object.Number{Value: v}
	case string:
		return &object.String{Value: v}
	case bool:
		return object.NativeBoolToBooleanObject(v)
	default:
		return object.NIL
	}
}

// evalLogicalExpression yields one of its operands' values, evaluating the
// right side only when the left does not decide the result.
func (e *Evaluator) evalLogicalExpression(node *ast.Logical) (object.Object, error) {
	left, err := e.eval(node.Left)
	if err != nil {
		return nil, err
	}
	if node.Operator.Type == token.OR {
		if object.IsTruthy(left) {
			return left, nil
		}
	} else if !object.IsTruthy(left) {
		return left, nil
	}
	return e.eval(node.Right)
}

func (e *Evaluator) evalCallExpression(node *ast.Call) (object.Object, error) {
	callee, err := e.eval(node.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Object, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		val, err := e.eval(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	fn, ok := callee.(object.Callable)
	if !ok {
		return nil, object.NewRuntimeError(object.NotCallable, node.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, object.NewRuntimeError(object.ArityMismatch, node.Paren,
			"Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return e.applyFunction(fn, args)
}

func (e *Evaluator) applyFunction(fn object.Callable, args []object.Object) (object.Object, error) {
	switch fn := fn.(type) {
	case *object.Builtin:
		slog.Debug("call builtin", slog.String("name", fn.Name))
		return fn.Fn(args)

	case *object.Function:
		slog.Debug("call function",
			slog.String("name", fn.Declaration.Name.Lexeme),
			slog.Int("arity", fn.Arity()))

		env := object.NewEnclosedEnvironment(fn.Closure)
		for i, param := range fn.Declaration.Params {
			env.Define(param.Lexeme, args[i])
		}
		if err := e.executeBlock(fn.Declaration.Body, env); err != nil {
			return nil, err
		}
		return object.NIL, nil

	default:
		return nil, fmt.Errorf("unknown callable type %T", fn)
	}
}
