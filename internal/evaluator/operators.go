package evaluator

import (
	"fmt"

	"lox/internal/object"
	"lox/internal/token"
)

func evalUnaryExpression(op token.Token, right object.Object) (object.Object, error) {
	switch op.Type {
	case token.BANG:
		return object.NativeBoolToBooleanObject(!object.IsTruthy(right)), nil
	case token.MINUS:
		n, ok := right.(*object.Number)
		if !ok {
			return nil, object.NewRuntimeError(object.TypeMismatch, op, "Operand must be a number.")
		}
		return &object.Number{Value: -n.Value}, nil
	default:
		return nil, fmt.Errorf("unknown unary operator %s", op.Lexeme)
	}
}

func evalBinaryExpression(op token.Token, left, right object.Object) (object.Object, error) {
	switch op.Type {
	case token.EQUAL_EQUAL:
		return object.NativeBoolToBooleanObject(object.Equal(left, right)), nil
	case token.BANG_EQUAL:
		return object.NativeBoolToBooleanObject(!object.Equal(left, right)), nil
	case token.PLUS:
		return evalPlus(op, left, right)
	}

	l, r, err := numberOperands(op, left, right)
	if err != nil {
		return nil, err
	}

	switch op.Type {
	case token.MINUS:
		return &object.Number{Value: l - r}, nil
	case token.STAR:
		return &object.Number{Value: l * r}, nil
	case token.SLASH:
		if r == 0 {
			return nil, object.NewRuntimeError(object.DivisionByZero, op, "Divisor cannot be 0.")
		}
		return &object.Number{Value: l / r}, nil
	case token.GREATER:
		return object.NativeBoolToBooleanObject(l > r), nil
	case token.GREATER_EQUAL:
		return object.NativeBoolToBooleanObject(l >= r), nil
	case token.LESS:
		return object.NativeBoolToBooleanObject(l < r), nil
	case token.LESS_EQUAL:
		return object.NativeBoolToBooleanObject(l <= r), nil
	default:
		return nil, fmt.Errorf("unknown binary operator %s", op.Lexeme)
	}
}

// evalPlus adds two numbers, or concatenates when either side is a string.
// Nil on either side is its own fault and is checked first.
func evalPlus(op token.Token, left, right object.Object) (object.Object, error) {
	_, leftNil := left.(*object.Nil)
	_, rightNil := right.(*object.Nil)
	if leftNil || rightNil {
		return nil, object.NewRuntimeError(object.NilOperand, op, "Operands must not be nil.")
	}

	ln, lok := left.(*object.Number)
	rn, rok := right.(*object.Number)
	if lok && rok {
		return &object.Number{Value: ln.Value + rn.Value}, nil
	}

	_, ls := left.(*object.String)
	_, rs := right.(*object.String)
	if ls || rs {
		return &object.String{Value: left.Inspect() + right.Inspect()}, nil
	}
	return nil, object.NewRuntimeError(object.TypeMismatch, op, "At least one operand must be a string.")
}

func numberOperands(op token.Token, left, right object.Object) (float64, float64, error) {
	l, lok := left.(*object.Number)
	r, rok := right.(*object.Number)
	if !lok || !rok {
		return 0, 0, object.NewRuntimeError(object.TypeMismatch, op, "Operands must be numbers.")
	}
	return l.Value, r.Value, nil
}
