package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"lox/internal/ast"
)

// WalkAST recursively traverses an AST and serializes it into a map structure.
// The same structure feeds both the JSON and the YAML renderers.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"expression": WalkAST(n.Expression),
		}

	case *ast.PrintStatement:
		return map[string]interface{}{
			"type":       "PrintStatement",
			"line":       n.Token.Line,
			"expression": WalkAST(n.Expression),
		}

	case *ast.VarStatement:
		return map[string]interface{}{
			"type":        "VarStatement",
			"line":        n.Name.Line,
			"name":        n.Name.Lexeme,
			"initializer": WalkAST(n.Initializer),
		}

	case *ast.BlockStatement:
		return map[string]interface{}{
			"type":       "BlockStatement",
			"statements": walkStatements(n.Statements),
		}

	case *ast.IfStatement:
		return map[string]interface{}{
			"type":       "IfStatement",
			"line":       n.Token.Line,
			"condition":  WalkAST(n.Condition),
			"thenBranch": WalkAST(n.ThenBranch),
			"elseBranch": WalkAST(n.ElseBranch),
		}

	case *ast.WhileStatement:
		return map[string]interface{}{
			"type":      "WhileStatement",
			"line":      n.Token.Line,
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
		}

	case *ast.FunctionStatement:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Lexeme
		}
		return map[string]interface{}{
			"type":       "FunctionStatement",
			"line":       n.Name.Line,
			"name":       n.Name.Lexeme,
			"parameters": params,
			"body":       walkStatements(n.Body),
		}

	case *ast.Literal:
		return map[string]interface{}{
			"type":  "Literal",
			"value": n.Value,
		}

	case *ast.Grouping:
		return map[string]interface{}{
			"type":       "Grouping",
			"expression": WalkAST(n.Expression),
		}

	case *ast.Unary:
		return map[string]interface{}{
			"type":     "Unary",
			"operator": n.Operator.Lexeme,
			"right":    WalkAST(n.Right),
		}

	case *ast.Binary:
		return map[string]interface{}{
			"type":     "Binary",
			"operator": n.Operator.Lexeme,
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.Logical:
		return map[string]interface{}{
			"type":     "Logical",
			"operator": n.Operator.Lexeme,
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.Variable:
		return map[string]interface{}{
			"type": "Variable",
			"name": n.Name.Lexeme,
		}

	case *ast.Assign:
		return map[string]interface{}{
			"type":  "Assign",
			"name":  n.Name.Lexeme,
			"value": WalkAST(n.Value),
		}

	case *ast.Call:
		args := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "Call",
			"line":      n.Paren.Line,
			"callee":    WalkAST(n.Callee),
			"arguments": args,
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func walkStatements(stmts []ast.Statement) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = WalkAST(s)
	}
	return result
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.String(), nil
}
