package parser

import (
	"fmt"
	"reflect"
	"strings"

	"lox/internal/ast"
)

// RenderASTAsText produces a human-centric, indented representation of the AST.
// Expressions print fully parenthesized so precedence is visible, and the
// desugared form of for loops shows up as plain blocks and whiles.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case *ast.VarStatement:
		if n.Initializer == nil {
			return fmt.Sprintf("%svar %s", sp, n.Name.Lexeme)
		}
		return fmt.Sprintf("%svar %s = %s", sp, n.Name.Lexeme, n.Initializer.String())

	case *ast.PrintStatement:
		return fmt.Sprintf("%sprint %s", sp, n.Expression.String())

	case *ast.ExpressionStatement:
		return sp + n.Expression.String()

	case *ast.BlockStatement:
		return sp + renderBlock(n.Statements, indent)

	case *ast.IfStatement:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%sif %s\n", sp, n.Condition.String()))
		sb.WriteString(RenderASTAsText(n.ThenBranch, indent+1))
		if n.ElseBranch != nil {
			sb.WriteString(fmt.Sprintf("\n%selse\n", sp))
			sb.WriteString(RenderASTAsText(n.ElseBranch, indent+1))
		}
		return sb.String()

	case *ast.WhileStatement:
		return fmt.Sprintf("%swhile %s\n%s", sp, n.Condition.String(), RenderASTAsText(n.Body, indent+1))

	case *ast.FunctionStatement:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Lexeme
		}
		return fmt.Sprintf("%sfun %s(%s) %s", sp, n.Name.Lexeme, strings.Join(params, ", "), renderBlock(n.Body, indent))

	case ast.Expression:
		return sp + n.String()

	default:
		return fmt.Sprintf("%s<unknown %T>", sp, n)
	}
}

func renderBlock(stmts []ast.Statement, indent int) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range stmts {
		sb.WriteString(RenderASTAsText(s, indent+1))
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("  ", indent) + "}")
	return sb.String()
}

// RenderAST renders node in one of the -debug-ast formats: json, yaml or
// text.
func RenderAST(format string, node ast.Node) (string, error) {
	switch format {
	case "json":
		return RenderASTAsJSON(node)
	case "yaml":
		return RenderASTAsYAML(node)
	case "text":
		return RenderASTAsText(node, 0), nil
	default:
		return "", fmt.Errorf("unknown AST format %q", format)
	}
}
