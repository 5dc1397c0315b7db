package parser

import (
	"strings"
	"testing"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/lexer"
)

func parse(t *testing.T, input string) ([]ast.Statement, []diag.Diagnostic) {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(input)
	if len(lexErrs) != 0 {
		t.Fatalf("lexer diagnostics: %v", lexErrs)
	}
	return Parse(tokens)
}

func parseOK(t *testing.T, input string) []ast.Statement {
	t.Helper()
	stmts, errs := parse(t, input)
	if len(errs) != 0 {
		t.Errorf("parser produced %d error(s):", len(errs))
		for _, e := range errs {
			t.Errorf("  %s", e)
		}
		t.FailNow()
	}
	return stmts
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3));"},
		{"1 - 2 - 3;", "((1 - 2) - 3);"},
		{"8 / 4 / 2;", "((8 / 4) / 2);"},
		{"(1 + 2) * 3;", "((group (1 + 2)) * 3);"},
		{"-1 * -2;", "((-1) * (-2));"},
		{"!!true;", "(!(!true));"},
		{"1 < 2 == 3 >= 4;", "((1 < 2) == (3 >= 4));"},
		{"a or b and c;", "(a or (b and c));"},
		{"a and b == c;", "(a and (b == c));"},
		{"a = b = 1;", "(a = (b = 1));"},
		{"a = 1 + 2;", "(a = (1 + 2));"},
		{"f(1)(2, 3);", "f(1)(2, 3);"},
		{"-f();", "(-f());"},
		{`"a" + nil;`, `("a" + nil);`},
	}

	for _, tt := range tests {
		stmts := parseOK(t, tt.input)
		if len(stmts) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(stmts))
		}
		if got := stmts[0].String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestMultiplicationHasNoGroupingNode(t *testing.T) {
	stmts := parseOK(t, "1 + 2 * 3;")
	bin, ok := stmts[0].(*ast.ExpressionStatement).Expression.(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary, got %T", stmts[0].(*ast.ExpressionStatement).Expression)
	}
	if bin.Operator.Lexeme != "+" {
		t.Fatalf("root operator = %q, want +", bin.Operator.Lexeme)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("right operand should be a Binary, got %T", bin.Right)
	}
}

func TestStatements(t *testing.T) {
	stmts := parseOK(t, `
var a;
var b = 2;
print a;
{ var c = 3; }
if (a) print 1; else print 2;
while (a) a = a - 1;
fun add(x, y) { print x + y; }
`)
	want := []string{
		"var a;",
		"var b = 2;",
		"print a;",
		"{ var c = 3; }",
		"if (a) print 1; else print 2;",
		"while (a) (a = (a - 1));",
		"fun add(x, y) { print (x + y); }",
	}
	if len(stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(stmts))
	}
	for i, w := range want {
		if got := stmts[i].String(); got != w {
			t.Errorf("stmts[%d] = %q, want %q", i, got, w)
		}
	}

	fn := stmts[6].(*ast.FunctionStatement)
	if len(fn.Params) != 2 || fn.Params[1].Lexeme != "y" {
		t.Errorf("unexpected params: %v", fn.Params)
	}
}

func TestForIsDesugared(t *testing.T) {
	stmts := parseOK(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}

	outer, ok := stmts[0].(*ast.BlockStatement)
	if !ok || len(outer.Statements) != 2 {
		t.Fatalf("expected a two-statement block, got %s", stmts[0])
	}
	if _, ok := outer.Statements[0].(*ast.VarStatement); !ok {
		t.Fatalf("first statement should be the initializer, got %T", outer.Statements[0])
	}
	loop, ok := outer.Statements[1].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("second statement should be a while, got %T", outer.Statements[1])
	}
	body, ok := loop.Body.(*ast.BlockStatement)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("loop body should be [body, increment], got %s", loop.Body)
	}
	if body.Statements[0].String() != "print i;" || body.Statements[1].String() != "(i = (i + 1));" {
		t.Errorf("loop body in wrong order: %s", body)
	}
}

func TestForWithoutClauses(t *testing.T) {
	stmts := parseOK(t, "for (;;) print 1;")
	loop, ok := stmts[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected a bare while, got %T", stmts[0])
	}
	lit, ok := loop.Condition.(*ast.Literal)
	if !ok || lit.Value != true {
		t.Fatalf("missing condition should be literal true, got %s", loop.Condition)
	}
	if _, ok := loop.Body.(*ast.PrintStatement); !ok {
		t.Fatalf("body without increment should be left alone, got %T", loop.Body)
	}
}

func TestForWithExpressionInitializer(t *testing.T) {
	stmts := parseOK(t, "for (i = 0; i < 1;) print i;")
	if got := stmts[0].String(); got != "{ (i = 0); while ((i < 1)) print i; }" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print 1", "[line 1] Error at end: Expect ';' after value."},
		{"var 1 = 2;", "[line 1] Error at '1': Expect variable name."},
		{"1 = 2;", "[line 1] Error at '=': Invalid assignment target."},
		{"(1 + 2;", "[line 1] Error at ';': Expect ')' after expression."},
		{"\n\n+;", "[line 3] Error at '+': Expect expression."},
		{"if 1) print 1;", "[line 1] Error at '1': Expect '(' after 'if'."},
		{"{ print 1;", "[line 1] Error at end: Expect '}' after block."},
		{"fun (a) {}", "[line 1] Error at '(': Expect function name."},
		{"fun f(a b) {}", "[line 1] Error at 'b': Expect ')' after parameters."},
		{"f(1;", "[line 1] Error at ';': Expect ')' after arguments."},
	}

	for _, tt := range tests {
		_, errs := parse(t, tt.input)
		if len(errs) != 1 {
			t.Errorf("%q: expected 1 error, got %v", tt.input, errs)
			continue
		}
		if got := errs[0].String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestInvalidAssignmentTargetDoesNotUnwind(t *testing.T) {
	stmts, errs := parse(t, "a + b = c; print 1;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if len(stmts) != 2 {
		t.Fatalf("both statements should survive, got %d", len(stmts))
	}
}

func TestSynchronization(t *testing.T) {
	stmts, errs := parse(t, `
var = 1;
print "kept";
var x = ;
print "also kept";
1 + * 2 print "after keyword";
`)
	if len(errs) != 3 {
		t.Fatalf("expected one error per broken statement, got %v", errs)
	}
	want := []string{`print "kept";`, `print "also kept";`, `print "after keyword";`}
	if len(stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(stmts))
	}
	for i, w := range want {
		if stmts[i].String() != w {
			t.Errorf("stmts[%d] = %q, want %q", i, stmts[i], w)
		}
	}
}

func TestSynchronizationStopsAtClassAndReturn(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"var = 1 return; print 2;", []string{"return;", "print 2;"}},
		{"var = 1 class; print 2;", []string{"class;", "print 2;"}},
		{"var = 1 other; print 2;", []string{"print 2;"}},
	}
	for _, tt := range tests {
		stmts, errs := parse(t, tt.input)
		if len(errs) != 1 {
			t.Errorf("%q: expected 1 error, got %v", tt.input, errs)
			continue
		}
		if len(stmts) != len(tt.expected) {
			t.Errorf("%q: expected %d statements, got %v", tt.input, len(tt.expected), stmts)
			continue
		}
		for i, w := range tt.expected {
			if stmts[i].String() != w {
				t.Errorf("%q: stmts[%d] = %q, want %q", tt.input, i, stmts[i], w)
			}
		}
	}
}

func TestSynchronizationInsideBlock(t *testing.T) {
	stmts, errs := parse(t, "{ var = 1; print 2; } print 3;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if len(stmts) != 2 || stmts[0].String() != "{ print 2; }" {
		t.Fatalf("unexpected statements: %v", stmts)
	}
}

func TestTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	stmts, errs := parse(t, "f("+strings.Join(args, ", ")+"); print 2;")
	if len(errs) != 1 || errs[0].Message != "Can't have more than 255 arguments." {
		t.Fatalf("diagnostics = %v", errs)
	}
	if len(stmts) != 2 {
		t.Fatalf("parse should continue, got %d statements", len(stmts))
	}
	if call := stmts[0].(*ast.ExpressionStatement).Expression.(*ast.Call); len(call.Arguments) != 256 {
		t.Fatalf("expected 256 arguments, got %d", len(call.Arguments))
	}
}

func TestTooManyParameters(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = "p" + strings.Repeat("x", i)
	}
	stmts, errs := parse(t, "fun f("+strings.Join(params, ", ")+") {}")
	if len(errs) != 1 || errs[0].Message != "Can't have more than 255 parameters." {
		t.Fatalf("diagnostics = %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the function to survive, got %d statements", len(stmts))
	}
}

func TestParseExpression(t *testing.T) {
	tokens, _ := lexer.Tokenize("1 + 2 * x")
	expr, errs := ParseExpression(tokens)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if expr.String() != "(1 + (2 * x))" {
		t.Fatalf("got %q", expr)
	}

	tokens, _ = lexer.Tokenize("1 +")
	expr, errs = ParseExpression(tokens)
	if expr != nil || len(errs) != 1 {
		t.Fatalf("expected a nil expression and one error, got %v %v", expr, errs)
	}

	tokens, _ = lexer.Tokenize("1 2")
	if expr, errs = ParseExpression(tokens); expr != nil || len(errs) != 1 {
		t.Fatalf("trailing tokens should be reported, got %v %v", expr, errs)
	}
}

func TestNewAppendsMissingEOF(t *testing.T) {
	p := New(nil)
	if stmts := p.Parse(); len(stmts) != 0 || len(p.Errors()) != 0 {
		t.Fatalf("empty input should parse cleanly, got %v %v", stmts, p.Errors())
	}
}

func TestRenderAST(t *testing.T) {
	stmts := parseOK(t, "var a = 1 + 2; for (;;) print a;")
	program := &ast.Program{Statements: stmts}

	js, err := RenderASTAsJSON(program)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"type": "Program"`, `"type": "Binary"`, `"operator": "+"`, `"type": "WhileStatement"`} {
		if !strings.Contains(js, want) {
			t.Errorf("JSON missing %s:\n%s", want, js)
		}
	}

	yml, err := RenderASTAsYAML(program)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"type: Program", "type: VarStatement", "name: a"} {
		if !strings.Contains(yml, want) {
			t.Errorf("YAML missing %s:\n%s", want, yml)
		}
	}

	text := RenderASTAsText(program, 0)
	expected := "var a = (1 + 2)\nwhile true\n  print a"
	if text != expected {
		t.Errorf("text render:\n%s\nwant:\n%s", text, expected)
	}
}

func TestRenderASTFormats(t *testing.T) {
	program := &ast.Program{Statements: parseOK(t, "print 1;")}
	for _, format := range []string{"json", "yaml", "text"} {
		out, err := RenderAST(format, program)
		if err != nil || out == "" {
			t.Errorf("%s: got %q, %v", format, out, err)
		}
	}
	if _, err := RenderAST("xml", program); err == nil {
		t.Error("unknown format should fail")
	}
}
