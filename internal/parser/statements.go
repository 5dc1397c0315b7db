package parser

import (
	"lox/internal/ast"
	"lox/internal/token"
)

// declaration → varDecl | funDecl | statement ;
//
// This is the recovery point: a fault anywhere below is reported once and
// the parser skips ahead to the next statement boundary.
func (p *Parser) declaration() ast.Statement {
	var (
		stmt ast.Statement
		err  error
	)
	switch {
	case p.match(token.VAR):
		stmt, err = p.varDeclaration()
	case p.match(token.FUN):
		stmt, err = p.function("function")
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

// varDecl → "var" IDENTIFIER ( "=" expression )? ";" ;
func (p *Parser) varDeclaration() (ast.Statement, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if p.match(token.EQUAL) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.VarStatement{Name: name, Initializer: initializer}, nil
}

// funDecl  → "fun" IDENTIFIER "(" parameters? ")" block ;
// parameters → IDENTIFIER ( "," IDENTIFIER )* ;
func (p *Parser) function(kind string) (ast.Statement, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(token.IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStatement{Name: name, Params: params, Body: body}, nil
}

// statement → printStmt | ifStmt | whileStmt | forStmt | block | exprStmt ;
func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.LEFT_BRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStatement{Statements: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

// printStmt → "print" expression ";" ;
func (p *Parser) printStatement() (ast.Statement, error) {
	keyword := p.previous()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.PrintStatement{Token: keyword, Expression: value}, nil
}

// ifStmt → "if" "(" expression ")" statement ( "else" statement )? ;
func (p *Parser) ifStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{
		Token:      keyword,
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
	}, nil
}

// whileStmt → "while" "(" expression ")" statement ;
func (p *Parser) whileStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after while condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Token: keyword, Condition: condition, Body: body}, nil
}

// forStmt → "for" "(" ( varDecl | exprStmt | ";" ) expression? ";" expression? ")" statement ;
//
// There is no for node. The loop becomes
//
//	{ initializer; while (condition) { body; increment; } }
//
// with a missing condition read as the literal true.
func (p *Parser) forStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var (
		initializer ast.Statement
		err         error
	)
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expression
	if !p.check(token.SEMICOLON) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &ast.BlockStatement{Statements: []ast.Statement{
			body,
			&ast.ExpressionStatement{Expression: increment},
		}}
	}
	if condition == nil {
		condition = &ast.Literal{Token: keyword, Value: true}
	}
	body = &ast.WhileStatement{Token: keyword, Condition: condition, Body: body}
	if initializer != nil {
		body = &ast.BlockStatement{Statements: []ast.Statement{initializer, body}}
	}
	return body, nil
}

// exprStmt → expression ";" ;
func (p *Parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Expression: expr}, nil
}

// block → "{" declaration* "}" ;
//
// Faults inside the block are recovered by declaration, so a block only
// fails when its closing brace is missing.
func (p *Parser) block() ([]ast.Statement, error) {
	var statements []ast.Statement
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}
