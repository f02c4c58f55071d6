package lang

import (
	"fmt"
	"strconv"

	"github.com/aretw0/tendril/pkg/domain"
)

// AST nodes. Expressions implement exprNode, statements stmtNode.

type exprNode interface{ exprPos() (int, int) }

type litExpr struct {
	val  Value
	line int
	col  int
}

type identExpr struct {
	name string
	line int
	col  int
}

type unaryExpr struct {
	op   tokenType
	x    exprNode
	line int
	col  int
}

type binaryExpr struct {
	op  tokenType
	lhs exprNode
	rhs exprNode
}

type callExpr struct {
	fn   string
	args []exprNode
	line int
	col  int
}

type listExpr struct {
	elems []exprNode
	line  int
	col   int
}

func (e *litExpr) exprPos() (int, int)   { return e.line, e.col }
func (e *identExpr) exprPos() (int, int) { return e.line, e.col }
func (e *unaryExpr) exprPos() (int, int) { return e.line, e.col }
func (e *binaryExpr) exprPos() (int, int) {
	return e.lhs.exprPos()
}
func (e *callExpr) exprPos() (int, int) { return e.line, e.col }
func (e *listExpr) exprPos() (int, int) { return e.line, e.col }

type stmtNode interface{}

type exprStmt struct{ x exprNode }

type assignStmt struct {
	name string
	x    exprNode
}

type delStmt struct {
	name string
	line int
	col  int
}

type printStmt struct{ args []exprNode }

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.typ != tkEOF {
		p.i++
	}
	return t
}

func (p *parser) match(typ tokenType) bool {
	if p.peek().typ == typ {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(typ tokenType, what string) (token, error) {
	t := p.peek()
	if t.typ != typ {
		return t, syntaxErrf(t.line, t.col, "expected %s, found %q", what, t.text)
	}
	return p.next(), nil
}

func (p *parser) skipNewlines() {
	for p.peek().typ == tkNewline {
		p.next()
	}
}

// ParseExpression parses src as exactly one standalone expression. Any other
// shape of input (statements, trailing tokens, malformed text) is reported as
// domain.ErrNotExpression so callers can fall through to statement execution.
func ParseExpression(src string) (exprNode, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotExpression, err)
	}
	p := &parser{toks: toks}
	p.skipNewlines()
	expr, err := p.expression()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotExpression, err)
	}
	p.skipNewlines()
	if t := p.peek(); t.typ != tkEOF {
		return nil, fmt.Errorf("%w: trailing input at line %d", domain.ErrNotExpression, t.line)
	}
	return expr, nil
}

// ParseProgram parses src as a statement sequence separated by newlines or
// semicolons. Unlike ParseExpression, failures here are genuine syntax errors.
func ParseProgram(src string) ([]stmtNode, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var stmts []stmtNode
	for {
		p.skipNewlines()
		if p.peek().typ == tkEOF {
			return stmts, nil
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
		if t := p.peek(); t.typ != tkNewline && t.typ != tkEOF {
			return nil, syntaxErrf(t.line, t.col, "unexpected %q after statement", t.text)
		}
	}
}

func (p *parser) statement() (stmtNode, error) {
	switch p.peek().typ {
	case tkDel:
		t := p.next()
		name, err := p.expect(tkIdent, "identifier after del")
		if err != nil {
			return nil, err
		}
		return &delStmt{name: name.text, line: t.line, col: t.col}, nil
	case tkPrint:
		p.next()
		var args []exprNode
		if t := p.peek(); t.typ != tkNewline && t.typ != tkEOF {
			for {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(tkComma) {
					break
				}
			}
		}
		return &printStmt{args: args}, nil
	case tkIdent:
		// Assignment needs two tokens of lookahead: `name =` but not `name ==`.
		if p.toks[p.i+1].typ == tkAssign {
			name := p.next()
			p.next() // '='
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &assignStmt{name: name.text, x: x}, nil
		}
	}
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &exprStmt{x: x}, nil
}

// Binding powers, loosest first.
func bindingPower(typ tokenType) (int, bool) {
	switch typ {
	case tkOr:
		return 1, true
	case tkAnd:
		return 2, true
	case tkEq, tkNeq:
		return 3, true
	case tkLt, tkLte, tkGt, tkGte:
		return 4, true
	case tkPlus, tkMinus:
		return 5, true
	case tkStar, tkSlash, tkPercent:
		return 6, true
	}
	return 0, false
}

func (p *parser) expression() (exprNode, error) {
	return p.binary(0)
}

func (p *parser) binary(minBP int) (exprNode, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		bp, ok := bindingPower(p.peek().typ)
		if !ok || bp <= minBP {
			return lhs, nil
		}
		op := p.next()
		rhs, err := p.binary(bp)
		if err != nil {
			return nil, err
		}
		lhs = &binaryExpr{op: op.typ, lhs: lhs, rhs: rhs}
	}
}

func (p *parser) unary() (exprNode, error) {
	t := p.peek()
	if t.typ == tkMinus || t.typ == tkNot {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: t.typ, x: x, line: t.line, col: t.col}, nil
	}
	return p.primary()
}

func (p *parser) primary() (exprNode, error) {
	t := p.next()
	switch t.typ {
	case tkInt:
		n, _ := strconv.ParseInt(t.text, 10, 64)
		return &litExpr{val: n, line: t.line, col: t.col}, nil
	case tkFloat:
		f, _ := strconv.ParseFloat(t.text, 64)
		return &litExpr{val: f, line: t.line, col: t.col}, nil
	case tkString:
		return &litExpr{val: t.text, line: t.line, col: t.col}, nil
	case tkTrue:
		return &litExpr{val: true, line: t.line, col: t.col}, nil
	case tkFalse:
		return &litExpr{val: false, line: t.line, col: t.col}, nil
	case tkNil:
		return &litExpr{val: nil, line: t.line, col: t.col}, nil
	case tkIdent:
		if p.peek().typ == tkLParen {
			p.next()
			var args []exprNode
			if p.peek().typ != tkRParen {
				for {
					arg, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(tkComma) {
						break
					}
				}
			}
			if _, err := p.expect(tkRParen, ")"); err != nil {
				return nil, err
			}
			return &callExpr{fn: t.text, args: args, line: t.line, col: t.col}, nil
		}
		return &identExpr{name: t.text, line: t.line, col: t.col}, nil
	case tkLParen:
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tkRParen, ")"); err != nil {
			return nil, err
		}
		return x, nil
	case tkLBracket:
		elems := []exprNode{}
		if p.peek().typ != tkRBracket {
			for {
				el, err := p.expression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
				if !p.match(tkComma) {
					break
				}
			}
		}
		if _, err := p.expect(tkRBracket, "]"); err != nil {
			return nil, err
		}
		return &listExpr{elems: elems, line: t.line, col: t.col}, nil
	default:
		return nil, syntaxErrf(t.line, t.col, "unexpected %q", t.text)
	}
}
