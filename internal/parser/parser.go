// Package parser implements a hand-written recursive-descent parser over
// the precedence cascade of spec.md §4.2, building the typed AST of
// internal/ast. Each precedence level gets its own routine, the way a
// Pratt parser separates prefix/infix handling by level; here the levels
// are explicit functions rather than a single climbing loop, because the
// grammar's levels are fixed and small.
package parser

import (
	"fmt"
	"strings"

	"github.com/cwbudde/bindexpr/internal/ast"
	"github.com/cwbudde/bindexpr/internal/bexprerrors"
	"github.com/cwbudde/bindexpr/internal/lexer"
	"github.com/cwbudde/bindexpr/internal/token"
)

// Parser consumes a pre-scanned token stream and builds an *ast.Program.
// Failures surface a single fatal, non-retryable error (a
// *bexprerrors.ParseError, or a *bexprerrors.CompileError for an invalid
// assignment target); no partial program is ever returned alongside an error.
type Parser struct {
	source   string
	tokens   []token.Token
	pos      int
	registry ast.StatefulChecker // optional; nil means "treat filters as stateful"
}

// New creates a Parser over already-scanned tokens. registry may be nil.
func New(source string, tokens []token.Token, registry ast.StatefulChecker) *Parser {
	return &Parser{source: source, tokens: tokens, registry: registry}
}

// Parse lexes and parses source in one step.
func Parse(source string, registry ast.StatefulChecker) (*ast.Program, error) {
	l := lexer.New(source)
	tokens, err := l.All()
	if err != nil {
		return nil, err
	}
	return New(source, tokens, registry).ParseProgram()
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt token.Type) bool { return p.cur().Type == tt }

func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if !p.at(tt) {
		return token.Token{}, p.errorf("expected %s, found %s", tt, p.cur().Type)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return bexprerrors.NewParseError(p.source, fmt.Sprintf(format, args...), p.cur().Pos)
}

// ParseProgram parses `filter (';' filter)* ';'?`.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	if p.at(token.EOF) {
		return prog, nil
	}
	for {
		stmt, err := p.parseFilterStatement()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)

		if p.at(token.SEMI) {
			p.advance()
			if p.at(token.EOF) {
				break
			}
			continue
		}
		break
	}
	if !p.at(token.EOF) {
		return nil, p.errorf("unexpected token %s", p.cur().Type)
	}
	return prog, nil
}

// parseFilterStatement parses `assignment ('|' Identifier (':' assignment)*)*`.
func (p *Parser) parseFilterStatement() (ast.Node, error) {
	left, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	for p.at(token.PIPE) {
		p.advance()
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		callee := &ast.Identifier{Name: nameTok.Literal, Position: nameTok.Pos}
		filter := &ast.Filter{Callee: callee, Args: []ast.Node{left}, Position: nameTok.Pos}
		for p.at(token.COLON) {
			p.advance()
			arg, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			filter.Args = append(filter.Args, arg)
		}
		if p.registry != nil {
			stateful := p.registry.IsStateful(callee.Name)
			filter.Stateful = &stateful
		}
		left = filter
	}
	return left, nil
}

// parseAssignment parses `ternary ('=' ternary)?`.
func (p *Parser) parseAssignment() (ast.Node, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.at(token.ASSIGN) {
		pos := p.cur().Pos
		switch left.(type) {
		case *ast.Identifier, *ast.MemberNonComputed, *ast.MemberComputed:
		default:
			return nil, bexprerrors.NewCompileError(p.source, "invalid assignment target", pos)
		}
		p.advance()
		right, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Left: left, Right: right, Position: pos}, nil
	}
	return left, nil
}

// parseTernary parses `logicalOR ('?' assignment ':' assignment)?`.
func (p *Parser) parseTernary() (ast.Node, error) {
	test, err := p.parseLogicalOR()
	if err != nil {
		return nil, err
	}
	if p.at(token.QUESTION) {
		pos := p.cur().Pos
		p.advance()
		consequent, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		alternate, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Conditional{Test: test, Consequent: consequent, Alternate: alternate, Position: pos}, nil
	}
	return test, nil
}

func (p *Parser) parseLogicalOR() (ast.Node, error) {
	left, err := p.parseLogicalAND()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) {
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseLogicalAND()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Op: ast.LogicalOr, Left: left, Right: right, Position: pos}
	}
	return left, nil
}

func (p *Parser) parseLogicalAND() (ast.Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) {
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{Op: ast.LogicalAnd, Left: left, Right: right, Position: pos}
	}
	return left, nil
}

var equalityOps = map[token.Type]ast.BinaryOp{
	token.EQ:   ast.BinEq,
	token.NEQ:  ast.BinNeq,
	token.SEQ:  ast.BinStrictEq,
	token.SNEQ: ast.BinStrictNeq,
}

func (p *Parser) parseEquality() (ast.Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := equalityOps[p.cur().Type]
		if !ok {
			return left, nil
		}
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Position: pos}
	}
}

var relationalOps = map[token.Type]ast.BinaryOp{
	token.LT: ast.BinLt,
	token.GT: ast.BinGt,
	token.LE: ast.BinLe,
	token.GE: ast.BinGe,
}

func (p *Parser) parseRelational() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := relationalOps[p.cur().Type]
		if !ok {
			return left, nil
		}
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Position: pos}
	}
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.BinAdd
		if p.at(token.MINUS) {
			op = ast.BinSub
		}
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Position: pos}
	}
	return left, nil
}

var multiplicativeOps = map[token.Type]ast.BinaryOp{
	token.STAR:    ast.BinMul,
	token.SLASH:   ast.BinDiv,
	token.PERCENT: ast.BinMod,
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur().Type]
		if !ok {
			return left, nil
		}
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Position: pos}
	}
}

func (p *Parser) parseUnary() (ast.Node, error) {
	switch p.cur().Type {
	case token.PLUS:
		pos := p.advance().Pos
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryPlus, Arg: arg, Position: pos}, nil
	case token.MINUS:
		pos := p.advance().Pos
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryMinus, Arg: arg, Position: pos}, nil
	case token.BANG:
		pos := p.advance().Pos
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.UnaryNot, Arg: arg, Position: pos}, nil
	}
	return p.parsePostfix()
}

// constantName resolves the reserved identifiers, matched case-insensitively,
// to a fresh ThisExpr or Literal node.
func (p *Parser) constantName(tok token.Token) (ast.Node, bool) {
	switch strings.ToLower(tok.Literal) {
	case "this":
		return &ast.ThisExpr{Position: tok.Pos}, true
	case "null":
		return &ast.Literal{Value: nil, Position: tok.Pos}, true
	case "true":
		return &ast.Literal{Value: true, Position: tok.Pos}, true
	case "false":
		return &ast.Literal{Value: false, Position: tok.Pos}, true
	case "undefined":
		return &ast.Literal{Value: ast.Undefined, Position: tok.Pos}, true
	}
	return nil, false
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case token.DOT:
			p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			left = &ast.MemberNonComputed{
				Object:   left,
				Property: &ast.Identifier{Name: nameTok.Literal, Position: nameTok.Pos},
				Position: nameTok.Pos,
			}
		case token.LBRACKET:
			pos := p.advance().Pos
			prop, err := p.parseFilterStatement()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			left = &ast.MemberComputed{Object: left, Property: prop, Position: pos}
		case token.LPAREN:
			pos := p.advance().Pos
			var args []ast.Node
			if !p.at(token.RPAREN) {
				for {
					arg, err := p.parseAssignment()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.at(token.COMMA) {
						p.advance()
						continue
					}
					break
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			left = &ast.Call{Callee: left, Args: args, Position: pos}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case token.LPAREN:
		p.advance()
		inner, err := p.parseFilterStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBRACKET:
		return p.parseArray()
	case token.LBRACE:
		return p.parseObject()
	case token.NUMBER:
		p.advance()
		return &ast.Literal{Value: tok.Value.(float64), Position: tok.Pos}, nil
	case token.STRING:
		p.advance()
		return &ast.Literal{Value: tok.Value.(string), Position: tok.Pos}, nil
	case token.IDENT:
		p.advance()
		if n, ok := p.constantName(tok); ok {
			return n, nil
		}
		return &ast.Identifier{Name: tok.Literal, Position: tok.Pos}, nil
	}
	return nil, p.errorf("unexpected token %s", tok.Type)
}

// parseArray parses `'[' (assignment (',' assignment)* ','?)? ']'`.
func (p *Parser) parseArray() (ast.Node, error) {
	pos := p.advance().Pos // consume '['
	arr := &ast.Array{Position: pos}
	if p.at(token.RBRACKET) {
		p.advance()
		return arr, nil
	}
	for {
		el, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, el)
		if p.at(token.COMMA) {
			p.advance()
			if p.at(token.RBRACKET) {
				break
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return arr, nil
}

// parseObject parses `'{' (property (',' property)*)? '}'` where
// `property := (Identifier | Literal) ':' assignment`.
func (p *Parser) parseObject() (ast.Node, error) {
	pos := p.advance().Pos // consume '{'
	obj := &ast.Object{Position: pos}
	if p.at(token.RBRACE) {
		p.advance()
		return obj, nil
	}
	for {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, prop)
		if p.at(token.COMMA) {
			p.advance()
			if p.at(token.RBRACE) {
				break
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *Parser) parseProperty() (ast.ObjectProperty, error) {
	tok := p.cur()
	var key ast.Node
	switch tok.Type {
	case token.IDENT:
		p.advance()
		key = &ast.Identifier{Name: tok.Literal, Position: tok.Pos}
	case token.STRING:
		p.advance()
		key = &ast.Literal{Value: tok.Value.(string), Position: tok.Pos}
	case token.NUMBER:
		p.advance()
		key = &ast.Literal{Value: tok.Value.(float64), Position: tok.Pos}
	default:
		return ast.ObjectProperty{}, p.errorf("expected property key, found %s", tok.Type)
	}
	if _, err := p.expect(token.COLON); err != nil {
		return ast.ObjectProperty{}, err
	}
	value, err := p.parseAssignment()
	if err != nil {
		return ast.ObjectProperty{}, err
	}
	return ast.ObjectProperty{Key: key, Value: value}, nil
}
