// Package ast defines the typed AST produced by the parser, along with the
// analyses (constant, toWatch, isLiteral, inputs, assignableAST) consumed by
// the evaluator builder and the scope.
package ast

import "github.com/cwbudde/bindexpr/internal/token"

// Node is the base interface implemented by every AST variant.
type Node interface {
	Pos() token.Position
	// Constant reports whether the node's value depends only on the AST
	// structure, never on scope, locals, time, filters, or calls.
	Constant() bool
	// ToWatch returns the set of sub-expressions the scope should poll as
	// inputs for fast change detection. A single-element slice containing
	// the node itself means "no simpler inputs, watch me."
	ToWatch() []Node
}

// Program is the root of a compiled expression: a sequence of statements
// separated by ';'.
type Program struct {
	Body []Node
}

func (p *Program) Pos() token.Position {
	if len(p.Body) == 0 {
		return token.Position{Line: 1, Column: 1}
	}
	return p.Body[0].Pos()
}

func (p *Program) Constant() bool {
	for _, n := range p.Body {
		if !n.Constant() {
			return false
		}
	}
	return true
}

// ToWatch is not meaningful for Program as a whole; only Program.Body[0] is
// ever inspected for this by the AST analyses (see Inputs).
func (p *Program) ToWatch() []Node { return nil }

// Literal is a constant value baked into the AST at parse time: a number, a
// string, a boolean, null, or undefined.
type Literal struct {
	Value    any // float64, string, bool, or nil (null); Undefined sentinel for `undefined`
	Position token.Position
}

func (l *Literal) Pos() token.Position { return l.Position }
func (l *Literal) Constant() bool      { return true }
func (l *Literal) ToWatch() []Node     { return nil }

// Undefined is the AST sentinel produced by the `undefined` constant name.
// The evaluator turns it into value.Undefined, the same runtime value a
// missing identifier resolves to.
type undefinedType struct{}

// Undefined is the single instance of the undefined value.
var Undefined = undefinedType{}

func (undefinedType) String() string { return "undefined" }

// Array is an array literal `[e1, e2, ...]`.
type Array struct {
	Elements []Node
	Position token.Position
}

func (a *Array) Pos() token.Position { return a.Position }

func (a *Array) Constant() bool {
	for _, e := range a.Elements {
		if !e.Constant() {
			return false
		}
	}
	return true
}

func (a *Array) ToWatch() []Node {
	var out []Node
	for _, e := range a.Elements {
		if !e.Constant() {
			out = append(out, e.ToWatch()...)
		}
	}
	return out
}

// ObjectProperty is a single `key: value` entry of an Object literal.
type ObjectProperty struct {
	Key   Node // Identifier or Literal
	Value Node
}

// Object is an object literal `{k1: v1, k2: v2, ...}`.
type Object struct {
	Properties []ObjectProperty
	Position   token.Position
}

func (o *Object) Pos() token.Position { return o.Position }

func (o *Object) Constant() bool {
	for _, p := range o.Properties {
		if !p.Value.Constant() {
			return false
		}
	}
	return true
}

func (o *Object) ToWatch() []Node {
	var out []Node
	for _, p := range o.Properties {
		if !p.Value.Constant() {
			out = append(out, p.Value.ToWatch()...)
		}
	}
	return out
}

// Identifier is a bare free-variable reference.
type Identifier struct {
	Name     string
	Position token.Position
}

func (i *Identifier) Pos() token.Position { return i.Position }
func (i *Identifier) Constant() bool      { return false }
func (i *Identifier) ToWatch() []Node     { return []Node{i} }

// ThisExpr is the `this` keyword, which resolves to the scope itself.
type ThisExpr struct {
	Position token.Position
}

func (t *ThisExpr) Pos() token.Position { return t.Position }
func (t *ThisExpr) Constant() bool      { return false }
func (t *ThisExpr) ToWatch() []Node     { return nil }

// MemberNonComputed is `object.property` with a literal property name.
type MemberNonComputed struct {
	Object   Node
	Property *Identifier
	Position token.Position
}

func (m *MemberNonComputed) Pos() token.Position { return m.Position }
func (m *MemberNonComputed) Constant() bool      { return m.Object.Constant() }
func (m *MemberNonComputed) ToWatch() []Node     { return []Node{m} }

// MemberComputed is `object[property]` with a dynamically evaluated
// property expression.
type MemberComputed struct {
	Object   Node
	Property Node
	Position token.Position
}

func (m *MemberComputed) Pos() token.Position { return m.Position }
func (m *MemberComputed) Constant() bool {
	return m.Object.Constant() && m.Property.Constant()
}
func (m *MemberComputed) ToWatch() []Node { return []Node{m} }

// Call is a function/method invocation `callee(args...)`.
type Call struct {
	Callee   Node
	Args     []Node
	Position token.Position
}

func (c *Call) Pos() token.Position { return c.Position }
func (c *Call) Constant() bool      { return false }
func (c *Call) ToWatch() []Node     { return []Node{c} }

// StatefulChecker reports whether a named filter is stateful, consulted by
// the Filter node's constant analysis.
type StatefulChecker interface {
	IsStateful(name string) bool
}

// Filter is a pipeline stage `input | name:arg1:arg2`. Callee is the filter
// name; Args[0] is always the piped-in input expression, with any
// additional `:arg` expressions following it.
type Filter struct {
	Callee   *Identifier
	Args     []Node
	Position token.Position
	// Stateful is resolved at parse time against the registry in scope for
	// the compile, per spec.md §4.7; nil means "treat as stateful" (the
	// conservative default when no registry was supplied).
	Stateful *bool
}

func (f *Filter) Pos() token.Position { return f.Position }

func (f *Filter) stateless() bool {
	return f.Stateful != nil && !*f.Stateful
}

func (f *Filter) Constant() bool {
	if !f.stateless() {
		return false
	}
	for _, a := range f.Args {
		if !a.Constant() {
			return false
		}
	}
	return true
}

func (f *Filter) ToWatch() []Node {
	if !f.stateless() {
		return []Node{f}
	}
	var out []Node
	for _, a := range f.Args {
		if !a.Constant() {
			out = append(out, a.ToWatch()...)
		}
	}
	return out
}

// Assignment is `left = right`. Only Identifier, MemberNonComputed, and
// MemberComputed are legal assignment targets; the parser rejects any other
// target with a CompileError when it reaches the `=`.
type Assignment struct {
	Left     Node
	Right    Node
	Position token.Position
}

func (a *Assignment) Pos() token.Position { return a.Position }
func (a *Assignment) Constant() bool      { return a.Left.Constant() && a.Right.Constant() }
func (a *Assignment) ToWatch() []Node     { return []Node{a} }

// UnaryOp identifies a prefix unary operator.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

// Unary is a prefix unary expression `!x`, `-x`, `+x`.
type Unary struct {
	Op       UnaryOp
	Arg      Node
	Position token.Position
}

func (u *Unary) Pos() token.Position { return u.Position }
func (u *Unary) Constant() bool      { return u.Arg.Constant() }
func (u *Unary) ToWatch() []Node     { return u.Arg.ToWatch() }

// BinaryOp identifies an infix binary operator.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNeq
	BinStrictEq
	BinStrictNeq
	BinLt
	BinGt
	BinLe
	BinGe
)

// Binary is an infix arithmetic, relational, or equality expression.
type Binary struct {
	Op       BinaryOp
	Left     Node
	Right    Node
	Position token.Position
}

func (b *Binary) Pos() token.Position { return b.Position }
func (b *Binary) Constant() bool      { return b.Left.Constant() && b.Right.Constant() }
func (b *Binary) ToWatch() []Node {
	return append(append([]Node{}, b.Left.ToWatch()...), b.Right.ToWatch()...)
}

// LogicalOp identifies a short-circuiting logical operator.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// Logical is `left && right` or `left || right`, short-circuiting.
type Logical struct {
	Op       LogicalOp
	Left     Node
	Right    Node
	Position token.Position
}

func (l *Logical) Pos() token.Position { return l.Position }
func (l *Logical) Constant() bool      { return l.Left.Constant() && l.Right.Constant() }
func (l *Logical) ToWatch() []Node     { return []Node{l} }

// Conditional is the ternary `test ? consequent : alternate`.
type Conditional struct {
	Test       Node
	Consequent Node
	Alternate  Node
	Position   token.Position
}

func (c *Conditional) Pos() token.Position { return c.Position }
func (c *Conditional) Constant() bool {
	return c.Test.Constant() && c.Consequent.Constant() && c.Alternate.Constant()
}
func (c *Conditional) ToWatch() []Node { return []Node{c} }

// ValueParameter is a synthetic placeholder node standing in for the
// assigned value on the RHS of an assign() call built by assignableAST.
type ValueParameter struct{}

func (ValueParameter) Pos() token.Position { return token.Position{} }
func (ValueParameter) Constant() bool      { return false }
func (ValueParameter) ToWatch() []Node     { return nil }
