package ast

// IsLiteral reports whether a Program is trivially known at compile time: an
// empty body, or a single Literal/Array/Object statement.
func IsLiteral(p *Program) bool {
	if len(p.Body) == 0 {
		return true
	}
	if len(p.Body) != 1 {
		return false
	}
	switch p.Body[0].(type) {
	case *Literal, *Array, *Object:
		return true
	}
	return false
}

// Inputs computes the input-set for a Program with exactly one body
// element: its toWatch set, unless that set is just "[self]" (no simpler
// inputs than the whole expression), in which case there is no useful
// input-set and Inputs returns nil.
func Inputs(p *Program) []Node {
	if len(p.Body) != 1 {
		return nil
	}
	e := p.Body[0]
	tw := e.ToWatch()
	if len(tw) == 1 && tw[0] == e {
		return nil
	}
	return tw
}

// AssignableAST builds a synthetic Assignment wrapping the Program's single
// body element as an LHS and a ValueParameter placeholder as RHS, if that
// element is one of the three assignable variants. Returns nil otherwise.
func AssignableAST(p *Program) *Assignment {
	if len(p.Body) != 1 {
		return nil
	}
	switch e := p.Body[0].(type) {
	case *Identifier, *MemberComputed, *MemberNonComputed:
		return &Assignment{Left: e.(Node), Right: ValueParameter{}, Position: e.(Node).Pos()}
	}
	return nil
}
