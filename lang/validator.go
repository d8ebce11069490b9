package lang

import "fmt"

// validator is the single pre-evaluation tree walk of §4.3: it tracks how
// many enclosing functions and loops a node sits inside and rejects
// Return/Break/Continue placed outside their required context, so the
// evaluator's Flow signal can treat an escaping Break/Skip as a bug
// instead of a reachable condition.
type validator struct {
	insideFunction int
	insideLoop     int
	errs           ParseErrors
}

// Validate walks every top-level statement, returning every placement
// error found (§4.2's "multiple errors must all be surfaced" applies here
// too: one misplaced break elsewhere in the file shouldn't hide another).
func Validate(stmts []Node) error {
	v := &validator{}
	for _, s := range stmts {
		v.visit(s)
	}
	if len(v.errs) > 0 {
		return v.errs
	}
	return nil
}

func (v *validator) errorf(span Span, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	v.errs = append(v.errs, &Diagnostic{Message: msg, MessageShort: short(msg), Span: span})
}

func (v *validator) visit(n Node) {
	switch n.Kind {
	case KReturn:
		if v.insideFunction == 0 {
			v.errorf(n.Span, "Return statement not allowed outside of a function")
		}
		if n.RHS != nil {
			v.visit(*n.RHS)
		}
	case KBreak:
		if v.insideLoop == 0 {
			v.errorf(n.Span, "Break statement not allowed outside of a loop")
		}
	case KContinue:
		if v.insideLoop == 0 {
			v.errorf(n.Span, "Continue statement not allowed outside of a loop")
		}
	case KFunction:
		v.insideFunction++
		if n.Then != nil {
			v.visit(*n.Then)
		}
		v.insideFunction--
	case KInfiniteLoop:
		v.insideLoop++
		if n.Then != nil {
			v.visit(*n.Then)
		}
		v.insideLoop--
	case KWhileLoop:
		if n.Cond != nil {
			v.visit(*n.Cond)
		}
		v.insideLoop++
		if n.Then != nil {
			v.visit(*n.Then)
		}
		v.insideLoop--
	case KForLoop:
		if n.RHS != nil {
			v.visit(*n.RHS)
		}
		v.insideLoop++
		if n.Then != nil {
			v.visit(*n.Then)
		}
		v.insideLoop--
	case KIf:
		if n.Cond != nil {
			v.visit(*n.Cond)
		}
		if n.Then != nil {
			v.visit(*n.Then)
		}
		for _, arm := range n.ElseIfs {
			v.visit(arm.Cond)
			v.visit(arm.Body)
		}
		if n.Else != nil {
			v.visit(*n.Else)
		}
	case KBlock:
		for _, s := range n.Elems {
			v.visit(s)
		}
	case KLet:
		if n.RHS != nil {
			v.visit(*n.RHS)
		}
	case KAssign:
		if n.RHS != nil {
			v.visit(*n.RHS)
		}
	case KUnaryOp:
		if n.RHS != nil {
			v.visit(*n.RHS)
		}
	case KBinaryOp:
		if n.LHS != nil {
			v.visit(*n.LHS)
		}
		if n.RHS != nil {
			v.visit(*n.RHS)
		}
	case KRange, KInclusiveRange:
		if n.RangeStart != nil {
			v.visit(*n.RangeStart)
		}
		if n.RangeEnd != nil {
			v.visit(*n.RangeEnd)
		}
	case KPropertyAccess:
		if n.LHS != nil {
			v.visit(*n.LHS)
		}
	case KIndexAccess:
		if n.LHS != nil {
			v.visit(*n.LHS)
		}
		if n.RHS != nil {
			v.visit(*n.RHS)
		}
	case KCall:
		if n.LHS != nil {
			v.visit(*n.LHS)
		}
		for _, a := range n.Elems {
			v.visit(a)
		}
	case KArray:
		for _, e := range n.Elems {
			v.visit(e)
		}
	case KObject, KModule:
		for _, f := range n.Fields {
			v.visit(f.Value)
		}
	}
}
