package lang

import (
	"math"

	"github.com/grailbio/modu/internal/modcache"
	"github.com/grailbio/modu/internal/symbol"
)

// Host abstracts the two call-outs §6 requires so an embedding (CLI, REPL,
// browser/wasm) can route program I/O and import resolution without the
// evaluator knowing which one it's running under.
type Host interface {
	Print(text string)
	Eprint(text string)
	// ReadLine writes prompt then reads one line; ok is false on EOF.
	ReadLine(prompt string) (line string, ok bool)
	ReadSource(path string) (string, error)
	ResolveImport(name, anchor string) (string, error)
	// Exit terminates the process with the given status (§4.7's `exit`).
	Exit(status int)
}

// Registry is the library registry seam of §6: get_package(name).
type Registry interface {
	GetPackage(name string) (Node, bool)
}

// Evaluator walks parsed Nodes against a live Environment (§4.6). One
// Evaluator corresponds to one top-level run (one REPL session, one script
// invocation); imported modules get their own fresh Environment but share
// the Evaluator's Host/Registry/anchor bookkeeping.
type Evaluator struct {
	env      *Environment
	host     Host
	registry Registry
	anchor   string // directory .modu files resolve relative-imports against
	ffi      FFIBridge
	modcache *modcache.Cache
}

// NewEvaluator creates an Evaluator with a fresh, built-in-seeded
// Environment (§4.7).
func NewEvaluator(host Host, registry Registry, anchor string) *Evaluator {
	ev := &Evaluator{env: NewEnvironment(), host: host, registry: registry, anchor: anchor}
	installBuiltins(ev.env)
	return ev
}

// SetFFIBridge wires in the out-of-scope FFI collaborator (§1, §6); left
// unset, FFILibrary calls fail with a domain error instead of silently
// doing nothing.
func (ev *Evaluator) SetFFIBridge(bridge FFIBridge) { ev.ffi = bridge }

// SetModuleCache wires in a parsed-module cache so repeated imports of the
// same .modu file skip re-lexing/parsing (§4.6.2 is silent on caching; this
// is a pure speedup, see DESIGN.md's internal/modcache entry).
func (ev *Evaluator) SetModuleCache(c *modcache.Cache) { ev.modcache = c }

// Env exposes the evaluator's environment, e.g. for a REPL driver to set a
// global or inspect state between lines.
func (ev *Evaluator) Env() *Environment { return ev.env }

// Run evaluates a top-level statement sequence (the Parse/Validate output)
// against ev's environment and returns the final statement's value.
func (ev *Evaluator) Run(stmts []Node) (result Node, err error) {
	err = Recover(func() {
		var flow Flow
		for _, s := range stmts {
			flow = ev.eval(s)
			if flow.IsAbrupt() {
				break
			}
		}
		result = flow.Unwrap()
	})
	return result, err
}

// eval is the single recursive dispatch point; every Kind that can appear
// as a parsed expression or statement is handled here (§4.6).
func (ev *Evaluator) eval(n Node) Flow {
	switch n.Kind {
	case KInt, KFloat, KString, KBool, KNull, KInternalFunction, KFile, KFFILibrary, KModule:
		return flowValue(n)

	case KFunction:
		// A named function appearing as a statement declares itself into
		// the environment and evaluates to Null; an anonymous function
		// literal (Name == symbol.ID zero value from e.g. a let RHS) is
		// just a value.
		if n.Name != 0 {
			ev.env.Let(n.Name, n)
			return flowValue(Null)
		}
		return flowValue(n)

	case KIdentifier:
		v, ok := ev.env.Get(n.Name)
		if !ok {
			Panicf(n.Span, "undefined variable '%s'", n.Name.Str())
		}
		return flowValue(v)

	case KArray:
		elems := make([]Node, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = ev.eval(e).Unwrap()
		}
		return flowValue(Node{Kind: KArray, Span: n.Span, Elems: elems})

	case KObject:
		fields := make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = Field{Key: f.Key, Value: ev.eval(f.Value).Unwrap()}
		}
		return flowValue(Node{Kind: KObject, Span: n.Span, Fields: fields})

	case KRange, KInclusiveRange:
		// Bounds are evaluated lazily at the point of use (indexing, for),
		// matching the teacher/original's deferred-range-bound evaluation;
		// the range value itself just carries the unevaluated subexpressions.
		return flowValue(n)

	case KUnaryOp:
		return flowValue(ev.evalUnary(n))

	case KBinaryOp:
		return flowValue(ev.evalBinary(n))

	case KLet:
		ev.env.Let(n.Name, ev.eval(*n.RHS).Unwrap())
		return flowValue(Null)

	case KAssign:
		return ev.evalAssign(n)

	case KPropertyAccess:
		return flowValue(ev.evalPropertyAccess(n))

	case KIndexAccess:
		return flowValue(ev.evalIndex(n))

	case KCall:
		return ev.evalCall(n)

	case KIf:
		return ev.evalIf(n)

	case KInfiniteLoop:
		return ev.evalInfiniteLoop(n)

	case KWhileLoop:
		return ev.evalWhileLoop(n)

	case KForLoop:
		return ev.evalForLoop(n)

	case KBlock:
		return ev.evalBlock(n)

	case KReturn:
		var v Node = Null
		if n.RHS != nil {
			v = ev.eval(*n.RHS).Unwrap()
		}
		return Flow{Kind: FlowReturn, Value: v}

	case KBreak:
		return Flow{Kind: FlowBreak}

	case KContinue:
		return Flow{Kind: FlowSkip}

	case KImport:
		return flowValue(ev.evalImport(n))

	default:
		Panicf(n.Span, "cannot evaluate node of kind %d", n.Kind)
		panic("unreachable")
	}
}

func (ev *Evaluator) evalBlock(n Node) Flow {
	depth := ev.env.EnterBlock()
	defer ev.env.ExitBlock(depth)
	var flow Flow = flowValue(Null)
	for _, stmt := range n.Elems {
		flow = ev.eval(stmt)
		if flow.IsAbrupt() {
			return flow
		}
	}
	return flow
}

func (ev *Evaluator) evalUnary(n Node) Node {
	v := ev.eval(*n.RHS).Unwrap()
	switch n.Op {
	case OpNeg:
		switch v.Kind {
		case KInt:
			return NewInt(-v.IntVal)
		case KFloat:
			return NewFloat(-v.FloatVal)
		default:
			Panicf(n.Span, "cannot negate value '%s'", v.String())
		}
	}
	Panicf(n.Span, "unsupported unary operator")
	panic("unreachable")
}

func (ev *Evaluator) evalBinary(n Node) Node {
	left := ev.eval(*n.LHS).Unwrap()
	right := ev.eval(*n.RHS).Unwrap()
	return ev.applyBinOp(n.Span, n.Op, left, right)
}

// numericOf reports whether v is Int or Float and its value widened to
// float64, used by every cross-promoting arithmetic/comparison op.
func numericOf(v Node) (f float64, isFloat, ok bool) {
	switch v.Kind {
	case KInt:
		return float64(v.IntVal), false, true
	case KFloat:
		return v.FloatVal, true, true
	default:
		return 0, false, false
	}
}

func isZeroNumeric(v Node) bool {
	return (v.Kind == KInt && v.IntVal == 0) || (v.Kind == KFloat && v.FloatVal == 0)
}

func (ev *Evaluator) applyBinOp(span Span, op Op, left, right Node) Node {
	switch op {
	case OpAdd:
		if left.Kind == KString && right.Kind == KString {
			return NewString(left.StrVal + right.StrVal)
		}
		return arith(span, "add", left, right, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case OpSub:
		return arith(span, "subtract", left, right, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case OpMul:
		if left.Kind == KString && right.Kind == KInt {
			if right.IntVal < 0 {
				Panicf(span, "cannot repeat string a negative number of times")
			}
			return NewString(repeatString(left.StrVal, int(right.IntVal)))
		}
		return arith(span, "multiply", left, right, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case OpDiv:
		if isZeroNumeric(right) {
			Panicf(span, "division/modulo by zero")
		}
		lf, lok := numericOnly(left)
		rf, rok := numericOnly(right)
		if !lok || !rok {
			Panicf(span, "cannot divide values '%s' and '%s'", left.String(), right.String())
		}
		return NewFloat(lf / rf)
	case OpMod:
		if isZeroNumeric(right) {
			Panicf(span, "division/modulo by zero")
		}
		if left.Kind == KInt && right.Kind == KInt {
			return NewInt(left.IntVal % right.IntVal)
		}
		lf, lok := numericOnly(left)
		rf, rok := numericOnly(right)
		if !lok || !rok {
			Panicf(span, "cannot modulo values '%s' and '%s'", left.String(), right.String())
		}
		return NewFloat(math.Mod(lf, rf))
	case OpPow:
		if left.Kind == KInt && right.Kind == KInt {
			if right.IntVal >= 0 {
				return NewInt(intPow(left.IntVal, right.IntVal))
			}
			return NewFloat(math.Pow(float64(left.IntVal), float64(right.IntVal)))
		}
		lf, lok := numericOnly(left)
		rf, rok := numericOnly(right)
		if !lok || !rok {
			Panicf(span, "cannot exponentiate values '%s' and '%s'", left.String(), right.String())
		}
		return NewFloat(math.Pow(lf, rf))
	case OpEqual:
		return NewBool(valuesEqual(left, right))
	case OpNotEqual:
		return NewBool(!valuesEqual(left, right))
	case OpLt, OpLe, OpGt, OpGe:
		lf, lok := numericOnly(left)
		rf, rok := numericOnly(right)
		if !lok || !rok {
			Panicf(span, "cannot compare values '%s' and '%s'", left.String(), right.String())
		}
		switch op {
		case OpLt:
			return NewBool(lf < rf)
		case OpLe:
			return NewBool(lf <= rf)
		case OpGt:
			return NewBool(lf > rf)
		default:
			return NewBool(lf >= rf)
		}
	case OpIn, OpNotIn:
		member := ev.membershipTest(span, left, right)
		if op == OpNotIn {
			member = !member
		}
		return NewBool(member)
	}
	Panicf(span, "unsupported binary operator")
	panic("unreachable")
}

func numericOnly(v Node) (float64, bool) {
	f, _, ok := numericOf(v)
	return f, ok
}

func repeatString(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

// arith applies intOp/floatOp with §4.6's Int/Float promotion: Float
// whenever either operand is Float, Int only when both are Int.
func arith(span Span, verb string, left, right Node, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) Node {
	if left.Kind == KInt && right.Kind == KInt {
		return NewInt(intOp(left.IntVal, right.IntVal))
	}
	lf, lok := numericOnly(left)
	rf, rok := numericOnly(right)
	if !lok || !rok {
		Panicf(span, "cannot %s values '%s' and '%s'", verb, left.String(), right.String())
	}
	return NewFloat(floatOp(lf, rf))
}

// valuesEqual implements §4.6/§8's total, never-erroring ==: numeric
// values cross-promote, everything else compares only within its own Kind.
func valuesEqual(a, b Node) bool {
	af, aIsNum, _ := numericOf(a)
	bf, bIsNum, _ := numericOf(b)
	if aIsNum && bIsNum {
		return af == bf
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KString:
		return a.StrVal == b.StrVal
	case KBool:
		return a.BoolVal == b.BoolVal
	case KNull:
		return true
	case KArray:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !valuesEqual(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case KObject:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for _, fa := range a.Fields {
			fb, ok := lookupField(b.Fields, fa.Key)
			if !ok || !valuesEqual(fa.Value, fb) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func lookupField(fields []Field, key symbol.ID) (Node, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Node{}, false
}

func (ev *Evaluator) membershipTest(span Span, needle, haystack Node) bool {
	switch haystack.Kind {
	case KArray:
		for _, e := range haystack.Elems {
			if valuesEqual(needle, e) {
				return true
			}
		}
		return false
	case KString:
		if needle.Kind != KString {
			Panicf(span, "'in' on a string requires a string operand")
		}
		return containsString(haystack.StrVal, needle.StrVal)
	case KRange, KInclusiveRange:
		if needle.Kind != KInt {
			Panicf(span, "'in' on a range requires an integer operand")
		}
		lo := ev.rangeBound(span, *haystack.RangeStart)
		hi := ev.rangeBound(span, *haystack.RangeEnd)
		if haystack.Kind == KInclusiveRange {
			return needle.IntVal >= lo && needle.IntVal <= hi
		}
		return needle.IntVal >= lo && needle.IntVal < hi
	case KObject:
		if needle.Kind != KString {
			Panicf(span, "'in' on an object requires a string key")
		}
		_, ok := lookupField(haystack.Fields, symbol.Intern(needle.StrVal))
		return ok
	default:
		Panicf(span, "value of type '%s' is not iterable for 'in'", haystack.TypeName())
		panic("unreachable")
	}
}

func containsString(s, substr string) bool {
	if len(substr) == 0 {
		return true
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// rangeBound evaluates one of RangeStart/RangeEnd to an Int. Range bounds
// are stored as unevaluated expressions (§4.6: "for evaluates its
// iterator_range once"), so every site that consumes a range — for, index,
// 'in' — evaluates its bounds lazily at the point of use.
func (ev *Evaluator) rangeBound(span Span, bound Node) int64 {
	v := ev.eval(bound).Unwrap()
	if v.Kind != KInt {
		Panicf(span, "range bound must be an integer, got '%s'", v.TypeName())
	}
	return v.IntVal
}

func truthy(v Node) bool {
	switch v.Kind {
	case KBool:
		return v.BoolVal
	case KNull:
		return false
	case KInt:
		return v.IntVal != 0
	default:
		return true
	}
}

func (ev *Evaluator) evalIf(n Node) Flow {
	cond := ev.eval(*n.Cond).Unwrap()
	if truthy(cond) {
		return ev.eval(*n.Then)
	}
	for _, arm := range n.ElseIfs {
		c := ev.eval(arm.Cond).Unwrap()
		switch c.Kind {
		case KBool:
			if c.BoolVal {
				return ev.eval(arm.Body)
			}
		case KNull:
			// fall through to next arm
		default:
			Panicf(n.Span, "else if condition must be a boolean, got '%s'", c.String())
		}
	}
	if n.Else != nil {
		return ev.eval(*n.Else)
	}
	return flowValue(Null)
}

func (ev *Evaluator) evalInfiniteLoop(n Node) Flow {
	for {
		flow := ev.eval(*n.Then)
		switch flow.Kind {
		case FlowBreak:
			return flowValue(Null)
		case FlowSkip, FlowValue:
			continue
		case FlowReturn:
			return flow
		}
	}
}

func (ev *Evaluator) evalWhileLoop(n Node) Flow {
	for {
		cond := ev.eval(*n.Cond).Unwrap()
		if cond.Kind != KBool {
			Panicf(n.Cond.Span, "while condition must be a boolean, got '%s'", cond.TypeName())
		}
		if !cond.BoolVal {
			return flowValue(Null)
		}
		flow := ev.eval(*n.Then)
		switch flow.Kind {
		case FlowBreak:
			return flowValue(Null)
		case FlowSkip, FlowValue:
			continue
		case FlowReturn:
			return flow
		}
	}
}

func (ev *Evaluator) evalForLoop(n Node) Flow {
	iterable := ev.eval(*n.RHS).Unwrap()
	switch iterable.Kind {
	case KRange, KInclusiveRange:
		lo := ev.rangeBound(n.Span, *iterable.RangeStart)
		hi := ev.rangeBound(n.Span, *iterable.RangeEnd)
		if iterable.Kind == KInclusiveRange {
			hi++
		}
		for i := lo; i < hi; i++ {
			ev.env.Let(n.Name, NewInt(i))
			flow := ev.eval(*n.Then)
			switch flow.Kind {
			case FlowBreak:
				return flowValue(Null)
			case FlowReturn:
				return flow
			}
		}
		return flowValue(Null)
	case KArray:
		for _, elem := range iterable.Elems {
			ev.env.Let(n.Name, elem)
			flow := ev.eval(*n.Then)
			switch flow.Kind {
			case FlowBreak:
				return flowValue(Null)
			case FlowReturn:
				return flow
			}
		}
		return flowValue(Null)
	default:
		Panicf(n.Span, "cannot iterate over value of type '%s'", iterable.TypeName())
		panic("unreachable")
	}
}

func (ev *Evaluator) evalAssign(n Node) Flow {
	value := ev.eval(*n.RHS).Unwrap()
	if n.Op != OpNone {
		current, ok := ev.env.Get(n.Name)
		if !ok {
			Panicf(n.Span, "undefined variable '%s'", n.Name.Str())
		}
		value = ev.applyBinOp(n.Span, n.Op, current, value)
	}
	if !ev.env.Assign(n.Name, value) {
		Panicf(n.Span, "undefined variable '%s'", n.Name.Str())
	}
	return flowValue(Null)
}

func (ev *Evaluator) evalPropertyAccess(n Node) Node {
	receiver := ev.eval(*n.LHS).Unwrap()
	switch receiver.Kind {
	case KModule:
		if v, ok := lookupField(receiver.Fields, n.Name); ok {
			return v
		}
		Panicf(n.Span, "module has no method named '%s'", n.Name.Str())
	case KObject:
		if v, ok := lookupField(receiver.Fields, n.Name); ok {
			return v
		}
		if ent, ok := objectBuiltins[n.Name]; ok {
			return Node{Kind: KInternalFunction, Name: n.Name, Params: ent.params, Handle: ent.handle}
		}
		Panicf(n.Span, "object has no property named '%s'", n.Name.Str())
	case KArray:
		if ent, ok := arrayBuiltins[n.Name]; ok {
			return Node{Kind: KInternalFunction, Name: n.Name, Params: ent.params, Handle: ent.handle}
		}
		Panicf(n.Span, "array has no method named '%s'", n.Name.Str())
	case KString:
		if ent, ok := stringBuiltins[n.Name]; ok {
			return Node{Kind: KInternalFunction, Name: n.Name, Params: ent.params, Handle: ent.handle}
		}
		Panicf(n.Span, "string has no method named '%s'", n.Name.Str())
	case KInt:
		if ent, ok := intBuiltins[n.Name]; ok {
			return Node{Kind: KInternalFunction, Name: n.Name, Params: ent.params, Handle: ent.handle}
		}
		Panicf(n.Span, "int has no method named '%s'", n.Name.Str())
	case KFloat:
		if ent, ok := floatBuiltins[n.Name]; ok {
			return Node{Kind: KInternalFunction, Name: n.Name, Params: ent.params, Handle: ent.handle}
		}
		Panicf(n.Span, "float has no method named '%s'", n.Name.Str())
	case KFile:
		if ent, ok := fileBuiltins[n.Name]; ok {
			return Node{Kind: KInternalFunction, Name: n.Name, Params: ent.params, Handle: ent.handle}
		}
		Panicf(n.Span, "file has no method named '%s'", n.Name.Str())
	case KFFILibrary:
		ffi := *receiver.FFI
		ffi.PendingSymbol = n.Name.Str()
		return Node{Kind: KFFILibrary, Span: n.Span, FFI: &ffi}
	default:
		Panicf(n.Span, "value of type '%s' has no properties", receiver.TypeName())
	}
	panic("unreachable")
}

func (ev *Evaluator) evalIndex(n Node) Node {
	receiver := ev.eval(*n.LHS).Unwrap()
	index := ev.eval(*n.RHS).Unwrap()
	switch receiver.Kind {
	case KArray:
		return ev.indexArray(n.Span, receiver, index)
	case KString:
		return ev.indexString(n.Span, receiver, index)
	case KObject:
		if index.Kind != KString {
			Panicf(n.Span, "object index must be a string, got '%s'", index.TypeName())
		}
		v, ok := lookupField(receiver.Fields, symbol.Intern(index.StrVal))
		if !ok {
			Panicf(n.Span, "object has no property named '%s'", index.StrVal)
		}
		return v
	default:
		Panicf(n.Span, "value of type '%s' is not indexable", receiver.TypeName())
		panic("unreachable")
	}
}

func normalizeRangeBounds(span Span, length int, start, end int64, inclusive bool) (int, int) {
	s, e := start, end
	if s < 0 {
		s += int64(length)
	}
	if e < 0 {
		e += int64(length)
	}
	if inclusive {
		e++
	}
	if s < 0 || s > int64(length) || e < 0 || e > int64(length) || s > e {
		Panicf(span, "range %d..%d is out of bounds", start, end)
	}
	return int(s), int(e)
}

func (ev *Evaluator) indexArray(span Span, arr, index Node) Node {
	switch index.Kind {
	case KInt:
		idx := index.IntVal
		if idx < 0 {
			idx += int64(len(arr.Elems))
		}
		if idx < 0 || idx >= int64(len(arr.Elems)) {
			Panicf(span, "index %d is out of bounds", index.IntVal)
		}
		return arr.Elems[idx]
	case KRange, KInclusiveRange:
		lo := ev.rangeBound(span, *index.RangeStart)
		hi := ev.rangeBound(span, *index.RangeEnd)
		s, e := normalizeRangeBounds(span, len(arr.Elems), lo, hi, index.Kind == KInclusiveRange)
		out := make([]Node, e-s)
		copy(out, arr.Elems[s:e])
		return Node{Kind: KArray, Elems: out}
	default:
		Panicf(span, "array index must be an integer or range, got '%s'", index.TypeName())
		panic("unreachable")
	}
}

func (ev *Evaluator) indexString(span Span, s, index Node) Node {
	runes := []rune(s.StrVal)
	switch index.Kind {
	case KInt:
		idx := index.IntVal
		if idx < 0 {
			idx += int64(len(runes))
		}
		if idx < 0 || idx >= int64(len(runes)) {
			Panicf(span, "index %d is out of bounds", index.IntVal)
		}
		return NewString(string(runes[idx]))
	case KRange, KInclusiveRange:
		lo := ev.rangeBound(span, *index.RangeStart)
		hi := ev.rangeBound(span, *index.RangeEnd)
		start, end := normalizeRangeBounds(span, len(runes), lo, hi, index.Kind == KInclusiveRange)
		return NewString(string(runes[start:end]))
	default:
		Panicf(span, "string index must be an integer or range, got '%s'", index.TypeName())
		panic("unreachable")
	}
}

// evalCall implements §4.6's three-way call dispatch.
func (ev *Evaluator) evalCall(n Node) Flow {
	args := make([]Node, len(n.Elems))
	for i, a := range n.Elems {
		args[i] = ev.eval(a).Unwrap()
	}
	callee := ev.eval(*n.LHS).Unwrap()
	switch callee.Kind {
	case KInternalFunction:
		return flowValue(ev.callInternal(n, callee, args))
	case KFunction:
		return ev.callFunction(n, callee, args)
	case KFFILibrary:
		return flowValue(ev.callFFI(n, callee, args))
	default:
		Panicf(n.Span, "value of type '%s' is not a function", callee.TypeName())
		panic("unreachable")
	}
}

func (ev *Evaluator) callInternal(n Node, fn Node, args []Node) Node {
	if hasParam(fn.Params, symSelf) && n.LHS != nil {
		if prop, ok := (*n.LHS).asPropertyAccess(); ok {
			receiver := ev.eval(*prop.LHS).Unwrap()
			args = append([]Node{receiver}, args...)
		}
	}
	if !hasParam(fn.Params, symArgs) {
		checkArity(n, fn.Name.Str(), len(fn.Params), args)
	}
	result := fn.Handle(ev, n, args)
	if result.ReplaceSelf != nil && n.LHS != nil {
		if prop, ok := (*n.LHS).asPropertyAccess(); ok {
			if ident, ok := prop.LHS.asIdentifier(); ok {
				ev.env.Assign(ident.Name, *result.ReplaceSelf)
			}
		}
	}
	return result.Value
}

func (ev *Evaluator) callFunction(n Node, fn Node, args []Node) Flow {
	checkArity(n, fn.Name.Str(), len(fn.Params), args)
	callEnv := ev.env.Clone()
	for i, p := range fn.Params {
		callEnv.Let(p, args[i])
	}
	saved := ev.env
	ev.env = callEnv
	flow := ev.eval(*fn.Then)
	ev.env = saved
	switch flow.Kind {
	case FlowValue:
		return flowValue(flow.Value)
	case FlowReturn:
		return flowValue(flow.Value)
	default:
		Panicf(n.Span, "unexpected break/continue in function")
		panic("unreachable")
	}
}

// invokeFunction calls a Modu function value (as returned by a property
// access or passed as a callback argument) from within a built-in's Go
// code, e.g. Array.sort's optional key function. span is used only for
// synthetic call-site diagnostics (arity mismatches).
func (ev *Evaluator) invokeFunction(span Span, fn Node, args []Node) Node {
	callSite := Node{Span: span, Elems: make([]Node, len(args))}
	switch fn.Kind {
	case KFunction:
		return ev.callFunction(callSite, fn, args).Unwrap()
	case KInternalFunction:
		return ev.callInternal(callSite, fn, args)
	default:
		Panicf(span, "value of type '%s' is not a function", fn.TypeName())
		panic("unreachable")
	}
}

func checkArity(n Node, name string, want int, args []Node) {
	if len(args) == want {
		return
	}
	span := n.Span
	if len(args) > want && want < len(n.Elems) {
		span = n.Elems[want].Span.Join(n.Elems[len(n.Elems)-1].Span)
	}
	Panicf(span, "function '%s' expects %d arguments, got %d", name, want, len(args))
}

// asPropertyAccess/asIdentifier are small helpers used only to recognize
// the "Identifier-rooted PropertyAccess" shape the replace_self/`self`
// protocols key off of (§4.6).
func (n Node) asPropertyAccess() (Node, bool) {
	if n.Kind == KPropertyAccess {
		return n, true
	}
	return Node{}, false
}

func (n Node) asIdentifier() (Node, bool) {
	if n.Kind == KIdentifier {
		return n, true
	}
	return Node{}, false
}
