package lang

import (
	"sort"
	"strings"

	"github.com/grailbio/modu/internal/symbol"
)

// arrayBuiltins is the Array method table of §4.6.1. Keys are interned once
// at package init so property lookup is a plain map hit, matching how
// node.go interns the "self"/"__args__" sentinels.
var arrayBuiltins map[symbol.ID]builtinEntry

type builtinEntry struct {
	handle BuiltinHandle
	params []symbol.ID
}

func symbols(names ...string) []symbol.ID {
	ids := make([]symbol.ID, len(names))
	for i, n := range names {
		ids[i] = symbol.Intern(n)
	}
	return ids
}

func init() {
	arrayBuiltins = map[symbol.ID]builtinEntry{
		symbol.Intern("len"): {arrayLen, symbols(sentinelSelf)},
		symbol.Intern("clear"): {arrayClear, symbols(sentinelSelf)},
		symbol.Intern("push"): {arrayPush, symbols(sentinelSelf, "value")},
		symbol.Intern("pop"): {arrayPop, symbols(sentinelSelf)},
		symbol.Intern("join"): {arrayJoin, symbols(sentinelSelf, "delim")},
		symbol.Intern("sort"): {arraySort, symbols(sentinelSelf, sentinelArgs)},
	}
}

func mustArray(call Node, args []Node, idx int) Node {
	v := args[idx]
	if v.Kind != KArray {
		Panicf(call.Span, "expected an array receiver")
	}
	return v
}

func arrayLen(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustArray(call, args, 0)
	return BuiltinResult{Value: NewInt(int64(len(self.Elems)))}
}

func arrayClear(ev *Evaluator, call Node, args []Node) BuiltinResult {
	mustArray(call, args, 0)
	replaced := NewArray(nil)
	return BuiltinResult{Value: Null, ReplaceSelf: &replaced}
}

func arrayPush(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustArray(call, args, 0)
	elems := make([]Node, len(self.Elems)+1)
	copy(elems, self.Elems)
	elems[len(self.Elems)] = args[1]
	replaced := NewArray(elems)
	return BuiltinResult{Value: Null, ReplaceSelf: &replaced}
}

func arrayPop(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustArray(call, args, 0)
	if len(self.Elems) == 0 {
		Panicf(call.Span, "pop from empty array")
	}
	last := self.Elems[len(self.Elems)-1]
	replaced := NewArray(self.Elems[:len(self.Elems)-1])
	return BuiltinResult{Value: last, ReplaceSelf: &replaced}
}

// arraySort implements Array.sort(keyfn?) — an implementation-defined
// addition beyond §4.6.1's minimum method list, generalized from
// columnsorter's "order elements by a derived key" idea (there: column
// names ordered by declared adjacency; here: array elements ordered by
// an optional user-supplied key function) onto a plain comparison sort,
// since the actual values being ordered form a total order, not the
// partial order columnsorter's topological sort targets.
func arraySort(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustArray(call, args, 0)
	var keyfn *Node
	if len(args) > 1 {
		k := args[1]
		if k.Kind != KFunction && k.Kind != KInternalFunction {
			Panicf(call.Span, "sort expects a function as its key argument")
		}
		keyfn = &k
	}

	type keyed struct {
		key  Node
		elem Node
	}
	pairs := make([]keyed, len(self.Elems))
	for i, e := range self.Elems {
		if keyfn != nil {
			pairs[i] = keyed{key: ev.invokeFunction(call.Span, *keyfn, []Node{e}), elem: e}
		} else {
			pairs[i] = keyed{key: e, elem: e}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return sortKeyLess(call.Span, pairs[i].key, pairs[j].key)
	})

	sorted := make([]Node, len(pairs))
	for i, p := range pairs {
		sorted[i] = p.elem
	}
	replaced := NewArray(sorted)
	return BuiltinResult{Value: Null, ReplaceSelf: &replaced}
}

func sortKeyLess(span Span, a, b Node) bool {
	if af, aOk := numericOnly(a); aOk {
		if bf, bOk := numericOnly(b); bOk {
			return af < bf
		}
	}
	if a.Kind == KString && b.Kind == KString {
		return a.StrVal < b.StrVal
	}
	Panicf(span, "cannot order values of type '%s' and '%s'", a.TypeName(), b.TypeName())
	panic("unreachable")
}

func arrayJoin(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustArray(call, args, 0)
	delim := args[1]
	if delim.Kind != KString {
		Panicf(call.Span, "join expects a string delimiter")
	}
	parts := make([]string, len(self.Elems))
	for i, e := range self.Elems {
		parts[i] = e.String()
	}
	return BuiltinResult{Value: NewString(strings.Join(parts, delim.StrVal))}
}
