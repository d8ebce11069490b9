package lang

import "github.com/grailbio/modu/internal/symbol"

// objectBuiltins is the Object method table. §4.6.1 requires the table to
// exist even when empty, so property access on an Object falls through to
// it (rather than erroring on a missing table) before failing with
// "object has no property named ..." for anything not a field and not a
// method.
var objectBuiltins map[symbol.ID]builtinEntry

func init() {
	objectBuiltins = map[symbol.ID]builtinEntry{
		symbol.Intern("keys"):   {objectKeys, symbols(sentinelSelf)},
		symbol.Intern("values"): {objectValues, symbols(sentinelSelf)},
	}
}

func mustObject(call Node, args []Node, idx int) Node {
	v := args[idx]
	if v.Kind != KObject {
		Panicf(call.Span, "expected an object receiver")
	}
	return v
}

func objectKeys(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustObject(call, args, 0)
	elems := make([]Node, len(self.Fields))
	for i, f := range self.Fields {
		elems[i] = NewString(f.Key.Str())
	}
	return BuiltinResult{Value: NewArray(elems)}
}

func objectValues(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustObject(call, args, 0)
	elems := make([]Node, len(self.Fields))
	for i, f := range self.Fields {
		elems[i] = f.Value
	}
	return BuiltinResult{Value: NewArray(elems)}
}
