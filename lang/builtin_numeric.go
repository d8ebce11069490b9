package lang

import "github.com/grailbio/modu/internal/symbol"

var intBuiltins map[symbol.ID]builtinEntry
var floatBuiltins map[symbol.ID]builtinEntry

func init() {
	intBuiltins = map[symbol.ID]builtinEntry{
		symbol.Intern("min"): {intMin, symbols(sentinelSelf, "b")},
		symbol.Intern("max"): {intMax, symbols(sentinelSelf, "b")},
	}
	// Float's table is kept at parity with Int (§4.6.1: "implementation-
	// defined, at least min/max for parity").
	floatBuiltins = map[symbol.ID]builtinEntry{
		symbol.Intern("min"): {floatMin, symbols(sentinelSelf, "b")},
		symbol.Intern("max"): {floatMax, symbols(sentinelSelf, "b")},
	}
}

func intMin(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self, other := args[0], args[1]
	bf, ok := numericOnly(other)
	if self.Kind != KInt || !ok {
		Panicf(call.Span, "min expects a numeric argument")
	}
	if float64(self.IntVal) <= bf {
		return BuiltinResult{Value: self}
	}
	return BuiltinResult{Value: other}
}

func intMax(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self, other := args[0], args[1]
	bf, ok := numericOnly(other)
	if self.Kind != KInt || !ok {
		Panicf(call.Span, "max expects a numeric argument")
	}
	if float64(self.IntVal) >= bf {
		return BuiltinResult{Value: self}
	}
	return BuiltinResult{Value: other}
}

func floatMin(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self, other := args[0], args[1]
	bf, ok := numericOnly(other)
	if self.Kind != KFloat || !ok {
		Panicf(call.Span, "min expects a numeric argument")
	}
	if self.FloatVal <= bf {
		return BuiltinResult{Value: self}
	}
	return BuiltinResult{Value: other}
}

func floatMax(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self, other := args[0], args[1]
	bf, ok := numericOnly(other)
	if self.Kind != KFloat || !ok {
		Panicf(call.Span, "max expects a numeric argument")
	}
	if self.FloatVal >= bf {
		return BuiltinResult{Value: self}
	}
	return BuiltinResult{Value: other}
}
