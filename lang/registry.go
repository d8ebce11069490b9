package lang

import (
	"strconv"

	"github.com/grailbio/modu/internal/symbol"
)

// builtinRegistry is a minimal, in-memory Registry (§6) used to exercise
// the import-from-registry path (import.go's `ev.registry != nil` branch)
// without pulling a real package manager into the core — the registry
// itself is named in §1 as an out-of-scope external collaborator, same as
// the FFI bridge, and only plugs in through Registry.GetPackage.
type builtinRegistry struct {
	packages map[string]func() Node
}

// Builtins returns a demonstration Registry supplying one package,
// "strconv", mirroring the teacher's own habit of wrapping a stdlib
// conversion package behind a small dispatch table. Real embeddings supply
// their own Registry; this one exists so the seam has a working example
// and a test.
func Builtins() Registry {
	return &builtinRegistry{packages: map[string]func() Node{
		"strconv": strconvPackage,
	}}
}

func (r *builtinRegistry) GetPackage(name string) (Node, bool) {
	build, ok := r.packages[name]
	if !ok {
		return Node{}, false
	}
	return build(), true
}

// strconvPackage builds the "strconv" demonstration module: a handful of
// numeric-string helpers layered over the standard library package of the
// same name, returned as a KModule Node so `import "strconv"` binds an
// object-like value whose fields are callable KInternalFunction entries,
// exactly like a module loaded from a .modu file (import.go's loadModuleFile).
func strconvPackage() Node {
	fields := []Field{
		{Key: symbol.Intern("parse_int"), Value: Node{
			Kind: KInternalFunction, Name: symbol.Intern("parse_int"),
			Params: symbols("value"), Handle: strconvParseInt,
		}},
		{Key: symbol.Intern("parse_float"), Value: Node{
			Kind: KInternalFunction, Name: symbol.Intern("parse_float"),
			Params: symbols("value"), Handle: strconvParseFloat,
		}},
		{Key: symbol.Intern("quote"), Value: Node{
			Kind: KInternalFunction, Name: symbol.Intern("quote"),
			Params: symbols("value"), Handle: strconvQuote,
		}},
	}
	return Node{Kind: KModule, Fields: fields}
}

func strconvParseInt(ev *Evaluator, call Node, args []Node) BuiltinResult {
	v := args[0]
	if v.Kind != KString {
		Panicf(call.Span, "parse_int expects a string argument")
	}
	n, err := strconv.ParseInt(v.StrVal, 10, 64)
	if err != nil {
		Panicf(call.Span, "parse_int: %v", err)
	}
	return BuiltinResult{Value: NewInt(n)}
}

func strconvParseFloat(ev *Evaluator, call Node, args []Node) BuiltinResult {
	v := args[0]
	if v.Kind != KString {
		Panicf(call.Span, "parse_float expects a string argument")
	}
	f, err := strconv.ParseFloat(v.StrVal, 64)
	if err != nil {
		Panicf(call.Span, "parse_float: %v", err)
	}
	return BuiltinResult{Value: NewFloat(f)}
}

func strconvQuote(ev *Evaluator, call Node, args []Node) BuiltinResult {
	return BuiltinResult{Value: NewString(strconv.Quote(args[0].String()))}
}
