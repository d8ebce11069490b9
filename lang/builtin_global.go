package lang

import (
	"strconv"
	"strings"

	"github.com/grailbio/modu/internal/symbol"
)

// installBuiltins seeds env with the initial context of §4.7, grounded on
// lang/src/functions.rs's fill_context (original_source): I/O built-ins
// (print, eprint, input, exit) and coercions (str, int, float, bool,
// type).
func installBuiltins(env *Environment) {
	for name, entry := range globalBuiltins {
		env.Let(name, Node{Kind: KInternalFunction, Name: name, Params: entry.params, Handle: entry.handle})
	}
}

var globalBuiltins map[symbol.ID]builtinEntry

func init() {
	globalBuiltins = map[symbol.ID]builtinEntry{
		symbol.Intern("print"):  {biPrint, symbols(sentinelArgs)},
		symbol.Intern("eprint"): {biEprint, symbols(sentinelArgs)},
		symbol.Intern("input"):  {biInput, symbols(sentinelArgs)},
		symbol.Intern("exit"):   {biExit, symbols(sentinelArgs)},
		symbol.Intern("str"):    {biStr, symbols("value")},
		symbol.Intern("int"):    {biInt, symbols("value")},
		symbol.Intern("float"):  {biFloat, symbols("value")},
		symbol.Intern("bool"):   {biBool, symbols("value")},
		symbol.Intern("type"):   {biType, symbols("value")},
	}
}

func biPrint(ev *Evaluator, call Node, args []Node) BuiltinResult {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	ev.host.Print(strings.Join(parts, ""))
	return BuiltinResult{Value: Null}
}

func biEprint(ev *Evaluator, call Node, args []Node) BuiltinResult {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	ev.host.Eprint(strings.Join(parts, ""))
	return BuiltinResult{Value: Null}
}

func biInput(ev *Evaluator, call Node, args []Node) BuiltinResult {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	line, _ := ev.host.ReadLine(strings.Join(parts, ""))
	return BuiltinResult{Value: NewString(line)}
}

func biExit(ev *Evaluator, call Node, args []Node) BuiltinResult {
	ev.host.Exit(0)
	return BuiltinResult{Value: Null}
}

func biStr(ev *Evaluator, call Node, args []Node) BuiltinResult {
	v := args[0]
	switch v.Kind {
	case KInt, KFloat, KString, KBool, KNull:
		return BuiltinResult{Value: NewString(v.String())}
	default:
		Panicf(call.Span, "cannot convert %s to string", v.TypeName())
		panic("unreachable")
	}
}

func biInt(ev *Evaluator, call Node, args []Node) BuiltinResult {
	v := args[0]
	switch v.Kind {
	case KInt:
		return BuiltinResult{Value: v}
	case KFloat:
		return BuiltinResult{Value: NewInt(int64(v.FloatVal))}
	case KString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.StrVal), 10, 64)
		if err != nil {
			Panicf(call.Span, "cannot convert %q to int", v.StrVal)
		}
		return BuiltinResult{Value: NewInt(n)}
	case KBool:
		if v.BoolVal {
			return BuiltinResult{Value: NewInt(1)}
		}
		return BuiltinResult{Value: NewInt(0)}
	default:
		Panicf(call.Span, "cannot convert %s to int", v.TypeName())
		panic("unreachable")
	}
}

func biFloat(ev *Evaluator, call Node, args []Node) BuiltinResult {
	v := args[0]
	switch v.Kind {
	case KInt:
		return BuiltinResult{Value: NewFloat(float64(v.IntVal))}
	case KFloat:
		return BuiltinResult{Value: v}
	case KString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.StrVal), 64)
		if err != nil {
			Panicf(call.Span, "cannot convert %q to float", v.StrVal)
		}
		return BuiltinResult{Value: NewFloat(f)}
	case KBool:
		if v.BoolVal {
			return BuiltinResult{Value: NewFloat(1)}
		}
		return BuiltinResult{Value: NewFloat(0)}
	default:
		Panicf(call.Span, "cannot convert %s to float", v.TypeName())
		panic("unreachable")
	}
}

// biBool is total (§7): every value kind converts, mirroring truthy()'s
// rule that strings and aggregates are truthy regardless of content.
func biBool(ev *Evaluator, call Node, args []Node) BuiltinResult {
	return BuiltinResult{Value: NewBool(truthy(args[0]))}
}

func biType(ev *Evaluator, call Node, args []Node) BuiltinResult {
	return BuiltinResult{Value: NewString(args[0].TypeName())}
}
