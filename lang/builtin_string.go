package lang

import (
	"strings"

	"github.com/grailbio/modu/internal/symbol"
)

var stringBuiltins map[symbol.ID]builtinEntry

func init() {
	stringBuiltins = map[symbol.ID]builtinEntry{
		symbol.Intern("len"):         {stringLen, symbols(sentinelSelf)},
		symbol.Intern("split"):       {stringSplit, symbols(sentinelSelf, "delim")},
		symbol.Intern("replace"):     {stringReplace, symbols(sentinelSelf, "a", "b")},
		symbol.Intern("trim"):        {stringTrim, symbols(sentinelSelf)},
		symbol.Intern("to_upper"):    {stringToUpper, symbols(sentinelSelf)},
		symbol.Intern("to_lower"):    {stringToLower, symbols(sentinelSelf)},
		symbol.Intern("starts_with"): {stringStartsWith, symbols(sentinelSelf, "prefix")},
		symbol.Intern("ends_with"):   {stringEndsWith, symbols(sentinelSelf, "suffix")},
		symbol.Intern("chars"):       {stringChars, symbols(sentinelSelf)},
	}
}

func mustString(call Node, args []Node, idx int) Node {
	v := args[idx]
	if v.Kind != KString {
		Panicf(call.Span, "expected a string receiver")
	}
	return v
}

func stringLen(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	return BuiltinResult{Value: NewInt(int64(runeLen(self.StrVal)))}
}

// stringSplit: an empty delimiter splits into one-rune strings, dropping
// empty pieces (§4.6.1).
func stringSplit(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	delim := args[1]
	if delim.Kind != KString {
		Panicf(call.Span, "split expects a string delimiter")
	}
	var parts []string
	if delim.StrVal == "" {
		for _, r := range self.StrVal {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(self.StrVal, delim.StrVal)
	}
	elems := make([]Node, len(parts))
	for i, p := range parts {
		elems[i] = NewString(p)
	}
	return BuiltinResult{Value: NewArray(elems)}
}

func stringReplace(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	a, b := args[1], args[2]
	if a.Kind != KString || b.Kind != KString {
		Panicf(call.Span, "replace expects two string arguments")
	}
	return BuiltinResult{Value: NewString(strings.ReplaceAll(self.StrVal, a.StrVal, b.StrVal))}
}

func stringTrim(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	return BuiltinResult{Value: NewString(strings.TrimSpace(self.StrVal))}
}

func stringToUpper(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	return BuiltinResult{Value: NewString(strings.ToUpper(self.StrVal))}
}

func stringToLower(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	return BuiltinResult{Value: NewString(strings.ToLower(self.StrVal))}
}

func stringStartsWith(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	prefix := args[1]
	if prefix.Kind != KString {
		Panicf(call.Span, "starts_with expects a string prefix")
	}
	return BuiltinResult{Value: NewBool(strings.HasPrefix(self.StrVal, prefix.StrVal))}
}

func stringEndsWith(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	suffix := args[1]
	if suffix.Kind != KString {
		Panicf(call.Span, "ends_with expects a string suffix")
	}
	return BuiltinResult{Value: NewBool(strings.HasSuffix(self.StrVal, suffix.StrVal))}
}

func stringChars(ev *Evaluator, call Node, args []Node) BuiltinResult {
	self := mustString(call, args, 0)
	var elems []Node
	for _, r := range self.StrVal {
		elems = append(elems, NewString(string(r)))
	}
	return BuiltinResult{Value: NewArray(elems)}
}
