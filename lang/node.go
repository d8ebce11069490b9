package lang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/modu/internal/symbol"
)

// Kind identifies which variant a Node holds. A Node is the single sum type
// used both as an AST node (as produced by the parser) and as a runtime
// value (as produced by the evaluator) per §3.2: a function value is
// literally the AST subtree of its body, and an Array's elements are
// already-evaluated Nodes.
type Kind uint8

const (
	KInt Kind = iota
	KFloat
	KString
	KBool
	KNull
	KIdentifier

	KArray
	KObject
	KModule

	KRange
	KInclusiveRange

	KUnaryOp
	KBinaryOp

	KLet
	KAssign

	KPropertyAccess
	KIndexAccess
	KCall

	KIf
	KInfiniteLoop
	KWhileLoop
	KForLoop
	KReturn
	KBreak
	KContinue
	KBlock

	KFunction
	KInternalFunction

	KFile
	KFFILibrary

	KImport
)

// Op identifies a unary/binary operator or a compound-assignment operator.
type Op uint8

const (
	OpNone Op = iota
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
	OpEqual
	OpNotEqual
	OpLt
	OpLe
	OpGt
	OpGe
	OpIn
	OpNotIn
)

// Field is a single Object/Module member.
type Field struct {
	Key   symbol.ID
	Value Node
}

// ElseIf is one `else if cond { body }` arm of an If node.
type ElseIf struct {
	Cond Node
	Body Node
}

// BuiltinResult is what a built-in method handle (§4.6.1) returns: the
// call's result value, and an optional replacement for the receiver (the
// "replace_self" mutation protocol of §4.6/§9).
type BuiltinResult struct {
	Value       Node
	ReplaceSelf *Node
}

// BuiltinHandle is the signature every built-in method/function conforms
// to. ev gives access to the evaluator for recursive calls (e.g. a
// closure argument); call is the call-site node, used only for error
// position; args are the already-evaluated argument values.
type BuiltinHandle func(ev *Evaluator, call Node, args []Node) BuiltinResult

// Node is the unified AST/value type (§3.2). Not every field is
// meaningful for every Kind; see the per-Kind comments below. Node is
// passed by value: once constructed, the fields a given Kind uses are
// never mutated in place, only replaced wholesale (e.g. via
// BuiltinResult.ReplaceSelf), so sharing sub-Nodes (slices, *Node
// children) between clones is always safe (§3.4).
type Node struct {
	Kind Kind
	Span Span

	// KInt, KFloat, KString, KBool, KIdentifier.
	IntVal   int64
	FloatVal float64
	StrVal   string
	BoolVal  bool
	Name     symbol.ID

	// KArray.
	Elems []Node

	// KObject, KModule.
	Fields []Field

	// KRange, KInclusiveRange: unevaluated bound expressions.
	RangeStart *Node
	RangeEnd   *Node

	// KUnaryOp, KBinaryOp.
	Op    Op
	LHS   *Node
	RHS   *Node

	// KLet: Name, RHS (value). KAssign: Name, Op (compound operator or
	// OpNone for plain "="), RHS (value).

	// KPropertyAccess: LHS (object), Name (property).
	// KIndexAccess: LHS (object), RHS (index expression).

	// KCall: LHS (callee), Elems (args).

	// KIf.
	Cond    *Node
	Then    *Node
	ElseIfs []ElseIf
	Else    *Node

	// KInfiniteLoop, KWhileLoop: Cond (nil for infinite), Then (body).
	// KForLoop: Name (iterator var), RHS (iterator range expr), Then (body).

	// KReturn: RHS optional. KBlock: Elems (statements).

	// KFunction: Name (optional, empty for anonymous), Params, Then (body).
	// KInternalFunction: Name, Params (may include "__args__"/"self"
	// sentinels via Params), Handle.
	Params []symbol.ID
	Handle BuiltinHandle

	// KFile: opaque handle.
	File *OpenFile
	// KFFILibrary: opaque handle + remembered pending symbol name.
	FFI *FFILibrary

	// KImport: StrVal (module name/path), Name (import-as, Invalid if
	// none given), BoolVal (true for "as *" splat).
}

// Params sentinels (§3.2).
const (
	sentinelArgs = "__args__"
	sentinelSelf = "self"
)

var (
	symArgs = symbol.Intern(sentinelArgs)
	symSelf = symbol.Intern(sentinelSelf)
)

func hasParam(params []symbol.ID, want symbol.ID) bool {
	for _, p := range params {
		if p == want {
			return true
		}
	}
	return false
}

// OpenFile is the opaque handle behind a KFile value (§3.2; the file
// standard-library module is an external collaborator per §1, this is
// just the value-domain placeholder it plugs into).
type OpenFile struct {
	Name   string
	Closed bool
	impl   interface{}
}

// FFILibrary is the opaque handle behind a KFFILibrary value (§3.2/§4.6
// "FFILibrary ... the property name is remembered by the subsequent Call
// site").
type FFILibrary struct {
	Path         string
	PendingSymbol string
	impl         interface{}
}

// --- constructors -----------------------------------------------------

func NewInt(v int64) Node    { return Node{Kind: KInt, IntVal: v} }
func NewFloat(v float64) Node { return Node{Kind: KFloat, FloatVal: v} }
func NewString(v string) Node { return Node{Kind: KString, StrVal: v} }
func NewBool(v bool) Node    { return Node{Kind: KBool, BoolVal: v} }
func NewNull() Node          { return Node{Kind: KNull} }

var (
	Null  = NewNull()
	True  = NewBool(true)
	False = NewBool(false)
)

func NewArray(elems []Node) Node { return Node{Kind: KArray, Elems: elems} }
func NewObject(fields []Field) Node { return Node{Kind: KObject, Fields: fields} }

// --- type tag / printing ----------------------------------------------

// TypeName returns the lowercased type-tag string used by the `type()`
// built-in (§4.7).
func (n Node) TypeName() string {
	switch n.Kind {
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KString:
		return "string"
	case KBool:
		return "bool"
	case KNull:
		return "null"
	case KArray:
		return "array"
	case KObject:
		return "object"
	case KModule:
		return "module"
	case KRange, KInclusiveRange:
		return "range"
	case KFunction, KInternalFunction:
		return "function"
	case KFile:
		return "file"
	case KFFILibrary:
		return "ffi_library"
	default:
		return "unknown"
	}
}

// String renders n for error messages and the print() built-in.
func (n Node) String() string {
	switch n.Kind {
	case KInt:
		return fmt.Sprintf("%d", n.IntVal)
	case KFloat:
		return fmt.Sprintf("%v", n.FloatVal)
	case KString:
		return n.StrVal
	case KBool:
		if n.BoolVal {
			return "true"
		}
		return "false"
	case KNull:
		return "null"
	case KArray:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = e.reprString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KObject:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = f.Key.Str() + ": " + f.Value.reprString()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KModule:
		return "<module>"
	case KFunction, KInternalFunction:
		return "<function " + n.Name.Str() + ">"
	case KFile:
		return "<file>"
	case KFFILibrary:
		return "<ffi_library>"
	default:
		return "<" + n.TypeName() + ">"
	}
}

// reprString is like String but quotes strings, matching how nested
// container elements should print (print("a") prints a, but print([a])
// prints ["a"]).
func (n Node) reprString() string {
	if n.Kind == KString {
		return strconv.Quote(n.StrVal)
	}
	return n.String()
}
