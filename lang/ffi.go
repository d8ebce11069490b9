package lang

// FFIBridge is the external collaborator §1/§6 carve out: "the FFI
// bridge" is out of scope for the core and plugs in through exactly this
// seam. The core never loads a dynamic library or marshals a native call
// itself; it just forwards the resolved symbol name and evaluated
// arguments to whatever bridge the embedding wires in.
type FFIBridge interface {
	Call(libraryPath, symbol string, args []Node) (Node, error)
}

// callFFI implements the FFILibrary arm of §4.6's call dispatch: the
// property name recorded on callee.FFI.PendingSymbol (set when the
// PropertyAccess was evaluated) selects which symbol in the library to
// invoke.
func (ev *Evaluator) callFFI(n Node, callee Node, args []Node) Node {
	if callee.FFI == nil || callee.FFI.PendingSymbol == "" {
		Panicf(n.Span, "FFI call requires a library.symbol property access")
	}
	if ev.ffi == nil {
		Panicf(n.Span, "FFI bridge is not configured for this host")
	}
	result, err := ev.ffi.Call(callee.FFI.Path, callee.FFI.PendingSymbol, args)
	if err != nil {
		Panicf(n.Span, "FFI call to '%s' failed: %v", callee.FFI.PendingSymbol, err)
	}
	return result
}
