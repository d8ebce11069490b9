package lang

import (
	"errors"
	"testing"

	"github.com/grailbio/modu/internal/symbol"
)

type stubFFIBridge struct {
	lastLib, lastSym string
	lastArgs         []Node
	fail             bool
}

func (b *stubFFIBridge) Call(libraryPath, sym string, args []Node) (Node, error) {
	if b.fail {
		return Node{}, errors.New("boom")
	}
	b.lastLib, b.lastSym, b.lastArgs = libraryPath, sym, args
	return NewInt(42), nil
}

func ffiSession(t *testing.T, bridge *stubFFIBridge) *Evaluator {
	t.Helper()
	ev := NewEvaluator(&stubHost{}, nil, "")
	ev.SetFFIBridge(bridge)
	ev.env.Let(symbol.Intern("lib"), Node{Kind: KFFILibrary, FFI: &FFILibrary{Path: "libfoo.so"}})
	return ev
}

func TestFFICallDispatchesToBridge(t *testing.T) {
	bridge := &stubFFIBridge{}
	ev := ffiSession(t, bridge)
	got := runFor(t, ev, "lib.do_thing(1, 2);")
	if got.String() != "42" {
		t.Fatalf("got %q", got.String())
	}
	if bridge.lastLib != "libfoo.so" || bridge.lastSym != "do_thing" {
		t.Fatalf("bridge saw lib=%q sym=%q", bridge.lastLib, bridge.lastSym)
	}
	if len(bridge.lastArgs) != 2 {
		t.Fatalf("expected 2 args forwarded, got %d", len(bridge.lastArgs))
	}
}

func TestFFICallWithoutBridgeConfiguredErrors(t *testing.T) {
	ev := NewEvaluator(&stubHost{}, nil, "")
	ev.env.Let(symbol.Intern("lib"), Node{Kind: KFFILibrary, FFI: &FFILibrary{Path: "libfoo.so"}})
	stmts, err := Parse("lib.do_thing();")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ev.Run(stmts); err == nil {
		t.Fatal("expected error with no FFI bridge configured")
	}
}

func TestFFIBridgeErrorPropagates(t *testing.T) {
	bridge := &stubFFIBridge{fail: true}
	ev := ffiSession(t, bridge)
	stmts, err := Parse("lib.do_thing();")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ev.Run(stmts); err == nil {
		t.Fatal("expected bridge error to propagate")
	}
}
