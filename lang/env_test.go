package lang

import (
	"testing"

	"github.com/grailbio/modu/internal/symbol"
)

func TestEnvironmentLetThenGet(t *testing.T) {
	env := NewEnvironment()
	env.Let(symbol.Intern("x"), NewInt(1))
	got, ok := env.Get(symbol.Intern("x"))
	if !ok || got.IntVal != 1 {
		t.Fatalf("got %v, %v", got, ok)
	}
}

func TestEnvironmentAssignRequiresExistingBinding(t *testing.T) {
	env := NewEnvironment()
	if env.Assign(symbol.Intern("x"), NewInt(1)) {
		t.Fatal("expected Assign to fail for an unbound name")
	}
	env.Let(symbol.Intern("x"), NewInt(1))
	if !env.Assign(symbol.Intern("x"), NewInt(2)) {
		t.Fatal("expected Assign to succeed for a bound name")
	}
	got, _ := env.Get(symbol.Intern("x"))
	if got.IntVal != 2 {
		t.Fatalf("got %d", got.IntVal)
	}
}

func TestEnvironmentBlockExitRemovesOnlyNewBindings(t *testing.T) {
	env := NewEnvironment()
	env.Let(symbol.Intern("outer"), NewInt(1))

	depth := env.EnterBlock()
	env.Let(symbol.Intern("inner"), NewInt(2))
	env.Let(symbol.Intern("outer"), NewInt(99)) // overwrite persists
	env.ExitBlock(depth)

	if _, ok := env.Get(symbol.Intern("inner")); ok {
		t.Fatal("expected inner binding to be removed on block exit")
	}
	got, ok := env.Get(symbol.Intern("outer"))
	if !ok || got.IntVal != 99 {
		t.Fatalf("expected outer's overwrite to persist, got %v, %v", got, ok)
	}
}

func TestEnvironmentCloneIsIndependent(t *testing.T) {
	env := NewEnvironment()
	env.Let(symbol.Intern("x"), NewInt(1))

	clone := env.Clone()
	clone.Let(symbol.Intern("x"), NewInt(2))
	clone.Let(symbol.Intern("y"), NewInt(3))

	got, _ := env.Get(symbol.Intern("x"))
	if got.IntVal != 1 {
		t.Fatalf("expected original to be unaffected by clone mutation, got %d", got.IntVal)
	}
	if _, ok := env.Get(symbol.Intern("y")); ok {
		t.Fatal("expected original to not see bindings added only to the clone")
	}
}

func TestEnvironmentReservedImportContext(t *testing.T) {
	env := NewEnvironment()
	if env.CurrentlyParsingModulePath() != "" || env.CurrentlyParsingPackageName() != "" {
		t.Fatal("expected empty defaults before SetReservedImportContext")
	}
	env.SetReservedImportContext("/tmp/foo.modu", "foo")
	if env.CurrentlyParsingModulePath() != "/tmp/foo.modu" {
		t.Fatalf("got %q", env.CurrentlyParsingModulePath())
	}
	if env.CurrentlyParsingPackageName() != "foo" {
		t.Fatalf("got %q", env.CurrentlyParsingPackageName())
	}
}

func TestEnvironmentKeys(t *testing.T) {
	env := NewEnvironment()
	env.Let(symbol.Intern("a"), NewInt(1))
	env.Let(symbol.Intern("b"), NewInt(2))
	keys := env.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}
