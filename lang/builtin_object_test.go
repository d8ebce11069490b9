package lang_test

import (
	"testing"

	"github.com/grailbio/modu/internal/symbol"
	"github.com/grailbio/modu/lang"
	"github.com/grailbio/modu/lang/langtest"
)

func objectSession(t *testing.T) *lang.Session {
	t.Helper()
	sess := langtest.NewSession()
	sess.SetGlobal("obj", lang.NewObject([]lang.Field{
		{Key: symbol.Intern("a"), Value: lang.NewInt(1)},
		{Key: symbol.Intern("b"), Value: lang.NewInt(2)},
	}))
	return sess
}

func TestObjectKeys(t *testing.T) {
	sess := objectSession(t)
	got, err := sess.RunSource("obj.keys();")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != `["a", "b"]` {
		t.Fatalf("got %q", got.String())
	}
}

func TestObjectValues(t *testing.T) {
	sess := objectSession(t)
	got, err := sess.RunSource("obj.values();")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "[1, 2]" {
		t.Fatalf("got %q", got.String())
	}
}

func TestObjectPropertyFallsBackToMethodTable(t *testing.T) {
	sess := objectSession(t)
	_, err := sess.RunSource("obj.nonexistent;")
	if err == nil {
		t.Fatal("expected error for unknown property/method")
	}
}

func TestObjectFieldShadowsMethodTable(t *testing.T) {
	sess := langtest.NewSession()
	sess.SetGlobal("obj", lang.NewObject([]lang.Field{
		{Key: symbol.Intern("keys"), Value: lang.NewString("not a method")},
	}))
	got, err := sess.RunSource("obj.keys;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "not a method" {
		t.Fatalf("got %q, expected the field value to shadow the builtin method", got.String())
	}
}
