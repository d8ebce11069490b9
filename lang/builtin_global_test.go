package lang_test

import (
	"testing"

	"github.com/grailbio/modu/lang/langtest"
)

func TestCoercionStr(t *testing.T) {
	got := langtest.Run(t, "str(42);")
	if got.String() != "42" {
		t.Fatalf("got %q", got.String())
	}
}

func TestCoercionInt(t *testing.T) {
	cases := []struct{ src, want string }{
		{`int("42");`, "42"},
		{"int(3.9);", "3"},
		{"int(true);", "1"},
		{"int(false);", "0"},
	}
	for _, c := range cases {
		got := langtest.Run(t, c.src)
		if got.String() != c.want {
			t.Errorf("%s: got %q, want %q", c.src, got.String(), c.want)
		}
	}
}

func TestCoercionFloat(t *testing.T) {
	got := langtest.Run(t, `float("3.5");`)
	if got.String() != "3.5" {
		t.Fatalf("got %q", got.String())
	}
}

func TestCoercionBoolIsTotalAndMirrorsTruthy(t *testing.T) {
	cases := []struct{ src, want string }{
		{`bool("yes");`, "true"},
		{`bool("no");`, "true"},
		{`bool("");`, "true"},
		{"bool(null);", "false"},
		{"bool(1);", "true"},
		{"bool(0);", "false"},
		{"bool([]);", "true"},
		{"fn f() {} bool(f);", "true"},
	}
	for _, c := range cases {
		got := langtest.Run(t, c.src)
		if got.String() != c.want {
			t.Errorf("%s: got %q, want %q", c.src, got.String(), c.want)
		}
	}
}

func TestCoercionIntRejectsGarbage(t *testing.T) {
	msg := langtest.RunError(t, `int("not a number");`)
	if msg == "" {
		t.Fatal("expected error converting garbage string to int")
	}
}

func TestTypeBuiltin(t *testing.T) {
	cases := []struct{ src, want string }{
		{"type(1);", "int"},
		{"type(1.0);", "float"},
		{`type("x");`, "string"},
		{"type(true);", "bool"},
		{"type(null);", "null"},
		{"type([1]);", "array"},
	}
	for _, c := range cases {
		got := langtest.Run(t, c.src)
		if got.String() != c.want {
			t.Errorf("%s: got %q, want %q", c.src, got.String(), c.want)
		}
	}
}

func TestTypeBuiltinOnFunction(t *testing.T) {
	got := langtest.Run(t, "fn f() {} type(f);")
	if got.String() != "function" {
		t.Fatalf("got %q", got.String())
	}
}

func TestPrintReturnsNull(t *testing.T) {
	got := langtest.Run(t, `print("hi");`)
	if got.TypeName() != "null" {
		t.Fatalf("expected print() to evaluate to null, got %s", got.TypeName())
	}
}
