package lang_test

import (
	"testing"

	"github.com/grailbio/modu/lang/langtest"
)

func TestArrayLen(t *testing.T) {
	got := langtest.Run(t, "[1, 2, 3].len();")
	if got.String() != "3" {
		t.Fatalf("got %q", got.String())
	}
}

func TestArrayClear(t *testing.T) {
	got := langtest.Run(t, "let a = [1, 2, 3]; a.clear(); a;")
	if got.String() != "[]" {
		t.Fatalf("got %q", got.String())
	}
}

func TestArrayPopReturnsLastElement(t *testing.T) {
	got := langtest.Run(t, "let a = [1, 2, 3]; a.pop();")
	if got.String() != "3" {
		t.Fatalf("got %q", got.String())
	}
}

func TestArrayPopFromEmptyErrors(t *testing.T) {
	msg := langtest.RunError(t, "let a = []; a.pop();")
	if msg == "" {
		t.Fatal("expected error popping empty array")
	}
}

func TestArrayJoin(t *testing.T) {
	got := langtest.Run(t, `["a", "b", "c"].join("-");`)
	if got.String() != "a-b-c" {
		t.Fatalf("got %q", got.String())
	}
}

func TestArrayJoinRejectsNonStringDelimiter(t *testing.T) {
	msg := langtest.RunError(t, `[1, 2].join(1);`)
	if msg == "" {
		t.Fatal("expected error for non-string delimiter")
	}
}

func TestArraySortDefaultNumeric(t *testing.T) {
	got := langtest.Run(t, "let a = [3, 1, 2]; a.sort(); a;")
	if got.String() != "[1, 2, 3]" {
		t.Fatalf("got %q", got.String())
	}
}

func TestArraySortMixedTypesErrors(t *testing.T) {
	msg := langtest.RunError(t, `let a = [1, "x"]; a.sort();`)
	if msg == "" {
		t.Fatal("expected an ordering error for mixed types")
	}
}

func TestArraySortRejectsNonFunctionKey(t *testing.T) {
	msg := langtest.RunError(t, "let a = [1, 2]; a.sort(5);")
	if msg == "" {
		t.Fatal("expected error for non-function sort key")
	}
}

func TestArrayMethodOnNonArrayErrors(t *testing.T) {
	msg := langtest.RunError(t, `"hi".push(1);`)
	if msg == "" {
		t.Fatal("expected error calling array method on string")
	}
}
