package lang_test

import (
	"testing"

	"github.com/grailbio/modu/lang/langtest"
)

func TestIntMinMax(t *testing.T) {
	got := langtest.Run(t, "3.min(5);")
	if got.String() != "3" {
		t.Fatalf("got %q", got.String())
	}
	got = langtest.Run(t, "3.max(5);")
	if got.String() != "5" {
		t.Fatalf("got %q", got.String())
	}
}

func TestIntMinMaxAgainstFloat(t *testing.T) {
	got := langtest.Run(t, "3.min(2.5);")
	if got.String() != "2.5" {
		t.Fatalf("got %q", got.String())
	}
}

func TestFloatMinMax(t *testing.T) {
	got := langtest.Run(t, "3.5.min(2.0);")
	if got.String() != "2" {
		t.Fatalf("got %q", got.String())
	}
	got = langtest.Run(t, "3.5.max(2.0);")
	if got.String() != "3.5" {
		t.Fatalf("got %q", got.String())
	}
}

func TestIntMinRejectsNonNumeric(t *testing.T) {
	msg := langtest.RunError(t, `3.min("x");`)
	if msg == "" {
		t.Fatal("expected error for non-numeric argument")
	}
}
