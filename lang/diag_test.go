package lang

import (
	"errors"
	"testing"
)

func TestPanicfRecoveredAsDiagnostic(t *testing.T) {
	span := Span{Start: 3, End: 7}
	err := Recover(func() {
		Panicf(span, "bad value: %d", 42)
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	diag, ok := AsDiagnostic(err)
	if !ok {
		t.Fatalf("expected a *Diagnostic, got %T", err)
	}
	if diag.Message != "bad value: 42" {
		t.Fatalf("got %q", diag.Message)
	}
	if diag.Span != span {
		t.Fatalf("got span %v, want %v", diag.Span, span)
	}
}

func TestRecoverReturnsNilWhenNoPanic(t *testing.T) {
	err := Recover(func() {})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRecoverWrapsNonDiagnosticPanics(t *testing.T) {
	err := Recover(func() {
		panic(errors.New("boom"))
	})
	if err == nil {
		t.Fatal("expected an error for a non-Diagnostic panic")
	}
	if _, ok := AsDiagnostic(err); ok {
		t.Fatal("expected a wrapped internal error, not a Diagnostic")
	}
}

func TestDiagnosticMessageShortTruncatesLongMessages(t *testing.T) {
	long := ""
	for i := 0; i < 80; i++ {
		long += "x"
	}
	err := Recover(func() {
		Panicf(Span{}, "%s", long)
	})
	diag, _ := AsDiagnostic(err)
	if len(diag.MessageShort) != 60 {
		t.Fatalf("expected a 60-char short message, got %d chars", len(diag.MessageShort))
	}
}

func TestAsDiagnosticFalseForPlainError(t *testing.T) {
	_, ok := AsDiagnostic(errors.New("plain"))
	if ok {
		t.Fatal("expected AsDiagnostic to return false for a non-Diagnostic error")
	}
}
