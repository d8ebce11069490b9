package lang_test

import (
	"testing"

	"github.com/grailbio/modu/internal/symbol"
	"github.com/grailbio/modu/lang"
)

func TestSessionSetGlobal(t *testing.T) {
	sess := lang.NewSession(noopHost{}, nil, "")
	sess.SetGlobal("greeting", lang.NewString("hi"))
	got, err := sess.RunSource("greeting;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "hi" {
		t.Fatalf("got %q", got.String())
	}
}

func TestSessionStatePersistsAcrossRunSourceCalls(t *testing.T) {
	sess := lang.NewSession(noopHost{}, nil, "")
	if _, err := sess.RunSource("let x = 1;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := sess.RunSource("x + 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "2" {
		t.Fatalf("got %q", got.String())
	}
}

func TestSessionParseThenRun(t *testing.T) {
	sess := lang.NewSession(noopHost{}, nil, "")
	stmts, err := sess.Parse("1 + 2;")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := sess.Run(stmts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.String() != "3" {
		t.Fatalf("got %q", got.String())
	}
}

func TestSessionParseRejectsInvalidFlowPlacement(t *testing.T) {
	sess := lang.NewSession(noopHost{}, nil, "")
	_, err := sess.Parse("break;")
	if err == nil {
		t.Fatal("expected validation error for break outside loop")
	}
}

func TestSessionEnvReflectsBindings(t *testing.T) {
	sess := lang.NewSession(noopHost{}, nil, "")
	if _, err := sess.RunSource("let x = 5;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := sess.Env().Get(symbol.Intern("x"))
	if !ok {
		t.Fatal("expected x to be bound in the session environment")
	}
	if v.String() != "5" {
		t.Fatalf("got %q", v.String())
	}
}
