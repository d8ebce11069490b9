package lang

import (
	"os"
	"testing"

	"github.com/grailbio/modu/internal/symbol"
)

// fileSession builds an Evaluator with a global "f" bound to an open
// *os.File-backed KFile value, since OpenFile.impl is unexported (file
// opening is a host/library concern per §6, not a globalBuiltins entry —
// Modu source has no way to construct one itself).
func fileSession(t *testing.T) (*Evaluator, *os.File) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "modu-file-test")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	ev := NewEvaluator(&stubHost{}, nil, "")
	ev.env.Let(symbol.Intern("f"), Node{Kind: KFile, File: &OpenFile{Name: f.Name(), impl: f}})
	return ev, f
}

type stubHost struct{}

func (stubHost) Print(string)                                {}
func (stubHost) Eprint(string)                                {}
func (stubHost) ReadLine(string) (string, bool)               { return "", false }
func (stubHost) ReadSource(string) (string, error)            { return "", nil }
func (stubHost) ResolveImport(string, string) (string, error) { return "", nil }
func (stubHost) Exit(int)                                     {}

func runFor(t *testing.T, ev *Evaluator, src string) Node {
	t.Helper()
	stmts, err := Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if err := Validate(stmts); err != nil {
		t.Fatalf("validate %q: %v", src, err)
	}
	result, err := ev.Run(stmts)
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return result
}

func TestFileWriteThenRead(t *testing.T) {
	ev, _ := fileSession(t)
	runFor(t, ev, `f.write("hello");`)
	got := runFor(t, ev, `f.read();`)
	if got.String() != "hello" {
		t.Fatalf("got %q", got.String())
	}
}

func TestFileAppend(t *testing.T) {
	ev, _ := fileSession(t)
	runFor(t, ev, `f.write("a");`)
	runFor(t, ev, `f.append("b");`)
	got := runFor(t, ev, `f.read();`)
	if got.String() != "ab" {
		t.Fatalf("got %q", got.String())
	}
}

func TestFileCloseThenUseErrors(t *testing.T) {
	ev, _ := fileSession(t)
	runFor(t, ev, `f.close();`)
	stmts, err := Parse(`f.read();`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate(stmts); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := ev.Run(stmts); err == nil {
		t.Fatal("expected error reading a closed file")
	}
}

func TestFileWriteRejectsNonString(t *testing.T) {
	ev, _ := fileSession(t)
	stmts, err := Parse(`f.write(1);`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate(stmts); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := ev.Run(stmts); err == nil {
		t.Fatal("expected error writing a non-string value")
	}
}
