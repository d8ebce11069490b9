// Package langtest provides helper functions for lang's unit tests,
// adapted from gqltest/gqltest.go's "Eval" helper: construct a session,
// run one source string, hand back the result instead of re-deriving the
// parse/validate/eval boilerplate in every test.
package langtest

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/modu/lang"
	"github.com/stretchr/testify/require"
)

// stubHost is a minimal lang.Host that discards program output and has no
// importable files, suitable for tests that don't exercise I/O or imports.
type stubHost struct {
	printed  []string
	eprinted []string
}

func (h *stubHost) Print(text string)  { h.printed = append(h.printed, text) }
func (h *stubHost) Eprint(text string) { h.eprinted = append(h.eprinted, text) }
func (h *stubHost) ReadLine(prompt string) (string, bool) {
	return "", false
}
func (h *stubHost) ReadSource(path string) (string, error) {
	return "", errors.E(errors.NotExist, "langtest: no source files configured, cannot read "+path)
}
func (h *stubHost) ResolveImport(name, anchor string) (string, error) {
	return "", errors.E(errors.NotExist, "langtest: no import resolution configured for "+name)
}
func (h *stubHost) Exit(status int) {}

// NewSession creates a lang.Session with a stub Host and no registry,
// suitable for tests that evaluate self-contained source.
func NewSession() *lang.Session {
	return lang.NewSession(&stubHost{}, nil, "")
}

// Run parses and evaluates src against a fresh session and returns its
// final value. It fails the test via require-style assertion on any
// diagnostic, so call sites that expect an error should use RunError
// instead.
func Run(t testing.TB, src string) lang.Node {
	t.Helper()
	sess := NewSession()
	result, err := sess.RunSource(src)
	require.NoError(t, err)
	return result
}

// RunError parses and evaluates src against a fresh session, and returns
// the resulting diagnostic's message. It fails the test if src produces no
// error.
func RunError(t testing.TB, src string) string {
	t.Helper()
	sess := NewSession()
	_, err := sess.RunSource(src)
	require.Error(t, err)
	return err.Error()
}
