package lang

import (
	"github.com/grailbio/modu/internal/modcache"
	"github.com/grailbio/modu/internal/symbol"
)

// Session is the embedding-facing driver API (§6): construct one per
// REPL/script run, call Parse+Run (or RunSource) per source unit. It owns
// the single Evaluator (and therefore the single Environment) a run's
// statements accumulate into, mirroring the teacher's gql.Session role of
// bundling "parsed program + live environment + host" behind one handle.
type Session struct {
	ev *Evaluator
}

// NewSession constructs a Session against host and registry, rooted at
// anchor (the directory relative-imports resolve against).
func NewSession(host Host, registry Registry, anchor string) *Session {
	return &Session{ev: NewEvaluator(host, registry, anchor)}
}

// SetFFIBridge wires the FFI collaborator in; see Evaluator.SetFFIBridge.
func (s *Session) SetFFIBridge(bridge FFIBridge) { s.ev.SetFFIBridge(bridge) }

// SetModuleCache wires in a parsed-module cache; see Evaluator.SetModuleCache.
func (s *Session) SetModuleCache(c *modcache.Cache) { s.ev.SetModuleCache(c) }

// SetGlobal binds name directly into the session's top-level environment,
// e.g. for a host to expose a value before running any source (§6).
func (s *Session) SetGlobal(name string, value Node) {
	s.ev.Env().Let(symbol.Intern(name), value)
}

// Parse lexes and parses src, then runs the static validator (§4.3) over
// the result, returning the statement list ready for Run. Splitting Parse
// from Run lets a caller validate many source units before executing any
// of them, the way a REPL wants to catch a syntax error before echoing a
// partial prompt.
func (s *Session) Parse(src string) ([]Node, error) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if err := Validate(stmts); err != nil {
		return nil, err
	}
	return stmts, nil
}

// Run evaluates already-parsed statements against the session's live
// environment and returns the last statement's value.
func (s *Session) Run(stmts []Node) (Node, error) {
	return s.ev.Run(stmts)
}

// RunSource is the common case: parse+validate+run one source unit in a
// single call, the shape `lang/langtest`'s Run/RunError helpers wrap.
func (s *Session) RunSource(src string) (Node, error) {
	stmts, err := s.Parse(src)
	if err != nil {
		return Node{}, err
	}
	return s.Run(stmts)
}

// Env exposes the session's environment for inspection between runs (a
// REPL printing a trailing `_` value, a test asserting a binding exists).
func (s *Session) Env() *Environment { return s.ev.Env() }
