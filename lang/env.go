package lang

import "github.com/grailbio/modu/internal/symbol"

// Reserved environment keys (§6) the evaluator writes/reads around import
// resolution.
var (
	symCurrentlyParsingModulePath  = symbol.Intern("CURRENTLY_PARSING_MODULE_PATH")
	symCurrentlyParsingPackageName = symbol.Intern("CURRENTLY_PARSING_PACKAGE_NAME")
)

// entry pairs a bound value with the block-nesting depth at which the
// name was first introduced.
type entry struct {
	value Node
	depth int
}

// Environment is the flat name→value map of §4.4. A single Environment is
// created per top-level run and seeded with built-ins; Block implements
// lexical scope by bumping depth on entry and, on exit, deleting exactly
// the keys introduced at-or-below that depth — keys that already existed
// are never removed, even if reassigned inside the block (§4.4, §9).
type Environment struct {
	vars  map[symbol.ID]entry
	depth int
}

// NewEnvironment creates an empty environment at block depth 0.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[symbol.ID]entry)}
}

// Clone duplicates the environment for a function call (§4.6, §9): the
// callee sees a snapshot of the caller's names at call time, and nothing
// the callee does to the clone is visible to the caller afterward.
func (e *Environment) Clone() *Environment {
	vars := make(map[symbol.ID]entry, len(e.vars))
	for k, v := range e.vars {
		vars[k] = v
	}
	return &Environment{vars: vars, depth: e.depth}
}

// Get looks up name, reporting whether it is bound.
func (e *Environment) Get(name symbol.ID) (Node, bool) {
	ent, ok := e.vars[name]
	return ent.value, ok
}

// Let binds name to value, creating it if necessary (§4.4: "Let ... write
// to it"; within Block, a fresh Let is tagged with the current depth so
// it is unwound on block exit).
func (e *Environment) Let(name symbol.ID, value Node) {
	if ent, ok := e.vars[name]; ok {
		ent.value = value
		e.vars[name] = ent
		return
	}
	e.vars[name] = entry{value: value, depth: e.depth}
}

// Assign overwrites an existing binding in place. It returns false if name
// is not already bound (§4.4: "Assign additionally requires the name to
// exist").
func (e *Environment) Assign(name symbol.ID, value Node) bool {
	ent, ok := e.vars[name]
	if !ok {
		return false
	}
	ent.value = value
	e.vars[name] = ent
	return true
}

// EnterBlock returns the depth token a matching ExitBlock call must be
// given.
func (e *Environment) EnterBlock() int {
	e.depth++
	return e.depth
}

// ExitBlock removes every binding introduced at-or-below the given block
// depth, implementing §4.4's shadow/unshadow rule.
func (e *Environment) ExitBlock(depth int) {
	for k, v := range e.vars {
		if v.depth >= depth {
			delete(e.vars, k)
		}
	}
	e.depth = depth - 1
}

// SetReservedImportContext writes the two reserved keys the evaluator
// threads through import resolution (§4.6.2/§6). Being plain string
// values (not a dedicated state struct) means they're carried for free by
// Clone on every function call, including calls that recursively import.
func (e *Environment) SetReservedImportContext(modulePath, packageName string) {
	e.Let(symCurrentlyParsingModulePath, NewString(modulePath))
	e.Let(symCurrentlyParsingPackageName, NewString(packageName))
}

// CurrentlyParsingModulePath reads the reserved key, defaulting to "".
func (e *Environment) CurrentlyParsingModulePath() string {
	if v, ok := e.Get(symCurrentlyParsingModulePath); ok {
		return v.StrVal
	}
	return ""
}

// CurrentlyParsingPackageName reads the reserved key, defaulting to "".
func (e *Environment) CurrentlyParsingPackageName() string {
	if v, ok := e.Get(symCurrentlyParsingPackageName); ok {
		return v.StrVal
	}
	return ""
}

// Keys returns every currently-bound name, used when computing "non-builtin
// symbols" for import splatting (§3.3(3), §4.6.2).
func (e *Environment) Keys() []symbol.ID {
	keys := make([]symbol.ID, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	return keys
}
