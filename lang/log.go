package lang

import "github.com/grailbio/base/log"

// Debugf logs a trace-level message tagged with span's position, for
// tracing evaluator decisions (e.g. which import path a package resolved
// to) without raising a Diagnostic. Mirrors the teacher's log.Debug.Printf
// call sites in gql/eval.go.
func Debugf(span Span, format string, args ...interface{}) {
	log.Debug.Printf("modu %s: "+format, append([]interface{}{span}, args...)...)
}

// Logf logs an info-level message tagged with span's position.
func Logf(span Span, format string, args ...interface{}) {
	log.Printf("modu %s: "+format, append([]interface{}{span}, args...)...)
}
