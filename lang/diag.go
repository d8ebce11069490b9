package lang

import (
	"fmt"
	"runtime/debug"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Diagnostic is the one flat error shape every stage of the pipeline
// produces (§7): a long message, a short message, and the span of the
// faulting subexpression.
type Diagnostic struct {
	Message      string
	MessageShort string
	Span         Span
}

func (d *Diagnostic) Error() string { return d.Message }

// Position and Headline satisfy internal/termutil.Diagnostic so cmd/modu
// can render a Diagnostic without termutil importing lang.
func (d *Diagnostic) Position() (start, end int) { return d.Span.Start, d.Span.End }
func (d *Diagnostic) Headline() string            { return d.Message }

// panicValue is what Panicf panics with; Recover converts it back into a
// *Diagnostic instead of an opaque errors.E the way a bare log.Panicf
// would, so the diagnostics renderer always has a span to underline.
type panicValue struct {
	diag *Diagnostic
}

// Panicf raises a Diagnostic anchored at span, in the teacher's
// position-carrying-panic style (cf. gql.Panicf / log.Panicf). Evaluation
// and the built-ins call this instead of returning `error` on the hot
// path, and the first one halts the run for that source unit (§7's
// propagation policy). Lexing, parsing and validation do not panic: they
// collect their Diagnostics and return them together as ParseErrors.
func Panicf(span Span, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	panic(panicValue{diag: &Diagnostic{Message: msg, MessageShort: short(msg), Span: span}})
}

func short(msg string) string {
	if len(msg) <= 60 {
		return msg
	}
	return msg[:57] + "..."
}

// Recover runs cb, catching any Diagnostic panic raised within it (by
// Panicf, or by a Node method such as wrongTypeError) and returning it as
// an error. Any other panic (a genuine bug rather than a diagnosed
// condition) is logged with its stack trace and returned as an
// "internal error" value, mirroring gql.Recover's "turn a panic into an
// error" contract but distinguishing diagnosed conditions from host bugs.
func Recover(cb func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if pv, ok := r.(panicValue); ok {
				err = pv.diag
				return
			}
			log.Error.Printf("modu: internal panic: %v\n%s", r, debug.Stack())
			err = errors.E("internal error: %v", r)
		}
	}()
	cb()
	return nil
}

// AsDiagnostic unwraps err into a *Diagnostic if it is one.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	d, ok := err.(*Diagnostic)
	return d, ok
}
