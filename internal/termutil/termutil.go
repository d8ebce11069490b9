// Package termutil renders diagnostics to a terminal and traps SIGINT for
// the REPL driver (cmd/modu), adapted from the teacher's termutil/printer.go
// signal-handling plumbing — the rest of that file (Printer, table paging)
// has no counterpart here since Modu has no table value to page through.
package termutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/ssh/terminal"
)

var (
	signalOnce  sync.Once
	signalState uint32
)

// InstallSignalHandler arranges for SIGINT to set the interrupted flag
// Interrupted reports, so the REPL loop (§5: "the REPL loop traps this to
// clear its buffer") can poll it between lines instead of the process
// dying on Ctrl-C.
func InstallSignalHandler(ch <-chan os.Signal) {
	signalOnce.Do(func() {
		go func() {
			for range ch {
				fmt.Fprintln(os.Stderr, "Interrupted")
				atomic.StoreUint32(&signalState, 1)
			}
		}()
	})
}

// Interrupted reports whether SIGINT has fired since the last ClearInterrupted.
func Interrupted() bool { return atomic.LoadUint32(&signalState) != 0 }

// ClearInterrupted resets the interrupted flag, called once the REPL has
// discarded its partial input buffer.
func ClearInterrupted() { atomic.StoreUint32(&signalState, 0) }

// IsInteractive reports whether fd looks like an interactive terminal, used
// to decide whether diagnostic rendering should include ANSI color escapes.
func IsInteractive(fd int) bool {
	return terminal.IsTerminal(fd)
}

// Diagnostic is the minimal shape RenderDiagnostic needs; lang.Diagnostic
// satisfies it via its Position and Headline methods so
// internal/termutil does not import lang (keeping the dependency direction
// the same as the teacher's packages, which never import gql from termutil).
type Diagnostic interface {
	Position() (start, end int)
	Headline() string
}

// RenderDiagnostic writes a one-line underline of src[start:end] beneath
// the faulting line, followed by the diagnostic's message, to w. color
// wraps the underline in ANSI red when true.
func RenderDiagnostic(w io.Writer, filename, src string, d Diagnostic, color bool) {
	start, end := d.Position()
	if start < 0 || end > len(src) || start > end {
		fmt.Fprintf(w, "%s: %s\n", filename, d.Headline())
		return
	}
	lineStart := strings.LastIndexByte(src[:start], '\n') + 1
	lineEnd := strings.IndexByte(src[end:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += end
	}
	line := src[lineStart:lineEnd]
	col := start - lineStart
	width := end - start
	if width < 1 {
		width = 1
	}

	fmt.Fprintf(w, "%s:\n", filename)
	fmt.Fprintln(w, line)
	underline := strings.Repeat(" ", col) + strings.Repeat("^", width)
	if color {
		underline = "\033[31m" + underline + "\033[0m"
	}
	fmt.Fprintln(w, underline)
	fmt.Fprintln(w, d.Headline())
}
