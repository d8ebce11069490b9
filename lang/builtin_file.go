package lang

import (
	"io"
	"os"

	"github.com/grailbio/modu/internal/symbol"
)

// fileBuiltins is the File method table, grounded on
// lang/src/libraries/file.rs's read/write/append/close (original_source):
// write truncates and rewrites from the start, append seeks to the end of
// the file and writes there, close flushes and syncs then replaces self with null so
// further use of the handle fails loudly.
var fileBuiltins map[symbol.ID]builtinEntry

func init() {
	fileBuiltins = map[symbol.ID]builtinEntry{
		symbol.Intern("read"):   {fileRead, symbols(sentinelSelf)},
		symbol.Intern("write"):  {fileWrite, symbols(sentinelSelf, "content")},
		symbol.Intern("append"): {fileAppend, symbols(sentinelSelf, "content")},
		symbol.Intern("close"):  {fileClose, symbols(sentinelSelf)},
	}
}

func mustOpenFile(call Node, args []Node, idx int) *OpenFile {
	v := args[idx]
	if v.Kind != KFile || v.File == nil {
		Panicf(call.Span, "expected a file receiver")
	}
	if v.File.Closed {
		Panicf(call.Span, "file is closed")
	}
	return v.File
}

func osFile(f *OpenFile) *os.File {
	osf, _ := f.impl.(*os.File)
	return osf
}

func fileRead(ev *Evaluator, call Node, args []Node) BuiltinResult {
	f := mustOpenFile(call, args, 0)
	osf := osFile(f)
	if _, err := osf.Seek(0, io.SeekStart); err != nil {
		Panicf(call.Span, "failed to seek file %q: %v", f.Name, err)
	}
	buf, err := io.ReadAll(osf)
	if err != nil {
		Panicf(call.Span, "failed to read file %q: %v", f.Name, err)
	}
	return BuiltinResult{Value: NewString(string(buf))}
}

func fileWrite(ev *Evaluator, call Node, args []Node) BuiltinResult {
	f := mustOpenFile(call, args, 0)
	content := args[1]
	if content.Kind != KString {
		Panicf(call.Span, "write expects a string as the second argument")
	}
	osf := osFile(f)
	if _, err := osf.Seek(0, io.SeekStart); err != nil {
		Panicf(call.Span, "failed to seek file %q: %v", f.Name, err)
	}
	if _, err := osf.WriteString(content.StrVal); err != nil {
		Panicf(call.Span, "failed to write file %q: %v", f.Name, err)
	}
	if err := osf.Truncate(int64(len(content.StrVal))); err != nil {
		Panicf(call.Span, "failed to truncate file %q: %v", f.Name, err)
	}
	if err := osf.Sync(); err != nil {
		Panicf(call.Span, "failed to flush file %q: %v", f.Name, err)
	}
	return BuiltinResult{Value: Null}
}

func fileAppend(ev *Evaluator, call Node, args []Node) BuiltinResult {
	f := mustOpenFile(call, args, 0)
	content := args[1]
	if content.Kind != KString {
		Panicf(call.Span, "append expects a string as the second argument")
	}
	osf := osFile(f)
	if _, err := osf.Seek(0, io.SeekEnd); err != nil {
		Panicf(call.Span, "failed to seek file %q: %v", f.Name, err)
	}
	if _, err := osf.WriteString(content.StrVal); err != nil {
		Panicf(call.Span, "failed to write file %q: %v", f.Name, err)
	}
	if err := osf.Sync(); err != nil {
		Panicf(call.Span, "failed to flush file %q: %v", f.Name, err)
	}
	return BuiltinResult{Value: Null}
}

func fileClose(ev *Evaluator, call Node, args []Node) BuiltinResult {
	f := mustOpenFile(call, args, 0)
	osf := osFile(f)
	if err := osf.Sync(); err != nil {
		Panicf(call.Span, "failed to flush file %q: %v", f.Name, err)
	}
	if err := osf.Close(); err != nil {
		Panicf(call.Span, "failed to close file %q: %v", f.Name, err)
	}
	f.Closed = true
	return BuiltinResult{Value: Null, ReplaceSelf: &Null}
}
