// Command modu is the CLI driver for the core lang package: run a script
// file, or drop into a REPL, mirroring main.go's flag/session/readline-loop
// shape (trimmed: no S3/bigslice/table-output plumbing, since Modu has no
// distributed table value to write out). readline is initialised, but REPL
// lines are read from stdin with bufio, so there is no line editing.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/grailbio/modu/internal/modcache"
	"github.com/grailbio/modu/internal/termutil"
	"github.com/grailbio/modu/lang"
	"github.com/yasushi-saito/readline"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	evalFlag     = flag.String("eval", "", "If set, evaluate this expression, print the result, and exit")
	cacheDirFlag = flag.String("cache-dir", "", "Directory to cache parsed modules in; empty disables the cache")
)

// cliHost implements lang.Host against the real filesystem and terminal
// (§6's "host adapters"): one concrete adapter among the several an
// embedding may supply (a browser/wasm host would implement the same
// interface very differently).
type cliHost struct {
	reader *bufio.Reader
}

func newCLIHost() *cliHost { return &cliHost{reader: bufio.NewReader(os.Stdin)} }

func (h *cliHost) Print(text string)  { fmt.Print(text) }
func (h *cliHost) Eprint(text string) { fmt.Fprint(os.Stderr, text) }

func (h *cliHost) ReadLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	line, err := h.reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimRight(line, "\n"), true
}

func (h *cliHost) ReadSource(path string) (string, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (h *cliHost) ResolveImport(name, anchor string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Join(anchor, name), nil
}

func (h *cliHost) Exit(status int) { os.Exit(status) }

func printResult(n lang.Node) {
	if n.Kind != lang.KNull {
		fmt.Println(n.String())
	}
}

func reportDiagnostic(filename, src string, err error) {
	diag, ok := lang.AsDiagnostic(err)
	if !ok {
		log.Error.Printf("%s: %v", filename, err)
		return
	}
	color := terminal.IsTerminal(syscall.Stdout)
	termutil.RenderDiagnostic(os.Stderr, filename, src, diag, color)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	flag.Parse()

	if err := readline.Init(readline.Opts{Name: "modu", ExpandHistory: true}); err != nil {
		log.Error.Printf("readline.Init: %v", err)
	}

	anchor, err := os.Getwd()
	must.Nilf(err, "getwd")

	host := newCLIHost()
	sess := lang.NewSession(host, lang.Builtins(), anchor)
	if *cacheDirFlag != "" {
		sess.SetModuleCache(modcache.New(*cacheDirFlag))
	}

	if *evalFlag != "" {
		runSource(sess, "(eval)", *evalFlag)
		return
	}

	if flag.NArg() > 0 {
		path := flag.Arg(0)
		src, err := host.ReadSource(path)
		must.Nilf(err, "read %s", path)
		runSource(sess, path, src)
		return
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	termutil.InstallSignalHandler(ch)
	repl(sess, host)
}

func runSource(sess *lang.Session, filename, src string) {
	result, err := sess.RunSource(src)
	if err != nil {
		reportDiagnostic(filename, src, err)
		os.Exit(1)
	}
	printResult(result)
}

func repl(sess *lang.Session, host *cliHost) {
	fmt.Println("modu REPL. Ctrl-C clears the current line; Ctrl-D exits.")
	for {
		if termutil.Interrupted() {
			termutil.ClearInterrupted()
		}
		line, ok := host.ReadLine("modu> ")
		if !ok {
			fmt.Println()
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		result, err := sess.RunSource(line)
		if err != nil {
			reportDiagnostic("(repl)", line, err)
			continue
		}
		printResult(result)
	}
}
