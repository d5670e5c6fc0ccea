// Command lox is the host program for the Lox interpreter core: argument
// parsing, the REPL loop, and reading scripts from disk. The interpreter
// core itself only needs a source string in and an exit code plus
// printed output back, so all of that host plumbing lives here instead.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golox/internal/manifest"
	"golox/internal/reporter"
	"golox/internal/trace"
	"golox/internal/watch"
	"golox/interpreter"
	"golox/parser"
	"golox/resolver"
	"golox/scanner"
)

// version is checked against a manifest's requires: constraint
// (internal/manifest.Manifest.CheckVersion).
const version = "0.1.0"

func main() {
	debug := flag.Bool("debug", false, "trace tokens and parsed statements to stderr")
	watchFlag := flag.Bool("watch", false, "re-run the script whenever it changes on disk")
	manifestPath := flag.String("manifest", "", "path to a lox.yaml project manifest (default: ./lox.yaml if present)")
	flag.Usage = usage
	flag.Parse()

	debugLog := log.New(os.Stderr, "[debug] ", 0)
	if !*debug {
		debugLog.SetOutput(io.Discard)
	}

	mf, err := loadManifest(*manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(64)
	}
	if mf != nil {
		if err := mf.CheckVersion(version); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(64)
		}
	}

	args := flag.Args()
	switch {
	case len(args) > 1:
		usage()
		os.Exit(64)

	case len(args) == 1:
		runFile(args[0], mf, debugLog, *watchFlag)

	case mf != nil && mf.Entry != "":
		runFile(mf.Entry, mf, debugLog, *watchFlag)

	default:
		runPrompt(mf, debugLog)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-debug] [-watch] [-manifest path] [script]\n", os.Args[0])
	flag.PrintDefaults()
}

func loadManifest(explicitPath string) (*manifest.Manifest, error) {
	path := explicitPath
	if path == "" {
		path = "lox.yaml"
		if _, err := os.Stat(path); err != nil {
			return nil, nil
		}
	}
	return manifest.Load(path)
}

func runFile(path string, mf *manifest.Manifest, debugLog *log.Logger, watchMode bool) {
	debugOn := debugLog.Writer() != io.Discard
	run := func() int {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open file '%s' (%v).\n", path, err)
			return 64
		}
		rep := reporter.New(os.Stdout, os.Stderr)
		interpret(string(source), rep, mf, debugLog, debugOn)
		return rep.ExitCode()
	}

	code := run()
	if !watchMode {
		os.Exit(code)
	}

	w, err := watch.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot watch '%s' (%v).\n", path, err)
		os.Exit(70)
	}
	defer w.Close()

	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl-C to stop)...\n", path)
	for {
		select {
		case <-w.Changed():
			fmt.Fprintf(os.Stderr, "--- %s changed, re-running ---\n", path)
			run()
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func runPrompt(mf *manifest.Manifest, debugLog *log.Logger) {
	debugOn := debugLog.Writer() != io.Discard
	rep := reporter.New(os.Stdout, os.Stderr)
	lineScanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(os.Stderr, "> ")
		if !lineScanner.Scan() {
			break
		}
		rep.ResetCompileError() // a compile error on one REPL line must never poison the next
		interpret(lineScanner.Text(), rep, mf, debugLog, debugOn)
	}

	if err := lineScanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr)
}

// interpret drives the full scanner -> parser -> resolver -> evaluator
// pipeline over one source string. A scan/parse/resolve error
// short-circuits evaluation, but never aborts a stage mid-walk.
func interpret(source string, rep *reporter.Reporter, mf *manifest.Manifest, debugLog *log.Logger, debugOn bool) {
	if debugOn {
		traceRep := reporter.New(os.Stdout, os.Stderr)
		debugLog.Print("tokens:\n" + trace.Tokens(scanner.ScanAll(source, traceRep)))
	}

	p := parser.New(source, rep)
	stmts := p.Parse()
	if rep.HadError {
		return
	}
	if debugOn {
		debugLog.Print("ast:\n" + trace.Stmts(stmts))
	}

	r := resolver.New(rep)
	locals := r.Resolve(stmts)
	if rep.HadError {
		return
	}

	var enabled func(string) bool
	if mf != nil {
		enabled = mf.NativeEnabled
	}
	interp := interpreter.New(rep, locals, enabled)
	interp.Interpret(stmts)
}
