// Command coolc is the compiler driver wiring together the packages
// in this module: frontend -> semant -> klass -> data -> (external)
// emitter. Modeled on the teacher's cmd/sentra/main.go: a hand-rolled
// argv loop rather than a flag-parsing framework, a package-level
// VERSION variable overridable at link time, and exit codes rather
// than panics on user-facing failure.
package main

import (
	"fmt"
	"os"

	"golang.org/x/mod/semver"

	"coolc/internal/diag"
)

// VERSION is reported by -version; overridable with
// -ldflags "-X main.VERSION=...".
var VERSION = "v0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	out := diag.NewWriter(stdout)
	errOut := diag.NewWriter(stderr)

	opts, files, err := parseArgs(args)
	if err != nil {
		errOut.Warning("%v", err)
		return 1
	}
	if opts.showVersion {
		v := VERSION
		if !semver.IsValid(v) {
			v = "v" + v
		}
		if !semver.IsValid(v) {
			errOut.Warning("invalid VERSION build setting %q", VERSION)
			return 1
		}
		fmt.Fprintln(stdout, semver.Canonical(v))
		return 0
	}
	if len(files) == 0 {
		errOut.Warning("usage: coolc [-o <path>] [-version] <file.cl> [<file.cl> ...]")
		return 1
	}

	result, err := Compile(files, opts, Registry{})
	if err != nil {
		errOut.Warning("%v", err)
		return 1
	}
	out.Dump("compiled", result)
	return 0
}

// options is the parsed compiler CLI per spec.md §6's "Compiler CLI".
type options struct {
	output      string
	showVersion bool
}

func parseArgs(args []string) (options, []string, error) {
	opts := options{output: "a.out"}
	var files []string
	for i := 0; i < len(args); i++ {
		switch a := args[i]; a {
		case "-version", "--version":
			opts.showVersion = true
		case "-o":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("-o requires a path argument")
			}
			i++
			opts.output = args[i]
		default:
			files = append(files, a)
		}
	}
	return opts, files, nil
}
