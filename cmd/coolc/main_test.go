package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain wires the coolc binary into the current test process so
// testscript's `exec coolc` lines run this package's main() in a
// subprocess, the way large Go CLI projects script their driver.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"coolc": func() int { return run(os.Args[1:], os.Stdout, os.Stderr) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
