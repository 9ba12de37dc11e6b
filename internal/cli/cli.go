// Package cli holds the pieces shared by the arki and emul entrypoints:
// the version string both -v flags print, and the uniform diagnostic
// format errors are printed in.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version is reported by both tools' -v flag.
const Version = "y64-1.0"

// Fatal prints a one-line "[error]: ..." diagnostic to stderr and exits
// nonzero, matching the original spec's §7 user-visible failure format.
// Errors from the lexer and parser packages already carry that prefix
// and a line number; codegen errors carry the prefix but no line number;
// anything else (I/O, flag validation) gets the prefix added here.
func Fatal(err error) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "[error]:") {
		msg = fmt.Sprintf("[error]: %s", msg)
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
