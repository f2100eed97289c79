package config

import (
	"fmt"
	"io"
	"os"
)

// Swapped in tests.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// Exitf prints a fatal command error to stderr and exits with status 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(1)
}
