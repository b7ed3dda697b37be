// Command tsg is the tsg compiler/JIT driver.
package main

import (
	"fmt"
	"os"

	"github.com/tsg-lang/tsg/cmd/tsg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" && !cmd.IsDiagnosticError(err) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
