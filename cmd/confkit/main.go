// Command confkit checks project configuration surfaces: the project
// manifest, linter rule selection, type-checker settings, and CI workflow
// definitions. Findings are emitted as SARIF.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dkoosis/confkit/cmd/confkit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if errors.Is(err, commands.ErrFindings) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
