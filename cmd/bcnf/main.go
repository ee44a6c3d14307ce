// Command bcnf decomposes relations into Boyce-Codd normal form.
package main

import (
	"os"

	"github.com/Iron-Ham/bcnf/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
