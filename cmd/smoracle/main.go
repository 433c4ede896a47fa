// Command smoracle checks stable-matching solvers against randomized
// instances and recorded case files.
package main

import (
	"os"

	"github.com/roach88/smoracle/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
