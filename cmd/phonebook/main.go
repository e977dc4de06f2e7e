// Command phonebook serves and maintains a SQLite-backed phonebook.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/phonebook/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
