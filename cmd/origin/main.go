// Command origin validates, composes and exercises CUE class declarations.
package main

import (
	"fmt"
	"os"

	"github.com/ian97531/origin/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
