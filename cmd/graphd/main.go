// Command graphd runs the clique-component graph service and its offline
// journal tools.
package main

import (
	"fmt"
	"os"

	"github.com/Popov85/challenge-graph/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "graphd:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
