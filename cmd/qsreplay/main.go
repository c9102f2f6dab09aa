// Command qsreplay replays gpuquery validation scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/gogpu/gpuquery/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "qsreplay:", err)
	}
	os.Exit(cli.ExitCode(err))
}
