// Command rv explores record datasets in a terminal layout that adapts to
// the screen size.
package main

import (
	"os"

	"github.com/Dicklesworthstone/responsive_viewer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
