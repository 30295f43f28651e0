// Command adminconsole is the insurance admin console.
package main

import (
	"context"
	"os"

	"github.com/insureadmin/admin-console/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	root := cli.NewRootCommand(nil, version)
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Stderr.WriteString("Error: " + cli.Describe(err) + "\n")
		os.Exit(1)
	}
}
