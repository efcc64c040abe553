package main

import (
	"os"

	"github.com/idilsaglam/hcadmin/internal/cli"
)

func main() {
	// Everything after the program name belongs to the command tree.
	os.Exit(cli.Run(os.Args[1:], cli.Options{}))
}
