package main

import (
	"os"

	"llamapack/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
