// Package main is the entry point for the colorparity CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/colorparity/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
