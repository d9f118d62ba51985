// Package main is the entry point for the benchcheck CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/benchcheck/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
