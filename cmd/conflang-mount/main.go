package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	cli.MainContext(context.Background(), MainCommand())
}
