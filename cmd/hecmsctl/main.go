package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/xavierca1/hecms/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
