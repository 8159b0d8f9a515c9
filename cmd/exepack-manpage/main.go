package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/exepack/cmd/exepack"
)

func main() {
	rootCmd := exepack.NewRootCmd()

	err := doc.GenMan(rootCmd, exepack.ManHeader(), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
