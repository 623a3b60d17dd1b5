package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotlink/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()

	if err := doc.GenMan(rootCmd, cli.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
