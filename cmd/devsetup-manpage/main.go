package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/devsetup/cmd/devsetup"
	"github.com/arthur-debert/devsetup/internal/version"
)

func main() {
	rootCmd := devsetup.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DEVSETUP",
		Section: "1",
		Source:  "devsetup " + version.Version,
		Manual:  "devsetup manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
