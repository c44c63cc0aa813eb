package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kllc",
	Short: "Compile Keyboard Layout Language sources into a finalized layout",
	Long: `kllc is a thin, non-authoritative example driver for the kllc module.

It groups source files by role, runs them through the full compile
pipeline, and writes the result as JSON or as regenerated canonical
KLL. It is not a substitute for embedding the kllc module directly —
a real back end needs its own capability database and template
emitter, which this driver does not provide.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
