package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
)

var execCode string

var execCmd = &cobra.Command{
	Use:   "exec -c <code>",
	Short: "Execute a code string non-interactively",
	Run: func(cmd *cobra.Command, args []string) {
		if execCode == "" {
			fmt.Fprintln(os.Stderr, "exec requires -c <code>")
			os.Exit(1)
		}
		verbose, _ := persistentOpts(cmd)
		cli.RunCode(execCode, verbose)
	},
}

func init() {
	execCmd.Flags().StringVarP(&execCode, "code", "c", "", "Code to execute")
	rootCmd.AddCommand(execCmd)
}
