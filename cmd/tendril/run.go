package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a program file",
	Long:  `Load and execute a file as the program entry point. Any failure aborts with a non-zero status.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := persistentOpts(cmd)
		cli.RunFile(args[0], verbose)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
