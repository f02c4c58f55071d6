package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
)

var toolsPath string

var toolCmd = &cobra.Command{
	Use:   "tool <name> [args...]",
	Short: "Run a command registered in the tools file",
	Long:  `Run an external command (e.g. a type-checker) from the tools registry, streaming its output and exiting with its status.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := persistentOpts(cmd)
		code, err := cli.RunTool(args[0], toolsPath, args[1:], verbose)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if code != 0 {
			os.Exit(1)
		}
	},
}

func init() {
	toolCmd.Flags().StringVar(&toolsPath, "tools", "tools.yaml", "Path to the tools registry")
	rootCmd.AddCommand(toolCmd)
}
