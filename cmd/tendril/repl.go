package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/cli"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long:  `Start the read-eval-print loop. Also used with piped stdin: each line is run as one fragment.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, configPath := persistentOpts(cmd)
		err := cli.RunRepl(cli.ReplOptions{
			Version:    tendril.Version,
			Verbose:    verbose,
			ConfigPath: configPath,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
