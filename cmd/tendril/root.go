package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "tendril",
	Short: "Tendril is an interactive execution session engine",
	Long: `Tendril runs fragments of source text against a persistent environment:
expressions are evaluated and echoed, statements mutate the session, and
failures are isolated so the session survives.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug tracing")
	rootCmd.PersistentFlags().String("config", cli.DefaultConfigPath(), "Path to the user config file")
}

func persistentOpts(cmd *cobra.Command) (verbose bool, configPath string) {
	verbose, _ = cmd.Flags().GetBool("verbose")
	configPath, _ = cmd.Flags().GetString("config")
	return verbose, configPath
}
