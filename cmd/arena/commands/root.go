package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snakearena/arena/version"
)

var rootCmd = &cobra.Command{
	Use:     "arena",
	Short:   "arena runs snake matches on the arena game engine",
	Version: version.Version,
	Run: func(c *cobra.Command, args []string) {
		serverCmd.Run(c, args)
	},
}

var (
	apiAddr string
)

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", "http://localhost:3005", "address of the api server")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(replayCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
