package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gopanel/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gopanel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gopanel v%s\n", version.Version)
		fmt.Println("Load Panel Feeder Sizing Tool")
		fmt.Printf("Build: %s (%s)\n", version.BuildTime, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
