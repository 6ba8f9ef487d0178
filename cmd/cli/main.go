package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliconfig "matchcenter/internal/cli/config"
	"matchcenter/internal/cli/identity"
	"matchcenter/internal/cli/matches"
)

var rootCmd = &cobra.Command{
	Use:   "matchcenter",
	Short: "Match Center command line client",
	Long:  "Inspect live matches and manage the local chat identity from the terminal",
}

func main() {
	rootCmd.AddCommand(matches.MatchesCmd)
	rootCmd.AddCommand(identity.IdentityCmd)
	rootCmd.AddCommand(cliconfig.ConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
