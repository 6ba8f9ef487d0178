package identity

import "github.com/spf13/cobra"

var IdentityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Local chat identity commands",
	Long:  "View and change the persisted user id, username and theme",
}
