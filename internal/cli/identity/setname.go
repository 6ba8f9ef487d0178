package identity

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var setUsernameCmd = &cobra.Command{
	Use:   "set-username <name>",
	Short: "Set the chat display name",
	Long:  "Set the display name used in match chat (2-20 characters: letters, numbers, spaces, underscores)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetUsername(name); err != nil {
			return err
		}
		fmt.Printf("Username set to %q\n", name)
		return nil
	},
}

var setThemeCmd = &cobra.Command{
	Use:   "set-theme <light|dark>",
	Short: "Set the TUI theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetTheme(args[0]); err != nil {
			return err
		}
		fmt.Printf("Theme set to %s\n", args[0])
		return nil
	},
}

func init() {
	IdentityCmd.AddCommand(setUsernameCmd)
	IdentityCmd.AddCommand(setThemeCmd)
}
