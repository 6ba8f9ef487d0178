package identity

import (
	"fmt"

	"github.com/spf13/cobra"

	"matchcenter/internal/config"
	"matchcenter/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the local identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		user, err := st.Identity()
		if err != nil {
			return err
		}
		theme, err := st.Theme()
		if err != nil {
			return err
		}

		fmt.Printf("User ID:  %s\n", user.UserID)
		if user.Username != "" {
			fmt.Printf("Username: %s\n", user.Username)
		} else {
			fmt.Println("Username: (not set)")
			fmt.Println("  Run 'matchcenter identity set-username <name>' to pick one")
		}
		fmt.Printf("Theme:    %s\n", theme)
		return nil
	},
}

func openStore() (*store.Store, error) {
	path, err := config.SettingsPath()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

func init() {
	IdentityCmd.AddCommand(showCmd)
}
