package matches

import (
	"github.com/spf13/cobra"

	"matchcenter/internal/api"
	"matchcenter/internal/config"
)

var MatchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Match listing and detail commands",
	Long:  "List today's matches and inspect one match from the terminal",
}

func newClient() (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.Server.APIBaseURL), nil
}
