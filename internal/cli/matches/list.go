package matches

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"matchcenter/pkg/models"
	"matchcenter/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List matches",
	Long:  "List all of today's matches grouped by state; --live shows only in-play matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		liveOnly, _ := cmd.Flags().GetBool("live")
		var list []models.Match
		if liveOnly {
			list, err = client.FetchLiveMatches(ctx)
		} else {
			list, err = client.FetchMatches(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch matches: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No matches found")
			return nil
		}

		g := utils.GroupMatches(list)
		printSection("Live", g.Live)
		printSection("Upcoming", g.Upcoming)
		printSection("Recent", g.Recent)
		return nil
	},
}

func printSection(title string, list []models.Match) {
	if len(list) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, m := range list {
		switch {
		case m.Status.IsLive(), m.Status == models.StatusHalfTime:
			fmt.Printf("  %-22s %d - %-2d %-22s %4s  [%s]\n",
				m.HomeTeam.Name, m.HomeScore, m.AwayScore, m.AwayTeam.Name,
				utils.FormatMinute(m.Minute, m.Status), m.ID)
		case m.Status == models.StatusNotStarted:
			fmt.Printf("  %-22s vs   %-22s %s  [%s]\n",
				m.HomeTeam.Name, m.AwayTeam.Name,
				utils.FormatMatchTime(m.StartTime), m.ID)
		default:
			fmt.Printf("  %-22s %d - %-2d %-22s   FT  [%s]\n",
				m.HomeTeam.Name, m.HomeScore, m.AwayScore, m.AwayTeam.Name, m.ID)
		}
	}
}

func init() {
	listCmd.Flags().Bool("live", false, "show only in-play matches")
	MatchesCmd.AddCommand(listCmd)
}
