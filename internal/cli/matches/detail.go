package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"matchcenter/pkg/models"
	"matchcenter/pkg/utils"
)

var detailCmd = &cobra.Command{
	Use:   "detail <match-id>",
	Short: "Show one match",
	Long:  "Show the score, statistics and timeline for one match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		detail, err := client.FetchMatchDetail(ctx, args[0])
		if errors.Is(err, models.ErrMatchNotFound) {
			return fmt.Errorf("no match with id %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to fetch match: %w", err)
		}

		fmt.Printf("\n%s %d - %d %s\n", detail.HomeTeam.Name, detail.HomeScore,
			detail.AwayScore, detail.AwayTeam.Name)
		fmt.Printf("%s", detail.Status.Badge())
		if minute := utils.FormatMinute(detail.Minute, detail.Status); minute != "" {
			fmt.Printf("  %s", minute)
		}
		fmt.Println()

		fmt.Println("\nStatistics:")
		printStat("Possession", detail.Statistics.Possession)
		printStat("Shots", detail.Statistics.Shots)
		printStat("On Target", detail.Statistics.ShotsOnTarget)
		printStat("Corners", detail.Statistics.Corners)
		printStat("Fouls", detail.Statistics.Fouls)
		printStat("Yellow Cards", detail.Statistics.YellowCards)
		printStat("Red Cards", detail.Statistics.RedCards)

		if len(detail.Events) > 0 {
			fmt.Println("\nTimeline:")
			for _, ev := range detail.Events {
				fmt.Printf("  %3d' %s %s", ev.Minute, utils.EventIcon(ev.Type), ev.Player)
				if ev.AssistPlayer != "" {
					fmt.Printf(" (assist: %s)", ev.AssistPlayer)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func printStat(label string, p models.StatPair) {
	fmt.Printf("  %-14s %3d : %-3d\n", label, p.Home, p.Away)
}

func init() {
	MatchesCmd.AddCommand(detailCmd)
}
