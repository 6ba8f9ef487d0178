package config

import (
	"fmt"

	"github.com/spf13/cobra"

	engine "matchcenter/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration after file and environment overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := engine.Load()
		if err != nil {
			return err
		}

		fmt.Println("Match Center Configuration:")
		fmt.Println("")
		fmt.Printf("Server:\n")
		fmt.Printf("  API Base URL: %s\n", cfg.Server.APIBaseURL)
		fmt.Printf("  Socket URL:   %s\n", cfg.Server.SocketURL)
		fmt.Println("")
		fmt.Printf("Live:\n")
		fmt.Printf("  Poll Interval: %s\n", cfg.Live.PollInterval)
		fmt.Printf("  Minute Tick:   %s\n", cfg.Live.MinuteTick)
		fmt.Println("")
		fmt.Printf("Chat:\n")
		fmt.Printf("  Typing Debounce:     %s\n", cfg.Chat.DebounceWindow)
		fmt.Printf("  Typing Idle Window:  %s\n", cfg.Chat.IdleWindow)
		fmt.Printf("  Rate Limit Cooldown: %s\n", cfg.Chat.RateLimitCooldown)
		fmt.Println("")
		fmt.Printf("Log:\n")
		fmt.Printf("  Level: %s\n", cfg.Log.Level)
		if cfg.Log.File != "" {
			fmt.Printf("  File:  %s\n", cfg.Log.File)
		}
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(showCmd)
}
