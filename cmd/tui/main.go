package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"matchcenter/internal/api"
	"matchcenter/internal/config"
	"matchcenter/internal/socket"
	"matchcenter/internal/store"
	"matchcenter/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		fmt.Println("Using default configuration...")
		cfg = config.Default()
	}

	log := newLogger(cfg)

	settingsPath, err := config.SettingsPath()
	if err != nil {
		fmt.Printf("Error locating settings: %v\n", err)
		os.Exit(1)
	}
	st, err := store.Open(settingsPath)
	if err != nil {
		fmt.Printf("Error opening settings: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	manager := socket.NewManager(socket.DefaultConfig(cfg.Server.SocketURL), log)
	manager.Connect()
	defer manager.Close()

	app, err := tui.New(tui.Deps{
		Config: cfg,
		Store:  st,
		API:    api.NewClient(cfg.Server.APIBaseURL),
		Bus:    manager,
		Log:    log,
	})
	if err != nil {
		fmt.Printf("Error starting: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the logrus logger. While the TUI owns the terminal,
// logs go to a file or nowhere; stderr would corrupt the frame.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(f)
			return log
		}
	}
	log.SetOutput(io.Discard)
	return log
}
