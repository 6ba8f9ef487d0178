package views

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"matchcenter/internal/live"
	"matchcenter/internal/tui/styles"
	"matchcenter/pkg/models"
	"matchcenter/pkg/utils"
)

const statBarWidth = 20

// DetailModel renders one match: score header, statistics, and the
// timeline. The watcher owns the data and is swapped on navigation.
type DetailModel struct {
	watcher *live.DetailWatcher
	width   int
	height  int
}

// NewDetailModel creates an empty detail view
func NewDetailModel() DetailModel {
	return DetailModel{}
}

// SetWatcher binds the view to a match watcher
func (m *DetailModel) SetWatcher(w *live.DetailWatcher) {
	m.watcher = w
}

// Update handles layout changes; all data changes arrive via the watcher
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}
	return m, nil
}

// View renders the detail pane
func (m DetailModel) View() string {
	if m.watcher == nil {
		return ""
	}
	if err := m.watcher.Err(); err != nil {
		if errors.Is(err, models.ErrMatchNotFound) {
			return styles.ErrorStyle.Render("Match not found")
		}
		return styles.ErrorStyle.Render("Could not load match: "+err.Error()) +
			"\n" + styles.HelpStyle.Render("r to retry")
	}

	detail := m.watcher.Snapshot()
	if detail == nil {
		return styles.InfoStyle.Render("Loading match...")
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(detail))
	b.WriteString("\n")
	b.WriteString(m.renderStatistics(detail))
	b.WriteString("\n")
	b.WriteString(m.renderTimeline(detail))
	return b.String()
}

func (m DetailModel) renderHeader(d *models.MatchDetail) string {
	badge := styles.BadgeNeutralStyle.Render(d.Status.Badge())
	if d.Status.IsLive() {
		badge = styles.BadgeLiveStyle.Render(
			d.Status.Badge() + " " + utils.FormatMinute(d.Minute, d.Status))
	}

	score := fmt.Sprintf("%s  %s  %s",
		styles.TeamNameStyle.Render(d.HomeTeam.Name),
		styles.ScoreStyle.Render(fmt.Sprintf("%d - %d", d.HomeScore, d.AwayScore)),
		styles.TeamNameStyle.Render(d.AwayTeam.Name))

	return styles.CardStyle.Render(badge + "\n\n" + score)
}

func (m DetailModel) renderStatistics(d *models.MatchDetail) string {
	var b strings.Builder
	b.WriteString(styles.SectionHeaderStyle.Render("Statistics"))
	b.WriteString("\n")

	stat := func(label string, p models.StatPair) {
		b.WriteString(fmt.Sprintf("%3d %s %-3d  %s\n",
			p.Home, styles.RenderStatBar(p.Home, p.Away, statBarWidth), p.Away,
			styles.ChatTimeStyle.Render(label)))
	}
	stat("Possession", d.Statistics.Possession)
	stat("Shots", d.Statistics.Shots)
	stat("On Target", d.Statistics.ShotsOnTarget)
	stat("Corners", d.Statistics.Corners)
	stat("Fouls", d.Statistics.Fouls)
	stat("Yellow Cards", d.Statistics.YellowCards)
	stat("Red Cards", d.Statistics.RedCards)
	return b.String()
}

func (m DetailModel) renderTimeline(d *models.MatchDetail) string {
	var b strings.Builder
	b.WriteString(styles.SectionHeaderStyle.Render("Timeline"))
	b.WriteString("\n")

	if len(d.Events) == 0 {
		b.WriteString(styles.ChatSystemStyle.Render("No events yet"))
		return b.String()
	}

	shown := d.Events
	maxRows := m.height - 20
	if maxRows > 0 && len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	for _, ev := range shown {
		minute := styles.MinuteStyle.Render(fmt.Sprintf("%3d'", ev.Minute))
		line := fmt.Sprintf("%s %s %s", minute, utils.EventIcon(ev.Type), ev.Player)
		if ev.Type == models.EventGoal && ev.AssistPlayer != "" {
			line += styles.ChatTimeStyle.Render(" (assist: " + ev.AssistPlayer + ")")
		}
		if ev.Description != "" {
			line += " " + styles.ChatTimeStyle.Render(styles.Truncate(ev.Description, 40))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
