package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"matchcenter/internal/live"
	"matchcenter/internal/tui/styles"
	"matchcenter/pkg/models"
	"matchcenter/pkg/utils"
)

// SelectMatchMsg is sent when the user opens a match
type SelectMatchMsg struct {
	MatchID string
}

// MatchesModel renders the grouped match list backed by the list
// synchronizer. The synchronizer owns the data; this model only holds
// cursor and layout state.
type MatchesModel struct {
	list   *live.ListSync
	cursor int
	width  int
	height int
}

// NewMatchesModel creates the list view
func NewMatchesModel(list *live.ListSync) MatchesModel {
	return MatchesModel{list: list}
}

// rows returns matches in display order: live, upcoming, recent
func (m MatchesModel) rows() []models.Match {
	g := utils.GroupMatches(m.list.Matches())
	rows := make([]models.Match, 0, len(g.Live)+len(g.Upcoming)+len(g.Recent))
	rows = append(rows, g.Live...)
	rows = append(rows, g.Upcoming...)
	rows = append(rows, g.Recent...)
	return rows
}

// Update handles list navigation
func (m MatchesModel) Update(msg tea.Msg) (MatchesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		rows := m.rows()
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if m.cursor < len(rows) {
				id := rows[m.cursor].ID
				return m, func() tea.Msg { return SelectMatchMsg{MatchID: id} }
			}
		}
	}

	// The list shrinks when a poll replaces it; keep the cursor valid.
	if n := len(m.rows()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m, nil
}

// View renders the sectioned match list
func (m MatchesModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("⚽ Match Center"))
	b.WriteString("\n")

	if m.list.Loading() && len(m.list.Matches()) == 0 {
		b.WriteString(styles.InfoStyle.Render("Loading matches..."))
		return b.String()
	}
	if err := m.list.Err(); err != nil && len(m.list.Matches()) == 0 {
		b.WriteString(styles.ErrorStyle.Render("Could not load matches: " + err.Error()))
		b.WriteString("\n" + styles.HelpStyle.Render("r to retry"))
		return b.String()
	}

	g := utils.GroupMatches(m.list.Matches())
	idx := 0
	renderSection := func(title string, matches []models.Match) {
		if len(matches) == 0 {
			return
		}
		b.WriteString(styles.SectionHeaderStyle.Render(title))
		b.WriteString("\n")
		for _, match := range matches {
			line := m.renderRow(match)
			if idx == m.cursor {
				b.WriteString(styles.ListItemSelectedStyle.Render(line))
			} else {
				b.WriteString(styles.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
			idx++
		}
	}

	renderSection("Live", g.Live)
	renderSection("Upcoming", g.Upcoming)
	renderSection("Recent", g.Recent)

	if idx == 0 {
		b.WriteString(styles.ChatSystemStyle.Render("No matches today"))
	}

	return b.String()
}

func (m MatchesModel) renderRow(match models.Match) string {
	home := styles.Truncate(match.HomeTeam.Name, 20)
	away := styles.Truncate(match.AwayTeam.Name, 20)

	switch {
	case match.Status.IsLive(), match.Status == models.StatusHalfTime:
		minute := styles.MinuteStyle.Render(utils.FormatMinute(match.Minute, match.Status))
		score := styles.ScoreStyle.Render(fmt.Sprintf("%d - %d", match.HomeScore, match.AwayScore))
		return fmt.Sprintf("%-20s %s %-20s %s", home, score, away, minute)
	case match.Status == models.StatusNotStarted:
		return fmt.Sprintf("%-20s vs %-20s %s", home, away,
			styles.ChatTimeStyle.Render(utils.FormatMatchTime(match.StartTime)))
	default:
		score := fmt.Sprintf("%d - %d", match.HomeScore, match.AwayScore)
		return fmt.Sprintf("%-20s %s %-20s %s", home, score, away,
			styles.BadgeFinishedStyle.Render("FT"))
	}
}
