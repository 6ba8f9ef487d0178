// Package tui is the terminal front end. It owns no domain state: the
// list synchronizer, match watchers, and chat sessions do, and the TUI
// re-reads their snapshots whenever an update signal arrives.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"matchcenter/internal/api"
	"matchcenter/internal/chat"
	"matchcenter/internal/config"
	"matchcenter/internal/live"
	"matchcenter/internal/socket"
	"matchcenter/internal/store"
	"matchcenter/internal/tui/styles"
	"matchcenter/internal/tui/views"
	"matchcenter/pkg/models"
)

// View represents the active screen
type View int

const (
	ViewUsername View = iota
	ViewMatches
	ViewDetail
)

// Deps are the long-lived singletons constructed by the composition
// root. The TUI never closes the bus; that is main's job on shutdown.
type Deps struct {
	Config *config.Config
	Store  *store.Store
	API    *api.Client
	Bus    socket.Bus
	Log    *logrus.Logger
}

// Model is the root Bubble Tea model
type Model struct {
	deps Deps
	keys KeyMap

	currentView View
	width       int
	height      int

	user          models.User
	theme         string
	usernameInput textinput.Model
	usernameErr   string

	list    *live.ListSync
	watcher *live.DetailWatcher
	session *chat.Session

	matchesModel views.MatchesModel
	detailModel  views.DetailModel
	chatModel    views.ChatModel

	statusCh   chan socket.Status
	connStatus socket.Status
}

// Engine update signals bridged into the Bubble Tea loop
type (
	listUpdatedMsg   struct{}
	detailUpdatedMsg struct{ matchID string }
	chatUpdatedMsg   struct{ matchID string }
	connStatusMsg    struct{ status socket.Status }
	listStartedMsg   struct{ err error }
)

// New creates the TUI application. The identity and theme come from
// the preferences store before the first frame renders.
func New(deps Deps) (*Model, error) {
	user, err := deps.Store.Identity()
	if err != nil {
		return nil, err
	}
	theme, err := deps.Store.Theme()
	if err != nil {
		return nil, err
	}
	if theme == store.ThemeLight {
		styles.Apply(styles.Light)
	} else {
		styles.Apply(styles.Dark)
	}

	input := textinput.New()
	input.Placeholder = "Pick a username (2-20 characters)"
	input.CharLimit = models.MaxUsernameLength
	input.Width = 32
	input.Focus()

	list := live.NewListSync(deps.API, deps.Bus, deps.Log)

	m := &Model{
		deps:          deps,
		keys:          DefaultKeyMap(),
		user:          user,
		theme:         theme,
		usernameInput: input,
		list:          list,
		matchesModel:  views.NewMatchesModel(list),
		detailModel:   views.NewDetailModel(),
		chatModel:     views.NewChatModel(),
		statusCh:      make(chan socket.Status, 8),
		connStatus:    deps.Bus.Status(),
	}
	deps.Bus.SubscribeStatus(func(st socket.Status) {
		select {
		case m.statusCh <- st:
		default:
		}
	})

	if user.Username == "" {
		m.currentView = ViewUsername
	} else {
		m.currentView = ViewMatches
	}
	return m, nil
}

// Init starts the engine and the update bridges
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.waitStatus(),
	}
	if m.currentView == ViewMatches {
		cmds = append(cmds, m.startList(), m.waitList())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.matchesModel, _ = m.matchesModel.Update(msg)
		m.detailModel, _ = m.detailModel.Update(msg)
		m.chatModel, _ = m.chatModel.Update(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case listStartedMsg:
		return m, nil

	case listUpdatedMsg:
		// State already lives in the synchronizer; just re-arm the bridge.
		return m, m.waitList()

	case detailUpdatedMsg:
		if m.watcher == nil || m.watcher.MatchID() != msg.matchID {
			return m, nil
		}
		return m, m.waitDetail()

	case chatUpdatedMsg:
		if m.session == nil || m.session.MatchID() != msg.matchID {
			return m, nil
		}
		return m, m.waitChat()

	case connStatusMsg:
		m.connStatus = msg.status
		return m, m.waitStatus()

	case views.SelectMatchMsg:
		return m.openMatch(msg.MatchID)
	}

	return m.updateCurrentView(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits; plain q only outside text inputs.
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.currentView {
	case ViewUsername:
		return m.handleUsernameKey(msg)

	case ViewMatches:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refetchList()
		case key.Matches(msg, m.keys.Theme):
			m.toggleTheme()
			return m, nil
		}
		var cmd tea.Cmd
		m.matchesModel, cmd = m.matchesModel.Update(msg)
		return m, cmd

	case ViewDetail:
		// The chat input owns the keyboard here except for navigation.
		if key.Matches(msg, m.keys.Back) {
			m.closeMatch()
			return m, nil
		}
		if key.Matches(msg, m.keys.Refresh) && m.watcher != nil && m.watcher.Err() != nil {
			return m, m.refetchDetail()
		}
		var cmd tea.Cmd
		m.chatModel, cmd = m.chatModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleUsernameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.usernameInput.Value())
		if err := m.deps.Store.SetUsername(name); err != nil {
			m.usernameErr = usernameErrorText(err)
			return m, nil
		}
		m.user.Username = name
		m.usernameErr = ""
		m.currentView = ViewMatches
		return m, tea.Batch(m.startList(), m.waitList())
	case "esc":
		return m, m.quit()
	}
	var cmd tea.Cmd
	m.usernameInput, cmd = m.usernameInput.Update(msg)
	return m, cmd
}

func usernameErrorText(err error) string {
	switch {
	case err == models.ErrUsernameRequired:
		return "Please enter a username"
	case err == models.ErrUsernameLength:
		return "Username must be 2-20 characters"
	case err == models.ErrUsernameCharset:
		return "Only letters, numbers, spaces and underscores"
	default:
		return err.Error()
	}
}

func (m *Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewUsername:
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	case ViewMatches:
		m.matchesModel, cmd = m.matchesModel.Update(msg)
	case ViewDetail:
		m.chatModel, cmd = m.chatModel.Update(msg)
	}
	return m, cmd
}

// openMatch creates the watcher and chat session for one match and
// switches to the detail view
func (m *Model) openMatch(matchID string) (tea.Model, tea.Cmd) {
	m.closeMatch()

	m.watcher = live.NewDetailWatcher(matchID, m.deps.API, m.deps.Bus,
		m.deps.Log, m.deps.Config.Live.MinuteTick)
	m.detailModel.SetWatcher(m.watcher)

	opts := chat.DefaultOptions()
	opts.DebounceWindow = m.deps.Config.Chat.DebounceWindow
	opts.IdleWindow = m.deps.Config.Chat.IdleWindow
	opts.RateLimitCooldown = m.deps.Config.Chat.RateLimitCooldown
	m.session = chat.NewSession(matchID, m.user, m.deps.Bus, m.deps.Log, opts)
	m.chatModel.SetSession(m.session)

	m.currentView = ViewDetail

	watcher, session := m.watcher, m.session
	open := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		watcher.Open(ctx)
		session.Start()
		return detailUpdatedMsg{matchID: matchID}
	}
	return m, tea.Batch(open, m.waitDetail(), m.waitChat(), m.chatModel.Init())
}

// closeMatch tears down the active watcher and session. Every path
// out of the detail view runs through here so subscriptions never
// outlive interest in the match.
func (m *Model) closeMatch() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
	m.currentView = ViewMatches
}

func (m *Model) toggleTheme() {
	if m.theme == store.ThemeDark {
		m.theme = store.ThemeLight
		styles.Apply(styles.Light)
	} else {
		m.theme = store.ThemeDark
		styles.Apply(styles.Dark)
	}
	if err := m.deps.Store.SetTheme(m.theme); err != nil {
		m.deps.Log.Warnf("tui: persist theme: %v", err)
	}
}

func (m *Model) quit() tea.Cmd {
	m.closeMatch()
	m.list.Stop()
	return tea.Quit
}

// Engine bridge commands. Each waits for one coalesced update signal,
// reports it as a message, and is re-armed by the handler.

func (m *Model) waitList() tea.Cmd {
	ch := m.list.Updates()
	return func() tea.Msg {
		<-ch
		return listUpdatedMsg{}
	}
}

func (m *Model) waitDetail() tea.Cmd {
	watcher := m.watcher
	if watcher == nil {
		return nil
	}
	ch := watcher.Updates()
	return func() tea.Msg {
		<-ch
		return detailUpdatedMsg{matchID: watcher.MatchID()}
	}
}

func (m *Model) waitChat() tea.Cmd {
	session := m.session
	if session == nil {
		return nil
	}
	ch := session.Updates()
	return func() tea.Msg {
		<-ch
		return chatUpdatedMsg{matchID: session.MatchID()}
	}
}

func (m *Model) waitStatus() tea.Cmd {
	return func() tea.Msg {
		return connStatusMsg{status: <-m.statusCh}
	}
}

func (m *Model) startList() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return listStartedMsg{err: m.list.Start(ctx, m.deps.Config.Live.PollInterval)}
	}
}

func (m *Model) refetchList() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		m.list.Refetch(ctx)
		return listUpdatedMsg{}
	}
}

func (m *Model) refetchDetail() tea.Cmd {
	watcher := m.watcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		watcher.Refetch(ctx)
		return detailUpdatedMsg{matchID: watcher.MatchID()}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.currentView {
	case ViewUsername:
		content = m.renderUsernamePrompt()
	case ViewMatches:
		content = m.matchesModel.View()
	case ViewDetail:
		content = m.renderDetail()
	}

	return styles.AppStyle.Render(content + "\n\n" + m.renderStatusBar())
}

func (m *Model) renderUsernamePrompt() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("⚽ Match Center"))
	b.WriteString("\n\n")
	b.WriteString("Choose a username for chat:\n\n")
	b.WriteString(styles.InputPromptStyle.Render("> ") + m.usernameInput.View())
	b.WriteString("\n")
	if m.usernameErr != "" {
		b.WriteString(styles.ErrorStyle.Render(m.usernameErr))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("enter to confirm · esc to quit"))
	return b.String()
}

func (m *Model) renderDetail() string {
	detail := m.detailModel.View()
	chatPane := m.chatModel.View()
	if m.width >= 110 {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(m.width/2-4).Render(detail),
			"  ",
			chatPane)
	}
	return detail + "\n" + styles.RenderDivider(min(m.width-4, 60)) + "\n" + chatPane
}

func (m *Model) renderStatusBar() string {
	var conn string
	switch m.connStatus.State {
	case socket.StateConnected:
		conn = styles.StatusBarActiveStyle.Render("● live")
	case socket.StateReconnecting:
		conn = styles.StatusBarDangerStyle.Render("◌ reconnecting...")
	default:
		conn = styles.StatusBarDangerStyle.Render("○ offline")
	}

	hints := "esc back · q quit"
	if m.currentView == ViewMatches {
		hints = "enter open · r refresh · t theme · q quit"
	}
	right := styles.StatusBarStyle.Render(m.user.Username + " | " + hints)

	spacing := m.width - lipgloss.Width(conn) - lipgloss.Width(right) - 4
	if spacing < 0 {
		spacing = 0
	}
	return conn + strings.Repeat(" ", spacing) + right
}
