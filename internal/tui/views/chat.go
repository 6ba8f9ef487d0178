package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"matchcenter/internal/chat"
	"matchcenter/internal/tui/styles"
	"matchcenter/pkg/models"
	"matchcenter/pkg/utils"
)

// ChatModel renders the per-match chat room. The session owns every
// piece of chat state; this model owns only the input box. Each
// keystroke is forwarded so the session can run its typing protocol.
type ChatModel struct {
	session *chat.Session
	input   textinput.Model
	width   int
	height  int
}

// NewChatModel creates an empty chat view
func NewChatModel() ChatModel {
	input := textinput.New()
	input.Placeholder = "Type a message... (Enter to send)"
	input.CharLimit = models.MaxChatMessageLength
	input.Width = 48
	input.Focus()
	return ChatModel{input: input}
}

// SetSession binds the view to a chat session
func (m *ChatModel) SetSession(s *chat.Session) {
	m.session = s
	m.input.SetValue("")
}

// Init returns the cursor blink command
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards keystrokes to the input and the typing protocol
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = min(m.width-12, 48)
		return m, nil

	case tea.KeyMsg:
		if m.session == nil {
			return m, nil
		}
		if msg.String() == "enter" {
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			if err := m.session.SendMessage(text); err == nil {
				m.input.SetValue("")
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.session.InputChanged(m.input.Value())
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat pane
func (m ChatModel) View() string {
	if m.session == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.SectionHeaderStyle.Render("Chat"))
	b.WriteString(" ")
	switch m.session.State() {
	case chat.StateJoined:
		b.WriteString(styles.BadgeLiveStyle.Render("joined"))
	case chat.StateJoining:
		b.WriteString(styles.BadgeNeutralStyle.Render("joining..."))
	default:
		b.WriteString(styles.BadgeNeutralStyle.Render("offline"))
	}
	b.WriteString("\n")

	b.WriteString(m.renderMessages())
	b.WriteString(m.renderTypingLine())

	if errMsg := m.session.ErrorMessage(); errMsg != "" {
		b.WriteString(styles.ErrorStyle.Render(errMsg))
		b.WriteString("\n")
	}

	prompt := styles.InputPromptStyle.Render("> ")
	if m.session.RateLimited() {
		prompt = styles.WarningStyle.Render("⏳ ")
	}
	b.WriteString(prompt + m.input.View())
	return b.String()
}

func (m ChatModel) renderMessages() string {
	msgs := m.session.Messages()
	if len(msgs) == 0 {
		return styles.ChatSystemStyle.Render("No messages yet. Say hello!") + "\n"
	}

	// Tail the log to fit the pane; newest messages stay visible.
	maxRows := m.height - 12
	if maxRows < 5 {
		maxRows = 5
	}
	if len(msgs) > maxRows {
		msgs = msgs[len(msgs)-maxRows:]
	}

	var b strings.Builder
	for _, msg := range msgs {
		if msg.IsSystem() {
			b.WriteString(styles.ChatSystemStyle.Render("· " + msg.Message))
		} else {
			b.WriteString(fmt.Sprintf("%s %s %s",
				styles.ChatTimeStyle.Render(utils.FormatTimestamp(msg.Timestamp)),
				styles.ChatUserStyle.Render(msg.Username+":"),
				msg.Message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ChatModel) renderTypingLine() string {
	typing := m.session.TypingUsers()
	switch len(typing) {
	case 0:
		return "\n"
	case 1:
		return styles.TypingStyle.Render(typing[0].Username+" is typing...") + "\n"
	case 2:
		return styles.TypingStyle.Render(
			typing[0].Username+" and "+typing[1].Username+" are typing...") + "\n"
	default:
		return styles.TypingStyle.Render("Several people are typing...") + "\n"
	}
}
