package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inkbook/internal/client/api"
	"inkbook/internal/client/chatcache"
)

// notifyingRealtime forwards each pushed message to the program after the
// cache has applied it. A full buffer drops the notice, not the message.
type notifyingRealtime struct {
	*chatcache.WSRealtime
	incoming chan<- api.Message
}

func (n notifyingRealtime) Subscribe(conversationID string, onMessage func(api.Message)) error {
	return n.WSRealtime.Subscribe(conversationID, func(m api.Message) {
		onMessage(m)
		select {
		case n.incoming <- m:
		default:
		}
	})
}

// runChat opens one conversation: history first, then live messages. Enter
// sends the typed text; /older pages back, /retry ID resends a failed
// message, /discard ID drops it and /quit leaves.
func runChat(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	conversationID := fs.String("conversation", "", "conversation id")
	with := fs.Int64("with", 0, "start or reopen a conversation with this user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	status := ""
	if *conversationID == "" {
		if *with == 0 {
			return errors.New("-conversation or -with is required")
		}
		conv, err := a.api.StartConversation(ctx, *with)
		if err != nil {
			return err
		}
		*conversationID = conv.ID
		if conv.Status != "ACTIVE" {
			status = "conversation is " + strings.ToLower(conv.Status)
		}
	}

	rt, err := chatcache.DialRealtime(ctx, chatcache.WebsocketURL(a.apiURL), a.session.Token())
	if err != nil {
		return fmt.Errorf("realtime: %w", err)
	}
	defer rt.Close()

	self := a.session.UserID()
	incoming := make(chan api.Message, 64)
	cache := chatcache.New(a.api, notifyingRealtime{WSRealtime: rt, incoming: incoming}, self)
	defer cache.Close()

	if err := cache.LoadLatest(ctx, *conversationID); err != nil {
		return err
	}
	if err := cache.Subscribe(*conversationID); err != nil {
		return err
	}
	cache.MarkRead(*conversationID)

	m := newChatModel(ctx, cache, *conversationID, self, incoming, rt.Done())
	m.status = status
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if cm, ok := final.(chatModel); ok {
		return cm.err
	}
	return nil
}

type (
	incomingMsg     struct{ message api.Message }
	disconnectedMsg struct{}
	sentMsg         struct {
		entry chatcache.Entry
		err   error
	}
	olderMsg struct {
		added int
		err   error
	}
)

var (
	chatHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	chatStatus  = lipgloss.NewStyle().Faint(true)
	chatFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	chatPending = lipgloss.NewStyle().Faint(true)
	chatMine    = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

// chatModel draws the cache on every frame; the cache holds the list and
// the model only routes input and realtime notices into it.
type chatModel struct {
	ctx            context.Context
	cache          *chatcache.Cache
	conversationID string
	self           int64
	incoming       <-chan api.Message
	closed         <-chan struct{}

	input  textarea.Model
	width  int
	height int
	status string
	err    error
}

func newChatModel(ctx context.Context, cache *chatcache.Cache, conversationID string, self int64, incoming <-chan api.Message, closed <-chan struct{}) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Message…"
	ta.CharLimit = 4000
	ta.SetWidth(72)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	return chatModel{
		ctx:            ctx,
		cache:          cache,
		conversationID: conversationID,
		self:           self,
		incoming:       incoming,
		closed:         closed,
		input:          ta,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.listenIncoming(), m.listenClosed())
}

func (m chatModel) listenIncoming() tea.Cmd {
	if m.incoming == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-m.incoming
		if !ok {
			return nil
		}
		return incomingMsg{message: msg}
	}
}

func (m chatModel) listenClosed() tea.Cmd {
	if m.closed == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.closed
		return disconnectedMsg{}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			return m.command(line)
		}

	case incomingMsg:
		if msg.message.SenderID != m.self {
			m.cache.MarkRead(m.conversationID)
		}
		return m, m.listenIncoming()

	case disconnectedMsg:
		m.err = errors.New("realtime connection closed")
		return m, tea.Quit

	case sentMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			if msg.entry.State == chatcache.Failed {
				m.status = fmt.Sprintf("%s, /retry %s or /discard %s", msg.err, msg.entry.ID, msg.entry.ID)
			}
			return m, nil
		}
		m.status = ""
		m.cache.MarkRead(m.conversationID)
		return m, nil

	case olderMsg:
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
		case msg.added == 0:
			m.status = "start of conversation"
		default:
			m.status = fmt.Sprintf("loaded %d older", msg.added)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// command runs one submitted line. Network calls go out as tea.Cmds and
// report back as sentMsg or olderMsg.
func (m chatModel) command(line string) (tea.Model, tea.Cmd) {
	ctx, cache, id := m.ctx, m.cache, m.conversationID
	switch {
	case line == "":
		return m, nil
	case line == "/quit":
		return m, tea.Quit
	case line == "/older":
		return m, func() tea.Msg {
			n, err := cache.LoadOlder(ctx, id)
			return olderMsg{added: n, err: err}
		}
	case strings.HasPrefix(line, "/retry "):
		msgID := strings.TrimSpace(strings.TrimPrefix(line, "/retry "))
		return m, func() tea.Msg {
			e, err := cache.Retry(ctx, id, msgID)
			return sentMsg{entry: e, err: err}
		}
	case strings.HasPrefix(line, "/discard "):
		msgID := strings.TrimSpace(strings.TrimPrefix(line, "/discard "))
		if err := cache.Discard(id, msgID); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		return m, nil
	}
	return m, func() tea.Msg {
		e, err := cache.OptimisticSend(ctx, id, line, "")
		return sentMsg{entry: e, err: err}
	}
}

func (m chatModel) View() string {
	var lines []string
	for _, e := range m.cache.Messages(m.conversationID) {
		lines = append(lines, formatEntry(e, m.self))
	}
	// keep the newest lines when the window is short
	if room := m.height - m.input.Height() - 4; m.height > 0 && room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	var b strings.Builder
	b.WriteString(chatHeader.Render("conversation " + m.conversationID + "  /older /retry ID /discard ID /quit"))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	b.WriteString(chatStatus.Render(m.status) + "\n")
	b.WriteString(m.input.View())
	return b.String()
}

func formatEntry(e chatcache.Entry, self int64) string {
	who := fmt.Sprintf("%-6d", e.SenderID)
	if e.SenderID == self {
		who = chatMine.Render(fmt.Sprintf("%-6s", "me"))
	}
	line := fmt.Sprintf("%s %s %s", e.CreatedAt.Local().Format("15:04"), who, e.Content)
	switch e.State {
	case chatcache.Failed:
		return line + " " + chatFailed.Render("[failed "+e.ID+"]")
	case chatcache.Pending:
		return line + " " + chatPending.Render("[sending]")
	}
	return line
}
