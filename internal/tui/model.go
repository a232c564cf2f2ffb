// Package tui is the terminal chat client for the captions proxy. It renders
// the conversation transcript, relays text input and image uploads to the
// chat session, and shows assistant markdown via glamour.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/capchatco/capchat/pkg/chat"
	"github.com/capchatco/capchat/pkg/imageenc"
)

// Messages flowing through the update loop.
type (
	// captionDoneMsg is the single completion event of a captioning turn.
	captionDoneMsg struct {
		outcome chat.Outcome
	}
	// imageDroppedMsg reports a file dropped into the watched directory.
	imageDroppedMsg struct {
		path string
	}
	dropClosedMsg struct{}
)

// Model is the bubbletea state for the chat view.
type Model struct {
	session *chat.Session
	drops   *DropWatcher
	logger  *zap.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// notice is a transient local message (validation guard, skipped file),
	// distinct from the session's error state.
	notice string
	ready  bool

	width  int
	height int
}

// NewModel creates the chat view. drops may be nil when no drop directory is
// configured.
func NewModel(session *chat.Session, drops *DropWatcher, logger *zap.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask for caption styles, or /upload <path> to add an image..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		session:  session,
		drops:    drops,
		logger:   logger,
		textarea: ta,
		spinner:  s,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spinner.Tick}
	if m.drops != nil {
		cmds = append(cmds, m.waitForDrop())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 4
		statusHeight := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 2)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 2)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			// The enter affordance is disabled while a request is in
			// flight; the session's guard would reject it anyway.
			if m.session.IsLoading() {
				break
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				break
			}
			if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
				return m, tea.Quit
			}

			m.textarea.Reset()
			m.notice = ""

			if path, ok := strings.CutPrefix(input, "/upload "); ok {
				return m.uploadImage(strings.TrimSpace(path))
			}

			turn, err := m.session.Send(input)
			if err != nil {
				// Guard rejection: nothing was appended, no call was made.
				m.notice = m.session.LastError()
				return m, nil
			}

			m.updateViewport()
			m.viewport.GotoBottom()
			return m, tea.Batch(m.runTurn(turn), m.spinner.Tick)
		}

	case imageDroppedMsg:
		next := m.waitForDrop()
		updated, cmd := m.uploadImage(msg.path)
		return updated, tea.Batch(cmd, next)

	case dropClosedMsg:
		// Watcher shut down; drag-and-drop ingest is gone but chat works on.

	case captionDoneMsg:
		m.session.Finish(msg.outcome)
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.session.IsLoading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.session.IsLoading() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// uploadImage encodes a file and selects it as the session's active image.
// Unsupported files surface as a notice and never touch the session.
func (m Model) uploadImage(path string) (Model, tea.Cmd) {
	if m.session.IsLoading() {
		m.notice = "Still generating captions, try again in a moment."
		return m, nil
	}

	data, err := imageenc.EncodeFile(path)
	if err != nil {
		m.logger.Warn("upload rejected", zap.String("path", path), zap.Error(err))
		m.notice = fmt.Sprintf("Could not upload %s: %v", path, err)
		return m, nil
	}

	turn, err := m.session.SelectImage(data)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}

	m.logger.Info("image selected", zap.String("path", path))
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.runTurn(turn), m.spinner.Tick)
}

// runTurn executes the captioning turn off the update loop and feeds its
// outcome back as one message.
func (m Model) runTurn(turn *chat.Turn) tea.Cmd {
	return func() tea.Msg {
		return captionDoneMsg{outcome: turn.Run(context.Background())}
	}
}

func (m Model) waitForDrop() tea.Cmd {
	return func() tea.Msg {
		path, ok := <-m.drops.Events()
		if !ok {
			return dropClosedMsg{}
		}
		return imageDroppedMsg{path: path}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center,
			titleStyle.Render("✦ capchat"),
			subtitleStyle.Render("  ·  social media caption generator"),
		),
	)
	sections = append(sections, header)

	if len(m.session.Messages()) == 0 {
		sections = append(sections, m.renderWelcome())
	} else {
		sections = append(sections, m.viewport.View())
	}

	var inputContent string
	if m.session.IsLoading() {
		inputContent = m.spinner.View() + loadingStyle.Render(" Generating captions...")
	} else {
		inputContent = m.textarea.View()
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	} else if err := m.session.LastError(); err != "" && !m.session.IsLoading() {
		sections = append(sections, noticeStyle.Render("  Error: "+err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width
	title := welcomeTitleStyle.Width(width).Render("Social Media Caption Generator")
	body := welcomeStyle.Width(width).Render(
		"Upload an image and I'll generate engaging captions for your posts.\n" +
			"Use /upload <path>, or drop a file into the watched directory.")

	content := lipgloss.JoinVertical(lipgloss.Center, "", title, "", body)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/upload <path>", "Add image"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).
		Render(strings.Join(items, "  │  "))
}

// updateViewport refreshes the transcript view from the session state.
func (m *Model) updateViewport() {
	var content strings.Builder

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.Role == chat.RoleUser && msg.Kind == chat.KindImage:
			content.WriteString(userLabelStyle.Render("⬤ You") + "\n")
			content.WriteString(imageNoteStyle.Render(fmt.Sprintf("🖼  %s (%s)", msg.Content, imageSummary(msg.ImageRef))))

		case msg.Role == chat.RoleUser:
			content.WriteString(userLabelStyle.Render("⬤ You") + "\n")
			content.WriteString(msg.Content)

		default:
			content.WriteString(assistantLabelStyle.Render("✦ Captions") + "\n")
			content.WriteString(strings.TrimRight(Markdown(msg.Content), "\n"))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// imageSummary describes an image data URL without dumping base64 into the
// transcript.
func imageSummary(dataURL string) string {
	data, err := imageenc.Decode(dataURL)
	if err != nil {
		return "image"
	}

	mime, _, _ := imageenc.Split(dataURL)
	return fmt.Sprintf("%s, %d bytes", mime, len(data))
}
