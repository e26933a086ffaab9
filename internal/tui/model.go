// Package tui is a terminal front end for the chat widget.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iamvkosarev/campus-assistant/internal/model"
	"github.com/iamvkosarev/campus-assistant/internal/widget"
)

const (
	inputCharLimit = 2000
	// terminalWidth stands in for the viewport width when dismissing on
	// focus loss: a terminal is never a narrow mobile screen.
	terminalWidth = 1024
)

type sentMsg struct {
	err error
}

type Model struct {
	ctx    context.Context
	widget *widget.Widget
	page   *model.PageContext

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// rendered caches glamour output by width and content.
	rendered map[string]string

	ready  bool
	width  int
	height int
}

func NewModel(ctx context.Context, w *widget.Widget, page *model.PageContext) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your question..."
	ta.CharLimit = inputCharLimit
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:      ctx,
		widget:   w,
		page:     page,
		textarea: ta,
		spinner:  s,
		rendered: make(map[string]string),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 12
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4
		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.refresh()

	case tea.FocusMsg:
		m.syncFocus()

	case tea.BlurMsg:
		m.widget.DismissOutside(m.ctx, terminalWidth)
		m.syncFocus()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+o":
			m.widget.Toggle(m.ctx)
			m.syncFocus()
			return m, nil
		case "esc":
			m.widget.Cancel(m.ctx)
			m.syncFocus()
			return m, nil
		}

		if !m.widget.View().PanelOpen {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+l":
			m.widget.Clear(m.ctx)
			m.refresh()
			return m, nil
		case "enter":
			text := m.textarea.Value()
			if !m.widget.CanSend(text) {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.send(text)
		}

		if prompt, ok := m.quickPrompt(msg); ok {
			return m, m.send(prompt)
		}

		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)

	case sentMsg:
		m.refresh()
		m.syncFocus()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// send records the message right away so the typing indicator shows while
// the relay answers in the background.
func (m *Model) send(text string) tea.Cmd {
	req, err := m.widget.BeginSend(m.ctx, text, m.page)
	if err != nil {
		return nil
	}
	m.refresh()

	w, ctx := m.widget, m.ctx
	return func() tea.Msg {
		resp, err := w.Transport.Send(ctx, req)
		if err != nil {
			w.Fail(ctx, err)
			return sentMsg{err: err}
		}
		w.Receive(ctx, resp)
		return sentMsg{}
	}
}

// quickPrompt maps the digit keys to the visible quick prompts while the
// input is empty.
func (m Model) quickPrompt(msg tea.KeyMsg) (string, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || m.textarea.Value() != "" {
		return "", false
	}
	prompts := m.widget.View().QuickPrompts
	idx := int(msg.Runes[0] - '1')
	if idx < 0 || idx >= len(prompts) {
		return "", false
	}
	return prompts[idx].Message, true
}

func (m *Model) syncFocus() {
	if m.widget.View().Focus == widget.FocusInput {
		m.textarea.Focus()
		return
	}
	m.textarea.Blur()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.widget.View()))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	view := m.widget.View()
	if !view.PanelOpen {
		return m.renderLauncher(view)
	}

	var sections []string
	sections = append(
		sections,
		headerStyle.Width(m.width-2).Render(titleStyle.Render("Campus Assistant")+hintStyle.Render("  Business & Finance")),
	)
	sections = append(sections, m.viewport.View())
	if view.Typing {
		sections = append(sections, m.spinner.View()+hintStyle.Render(" Assistant is typing"))
	}
	if len(view.QuickPrompts) > 0 {
		sections = append(sections, renderQuickPrompts(view))
	}
	sections = append(sections, inputPanelStyle.Width(m.width-2).Render(m.textarea.View()))
	if view.Announcement != "" {
		sections = append(sections, hintStyle.Render(view.Announcement))
	}
	sections = append(sections, hintStyle.Render("enter send • ctrl+l clear • esc close • ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLauncher(view widget.View) string {
	launcher := launcherStyle.Render("Chat with Campus Assistant")
	if view.BadgeVisible {
		launcher = lipgloss.JoinHorizontal(lipgloss.Center, launcher, " ", badgeStyle.Render("1"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, launcher, hintStyle.Render("ctrl+o open • ctrl+c quit"))
}

func renderQuickPrompts(view widget.View) string {
	var sb strings.Builder
	for i, prompt := range view.QuickPrompts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(quickPromptStyle.Render(fmt.Sprintf("%d %s", i+1, prompt.Text)))
	}
	return sb.String()
}

func (m Model) renderMessages(view widget.View) string {
	bubbleWidth := m.viewport.Width - 4
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	if view.Welcome {
		return welcomeTitleStyle.Render(widget.WelcomeTitle) + "\n" +
			welcomeStyle.Width(bubbleWidth).Render(widget.WelcomeText) + "\n" +
			m.renderNotices(view.Notices, 0, bubbleWidth)
	}

	var content strings.Builder
	for i, msg := range view.Messages {
		if i > 0 {
			content.WriteString("\n")
		}
		if msg.Role == model.RoleUser {
			content.WriteString(userLabelStyle.Render("You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Content))
		} else {
			content.WriteString(assistantLabelStyle.Render("Assistant") + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(m.renderMarkdown(msg.Content, bubbleWidth)))
		}
		content.WriteString("\n")
		content.WriteString(m.renderNotices(view.Notices, i+1, bubbleWidth))
	}
	return content.String()
}

func (m Model) renderNotices(notices []widget.Notice, after, width int) string {
	var sb strings.Builder
	for _, notice := range notices {
		if notice.AfterMessage == after {
			sb.WriteString(errorStyle.Width(width).Render("! "+notice.Text) + "\n")
		}
	}
	return sb.String()
}

func (m Model) renderMarkdown(content string, width int) string {
	key := fmt.Sprintf("%d:%s", width, content)
	if rendered, ok := m.rendered[key]; ok {
		return rendered
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	rendered = strings.TrimRight(rendered, "\n")
	m.rendered[key] = rendered
	return rendered
}

// Run starts the terminal widget on the alternate screen.
func Run(ctx context.Context, w *widget.Widget, page *model.PageContext) error {
	p := tea.NewProgram(
		NewModel(ctx, w, page),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
