package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#4f46e5")
	colorAccent  = lipgloss.Color("#22c55e")
	colorError   = lipgloss.Color("#ef4444")
	colorText    = lipgloss.Color("#e5e7eb")
	colorTextDim = lipgloss.Color("#9ca3af")
	colorBorder  = lipgloss.Color("#374151")
)

var (
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	launcherStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 2)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorError).
			Padding(0, 1)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	assistantBubbleStyle = lipgloss.NewStyle().
				PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			PaddingLeft(2)

	welcomeTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	quickPromptStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorAccent).
				PaddingLeft(1)

	inputPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	hintStyle    = lipgloss.NewStyle().Foreground(colorTextDim)
	loadingStyle = lipgloss.NewStyle().Foreground(colorAccent)
)
