package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("44")  // cyan, the caption-generator accent
	colorUser    = lipgloss.Color("209") // warm orange for the user
	colorText    = lipgloss.Color("252")
	colorTextDim = lipgloss.Color("241")
	colorError   = lipgloss.Color("203")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	imageNoteStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)

	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorTextDim).
			Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorError)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				Align(lipgloss.Center)
)
