package tui

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// markdownWrap is the column the shared renderer wraps at. Panels narrower
// than this re-wrap via lipgloss.
const markdownWrap = 76

var (
	rendererOnce sync.Once
	renderer     *glamour.TermRenderer
	rendererErr  error
)

// initRenderer builds the process-wide glamour renderer. Guarded by a
// sync.Once so construction happens at most once no matter how many messages
// get rendered.
func initRenderer() {
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}

	renderer, rendererErr = glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(markdownWrap),
	)
}

// Markdown renders assistant text as terminal markdown. On any renderer
// failure the raw text comes back unstyled; captions should never be lost to
// a styling problem.
func Markdown(content string) string {
	rendererOnce.Do(initRenderer)
	if rendererErr != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
