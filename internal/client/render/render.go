// Package render turns conversation log entries into terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
)

// Renderer formats a single log entry for display.
type Renderer interface {
	Entry(e models.LogEntry) string
}

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	noticeStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
)

func label(r models.Role) string {
	switch r {
	case models.RoleUser:
		return userLabel.Render("You:")
	case models.RoleAssistant:
		return assistantLabel.Render("Assistant:")
	default:
		return string(r) + ":"
	}
}

// GlamourRenderer prints role-labelled entries and renders markdown bodies.
type GlamourRenderer struct {
	md *glamour.TermRenderer
}

// NewGlamourRenderer builds a renderer for the given glamour style name and
// word wrap width. "auto" picks a style from the terminal background.
func NewGlamourRenderer(style string, wordWrap int) (*GlamourRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != StyleAuto {
		styleOpt = glamour.WithStandardStyle(style)
	}

	md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return &GlamourRenderer{md: md}, nil
}

func (g *GlamourRenderer) Entry(e models.LogEntry) string {
	if e.Notice {
		return noticeStyle.Render(e.Content)
	}
	if !e.IsMarkdown {
		return label(e.Role) + " " + e.Content
	}

	out, err := g.md.Render(e.Content)
	if err != nil {
		return label(e.Role) + " " + e.Content
	}
	return label(e.Role) + "\n" + strings.Trim(out, "\n")
}

// PlainRenderer prints entries without styling. Markdown is shown as source.
type PlainRenderer struct{}

func (PlainRenderer) Entry(e models.LogEntry) string {
	if e.Notice {
		return "* " + e.Content
	}
	switch e.Role {
	case models.RoleUser:
		return "You: " + e.Content
	case models.RoleAssistant:
		return "Assistant: " + e.Content
	default:
		return string(e.Role) + ": " + e.Content
	}
}

// New picks a renderer: plain when the output is not a terminal, glamour
// otherwise.
func New(style string, wordWrap int, tty bool) (Renderer, error) {
	if !tty {
		return PlainRenderer{}, nil
	}
	return NewGlamourRenderer(style, wordWrap)
}
