package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/josephgoksu/taskpilot/internal/task"
)

// MsgWatchRefresh carries a fresh read of the watched data after a change.
type MsgWatchRefresh struct {
	Result *task.Result
	Err    error
	At     time.Time
}

// WatchModel renders the watched request, or the request list, and redraws
// on every MsgWatchRefresh.
type WatchModel struct {
	Title    string
	Result   *task.Result
	Err      error
	Updated  time.Time
	Quitting bool
}

func NewWatchModel(title string) WatchModel {
	return WatchModel{Title: title}
}

func (m WatchModel) Init() tea.Cmd {
	return nil
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case MsgWatchRefresh:
		m.Updated = msg.At
		m.Err = msg.Err
		// Keep the last good render when a read fails mid-save.
		if msg.Err == nil {
			m.Result = msg.Result
		}
	}
	return m, nil
}

func (m WatchModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render(m.Title))
	b.WriteString("\n\n")

	switch {
	case m.Result == nil && m.Err == nil:
		b.WriteString(StyleSubtle.Render("Loading..."))
		b.WriteString("\n")
	case m.Result != nil && m.Result.Request != nil:
		b.WriteString(RenderRequest(m.Result.Request))
		b.WriteString("\n")
	case m.Result != nil:
		b.WriteString(RenderRequestList(m.Result.Requests))
		b.WriteString("\n")
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(StyleError.Render("✗ " + m.Err.Error()))
		b.WriteString("\n")
	}

	footer := "q to quit"
	if !m.Updated.IsZero() {
		footer = "updated " + m.Updated.Format(time.TimeOnly) + " · " + footer
	}
	b.WriteString("\n")
	b.WriteString(StyleSubtle.Render(footer))
	b.WriteString("\n")
	return b.String()
}
