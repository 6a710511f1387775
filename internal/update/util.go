package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/views"
)

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	min := totalSec / 60
	sec := totalSec % 60
	return fmt.Sprintf("%02d:%02d", min, sec)
}

// requireInput trims raw and rejects blank values.
func requireInput(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

const statusTimeout = 4 * time.Second

// clearStatusLater schedules the current status to be cleared.
func (m *Model) clearStatusLater() tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (m *Model) focusInput(placeholder string) {
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setMarkdown(md string) {
	m.feature.Result = md
	m.feature.Markdown = true
	m.feature.IsFallback = false
}

func (m *Model) setResult(text string) {
	m.feature.Result = text
	m.feature.Markdown = false
	m.feature.IsFallback = false
}

func (m *Model) setFallback(text string) {
	m.feature.Result = text
	m.feature.Markdown = false
	m.feature.IsFallback = true
}

func (m Model) renderResult() string {
	if m.feature.Markdown && !m.feature.IsFallback {
		return views.RenderMarkdown(m.feature.Result)
	}
	return views.RenderResult(m.feature.Result, m.feature.IsFallback)
}
