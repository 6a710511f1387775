package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/panel"
	"github.com/sandeepkv93/manas/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForReminderCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		if h := typed.Height - 12; h > 8 {
			m.menuList.SetHeight(h)
		}
		return m, nil
	case spinner.TickMsg:
		if m.feature.Loading == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.loadSpinner, cmd = m.loadSpinner.Update(typed)
		return m, cmd
	case remoteResultMsg:
		return m.handleRemoteResult(typed)
	case sessionTickMsg:
		return m.onSessionTick(typed)
	case ReminderDueMsg:
		return m.onReminderDue(typed)
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq {
			m.Status = StatusBar{}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.closeFeature()
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if keyStr == "/" && !textEntryKinds[m.Panel.Kind()] {
		m.openPalette()
		return m, nil
	}
	if m.Panel.IsOpen() {
		return m.handlePanelKey(msg)
	}

	switch keyStr {
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown", IsError: false}
		} else {
			m.Status = StatusBar{Text: "help hidden", IsError: false}
		}
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "up", "k":
		m.menuList.CursorUp()
	case "down", "j":
		m.menuList.CursorDown()
	case m.Keys.Open:
		kinds := panel.Kinds()
		idx := m.menuList.Index()
		if idx < 0 || idx >= len(kinds) {
			return m, nil
		}
		cmd := m.openFeature(kinds[idx])
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return fmt.Sprintf("Take care, %s.\n", m.displayName())
	}
	return views.RenderApp(views.AppData{
		Header:       m.renderHeader(),
		Main:         m.renderMainView(),
		Side:         m.renderSidePane(),
		StatusLine:   m.Status.Text,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s open | %s close | %s stop | / cmd | %s help | %s quit",
			m.Keys.Open, m.Keys.Close, m.Keys.Stop, m.Keys.Help, m.Keys.Quit),
	})
}
