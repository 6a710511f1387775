package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/commands"
	"github.com/sandeepkv93/manas/internal/panel"
)

func (m *Model) openPalette() {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active", IsError: false}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Open: func(a commands.OpenArgs) (commands.Result, error) {
			follow = m.openFeature(a.Kind)
			return commands.Result{Message: fmt.Sprintf("opened %s", a.Kind.Title())}, nil
		},
		Close: func() (commands.Result, error) {
			if !m.Panel.IsOpen() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no feature is open"}
			}
			m.closeFeature()
			return commands.Result{Message: "feature closed"}, nil
		},
		Mood: func(a commands.MoodArgs) (commands.Result, error) {
			m.logMood(a.Mood)
			return commands.Result{Message: fmt.Sprintf("mood logged: %s", a.Mood)}, nil
		},
		Breathe: func(a commands.BreatheArgs) (commands.Result, error) {
			if m.Timer.Active() {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "a session is already running"}
			}
			m.openFeature(panel.KindBreathe)
			next, tick := m.startBreathing(a.Pattern)
			m = next
			follow = tick
			return commands.Result{Message: fmt.Sprintf("breathing: %s", a.Pattern.Name)}, nil
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			if a.Off {
				if !m.disableReminder(a.Kind) {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no active %s reminder", a.Kind.Label())}
				}
				return commands.Result{Message: fmt.Sprintf("%s reminder off", a.Kind.Label())}, nil
			}
			r, err := m.setReminder(a.Kind, a.At)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("%s reminder at %s", r.Kind.Label(), r.At)}, nil
		},
		Name: func(a commands.NameArgs) (commands.Result, error) {
			m.setName(a.Name)
			return commands.Result{Message: fmt.Sprintf("hello, %s", m.UserName)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}

	m.closePalette()
	return m, tea.Batch(follow, m.clearStatusLater())
}
