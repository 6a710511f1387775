package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/manas/internal/panel"
	"github.com/sandeepkv93/manas/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.panelBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	helpContext := "menu"
	if m.Panel.IsOpen() {
		helpContext = m.Panel.Kind().Title()
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Context:  helpContext,
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Open, Action: "open feature"},
		{Key: m.Keys.Close, Action: "close feature"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) panelBindings() []KeyBinding {
	switch m.Panel.Kind() {
	case "":
		return []KeyBinding{
			{Key: "j/k", Action: "move through features"},
			{Key: m.Keys.Open, Action: "open the highlighted feature"},
		}
	case panel.KindChat:
		return []KeyBinding{
			{Key: "enter", Action: "send message"},
			{Key: "ctrl+r", Action: "reflect on the conversation"},
			{Key: "pgup/pgdown", Action: "scroll history"},
		}
	case panel.KindMood:
		return []KeyBinding{
			{Key: "j/k", Action: "choose mood"},
			{Key: "enter", Action: "log mood"},
		}
	case panel.KindBreathe:
		return []KeyBinding{
			{Key: "j/k", Action: "choose pattern"},
			{Key: "enter", Action: "start breathing"},
			{Key: m.Keys.Stop, Action: "finish session"},
		}
	case panel.KindMeditation:
		return []KeyBinding{
			{Key: "j/k", Action: "choose focus"},
			{Key: "h/l", Action: "choose duration"},
			{Key: "enter", Action: "begin meditation"},
			{Key: m.Keys.Stop, Action: "stop meditation"},
		}
	case panel.KindDetox:
		return []KeyBinding{
			{Key: "j/k", Action: "choose duration"},
			{Key: "enter", Action: "start detox"},
			{Key: m.Keys.Stop, Action: "end detox early"},
		}
	case panel.KindQA:
		return []KeyBinding{
			{Key: "tab", Action: "switch between text and question"},
			{Key: "enter", Action: "ask question"},
		}
	case panel.KindSchedule:
		return []KeyBinding{
			{Key: "tab", Action: "switch reminder"},
			{Key: "enter", Action: "set reminder time"},
			{Key: "ctrl+d", Action: "turn reminder off"},
		}
	default:
		return []KeyBinding{{Key: "enter", Action: "submit"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.panelBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.panelBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
