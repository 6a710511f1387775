package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/panel"
	"github.com/sandeepkv93/manas/internal/views"
)

// featureViews builds the body of every feature panel.
var featureViews = map[panel.Kind]func(Model) string{
	panel.KindChat:       Model.viewChat,
	panel.KindMood:       Model.viewMood,
	panel.KindGoal:       func(m Model) string { return m.viewInputFeature("What goal would you like to work towards?") },
	panel.KindBreathe:    Model.viewBreathe,
	panel.KindMeditation: Model.viewMeditation,
	panel.KindDetox:      Model.viewDetox,
	panel.KindWisdom:     func(m Model) string { return m.viewInputFeature("Whisper a question to the Wisdom Stone.") },
	panel.KindCave:       func(m Model) string { return m.viewInputFeature("Speak a single word into the cave.") },
	panel.KindPoem:       Model.viewPoem,
	panel.KindIntent:     Model.viewIntent,
	panel.KindQA:         Model.viewQA,
	panel.KindZones:      Model.viewZones,
	panel.KindSchedule:   Model.viewSchedule,
}

var featureActions = map[panel.Kind]string{
	panel.KindChat:       "[enter] send  [ctrl+r] reflect  [pgup/pgdown] scroll  [esc] close",
	panel.KindMood:       "[j/k] choose  [enter] log  [esc] close",
	panel.KindGoal:       "[enter] coach me  [esc] close",
	panel.KindBreathe:    "[j/k] pattern  [enter] start  [x] finish  [esc] close",
	panel.KindMeditation: "[j/k] focus  [h/l] duration  [enter] begin  [x] stop  [esc] close",
	panel.KindDetox:      "[j/k] duration  [enter] start  [x] end early  [esc] close",
	panel.KindWisdom:     "[enter] ask  [esc] close",
	panel.KindCave:       "[enter] echo  [esc] close",
	panel.KindPoem:       "[enter] write a poem  [esc] close",
	panel.KindIntent:     "[enter] analyze again  [esc] close",
	panel.KindQA:         "[tab] switch field  [enter] ask  [esc] close",
	panel.KindZones:      "[enter] find nearby  [esc] close",
	panel.KindSchedule:   "[tab] reminder  [enter] set  [ctrl+d] turn off  [esc] close",
}

// textEntryKinds are panels whose keys go to a text field.
var textEntryKinds = map[panel.Kind]bool{
	panel.KindChat:     true,
	panel.KindGoal:     true,
	panel.KindWisdom:   true,
	panel.KindCave:     true,
	panel.KindQA:       true,
	panel.KindSchedule: true,
}

// openFeature presents kind, closing whatever was open before.
func (m *Model) openFeature(kind panel.Kind) tea.Cmd {
	tr, err := m.Panel.Open(kind)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return nil
	}
	if tr.Noop {
		return nil
	}
	m.afterClose(tr)
	m.resetFeature()
	m.log.Debug("panel opened", "kind", kind, "token", tr.Token)

	switch kind {
	case panel.KindChat:
		m.openChat()
	case panel.KindGoal:
		m.focusInput("e.g. run a 5k in two months")
	case panel.KindWisdom:
		m.focusInput("Ask the stone...")
	case panel.KindCave:
		m.focusInput("A word to echo...")
	case panel.KindQA:
		m.focusInput("Your question about the text...")
		m.feature.QAOnText = true
		m.input.Blur()
		return m.contextArea.Focus()
	case panel.KindSchedule:
		m.focusInput("07:30")
	case panel.KindMeditation:
		m.feature.Minutes = pickChoice(meditationMinutes, m.cfg.MeditationMinutes)
	case panel.KindDetox:
		m.feature.Minutes = pickChoice(detoxMinutes, m.cfg.DetoxMinutes)
	case panel.KindIntent:
		next, cmd := m.analyzeIntent()
		*m = next
		return cmd
	}
	return nil
}

// closeFeature closes the open panel. A running timer is stopped without
// an award and any playing audio is silenced.
func (m *Model) closeFeature() {
	tr := m.Panel.Close()
	if tr.Noop {
		return
	}
	m.afterClose(tr)
	m.resetFeature()
	m.log.Debug("panel closed", "kind", tr.Closed, "token", tr.Token)
}

func (m *Model) afterClose(tr panel.Transition) {
	if tr.Stopped != nil {
		m.recordSession(tr.Stopped.State, model.OutcomeAbandoned)
	}
	if tr.Closed != "" {
		m.player.Stop()
	}
}

func (m *Model) resetFeature() {
	m.feature = featureState{}
	m.input.Blur()
	m.input.SetValue("")
	m.contextArea.Blur()
	m.contextArea.Reset()
	m.Timer.Reset()
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	kind := m.Panel.Kind()
	switch msg.String() {
	case m.Keys.Close:
		m.closeFeature()
		return m, nil
	case m.Keys.Help:
		if !textEntryKinds[kind] {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
	}
	switch kind {
	case panel.KindChat:
		return m.handleChatKey(msg)
	case panel.KindMood:
		return m.handleMoodKey(msg)
	case panel.KindGoal:
		return m.handleInputFeatureKey(msg, Model.submitGoal)
	case panel.KindBreathe:
		return m.handleBreatheKey(msg)
	case panel.KindMeditation:
		return m.handleMeditationKey(msg)
	case panel.KindDetox:
		return m.handleDetoxKey(msg)
	case panel.KindWisdom:
		return m.handleInputFeatureKey(msg, Model.submitWisdom)
	case panel.KindCave:
		return m.handleInputFeatureKey(msg, Model.submitCave)
	case panel.KindPoem:
		return m.handlePoemKey(msg)
	case panel.KindIntent:
		return m.handleIntentKey(msg)
	case panel.KindQA:
		return m.handleQAKey(msg)
	case panel.KindZones:
		return m.handleZonesKey(msg)
	case panel.KindSchedule:
		return m.handleScheduleKey(msg)
	}
	return m, nil
}

func (m Model) renderMainView() string {
	if !m.Panel.IsOpen() {
		return views.RenderMenu(views.MenuData{ListView: m.menuList.View()})
	}
	kind := m.Panel.Kind()
	body := ""
	if build, ok := featureViews[kind]; ok {
		body = build(m)
	}
	loading := ""
	if m.feature.Loading != "" {
		loading = m.loadSpinner.View() + " " + m.feature.Loading
	}
	return views.RenderPanel(views.PanelData{
		Title:   kind.Title(),
		Body:    body,
		Actions: featureActions[kind],
		Loading: loading,
	})
}

func (m Model) renderHeader() string {
	mood := m.CurrentMood()
	return views.RenderHeader(views.HeaderData{
		Name:        m.UserName,
		Level:       m.Progress.Level,
		Points:      m.Progress.Points,
		ToLevel:     m.Progress.PointsToLevel,
		XPBar:       m.xpProgress.ViewAs(m.Progress.Ratio()),
		GlowBerries: m.Progress.GlowBerries,
		MoodEmoji:   mood.Emoji(),
		MoodTitle:   mood.Title(),
		Quote:       model.DailyQuote(m.now()),
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	n, ok := m.lastNotification()
	if !ok {
		return ""
	}
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderSidePane() string {
	parts := []string{m.renderCommandPalette(), m.renderHelpIfVisible()}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func pickChoice(options []int, want int) int {
	for _, v := range options {
		if v == want {
			return v
		}
	}
	return options[0]
}
