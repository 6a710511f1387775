package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/gateway"
	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/session"
	"github.com/sandeepkv93/manas/internal/views"
)

var (
	meditationTopics  = []string{"Stress Relief", "Focus", "Sleep", "Gratitude"}
	meditationMinutes = []int{2, 5, 10}
	detoxMinutes      = []int{30, 60, 90}
)

const (
	meditationFallback  = "Could not load script. Please try again."
	pledgeFallback      = "I will use this time to connect with myself."
	completionFallback  = "You did it! Welcome back."
	tickInterval        = time.Second
	speechUnavailable   = "Audio guidance unavailable; follow the script on screen."
	meditationStoppedTx = "Meditation stopped."
)

func sessionTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return sessionTickMsg{Gen: gen}
	})
}

// startTimer claims the runner. ErrTimerActive leaves the running timer
// untouched and is reported on the status bar.
func (m *Model) startTimer(cfg session.Config) (tea.Cmd, bool) {
	gen, err := m.Timer.Start(cfg)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return nil, false
	}
	m.log.Debug("timer started", "kind", cfg.Kind, "generation", gen)
	return sessionTickCmd(gen), true
}

func (m Model) onSessionTick(msg sessionTickMsg) (Model, tea.Cmd) {
	res, ok := m.Timer.Tick(msg.Gen)
	if !ok {
		return m, nil
	}
	if !res.Completed {
		return m, sessionTickCmd(msg.Gen)
	}
	switch res.State.Kind {
	case session.KindMeditation:
		m.recordSession(res.State, model.OutcomeCompleted)
		m.notify("Meditation", "Meditation complete! Well done!", "success")
		m.award(awardMeditation, "Guided Meditation")
	case session.KindDetox:
		m.recordSession(res.State, model.OutcomeCompleted)
		m.feature.DetoxDone = true
		m.notify("Digital Detox", "Detox complete!", "success")
		m.award(awardDetox, "Digital Detox")
		cmd := m.request(opCompletion, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
			text, err := b.DetoxCompletion(ctx)
			return remoteResultMsg{Text: text}, err
		})
		return m, m.startLoading("Welcoming you back...", cmd)
	}
	return m, nil
}

func (m Model) renderTimer(detail string) string {
	st := m.Timer.State()
	label := st.PhaseLabel()
	if st.Kind == session.KindBreathing && st.Active {
		switch st.Phase {
		case session.PhaseInhale:
			label = "Breathe in..."
		case session.PhaseHold:
			label = "Hold..."
		case session.PhaseExhale:
			label = "Breathe out..."
		case session.PhasePause:
			label = "Rest..."
		case session.PhasePrepare:
			label = "Get ready..."
		}
	}
	return views.RenderTimer(views.TimerData{
		Label:        label,
		Countdown:    formatDuration(st.Remaining),
		ProgressView: m.timerProgress.ViewAs(st.Progress()),
		Detail:       detail,
	})
}

// Breathing

func (m Model) handleBreatheKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Timer.Active() {
		if msg.String() == m.Keys.Stop {
			m.stopBreathing()
		}
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		m.feature.Cursor = wrapIndex(m.feature.Cursor-1, len(session.Patterns))
	case "down", "j":
		m.feature.Cursor = wrapIndex(m.feature.Cursor+1, len(session.Patterns))
	case "enter":
		return m.startBreathing(session.Patterns[wrapIndex(m.feature.Cursor, len(session.Patterns))])
	}
	return m, nil
}

func (m Model) startBreathing(p session.Pattern) (Model, tea.Cmd) {
	cmd, ok := m.startTimer(session.BreathingConfig(p))
	if !ok {
		return m, nil
	}
	return m, cmd
}

// stopBreathing ends the loop on request; a user stop counts as a
// completed session.
func (m *Model) stopBreathing() {
	res, ok := m.Timer.Stop(true)
	if !ok {
		return
	}
	m.recordSession(res.State, model.OutcomeCompleted)
	m.notify("Breathing", "Great session!", "success")
	if res.Award {
		m.award(awardBreathing, "Breathing Exercise")
	}
	m.closeFeature()
}

func (m Model) viewBreathe() string {
	if m.Timer.Active() {
		st := m.Timer.State()
		return m.renderTimer(st.Pattern.Name)
	}
	names := make([]string, 0, len(session.Patterns))
	for _, p := range session.Patterns {
		names = append(names, fmt.Sprintf("%s (%d-%d-%d-%d)", p.Name, p.Inhale, p.Hold, p.Exhale, p.Pause))
	}
	return views.RenderChoices("Choose a breathing pattern:", names, m.feature.Cursor)
}

// Meditation

func (m Model) handleMeditationKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Timer.Active() {
		if msg.String() == m.Keys.Stop {
			m.stopMeditation()
		}
		return m, nil
	}
	if m.feature.Loading != "" {
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		m.feature.Cursor = wrapIndex(m.feature.Cursor-1, len(meditationTopics))
	case "down", "j":
		m.feature.Cursor = wrapIndex(m.feature.Cursor+1, len(meditationTopics))
	case "left", "h":
		m.feature.Minutes = stepChoice(meditationMinutes, m.feature.Minutes, -1)
	case "right", "l":
		m.feature.Minutes = stepChoice(meditationMinutes, m.feature.Minutes, 1)
	case "enter":
		topic := meditationTopics[wrapIndex(m.feature.Cursor, len(meditationTopics))]
		minutes := m.feature.Minutes
		cmd := m.request(opScript, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
			script, err := b.MeditationScript(ctx, topic, minutes)
			return remoteResultMsg{Script: script}, err
		})
		return m, m.startLoading("Crafting your meditation...", cmd)
	}
	return m, nil
}

func (m *Model) stopMeditation() {
	res, ok := m.Timer.Stop(false)
	if !ok {
		return
	}
	m.player.Stop()
	m.recordSession(res.State, model.OutcomeStopped)
	m.notify("Meditation", meditationStoppedTx, "info")
	m.closeFeature()
}

func (m Model) onMeditationResult(msg remoteResultMsg) (Model, tea.Cmd) {
	switch msg.Op {
	case opScript:
		if msg.Err != nil || len(msg.Script.Segments) == 0 {
			m.setFallback(meditationFallback)
			return m, nil
		}
		m.feature.Script = msg.Script
		m.setMarkdown(msg.Script.Plain())
		tick, ok := m.startTimer(session.MeditationConfig(m.feature.Minutes))
		if !ok {
			return m, nil
		}
		text := msg.Script.Plain()
		speech := m.request(opSpeech, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
			clip, err := b.Speech(ctx, text)
			return remoteResultMsg{Audio: clip}, err
		})
		return m, tea.Batch(tick, speech)
	case opSpeech:
		if msg.Err != nil || len(msg.Audio.Data) == 0 {
			m.Status = StatusBar{Text: speechUnavailable}
			return m, nil
		}
		path, err := m.player.Play("meditation", msg.Audio.Data)
		if err != nil {
			m.log.Warn("meditation playback failed", "error", err)
			m.Status = StatusBar{Text: fmt.Sprintf("playback failed: %v", err), IsError: true}
			return m, nil
		}
		m.feature.AudioPath = path
	}
	return m, nil
}

func (m Model) viewMeditation() string {
	st := m.Timer.State()
	if st.Kind == session.KindMeditation && (st.Active || st.Completed()) {
		return m.renderTimer(m.renderResult())
	}
	var b strings.Builder
	b.WriteString(views.RenderChoices("Choose a focus:", meditationTopics, m.feature.Cursor))
	b.WriteString("\n\nDuration: " + choiceRow(meditationMinutes, m.feature.Minutes))
	if res := m.renderResult(); res != "" {
		b.WriteString("\n\n" + res)
	}
	return b.String()
}

// Digital detox

func (m Model) handleDetoxKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Timer.Active() {
		if msg.String() == m.Keys.Stop {
			m.endDetoxEarly()
		}
		return m, nil
	}
	if m.feature.DetoxDone {
		return m, nil
	}
	switch msg.String() {
	case "up", "k", "left", "h":
		m.feature.Minutes = stepChoice(detoxMinutes, m.feature.Minutes, -1)
	case "down", "j", "right", "l":
		m.feature.Minutes = stepChoice(detoxMinutes, m.feature.Minutes, 1)
	case "enter":
		return m.startDetox(m.feature.Minutes)
	}
	return m, nil
}

func (m Model) startDetox(minutes int) (Model, tea.Cmd) {
	tick, ok := m.startTimer(session.DetoxConfig(minutes))
	if !ok {
		return m, nil
	}
	m.feature.Minutes = minutes
	m.feature.Pledge = ""
	name := m.displayName()
	pledge := m.request(opPledge, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		text, err := b.DetoxPledge(ctx, name, minutes)
		return remoteResultMsg{Text: text}, err
	})
	return m, tea.Batch(tick, m.startLoading("Crafting your intention...", pledge))
}

func (m *Model) endDetoxEarly() {
	res, ok := m.Timer.Stop(false)
	if !ok {
		return
	}
	m.recordSession(res.State, model.OutcomeStopped)
	m.notify("Digital Detox", "Detox ended. Every moment counts!", "info")
	m.closeFeature()
}

func (m Model) onDetoxResult(msg remoteResultMsg) (Model, tea.Cmd) {
	text := strings.TrimSpace(msg.Text)
	switch msg.Op {
	case opPledge:
		if msg.Err != nil || text == "" {
			text = pledgeFallback
		}
		m.feature.Pledge = text
	case opCompletion:
		if msg.Err != nil || text == "" {
			text = completionFallback
		}
		m.setResult(text)
	}
	return m, nil
}

func (m Model) viewDetox() string {
	if m.feature.DetoxDone {
		return "Detox complete!\n\n" + m.renderResult()
	}
	if m.Timer.Active() {
		detail := ""
		if m.feature.Pledge != "" {
			detail = "\"" + m.feature.Pledge + "\""
		}
		return m.renderTimer(detail)
	}
	return "Step away from your screens for a while.\n\nDuration: " + choiceRow(detoxMinutes, m.feature.Minutes)
}

// stepChoice moves current to the neighbouring option, wrapping around.
func stepChoice(options []int, current, delta int) int {
	idx := 0
	for i, v := range options {
		if v == current {
			idx = i
			break
		}
	}
	return options[wrapIndex(idx+delta, len(options))]
}

func choiceRow(options []int, current int) string {
	parts := make([]string, 0, len(options))
	for _, v := range options {
		label := gateway.MinutesLabel(v)
		if v == current {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}
