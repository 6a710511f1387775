package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/gateway"
	"github.com/sandeepkv93/manas/internal/locate"
	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/views"
)

// IntentLabels are the candidate labels sent for intent classification.
var IntentLabels = []string{"seeking advice", "venting frustration", "sharing happiness", "asking a question"}

const (
	goalFallback    = "Could not create a plan. Please try again."
	poemFallback    = "The muse is quiet. Please try again."
	caveFallback    = "The cave is silent. Please try another word."
	wisdomFallback  = "The mists around the stone are too thick to see clearly now."
	intentFallback  = "Sorry, could not determine intent."
	qaFallback      = "Sorry, I couldn't find an answer in that text."
	zonesFallback   = "Could not find safe zones. Please check your connection and try again."
	intentNoMessage = "Please chat a little first so I can understand your intent."
)

func poemPrompt(mood model.Mood) string {
	return fmt.Sprintf("Write a short, hopeful, 4-line poem about the feeling of %s.", mood)
}

// Mood

func (m Model) handleMoodKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	moods := model.Moods()
	switch msg.String() {
	case "up", "k":
		m.feature.Cursor = wrapIndex(m.feature.Cursor-1, len(moods))
	case "down", "j":
		m.feature.Cursor = wrapIndex(m.feature.Cursor+1, len(moods))
	case "enter":
		m.logMood(moods[wrapIndex(m.feature.Cursor, len(moods))])
		m.closeFeature()
	}
	return m, nil
}

func (m *Model) logMood(mood model.Mood) {
	m.Moods = append(m.Moods, model.MoodEntry{ID: m.newID(), Label: mood, At: m.now().UTC()})
	m.notify("Mood", fmt.Sprintf("Mood logged: %s!", mood.Title()), "success")
	m.award(awardMood, "Logging Mood")
}

func (m Model) viewMood() string {
	moods := model.Moods()
	options := make([]string, 0, len(moods))
	for _, md := range moods {
		options = append(options, md.Emoji()+" "+md.Title())
	}
	return views.RenderChoices("How are you feeling right now?", options, m.feature.Cursor)
}

// Goal coach, wisdom stone and echo cave share the single-input flow.

func (m Model) handleInputFeatureKey(msg tea.KeyMsg, submit func(Model) (Model, tea.Cmd)) (Model, tea.Cmd) {
	if msg.String() == "enter" {
		if m.feature.Loading != "" {
			return m, nil
		}
		return submit(m)
	}
	return m.updateInput(msg)
}

func (m Model) submitGoal() (Model, tea.Cmd) {
	goal, err := requireInput(m.input.Value())
	if err != nil {
		m.notify("Goal", "Please enter a goal first!", "warn")
		return m, nil
	}
	cmd := m.request(opGoal, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		plan, err := b.GoalPlan(ctx, goal)
		return remoteResultMsg{Text: plan}, err
	})
	return m, m.startLoading("Crafting your plan...", cmd)
}

func (m Model) submitWisdom() (Model, tea.Cmd) {
	question, err := requireInput(m.input.Value())
	if err != nil {
		m.notify("Wisdom", "Please ask a question.", "warn")
		return m, nil
	}
	cmd := m.request(opWisdom, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		riddle, err := b.Riddle(ctx, question)
		return remoteResultMsg{Text: riddle}, err
	})
	return m, m.startLoading("The stone is pondering...", cmd)
}

func (m Model) submitCave() (Model, tea.Cmd) {
	raw, err := requireInput(m.input.Value())
	if err != nil {
		m.notify("Echo Cave", "Please provide a word.", "warn")
		return m, nil
	}
	word := strings.Fields(raw)[0]
	cmd := m.request(opSoundscape, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		clip, err := b.Soundscape(ctx, word)
		return remoteResultMsg{Text: word, Audio: clip}, err
	})
	return m, m.startLoading("Listening to the echoes...", cmd)
}

// Poem

func (m Model) handlePoemKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "r":
		if m.feature.Loading != "" {
			return m, nil
		}
		prompt := poemPrompt(m.CurrentMood())
		cmd := m.request(opPoem, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
			poem, err := b.Poem(ctx, prompt)
			return remoteResultMsg{Text: poem}, err
		})
		return m, m.startLoading("Writing your poem...", cmd)
	}
	return m, nil
}

func (m Model) viewPoem() string {
	mood := m.CurrentMood()
	out := fmt.Sprintf("A poem for feeling %s %s.", mood.Emoji(), mood)
	if res := m.renderResult(); res != "" {
		out += "\n\n" + res
	}
	return out
}

// Intent

func (m Model) analyzeIntent() (Model, tea.Cmd) {
	if m.feature.Loading != "" {
		return m, nil
	}
	text, ok := m.Conversation.LastUserText()
	if !ok {
		m.setResult(intentNoMessage)
		return m, nil
	}
	labels := append([]string(nil), IntentLabels...)
	cmd := m.request(opIntent, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		res, err := b.ClassifyIntent(ctx, text, labels)
		return remoteResultMsg{Text: text, Intent: res}, err
	})
	return m, m.startLoading("Analyzing your last message...", cmd)
}

func (m Model) handleIntentKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "enter" || msg.String() == "r" {
		return m.analyzeIntent()
	}
	return m, nil
}

func (m Model) viewIntent() string {
	out := "Manas looks at your most recent chat message and guesses what you need."
	if res := m.renderResult(); res != "" {
		out += "\n\n" + res
	}
	return out
}

// Text analysis

func (m Model) handleQAKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.feature.QAOnText = !m.feature.QAOnText
		if m.feature.QAOnText {
			m.input.Blur()
			return m, m.contextArea.Focus()
		}
		m.contextArea.Blur()
		return m, m.input.Focus()
	case "enter":
		if !m.feature.QAOnText {
			return m.submitQA()
		}
	}
	var cmd tea.Cmd
	if m.feature.QAOnText {
		m.contextArea, cmd = m.contextArea.Update(msg)
		return m, cmd
	}
	return m.updateInput(msg)
}

func (m Model) submitQA() (Model, tea.Cmd) {
	if m.feature.Loading != "" {
		return m, nil
	}
	contextText, errText := requireInput(m.contextArea.Value())
	question, errQuestion := requireInput(m.input.Value())
	if errText != nil || errQuestion != nil {
		m.notify("Analyze Text", "Please provide both text and a question.", "warn")
		return m, nil
	}
	cmd := m.request(opQA, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		answer, err := b.Answer(ctx, question, contextText)
		return remoteResultMsg{Text: answer}, err
	})
	return m, m.startLoading("Reading the text...", cmd)
}

func (m Model) viewQA() string {
	out := m.contextArea.View() + "\n\n" + m.input.View()
	if res := m.renderResult(); res != "" {
		out += "\n\n" + res
	}
	return out
}

// Safe zones

func (m Model) handleZonesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() != "enter" || m.feature.Loading != "" {
		return m, nil
	}
	locator := m.locator
	m.feature.Places = nil
	cmd := m.request(opZones, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		pos, err := locator.Locate(ctx)
		if err != nil {
			return remoteResultMsg{}, err
		}
		places, err := b.SafeZones(ctx, pos.Latitude, pos.Longitude)
		return remoteResultMsg{Places: places}, err
	})
	return m, m.startLoading("Searching for safe zones...", cmd)
}

func (m Model) viewZones() string {
	out := "Find calm, safe spaces near you."
	if m.feature.Result != "" {
		return out + "\n\n" + m.renderResult()
	}
	if m.feature.Places == nil {
		return out
	}
	places := make([]views.PlaceData, 0, len(m.feature.Places))
	for _, p := range m.feature.Places {
		places = append(places, views.PlaceData{Name: p.Name, Type: p.Type, Vicinity: p.Vicinity})
	}
	return out + "\n\n" + views.RenderPlaces(places)
}

func (m Model) viewInputFeature(prompt string) string {
	out := prompt + "\n\n" + m.input.View()
	if res := m.renderResult(); res != "" {
		out += "\n\n" + res
	}
	return out
}

// onFeatureResult applies results for the single-request features.
func (m Model) onFeatureResult(msg remoteResultMsg) (Model, tea.Cmd) {
	ok := msg.Err == nil && strings.TrimSpace(msg.Text) != ""
	switch msg.Op {
	case opGoal:
		if !ok {
			m.setFallback(goalFallback)
			return m, nil
		}
		m.setMarkdown(msg.Text)
		m.award(awardGoal, "Goal Coaching")
	case opWisdom:
		if !ok {
			m.setFallback(wisdomFallback)
			return m, nil
		}
		m.setResult(msg.Text)
		m.award(awardWisdom, "Seeking Wisdom")
	case opPoem:
		if !ok {
			m.setFallback(poemFallback)
			return m, nil
		}
		m.setResult(msg.Text)
		m.award(awardPoem, "Poem Generation")
	case opQA:
		if !ok {
			m.setFallback(qaFallback)
			return m, nil
		}
		m.setResult(msg.Text)
		m.award(awardQA, "Text Analysis")
	case opIntent:
		label, score, found := msg.Intent.Top()
		if msg.Err != nil || !found {
			m.setFallback(intentFallback)
			return m, nil
		}
		m.feature.Intent = label
		m.setResult(fmt.Sprintf("It sounds like you are %s (%.0f%% confident).", label, score*100))
		m.award(awardIntent, "Intent Analysis")
	case opSoundscape:
		if msg.Err != nil || len(msg.Audio.Data) == 0 {
			m.setFallback(caveFallback)
			return m, nil
		}
		path, err := m.player.Play("echo-"+msg.Text, msg.Audio.Data)
		if err != nil {
			m.log.Warn("soundscape playback failed", "error", err)
			m.Status = StatusBar{Text: fmt.Sprintf("playback failed: %v", err), IsError: true}
		}
		m.feature.AudioPath = path
		m.setResult(fmt.Sprintf("The cave echoes \"%s\" back to you...", msg.Text))
		m.award(awardCave, "Echo Cave")
	case opZones:
		if msg.Err != nil {
			if errors.Is(msg.Err, locate.ErrPermissionDenied) || errors.Is(msg.Err, locate.ErrLocationUnavailable) {
				m.setFallback(locate.UserMessage(msg.Err))
				return m, nil
			}
			m.setFallback(zonesFallback)
			return m, nil
		}
		m.feature.Places = append([]gateway.Place{}, msg.Places...)
		m.award(awardZones, "Safe Zones")
	}
	return m, nil
}
