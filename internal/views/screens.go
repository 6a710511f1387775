package views

import (
	"fmt"
	"strings"
)

type MenuData struct {
	ListView string
}

func RenderMenu(data MenuData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a path") + "\n")
	b.WriteString(mutedStyle.Render("[j/k] move  [enter] open  [/] command") + "\n\n")
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

// PanelData frames the open feature. Body is already rendered.
type PanelData struct {
	Title   string
	Body    string
	Actions string
	Loading string
}

func RenderPanel(data PanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Title) + "\n")
	if data.Actions != "" {
		b.WriteString(mutedStyle.Render(data.Actions) + "\n")
	}
	b.WriteString("\n" + data.Body)
	if data.Loading != "" {
		b.WriteString("\n\n" + accentStyle.Render(data.Loading))
	}
	return strings.TrimSpace(b.String())
}

type ChatLine struct {
	FromUser bool
	Text     string
}

func RenderChatTranscript(lines []ChatLine, name string) string {
	if len(lines) == 0 {
		return mutedStyle.Render("(no messages yet)")
	}
	if name == "" {
		name = "You"
	}
	var b strings.Builder
	for _, line := range lines {
		if line.FromUser {
			b.WriteString(accentStyle.Render(name+": ") + line.Text + "\n")
			continue
		}
		b.WriteString(titleStyle.Render("Manas: ") + line.Text + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderChoices renders a vertical option list with a cursor.
func RenderChoices(heading string, options []string, cursor int) string {
	var b strings.Builder
	if heading != "" {
		b.WriteString(heading + "\n")
	}
	for i, opt := range options {
		mark := "  "
		if i == cursor {
			mark = "> "
			b.WriteString(accentStyle.Render(mark+opt) + "\n")
			continue
		}
		b.WriteString(mark + opt + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type TimerData struct {
	Label        string
	Countdown    string
	ProgressView string
	Detail       string
}

func RenderTimer(data TimerData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Label) + "  " + data.Countdown + "\n")
	if data.ProgressView != "" {
		b.WriteString(data.ProgressView + "\n")
	}
	if data.Detail != "" {
		b.WriteString("\n" + data.Detail)
	}
	return strings.TrimSpace(b.String())
}

// RenderResult shows a feature's result area; fallbacks render as errors.
func RenderResult(text string, fallback bool) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if fallback {
		return errorStyle.Render(text)
	}
	return text
}

type PlaceData struct {
	Name     string
	Type     string
	Vicinity string
}

func RenderPlaces(places []PlaceData) string {
	if len(places) == 0 {
		return "No specific safe zones found nearby. Consider a local park or library."
	}
	var b strings.Builder
	for _, p := range places {
		b.WriteString(accentStyle.Render(p.Name) + "\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s - %s", p.Type, p.Vicinity)) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type HelpPanelData struct {
	Context  string
	Bindings []string
	HelpView string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.Context),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(level), body)
}
