package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Main         string
	Side         string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	toastStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("13")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	main := panelStyle.Width(72).Render(data.Main)
	row := main
	if strings.TrimSpace(data.Side) != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Top, main, panelStyle.Width(40).Render(data.Side))
	}

	lines := []string{headerStyle.Render(data.Header), row}
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Notification != "" {
		lines = append(lines, toastStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

type HeaderData struct {
	Name        string
	Level       int
	Points      int
	ToLevel     int
	XPBar       string
	GlowBerries int
	MoodEmoji   string
	MoodTitle   string
	Quote       string
}

func RenderHeader(data HeaderData) string {
	name := data.Name
	if name == "" {
		name = "Friend"
	}
	line := fmt.Sprintf("manas | %s | LVL %d %s %d/%d WP | %d berries | Nuru feels %s %s",
		name, data.Level, data.XPBar, data.Points, data.ToLevel, data.GlowBerries, data.MoodEmoji, data.MoodTitle)
	if data.Quote == "" {
		return line
	}
	return line + "\n" + mutedStyle.Render("\""+data.Quote+"\"")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
