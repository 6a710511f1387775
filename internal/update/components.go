package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/panel"
	"github.com/sandeepkv93/manas/internal/views"
)

var featureBlurbs = map[panel.Kind]string{
	panel.KindChat:       "talk things through",
	panel.KindMood:       "log how you feel (+15 WP)",
	panel.KindGoal:       "turn a goal into steps (+45 WP)",
	panel.KindBreathe:    "guided breathing patterns (+20 WP)",
	panel.KindMeditation: "scripted meditation with audio (+40 WP)",
	panel.KindDetox:      "time away from screens (+50 WP)",
	panel.KindWisdom:     "ask the stone a question (+20 WP)",
	panel.KindCave:       "hear a word as a soundscape (+40 WP)",
	panel.KindPoem:       "a poem for your current mood (+20 WP)",
	panel.KindIntent:     "what did your last message mean? (+30 WP)",
	panel.KindQA:         "ask questions about a text (+35 WP)",
	panel.KindZones:      "calm places nearby (+10 WP)",
	panel.KindSchedule:   "daily reminders (+10 WP)",
}

func (m *Model) initBubbleComponents() {
	items := make([]list.Item, 0, len(panel.Kinds()))
	for _, k := range panel.Kinds() {
		items = append(items, listItem{title: k.Title(), description: featureBlurbs[k]})
	}
	m.menuList = list.New(items, list.NewDefaultDelegate(), 68, 20)
	m.menuList.Title = "Features"
	m.menuList.SetShowHelp(false)
	m.menuList.SetShowStatusBar(false)
	m.menuList.SetFilteringEnabled(false)

	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.CharLimit = 512
	m.input.Width = 60

	m.contextArea = textarea.New()
	m.contextArea.SetWidth(66)
	m.contextArea.SetHeight(6)
	m.contextArea.ShowLineNumbers = false
	m.contextArea.Placeholder = "Paste the text to analyze here..."

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.timerProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(50))
	m.xpProgress = progress.New(progress.WithSolidFill("13"), progress.WithWidth(20), progress.WithoutPercentage())

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.chatViewport = viewport.New(68, 14)

	cols := []table.Column{
		{Title: "Reminder", Width: 18},
		{Title: "Time", Width: 7},
		{Title: "Status", Width: 9},
		{Title: "Next", Width: 12},
	}
	m.reminderTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithHeight(4))
}

func (m *Model) syncBubbleData() {
	lines := make([]views.ChatLine, 0, m.Conversation.Len())
	for _, t := range m.Conversation.Turns {
		lines = append(lines, views.ChatLine{FromUser: t.Role == model.RoleUser, Text: t.Text})
	}
	m.chatViewport.SetContent(views.RenderChatTranscript(lines, m.UserName))
	m.chatViewport.GotoBottom()

	rows := make([]table.Row, 0, len(m.Reminders))
	for _, r := range m.Reminders {
		status := "off"
		if r.Enabled {
			status = "on"
		}
		next := "-"
		if m.Scheduler != nil {
			if at, ok := m.Scheduler.NextFire(r.ID); ok {
				next = at.Local().Format("Mon 15:04")
			}
		}
		rows = append(rows, table.Row{r.Kind.Label(), r.At, status, next})
	}
	m.reminderTable.SetRows(rows)
}
