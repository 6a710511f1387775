package update

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/sandeepkv93/manas/internal/audio"
	"github.com/sandeepkv93/manas/internal/config"
	"github.com/sandeepkv93/manas/internal/gateway"
	"github.com/sandeepkv93/manas/internal/locate"
	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/panel"
	"github.com/sandeepkv93/manas/internal/scheduler"
	"github.com/sandeepkv93/manas/internal/session"
	"github.com/sandeepkv93/manas/internal/storage"
)

// ErrEmptyInput is reported when a required field is blank. No request is
// issued in that case.
var ErrEmptyInput = errors.New("update: empty input")

// Backend is the remote AI service as seen by the UI.
type Backend interface {
	Chat(ctx context.Context, history []model.Turn) (string, error)
	Reflect(ctx context.Context, history []model.Turn) (string, error)
	GoalPlan(ctx context.Context, goal string) (string, error)
	ClassifyIntent(ctx context.Context, text string, labels []string) (gateway.IntentResult, error)
	Answer(ctx context.Context, question, contextText string) (string, error)
	Poem(ctx context.Context, prompt string) (string, error)
	Riddle(ctx context.Context, question string) (string, error)
	MeditationScript(ctx context.Context, topic string, minutes int) (gateway.Script, error)
	Speech(ctx context.Context, text string) (gateway.Audio, error)
	Soundscape(ctx context.Context, word string) (gateway.Audio, error)
	DetoxPledge(ctx context.Context, name string, minutes int) (string, error)
	DetoxCompletion(ctx context.Context) (string, error)
	SafeZones(ctx context.Context, latitude, longitude float64) ([]gateway.Place, error)
}

type StatusBar struct {
	Text    string
	IsError bool
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type GlobalKeyMap struct {
	Open  string
	Close string
	Stop  string
	Help  string
	Quit  string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// featureState is the transient view state of the open panel. It is
// discarded whenever the panel closes or another feature opens.
type featureState struct {
	Cursor     int
	Loading    string
	Result     string
	Markdown   bool
	IsFallback bool

	Script    gateway.Script
	AudioPath string
	Minutes   int
	Pledge    string
	DetoxDone bool

	Intent   string
	Places   []gateway.Place
	QAOnText bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Model struct {
	UserName      string
	Progress      model.Progression
	Conversation  model.Conversation
	Moods         []model.MoodEntry
	Reminders     []model.Reminder
	Panel         panel.Controller
	Timer         *session.Runner
	Scheduler     *scheduler.Engine
	ReminderLog   []scheduler.Event
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error
	statusSeq     uint64

	DesktopEnabled bool
	notifier       DesktopNotifier
	backend        Backend
	store          storage.Store
	player         audio.Player
	locator        locate.Locator
	log            hclog.Logger
	cfg            config.RuntimeConfig
	now            func() time.Time
	newID          func() string

	feature featureState
	// Bubble components used for rich TUI controls
	menuList      list.Model
	input         textinput.Model
	contextArea   textarea.Model
	commandInput  textinput.Model
	timerProgress progress.Model
	xpProgress    progress.Model
	loadSpinner   spinner.Model
	helpModel     help.Model
	chatViewport  viewport.Model
	reminderTable table.Model
}

// Options wires the collaborators. Nil fields fall back to inert
// implementations so the model can run headless in tests.
type Options struct {
	Config    config.RuntimeConfig
	Backend   Backend
	Store     storage.Store
	Player    audio.Player
	Locator   locate.Locator
	Scheduler *scheduler.Engine
	Notifier  DesktopNotifier
	Logger    hclog.Logger
	Snapshot  storage.Snapshot
	Now       func() time.Time
	NewID     func() string
}

// ClearStatusMsg clears the status bar unless a newer status replaced the
// one it was scheduled for.
type ClearStatusMsg struct {
	Seq uint64
}

type sessionTickMsg struct {
	Gen uint64
}

type ReminderDueMsg struct {
	Event scheduler.Event
}

func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg.MeditationMinutes <= 0 || cfg.DetoxMinutes <= 0 {
		defaults := config.Default()
		if cfg.MeditationMinutes <= 0 {
			cfg.MeditationMinutes = defaults.MeditationMinutes
		}
		if cfg.DetoxMinutes <= 0 {
			cfg.DetoxMinutes = defaults.DetoxMinutes
		}
	}
	snap := opts.Snapshot.Normalized()
	runner := &session.Runner{}
	m := Model{
		UserName:       snap.UserName,
		Progress:       snap.Progression,
		Conversation:   model.Conversation{Turns: snap.Conversation},
		Moods:          snap.Moods,
		Reminders:      snap.Reminders,
		Panel:          panel.NewController(runner),
		Timer:          runner,
		Scheduler:      opts.Scheduler,
		DesktopEnabled: cfg.DesktopNotifications,
		notifier:       opts.Notifier,
		backend:        opts.Backend,
		store:          opts.Store,
		player:         opts.Player,
		locator:        opts.Locator,
		log:            opts.Logger,
		cfg:            cfg,
		now:            opts.Now,
		newID:          opts.NewID,
		Keys: GlobalKeyMap{
			Open:  "enter",
			Close: "esc",
			Stop:  "x",
			Help:  "?",
			Quit:  "q",
		},
	}
	if m.UserName == "" {
		m.UserName = strings.TrimSpace(cfg.UserName)
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.player == nil {
		m.player = audio.NoopPlayer{}
	}
	if m.locator == nil {
		m.locator = locate.Static{}
	}
	if m.log == nil {
		m.log = hclog.NewNullLogger()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = func() string { return uuid.NewString() }
	}
	m.initBubbleComponents()
	m.scheduleReminders()
	m.syncBubbleData()
	return m
}

// Snapshot returns the persisted part of the model.
func (m Model) Snapshot() storage.Snapshot {
	return storage.Snapshot{
		UserName:     m.UserName,
		Progression:  m.Progress.Snapshot(),
		Conversation: m.Conversation.Snapshot(),
		Moods:        append([]model.MoodEntry(nil), m.Moods...),
		Reminders:    append([]model.Reminder(nil), m.Reminders...),
	}
}

func (m Model) CurrentMood() model.Mood {
	return model.CurrentMood(m.Moods)
}
