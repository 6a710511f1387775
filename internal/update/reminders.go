package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/scheduler"
)

var reminderKinds = []model.ReminderKind{model.ReminderDailyMeditation, model.ReminderMoodCheckIn}

const maxReminderLog = 20

func waitForReminderCmd(ch <-chan scheduler.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// scheduleReminders arms every enabled reminder loaded from storage.
func (m *Model) scheduleReminders() {
	for _, r := range m.Reminders {
		m.armReminder(r)
	}
}

func (m *Model) armReminder(r model.Reminder) {
	if m.Scheduler == nil {
		return
	}
	ev, err := m.Scheduler.ScheduleReminder(r, m.now())
	switch {
	case errors.Is(err, scheduler.ErrReminderDisabled):
		return
	case err != nil:
		m.log.Warn("schedule reminder failed", "reminder", r.ID, "error", err)
		m.Status = StatusBar{Text: fmt.Sprintf("reminder schedule failed: %v", err), IsError: true}
		return
	}
	m.log.Debug("reminder armed", "kind", r.Kind, "fire_at", ev.FireAt)
}

func (m Model) reminderIndex(kind model.ReminderKind) int {
	for i, r := range m.Reminders {
		if r.Kind == kind {
			return i
		}
	}
	return -1
}

// setReminder creates or replaces the daily reminder of kind. There is at
// most one reminder per kind.
func (m *Model) setReminder(kind model.ReminderKind, at string) (model.Reminder, error) {
	hour, minute, err := model.ParseClock(at)
	if err != nil {
		return model.Reminder{}, err
	}
	r := model.Reminder{
		ID:        m.newID(),
		Kind:      kind,
		At:        fmt.Sprintf("%02d:%02d", hour, minute),
		Enabled:   true,
		CreatedAt: m.now().UTC(),
	}
	if idx := m.reminderIndex(kind); idx >= 0 {
		r.ID = m.Reminders[idx].ID
		r.CreatedAt = m.Reminders[idx].CreatedAt
		m.Reminders[idx] = r
	} else {
		m.Reminders = append(m.Reminders, r)
	}
	m.armReminder(r)
	m.notify("Reminder", fmt.Sprintf("Reminder set for %s", r.At), "success")
	m.award(awardReminder, "Setting Reminder")
	return r, nil
}

func (m *Model) disableReminder(kind model.ReminderKind) bool {
	idx := m.reminderIndex(kind)
	if idx < 0 || !m.Reminders[idx].Enabled {
		return false
	}
	m.Reminders[idx].Enabled = false
	if m.Scheduler != nil {
		m.Scheduler.Cancel(m.Reminders[idx].ID)
	}
	m.persist()
	return true
}

// onReminderDue surfaces a fired reminder and queues its next occurrence.
func (m Model) onReminderDue(msg ReminderDueMsg) (Model, tea.Cmd) {
	ev := msg.Event
	m.ReminderLog = append(m.ReminderLog, ev)
	if len(m.ReminderLog) > maxReminderLog {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-maxReminderLog:]
	}
	m.notify(ev.Kind.Label(), ev.Message(), "info")
	// After a long sleep only the next future occurrence is queued.
	from := ev.FireAt
	if now := m.now(); now.After(from) {
		from = now
	}
	for _, r := range m.Reminders {
		if r.ID == ev.ReminderID && m.Scheduler != nil {
			if _, err := m.Scheduler.ScheduleReminder(r, from); err != nil && !errors.Is(err, scheduler.ErrReminderDisabled) {
				m.Status = StatusBar{Text: fmt.Sprintf("reminder reschedule failed: %v", err), IsError: true}
			}
		}
	}
	if m.Scheduler != nil {
		return m, waitForReminderCmd(m.Scheduler.C())
	}
	return m, nil
}

// Smart scheduling panel

func (m Model) handleScheduleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "up", "down":
		m.feature.Cursor = wrapIndex(m.feature.Cursor+1, len(reminderKinds))
		return m, nil
	case "ctrl+d":
		kind := reminderKinds[wrapIndex(m.feature.Cursor, len(reminderKinds))]
		if m.disableReminder(kind) {
			m.notify("Reminder", kind.Label()+" reminder turned off.", "info")
		}
		return m, nil
	case "enter":
		at, err := requireInput(m.input.Value())
		if err != nil {
			m.notify("Reminder", "Please select a time!", "warn")
			return m, nil
		}
		kind := reminderKinds[wrapIndex(m.feature.Cursor, len(reminderKinds))]
		if _, err := m.setReminder(kind, at); err != nil {
			m.notify("Reminder", "Time must look like 07:30.", "warn")
			return m, nil
		}
		m.input.SetValue("")
		return m, nil
	}
	return m.updateInput(msg)
}

func (m Model) viewSchedule() string {
	kind := reminderKinds[wrapIndex(m.feature.Cursor, len(reminderKinds))]
	out := fmt.Sprintf("Reminder: %s  (tab to switch)\nTime (HH:MM): %s", kind.Label(), m.input.View())
	if len(m.Reminders) > 0 {
		out += "\n\n" + m.reminderTable.View()
	}
	return out
}
