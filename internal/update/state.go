package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/manas/internal/model"
	"github.com/sandeepkv93/manas/internal/session"
)

// Wellness point awards per feature.
const (
	awardMood       = 15
	awardChat       = 25
	awardReflection = 30
	awardIntent     = 30
	awardQA         = 35
	awardPoem       = 20
	awardMeditation = 40
	awardGoal       = 45
	awardWisdom     = 20
	awardCave       = 40
	awardBreathing  = 20
	awardDetox      = 50
	awardReminder   = 10
	awardZones      = 10
)

const (
	maxNotifications = 40
	storeTimeout     = 2 * time.Second
)

// award grants points, surfaces every progress event as a toast and
// persists the result.
func (m *Model) award(points int, reason string) {
	for _, ev := range m.Progress.Award(points, reason) {
		level := "info"
		if ev.Kind == model.EventLevelUp {
			level = "success"
		}
		m.notify("Progress", ev.Message(), level)
	}
	m.persist()
}

func (m *Model) persist() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.Save(ctx, m.Snapshot()); err != nil {
		m.log.Error("save state failed", "error", err)
		m.Status = StatusBar{Text: fmt.Sprintf("save failed: %v", err), IsError: true}
	}
}

// recordSession logs a finished exercise. Failures only reach the status bar.
func (m *Model) recordSession(st session.State, outcome model.Outcome) {
	if m.store == nil {
		return
	}
	planned := st.Total
	if st.Kind == session.KindBreathing {
		planned = st.Elapsed
	}
	rec := model.SessionRecord{
		ID:         m.newID(),
		Kind:       string(st.Kind),
		Outcome:    outcome,
		PlannedSec: planned,
		ElapsedSec: st.Elapsed,
		EndedAt:    m.now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.AddSessionRecord(ctx, rec); err != nil {
		m.log.Error("record session failed", "kind", rec.Kind, "error", err)
		m.Status = StatusBar{Text: fmt.Sprintf("session log failed: %v", err), IsError: true}
		return
	}
	m.log.Debug("session recorded", "kind", rec.Kind, "outcome", rec.Outcome, "elapsed", rec.ElapsedSec)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.log.Debug("desktop notification failed", "error", err)
		}
	}
}

func (m Model) lastNotification() (Notification, bool) {
	if len(m.Notifications) == 0 {
		return Notification{}, false
	}
	return m.Notifications[len(m.Notifications)-1], true
}

func (m Model) displayName() string {
	if name := strings.TrimSpace(m.UserName); name != "" {
		return name
	}
	return "Friend"
}

func (m *Model) setName(name string) {
	m.UserName = strings.TrimSpace(name)
	m.persist()
}
