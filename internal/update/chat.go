package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/model"
)

const (
	chatFallback       = "I'm having a little trouble connecting. Let's try again in a moment."
	reflectionFallback = "Sorry, a connection error occurred."
)

func (m *Model) openChat() {
	if m.Conversation.Len() == 0 {
		greeting := fmt.Sprintf("Hello %s! I'm Manas. How are you feeling today?", m.displayName())
		if err := m.Conversation.Append(model.RoleAssistant, greeting); err == nil {
			m.persist()
		}
	}
	m.focusInput("Type a message...")
}

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.sendChat()
	case "ctrl+r":
		return m.reflectChat()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatViewport, cmd = m.chatViewport.Update(msg)
		return m, cmd
	}
	return m.updateInput(msg)
}

func (m Model) sendChat() (Model, tea.Cmd) {
	if m.feature.Loading != "" {
		return m, nil
	}
	text, err := requireInput(m.input.Value())
	if err != nil {
		m.notify("Chat", "Please type a message first.", "warn")
		return m, nil
	}
	if err := m.Conversation.Append(model.RoleUser, text); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.input.SetValue("")
	m.feature.Result = ""
	m.persist()
	history := m.Conversation.Snapshot()
	cmd := m.request(opChat, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		reply, err := b.Chat(ctx, history)
		return remoteResultMsg{Text: reply}, err
	})
	return m, m.startLoading("Manas is thinking...", cmd)
}

func (m Model) reflectChat() (Model, tea.Cmd) {
	if m.feature.Loading != "" {
		return m, nil
	}
	if !m.Conversation.CanReflect() {
		m.notify("Chat", fmt.Sprintf("Chat a little more first (%d/%d messages).", m.Conversation.Len(), model.ReflectionThreshold), "warn")
		return m, nil
	}
	history := m.Conversation.Snapshot()
	cmd := m.request(opReflect, func(ctx context.Context, b Backend) (remoteResultMsg, error) {
		summary, err := b.Reflect(ctx, history)
		return remoteResultMsg{Text: summary}, err
	})
	return m, m.startLoading("Generating your reflection...", cmd)
}

func (m Model) onChatResult(msg remoteResultMsg) (Model, tea.Cmd) {
	switch msg.Op {
	case opChat:
		m.recordChatReply(msg)
	case opReflect:
		if msg.Err != nil || strings.TrimSpace(msg.Text) == "" {
			m.setFallback(reflectionFallback)
			return m, nil
		}
		m.setMarkdown("## A Moment of Reflection\n\n" + msg.Text)
		m.award(awardReflection, "Conversation Reflection")
	}
	return m, nil
}

// recordChatReply answers the pending user turn with the reply, or the
// fallback when the request failed.
func (m *Model) recordChatReply(msg remoteResultMsg) {
	reply := strings.TrimSpace(msg.Text)
	if msg.Err != nil || reply == "" {
		_ = m.Conversation.Append(model.RoleAssistant, chatFallback)
		m.persist()
		return
	}
	_ = m.Conversation.Append(model.RoleAssistant, reply)
	m.award(awardChat, "AI Chat")
}

func (m Model) viewChat() string {
	out := m.chatViewport.View()
	if m.feature.Result != "" {
		out += "\n\n" + m.renderResult()
	}
	return out + "\n\n" + m.input.View()
}
