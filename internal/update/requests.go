package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/manas/internal/gateway"
)

type remoteOp string

const (
	opChat       remoteOp = "chat"
	opReflect    remoteOp = "reflect"
	opGoal       remoteOp = "goal"
	opIntent     remoteOp = "intent"
	opQA         remoteOp = "qa"
	opPoem       remoteOp = "poem"
	opWisdom     remoteOp = "wisdom"
	opScript     remoteOp = "meditation_script"
	opSpeech     remoteOp = "speech"
	opSoundscape remoteOp = "soundscape"
	opPledge     remoteOp = "detox_pledge"
	opCompletion remoteOp = "detox_completion"
	opZones      remoteOp = "safe_zones"
)

// remoteResultMsg carries a backend result back to Update, tagged with the
// panel token that was current when the request was issued.
type remoteResultMsg struct {
	Token  uint64
	Op     remoteOp
	Text   string
	Script gateway.Script
	Intent gateway.IntentResult
	Audio  gateway.Audio
	Places []gateway.Place
	Err    error
}

type remoteCall func(ctx context.Context, b Backend) (remoteResultMsg, error)

// request runs call off the update loop. The token is captured now so a
// result that outlives its panel can be recognised and dropped.
func (m Model) request(op remoteOp, call remoteCall) tea.Cmd {
	token := m.Panel.Token()
	backend := m.backend
	return func() tea.Msg {
		if backend == nil {
			return remoteResultMsg{Token: token, Op: op, Err: &gateway.RemoteError{Endpoint: string(op), Detail: "no backend configured"}}
		}
		res, err := call(context.Background(), backend)
		res.Token = token
		res.Op = op
		res.Err = err
		return res
	}
}

// startLoading marks the panel busy and starts the spinner.
func (m *Model) startLoading(text string, cmd tea.Cmd) tea.Cmd {
	m.feature.Loading = text
	m.feature.Result = ""
	m.feature.IsFallback = false
	return tea.Batch(cmd, m.loadSpinner.Tick)
}

func (m Model) handleRemoteResult(msg remoteResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.logRemoteError(msg)
		m.LastError = msg.Err
	}
	if !m.Panel.IsCurrent(msg.Token) {
		if msg.Op == opChat {
			// Chat replies always answer their user turn.
			m.recordChatReply(msg)
			return m, nil
		}
		m.log.Debug("discarding stale response", "op", msg.Op, "token", msg.Token, "current", m.Panel.Token())
		return m, nil
	}
	m.feature.Loading = ""
	switch msg.Op {
	case opChat, opReflect:
		return m.onChatResult(msg)
	case opScript, opSpeech:
		return m.onMeditationResult(msg)
	case opPledge, opCompletion:
		return m.onDetoxResult(msg)
	default:
		return m.onFeatureResult(msg)
	}
}

func (m Model) logRemoteError(msg remoteResultMsg) {
	if gateway.IsUnavailable(msg.Err) {
		m.log.Warn("backend call failed", "op", msg.Op, "error", msg.Err)
		return
	}
	m.log.Error("request failed", "op", msg.Op, "error", msg.Err)
}
