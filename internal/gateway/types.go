package gateway

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/manas/internal/model"
)

const (
	PathChat             = "/api/chat"
	PathReflect          = "/api/summarize-chat"
	PathGoal             = "/api/coach-goal"
	PathIntent           = "/api/analyze-intent"
	PathQA               = "/api/qa"
	PathPoem             = "/api/generate-poem"
	PathRiddle           = "/api/get-wisdom-riddle"
	PathMeditation       = "/api/generate-meditation"
	PathSpeech           = "/api/text-to-speech"
	PathSoundscape       = "/api/generate-soundscape"
	PathDetoxPledge      = "/api/generate-detox-pledge"
	PathDetoxCompletion  = "/api/generate-detox-completion"
	PathSafeZones        = "/api/safe-zones"
	PauseMarker          = "[PAUSE]"
	backendAssistantRole = "model"
)

type part struct {
	Text string `json:"text"`
}

type wireTurn struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

func toWireHistory(turns []model.Turn) []wireTurn {
	out := make([]wireTurn, 0, len(turns))
	for _, t := range turns {
		role := string(t.Role)
		if t.Role == model.RoleAssistant {
			role = backendAssistantRole
		}
		out = append(out, wireTurn{Role: role, Parts: []part{{Text: t.Text}}})
	}
	return out
}

type historyRequest struct {
	History []wireTurn `json:"history"`
}

type chatResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

type goalRequest struct {
	Goal string `json:"goal"`
}

type goalResponse struct {
	Plan  string `json:"plan"`
	Error string `json:"error,omitempty"`
}

type intentRequest struct {
	Text            string   `json:"text"`
	CandidateLabels []string `json:"candidate_labels"`
}

type IntentResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
	Error    string    `json:"error,omitempty"`
}

// Top returns the highest scoring label. Labels arrive sorted by
// descending score.
func (r IntentResult) Top() (string, float64, bool) {
	if len(r.Labels) == 0 || len(r.Labels) != len(r.Scores) {
		return "", 0, false
	}
	return r.Labels[0], r.Scores[0], true
}

type qaRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Error  string  `json:"error,omitempty"`
}

type poemRequest struct {
	Prompt string `json:"prompt"`
}

type poemResponse struct {
	Poem  string `json:"poem"`
	Error string `json:"error,omitempty"`
}

type riddleRequest struct {
	Question string `json:"question"`
}

type riddleResponse struct {
	Riddle string `json:"riddle"`
	Error  string `json:"error,omitempty"`
}

type meditationRequest struct {
	Topic    string `json:"topic"`
	Duration string `json:"duration"`
}

type meditationResponse struct {
	Script string `json:"script"`
	Error  string `json:"error,omitempty"`
}

// Script is a meditation script split on the pause marker.
type Script struct {
	Text     string
	Segments []string
}

func ParseScript(text string) Script {
	s := Script{Text: text}
	for _, seg := range strings.Split(text, PauseMarker) {
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			s.Segments = append(s.Segments, trimmed)
		}
	}
	return s
}

// Plain renders the script with pause markers replaced by a readable cue.
func (s Script) Plain() string {
	return strings.Join(s.Segments, "\n\n(pause)\n\n")
}

type textRequest struct {
	Text string `json:"text"`
}

type wordRequest struct {
	Word string `json:"word"`
}

type Audio struct {
	ContentType string
	Data        []byte
}

type pledgeRequest struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
}

type pledgeResponse struct {
	Pledge string `json:"pledge"`
	Error  string `json:"error,omitempty"`
}

type completionResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type safeZonesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Place struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Vicinity string `json:"vicinity"`
}

func (p Place) String() string {
	return fmt.Sprintf("%s (%s) - %s", p.Name, p.Type, p.Vicinity)
}

type safeZonesResponse struct {
	Places []Place `json:"places"`
	Error  string  `json:"error,omitempty"`
}

type errorDetail struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// MinutesLabel formats a duration the way the backend prompts expect it.
func MinutesLabel(minutes int) string {
	return fmt.Sprintf("%d minutes", minutes)
}
