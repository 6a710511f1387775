package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sandeepkv93/manas/internal/model"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 90 * time.Second
	maxErrorBody   = 4 << 10
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     hclog.Logger
}

// Client calls the remote AI backend. Every failure is reported as an
// error matching ErrRemoteUnavailable.
type Client struct {
	base    *url.URL
	timeout time.Duration
	http    *http.Client
	log     hclog.Logger
}

func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("gateway: unsupported base url scheme %q", base.Scheme)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{base: base, timeout: timeout, http: hc, log: logger.Named("gateway")}, nil
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) Chat(ctx context.Context, history []model.Turn) (string, error) {
	var out chatResponse
	if err := c.postJSON(ctx, PathChat, historyRequest{History: toWireHistory(history)}, &out); err != nil {
		return "", err
	}
	return requireText(PathChat, out.Text, out.Error)
}

func (c *Client) Reflect(ctx context.Context, history []model.Turn) (string, error) {
	var out summaryResponse
	if err := c.postJSON(ctx, PathReflect, historyRequest{History: toWireHistory(history)}, &out); err != nil {
		return "", err
	}
	return requireText(PathReflect, out.Summary, out.Error)
}

func (c *Client) GoalPlan(ctx context.Context, goal string) (string, error) {
	var out goalResponse
	if err := c.postJSON(ctx, PathGoal, goalRequest{Goal: goal}, &out); err != nil {
		return "", err
	}
	return requireText(PathGoal, out.Plan, out.Error)
}

func (c *Client) ClassifyIntent(ctx context.Context, text string, labels []string) (IntentResult, error) {
	var out IntentResult
	if err := c.postJSON(ctx, PathIntent, intentRequest{Text: text, CandidateLabels: labels}, &out); err != nil {
		return IntentResult{}, err
	}
	if out.Error != "" {
		return IntentResult{}, &RemoteError{Endpoint: PathIntent, Detail: out.Error}
	}
	if _, _, ok := out.Top(); !ok {
		return IntentResult{}, &RemoteError{Endpoint: PathIntent, Detail: "malformed classification"}
	}
	return out, nil
}

func (c *Client) Answer(ctx context.Context, question, contextText string) (string, error) {
	var out qaResponse
	if err := c.postJSON(ctx, PathQA, qaRequest{Question: question, Context: contextText}, &out); err != nil {
		return "", err
	}
	return requireText(PathQA, out.Answer, out.Error)
}

func (c *Client) Poem(ctx context.Context, prompt string) (string, error) {
	var out poemResponse
	if err := c.postJSON(ctx, PathPoem, poemRequest{Prompt: prompt}, &out); err != nil {
		return "", err
	}
	return requireText(PathPoem, out.Poem, out.Error)
}

func (c *Client) Riddle(ctx context.Context, question string) (string, error) {
	var out riddleResponse
	if err := c.postJSON(ctx, PathRiddle, riddleRequest{Question: question}, &out); err != nil {
		return "", err
	}
	return requireText(PathRiddle, out.Riddle, out.Error)
}

func (c *Client) MeditationScript(ctx context.Context, topic string, minutes int) (Script, error) {
	var out meditationResponse
	if err := c.postJSON(ctx, PathMeditation, meditationRequest{Topic: topic, Duration: MinutesLabel(minutes)}, &out); err != nil {
		return Script{}, err
	}
	text, err := requireText(PathMeditation, out.Script, out.Error)
	if err != nil {
		return Script{}, err
	}
	return ParseScript(text), nil
}

func (c *Client) Speech(ctx context.Context, text string) (Audio, error) {
	return c.postAudio(ctx, PathSpeech, textRequest{Text: text})
}

func (c *Client) Soundscape(ctx context.Context, word string) (Audio, error) {
	return c.postAudio(ctx, PathSoundscape, wordRequest{Word: word})
}

func (c *Client) DetoxPledge(ctx context.Context, name string, minutes int) (string, error) {
	var out pledgeResponse
	if err := c.postJSON(ctx, PathDetoxPledge, pledgeRequest{Name: name, Duration: MinutesLabel(minutes)}, &out); err != nil {
		return "", err
	}
	return requireText(PathDetoxPledge, out.Pledge, out.Error)
}

func (c *Client) DetoxCompletion(ctx context.Context) (string, error) {
	var out completionResponse
	if err := c.postJSON(ctx, PathDetoxCompletion, nil, &out); err != nil {
		return "", err
	}
	return requireText(PathDetoxCompletion, out.Message, out.Error)
}

func (c *Client) SafeZones(ctx context.Context, latitude, longitude float64) ([]Place, error) {
	var out safeZonesResponse
	if err := c.postJSON(ctx, PathSafeZones, safeZonesRequest{Latitude: latitude, Longitude: longitude}, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &RemoteError{Endpoint: PathSafeZones, Detail: out.Error}
	}
	return out.Places, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isJSON(resp.Header.Get("Content-Type")) {
		return &RemoteError{Endpoint: path, Status: resp.StatusCode, Detail: "unexpected content type " + resp.Header.Get("Content-Type")}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Endpoint: path, Detail: "decode response", Err: err}
	}
	return nil
}

func (c *Client) postAudio(ctx context.Context, path string, in any) (Audio, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, path, in)
	if err != nil {
		return Audio{}, err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if !isAudio(ct) {
		detail := "unexpected content type " + ct
		if isJSON(ct) {
			var body errorDetail
			if json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body) == nil && firstNonEmpty(body.Detail, body.Error) != "" {
				detail = firstNonEmpty(body.Detail, body.Error)
			}
		}
		return Audio{}, &RemoteError{Endpoint: path, Status: resp.StatusCode, Detail: detail}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, &RemoteError{Endpoint: path, Detail: "read audio", Err: err}
	}
	if len(data) == 0 {
		return Audio{}, &RemoteError{Endpoint: path, Detail: "empty audio"}
	}
	return Audio{ContentType: ct, Data: data}, nil
}

// post sends the request and returns only 2xx responses; the caller owns
// the body.
func (c *Client) post(ctx context.Context, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, &RemoteError{Endpoint: path, Detail: "encode request", Err: err}
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.String()+path, body)
	if err != nil {
		return nil, &RemoteError{Endpoint: path, Detail: "build request", Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, audio/wav")

	started := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(started)
	if err != nil {
		c.log.Warn("request failed", "endpoint", path, "elapsed", elapsed, "error", err)
		return nil, &RemoteError{Endpoint: path, Err: err}
	}
	c.log.Debug("request done", "endpoint", path, "status", resp.StatusCode, "elapsed", elapsed)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		detail := ""
		var body errorDetail
		if json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body) == nil {
			detail = firstNonEmpty(body.Detail, body.Error)
		}
		c.log.Warn("non-success status", "endpoint", path, "status", resp.StatusCode, "detail", detail)
		return nil, &RemoteError{Endpoint: path, Status: resp.StatusCode, Detail: detail}
	}
	return resp, nil
}

func requireText(endpoint, text, remoteErr string) (string, error) {
	if remoteErr != "" {
		return "", &RemoteError{Endpoint: endpoint, Detail: remoteErr}
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &RemoteError{Endpoint: endpoint, Detail: "empty response"}
	}
	return trimmed, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func isAudio(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "audio/")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// IsUnavailable reports whether err came from the gateway.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}
