package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jithuth/roneywo/pkg/config"
	"github.com/jithuth/roneywo/pkg/logger"
	"github.com/jithuth/roneywo/pkg/metrics"
	"github.com/jithuth/roneywo/pkg/types"
)

const (
	defaultBaseURL             = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel               = "gemini-2.5-flash"
	errorBodyReadLimit   int64 = 1024
	responseBodyReadCap  int64 = 1 << 20
	defaultClientTimeout       = 20 * time.Second
)

// Client calls the generative analysis API for unlock difficulty
// estimates. Analysis is advisory only: every failure degrades to a
// complete fallback instead of an error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	metrics    *metrics.AdvisorMetrics
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the advisor client. A missing API key is allowed;
// the client then serves the configuration fallback without calling out.
func NewClient(cfg config.AdvisorConfig, advisorMetrics *metrics.AdvisorMetrics, logg *logger.Logger, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: defaultClientTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      strings.TrimSpace(cfg.Model),
		metrics:    advisorMetrics,
		logg:       logg,
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}
	if client.model == "" {
		client.model = defaultModel
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client
}

// Analyze returns a technical advisory for the device. It never returns
// an error; degraded calls yield a fallback advisory.
func (c *Client) Analyze(ctx context.Context, device types.DeviceInfo) Advisory {
	c.metrics.IncRequest()

	advisory, kind, err := c.analyze(ctx, device)
	if kind == FailureKindNone {
		return advisory
	}

	c.metrics.IncFallback(kind.String())
	if c.logg != nil {
		logCtx := c.logg.WithField(ctx, "failure_kind", kind.String())
		if err != nil {
			c.logg.Warn(c.logg.WithField(logCtx, "cause", err.Error()), "advisor degraded to fallback")
		} else {
			c.logg.Warn(logCtx, "advisor degraded to fallback")
		}
	}
	return fallbackFor(kind)
}

func (c *Client) analyze(ctx context.Context, device types.DeviceInfo) (Advisory, FailureKind, error) {
	if c.apiKey == "" {
		return Advisory{}, FailureKindConfig, nil
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(device)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   advisorySchema(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Advisory{}, FailureKindUnknown, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Advisory{}, FailureKindUnknown, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Advisory{}, FailureKindNetwork, err
	}
	defer func() { _ = resp.Body.Close() }()

	if kind := classifyStatus(resp.StatusCode); kind != FailureKindNone {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return Advisory{}, kind, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadCap)).Decode(&decoded); err != nil {
		return Advisory{}, FailureKindMalformed, err
	}

	text := decoded.firstText()
	if text == "" {
		return Advisory{}, FailureKindMalformed, fmt.Errorf("empty advisory response")
	}

	var advisory Advisory
	if err := json.Unmarshal([]byte(text), &advisory); err != nil {
		return Advisory{}, FailureKindMalformed, err
	}
	return advisory, FailureKindNone, nil
}

// classifyStatus maps the HTTP status onto a failure kind, or
// FailureKindNone for success.
func classifyStatus(status int) FailureKind {
	switch {
	case status >= 200 && status < 300:
		return FailureKindNone
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailureKindAuth
	case status == http.StatusTooManyRequests:
		return FailureKindRateLimit
	case status >= 500:
		return FailureKindNetwork
	default:
		return FailureKindUnknown
	}
}

func buildPrompt(device types.DeviceInfo) string {
	var b strings.Builder
	b.WriteString("Analyze the unlock difficulty for a router with the following details:\n")
	fmt.Fprintf(&b, "Brand: %s\n", device.Brand)
	fmt.Fprintf(&b, "Model: %s\n", device.Model)
	fmt.Fprintf(&b, "Country of Origin: %s\n\n", device.Country)
	b.WriteString("Provide a JSON response estimating the difficulty, estimated time to unlock, and success rate.\n")
	b.WriteString("Also provide a short technical message (max 2 sentences) about this specific brand's lock mechanism.\n\n")
	b.WriteString(`For 'difficulty', use one of: "Easy", "Medium", "Hard", "Complex".`)
	return b.String()
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) firstText() string {
	for _, candidate := range r.Candidates {
		for _, p := range candidate.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}

func advisorySchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"difficulty":    map[string]any{"type": "STRING"},
			"estimatedTime": map[string]any{"type": "STRING"},
			"successRate":   map[string]any{"type": "STRING"},
			"message":       map[string]any{"type": "STRING"},
		},
	}
}
