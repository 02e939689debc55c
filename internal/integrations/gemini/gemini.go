package gemini

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

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Client sends prompts to the Gemini generateContent API
type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	log     *logrus.Logger
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient initializes a new Gemini client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.GeminiURL, "/"),
		model:   cfg.GeminiModel,
		apiKey:  cfg.GeminiAPIKey,
		client: &http.Client{
			Timeout: cfg.InferenceTimeout,
		},
		log: log,
	}
}

// Generate sends prompt as a single user turn and returns the reply text.
// It makes exactly one attempt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", unavailable("failed to encode request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", unavailable("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", unavailable("request failed", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unavailable("failed to read response", err)
	}

	c.log.WithFields(logrus.Fields{
		"model":       c.model,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Gemini response received")

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", unavailable(fmt.Sprintf("unexpected status code %d", resp.StatusCode), fmt.Errorf("%s", apiErr.Error.Message))
		}
		return "", unavailable(fmt.Sprintf("unexpected status code %d", resp.StatusCode), nil)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", unavailable("failed to decode response", err)
	}
	if parsed.PromptFeedback.BlockReason != "" {
		return "", unavailable("prompt blocked: "+parsed.PromptFeedback.BlockReason, nil)
	}
	if len(parsed.Candidates) == 0 {
		return "", unavailable("no candidates returned", nil)
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", unavailable("empty completion", nil)
	}
	return text, nil
}

func unavailable(message string, err error) error {
	return apperror.Wrap(apperror.KindInferenceUnavailable, "inference failed: "+message, err)
}

// redactKey keeps the API key out of transport errors, which embed the request URL
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED"))
}
