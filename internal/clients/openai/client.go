package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/httpx"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
	"github.com/dmitriyshad-AI/astro-bot/internal/utils"
)

// Client asks the chat-completions API for plain text. It is used only for
// best-effort augmentation (chart summaries, insights, Q&A); callers decide
// whether its failure is fatal.
type Client interface {
	Ask(ctx context.Context, prompt, roleHint string) (string, error)
	Configured() bool
}

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	maxRetries  int
}

func NewClient(log *logger.Logger) Client {
	return &client{
		log:         log.With("client", "OpenAIClient"),
		baseURL:     strings.TrimRight(utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log), "/"),
		apiKey:      strings.TrimSpace(utils.GetEnv("OPENAI_API_KEY", "", nil)),
		model:       utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log),
		temperature: utils.GetEnvAsFloat("OPENAI_TEMPERATURE", 0.7, log),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxRetries:  2,
	}
}

func (c *client) Configured() bool { return c.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) Ask(ctx context.Context, prompt, roleHint string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if roleHint == "" {
		roleHint = "астролог"
	}
	body := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: "Ты отвечаешь как дружелюбный астролог/коуч/психолог. Давай краткие, понятные ответы без сложного жаргона."},
			{Role: "user", Content: fmt.Sprintf("Стиль: %s. Вопрос: %s", roleHint, prompt)},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(httpx.JitterSleep(time.Duration(attempt) * time.Second))
		}
		text, retryable, err := c.askOnce(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.log.Warn("openai request failed, retrying", "attempt", attempt+1, "error", err)
	}
	return "", lastErr
}

func (c *client) askOnce(ctx context.Context, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", httpx.IsRetryableError(err), fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read openai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", httpx.IsRetryableHTTPStatus(resp.StatusCode),
			fmt.Errorf("openai returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false, fmt.Errorf("unexpected openai response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", false, fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
