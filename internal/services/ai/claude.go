package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
	applogger "MarketLens/pkg/logger"
)

const systemPrompt = "You are a financial analysis AI. Respond only with valid JSON."

const promptTemplate = `You are a financial analysis AI assistant. Based on the market analysis data provided, generate an investment insight and recommendation.

IMPORTANT: You must respond ONLY with valid JSON in the exact format specified below. Do not include any other text, markdown, or explanation outside the JSON.

Market Analysis Data:
- Asset: %s
- As of: %s
- Resolution: %s
- Trend: %s
- Signal Strength: %d/100
- KPIs: %s
- Rationale: %s

Required JSON Response Format:
{
  "recommendation": {
    "action": "BUY" | "HOLD" | "SELL",
    "confidenceScore": <number between 0 and 1>,
    "horizon": "SHORT" | "MID" | "LONG",
    "riskLevel": "LOW" | "MEDIUM" | "HIGH"
  },
  "insight": {
    "summary": "<brief 1-2 sentence summary>",
    "reasoning": "<detailed reasoning for the recommendation>",
    "assumptions": ["<assumption 1>", "<assumption 2>", ...],
    "caveats": ["<caveat 1>", "<caveat 2>", ...]
  },
  "model": {
    "name": "<model name>",
    "version": "<model version>"
  }
}

Respond with ONLY the JSON object, no other text.`

// Config holds Claude backend configuration.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// ClaudeBackend generates investment insights via the Anthropic Messages API.
type ClaudeBackend struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	l           *applogger.Logger
}

var _ domsvc.AIBackend = (*ClaudeBackend)(nil)

// NewClaudeBackend creates a Claude-backed AI backend.
func NewClaudeBackend(cfg Config) (*ClaudeBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &ClaudeBackend{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// SetLogger injects a structured logger.
func (b *ClaudeBackend) SetLogger(l *applogger.Logger) { b.l = l }

// Generate renders the prompt for the given analysis snapshot, calls the
// model, and decodes the JSON response without interpreting it. Schema
// enforcement is the caller's job.
func (b *ClaudeBackend) Generate(ctx context.Context, in models.ProviderInput) (models.RawProviderOutput, error) {
	prompt, err := buildPrompt(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(b.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(b.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, fmt.Errorf("model returned empty response")
	}

	if b.l != nil {
		b.l.Debug("ai response received",
			applogger.String("model", b.model),
			applogger.Int("chars", len(content)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}

	raw, err := decodeJSONObject(content)
	if err != nil {
		preview := content
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return nil, fmt.Errorf("model response is not valid JSON: %s", preview)
	}
	return raw, nil
}

func buildPrompt(in models.ProviderInput) (string, error) {
	kpis, err := json.Marshal(in.KPIs)
	if err != nil {
		return "", fmt.Errorf("marshal kpis: %w", err)
	}
	return fmt.Sprintf(promptTemplate,
		in.AssetSymbol,
		in.AsOf,
		in.Resolution,
		in.Trend,
		in.SignalStrength,
		string(kpis),
		in.Rationale,
	), nil
}

// decodeJSONObject parses content as a JSON object, tolerating a wrapping
// markdown code fence. Numbers stay as json.Number so precision survives
// downstream validation.
func decodeJSONObject(content string) (models.RawProviderOutput, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var raw models.RawProviderOutput
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
