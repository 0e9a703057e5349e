package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/vanadhikar/fra-claims/internal/llm"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string        // if empty, falls back to env GEMINI_API_KEY
	Model   string        // e.g. "gemini-2.0-flash"
	Timeout time.Duration // per-request deadline
}

// Client implements llm.FieldExtractor on the Gemini generative API.
type Client struct {
	cfg    Config
	client *genai.Client
	logger *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{cfg: cfg, client: cl, logger: logger}, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ExtractFields sends the OCR text with the fixed extraction instruction
// and parses the reply defensively. Any transport error, unparseable reply,
// or schema violation is returned as an error; the pipeline recovers by
// falling back to pattern extraction.
func (c *Client) ExtractFields(ctx context.Context, rawText string) (llm.FieldMap, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(rawText),
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	m := c.client.GenerativeModel(c.cfg.Model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(llm.BuildSystemPrompt())},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(llm.BuildUserPrompt(rawText)))
	if err != nil {
		c.logger.Error("llm.extract.request_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		c.logger.Error("llm.extract.no_candidates", "req_id", rid)
		return nil, nil, fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	raw := []byte(b.String())

	cleaned := llm.CleanModelResponse(b.String())
	fields, err := llm.ParseFieldJSON(cleaned)
	if err != nil {
		c.logger.Error("llm.extract.parse_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, err
	}

	if err := llm.ValidateAgainstSchema(llm.BuildClaimJSONSchema(), fields); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, err
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"claimant", fields["claimant_name"],
		"village", fields["village"],
		"district", fields["district"],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, raw, nil
}

var _ llm.FieldExtractor = (*Client)(nil)
