package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/kurochkinivan/receipt_reporter/internal/llm"
)

const (
	DefaultModel     = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens = 4000
)

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the Messages API with one text block and, when the request
// carries data, one image or document block. Retries are left to the caller.
type Client struct {
	log       *slog.Logger
	model     string
	maxTokens int64
	sdk       anthropicsdk.Client
}

func NewClient(log *slog.Logger, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = llm.DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		log:       log.With(slog.String("provider", "anthropic")),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		sdk:       anthropicsdk.NewClient(opts...),
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	blocks := []anthropicsdk.ContentBlockParamUnion{anthropicsdk.NewTextBlock(req.Prompt)}

	if req.HasAttachment() {
		data := base64.StdEncoding.EncodeToString(req.Data)
		if req.IsPDF() {
			blocks = append(blocks, anthropicsdk.NewDocumentBlock(anthropicsdk.Base64PDFSourceParam{Data: data}))
		} else {
			blocks = append(blocks, anthropicsdk.NewImageBlockBase64(req.MediaType, data))
		}
	}

	start := time.Now()

	msg, err := c.sdk.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:       anthropicsdk.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropicsdk.Float(0),
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call messages api: %w", err)
	}

	c.log.DebugContext(ctx, "received response",
		slog.String("message_id", msg.ID),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, llm.ErrEmptyResponse
	}

	model := string(msg.Model)
	if model == "" {
		model = c.model
	}

	return &llm.Response{
		Model: model,
		Text:  text.String(),
		Raw:   []byte(msg.RawJSON()),
	}, nil
}
