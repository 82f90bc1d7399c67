package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/llm"
	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const DefaultModel = "gpt-4o"

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the Responses API. Images go as input_image, PDFs as
// input_file, both inlined as data URLs.
type Client struct {
	log       *slog.Logger
	model     string
	maxTokens int64
	sdk       openaisdk.Client
}

func NewClient(log *slog.Logger, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
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
		log:       log.With(slog.String("provider", "openai")),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		sdk:       openaisdk.NewClient(opts...),
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	content := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: req.Prompt}},
	}
	if req.HasAttachment() {
		content = append(content, attachment(req))
	}

	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if c.maxTokens > 0 {
		params.MaxOutputTokens = openaisdk.Int(c.maxTokens)
	}

	start := time.Now()

	resp, err := c.sdk.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to call responses api: %w", err)
	}

	c.log.DebugContext(ctx, "received response",
		slog.String("response_id", resp.ID),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)

	text := resp.OutputText()
	if text == "" {
		return nil, llm.ErrEmptyResponse
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return &llm.Response{
		Model: model,
		Text:  text,
		Raw:   []byte(resp.RawJSON()),
	}, nil
}

func attachment(req llm.Request) responses.ResponseInputContentUnionParam {
	dataURL := fmt.Sprintf("data:%s;base64,%s", req.MediaType, base64.StdEncoding.EncodeToString(req.Data))

	if req.IsPDF() {
		return responses.ResponseInputContentUnionParam{
			OfInputFile: &responses.ResponseInputFileParam{
				Filename: openaisdk.String(req.FileName),
				FileData: openaisdk.String(dataURL),
			},
		}
	}

	return responses.ResponseInputContentUnionParam{
		OfInputImage: &responses.ResponseInputImageParam{
			ImageURL: openaisdk.String(dataURL),
			Detail:   responses.ResponseInputImageDetailAuto,
		},
	}
}
