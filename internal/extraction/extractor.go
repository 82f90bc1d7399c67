package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/llm"
)

// Extractor performs one extraction attempt: prepare media, call the
// model, parse its answer. Every failure comes back as a typed
// *domain.ExtractionError.
type Extractor struct {
	log       *slog.Logger
	client    llm.Client
	preparer  *Preparer
	prompt    *Prompt
	validator *SchemaValidator
}

func NewExtractor(
	log *slog.Logger,
	client llm.Client,
	preparer *Preparer,
	prompt *Prompt,
	validator *SchemaValidator,
) *Extractor {
	return &Extractor{
		log:       log,
		client:    client,
		preparer:  preparer,
		prompt:    prompt,
		validator: validator,
	}
}

func (e *Extractor) ExtractFile(ctx context.Context, file *domain.ReceiptFile, attempt int) (*domain.Extraction, error) {
	extraction := &domain.Extraction{Model: e.client.Model()}

	prompt, err := e.prompt.Render(file)
	if err != nil {
		return extraction, domain.NewExtractionError(domain.ErrorKindUnknown, err)
	}
	extraction.Request.PromptLength = utf8.RuneCountInString(prompt)

	if !file.Supported() {
		return extraction, domain.NewExtractionError(
			domain.ErrorKindUnsupportedFormat,
			fmt.Errorf("unsupported file format %q", file.Ext),
		)
	}

	media, err := e.preparer.Prepare(ctx, file)
	if err != nil {
		return extraction, domain.NewExtractionError(domain.ErrorKindConversion, err)
	}

	extraction.Request.HasImage = true
	extraction.Request.ImageFormat = media.Format
	extraction.Request.MediaType = media.MediaType

	e.log.DebugContext(ctx, "calling model",
		slog.String("filename", file.Name),
		slog.Int("attempt", attempt),
		slog.String("media_type", media.MediaType),
		slog.Int("bytes", len(media.Data)),
	)

	resp, err := e.client.Complete(ctx, llm.Request{
		Prompt:    prompt,
		Data:      media.Data,
		MediaType: media.MediaType,
		FileName:  file.Name,
	})
	if err != nil {
		return extraction, domain.NewExtractionError(domain.ErrorKindRemoteCall, err)
	}
	extraction.Model = resp.Model

	payload, shape, err := ParsePayload(resp.Text)
	extraction.Response = shape
	if err != nil {
		return extraction, err
	}

	extraction.Payload = payload
	if e.validator != nil {
		extraction.Warnings = e.validator.Warnings(payload)
	}

	return extraction, nil
}
