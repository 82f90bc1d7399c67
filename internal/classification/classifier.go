package classification

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/extraction"
	"github.com/kurochkinivan/receipt_reporter/internal/llm"
)

//go:embed prompt.md
var defaultPrompt string

var promptTemplate = template.Must(template.New("classification").Option("missingkey=error").Parse(strings.TrimSpace(defaultPrompt)))

type promptData struct {
	FileName   string
	Receipt    string
	Categories []Category
}

// Classifier asks the model for the tax treatment of already extracted
// receipts. The receipt payload is sent as text, without the source image.
type Classifier struct {
	log    *slog.Logger
	client llm.Client
}

func NewClassifier(log *slog.Logger, client llm.Client) *Classifier {
	return &Classifier{
		log:    log,
		client: client,
	}
}

// Batch binds the payloads of successful extractions to their files, so
// that classification can be driven by the same retrier as extraction.
func (c *Classifier) Batch(outcomes []*domain.ExtractionOutcome) *Batch {
	b := &Batch{
		classifier: c,
		payloads:   make(map[string]domain.Payload),
	}

	for _, o := range outcomes {
		if !o.Succeeded() {
			continue
		}
		b.payloads[o.File.Path] = o.Payload
		b.files = append(b.files, o.File)
	}

	return b
}

type Batch struct {
	classifier *Classifier
	payloads   map[string]domain.Payload
	files      []*domain.ReceiptFile
}

func (b *Batch) Files() []*domain.ReceiptFile {
	return b.files
}

func (b *Batch) ExtractFile(ctx context.Context, file *domain.ReceiptFile, attempt int) (*domain.Extraction, error) {
	c := b.classifier
	out := &domain.Extraction{Model: c.client.Model()}

	payload, ok := b.payloads[file.Path]
	if !ok {
		return out, domain.NewExtractionError(domain.ErrorKindUnknown, fmt.Errorf("no extracted payload for %q", file.Name))
	}

	prompt, err := renderPrompt(file, payload)
	if err != nil {
		return out, domain.NewExtractionError(domain.ErrorKindUnknown, err)
	}
	out.Request.PromptLength = utf8.RuneCountInString(prompt)

	c.log.DebugContext(ctx, "classifying receipt",
		slog.String("filename", file.Name),
		slog.Int("attempt", attempt),
	)

	resp, err := c.client.Complete(ctx, llm.Request{Prompt: prompt, FileName: file.Name})
	if err != nil {
		return out, domain.NewExtractionError(domain.ErrorKindRemoteCall, err)
	}
	out.Model = resp.Model

	result, shape, err := extraction.ParsePayload(resp.Text)
	out.Response = shape
	if err != nil {
		return out, err
	}

	if _, err := Parse(result); err != nil {
		shape.ParsedSuccessfully = false
		extErr := domain.NewExtractionError(domain.ErrorKindResponseParse, err)
		extErr.RawResponse = shape.RawPreview
		return out, extErr
	}

	out.Payload = result

	return out, nil
}

func renderPrompt(file *domain.ReceiptFile, payload domain.Payload) (string, error) {
	receipt, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal receipt payload: %w", err)
	}

	var sb strings.Builder
	err = promptTemplate.Execute(&sb, promptData{
		FileName:   file.Name,
		Receipt:    string(receipt),
		Categories: Categories,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render classification prompt: %w", err)
	}

	return sb.String(), nil
}
