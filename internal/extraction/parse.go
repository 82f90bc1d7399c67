package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

const (
	RawResponseLimit = 1000
	previewLimit     = 500

	jsonFence = "```json"
)

var errNotObject = errors.New("response is not a JSON object")

// StripCodeFence removes a leading ```json (or bare ```) fence and the
// matching trailing fence. The fence may share a line with the payload.
// Any other language tag is dropped only when it sits on its own line.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	if len(text) >= len(jsonFence) && strings.EqualFold(text[:len(jsonFence)], jsonFence) {
		text = text[len(jsonFence):]
	} else {
		text = text[len("```"):]
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		if lang := strings.TrimSpace(text[:nl]); !strings.ContainsAny(lang, "{[\"") {
			text = text[nl+1:]
		}
	}

	return strings.TrimSpace(text)
}

// ParsePayload decodes model output into a payload. The response shape is
// returned even when parsing fails.
func ParsePayload(text string) (domain.Payload, *domain.ResponseShape, error) {
	shape := &domain.ResponseShape{
		ContentLength: len(text),
		RawPreview:    truncate(text, previewLimit),
	}

	var value any
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &value); err != nil {
		return nil, shape, parseError(text, fmt.Errorf("failed to decode json: %w", err))
	}

	payload, ok := value.(map[string]any)
	if !ok {
		return nil, shape, parseError(text, errNotObject)
	}

	fields := make([]string, 0, len(payload))
	for k := range payload {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	shape.ParsedSuccessfully = true
	shape.ExtractedFields = fields

	return payload, shape, nil
}

func parseError(text string, err error) error {
	extErr := domain.NewExtractionError(domain.ErrorKindResponseParse, err)
	extErr.RawResponse = truncate(text, RawResponseLimit)

	return extErr
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	return string([]rune(s)[:limit])
}
