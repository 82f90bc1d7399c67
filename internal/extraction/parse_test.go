package extraction_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/kurochkinivan/receipt_reporter/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding space", in: "  \n```json\n{\"a\":1}\n```\n ", want: `{"a":1}`},
		{name: "one line json fence", in: "```json {\"a\":1}```", want: `{"a":1}`},
		{name: "one line json fence without space", in: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "one line bare fence", in: "```{\"a\":1}```", want: `{"a":1}`},
		{name: "upper case tag", in: "```JSON\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "other language tag", in: "```javascript\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "multi line object", in: "```json\n{\n  \"a\": 1\n}\n```", want: "{\n  \"a\": 1\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extraction.StripCodeFence(tt.in))
		})
	}
}

func TestParsePayload_Object(t *testing.T) {
	t.Parallel()

	payload, shape, err := extraction.ParsePayload("```json\n{\"vendor_name\":\"Rami Levy\",\"date\":\"01/02/2025\"}\n```")
	require.NoError(t, err)

	assert.Equal(t, "Rami Levy", payload["vendor_name"])
	assert.True(t, shape.ParsedSuccessfully)
	assert.Equal(t, []string{"date", "vendor_name"}, shape.ExtractedFields)
}

func TestParsePayload_OneLineFence(t *testing.T) {
	t.Parallel()

	payload, shape, err := extraction.ParsePayload("```json {\"vendor_name\":\"A\"}```")
	require.NoError(t, err)

	assert.Equal(t, "A", payload["vendor_name"])
	assert.True(t, shape.ParsedSuccessfully)
}

func TestParsePayload_ContentLengthInBytes(t *testing.T) {
	t.Parallel()

	text := `{"vendor_name":"שופרסל"}`

	_, shape, err := extraction.ParsePayload(text)
	require.NoError(t, err)

	assert.Equal(t, len(text), shape.ContentLength)
	assert.Greater(t, shape.ContentLength, utf8.RuneCountInString(text))
}

func TestParsePayload_InvalidJSON(t *testing.T) {
	t.Parallel()

	text := "not json " + strings.Repeat("x", 2000)

	payload, shape, err := extraction.ParsePayload(text)
	require.Error(t, err)

	assert.Nil(t, payload)
	assert.False(t, shape.ParsedSuccessfully)
	assert.Equal(t, domain.ErrorKindResponseParse, domain.KindOf(err))
	assert.Len(t, domain.RawResponseOf(err), extraction.RawResponseLimit)
	assert.True(t, domain.IsRetryable(err))
}

func TestParsePayload_NotObject(t *testing.T) {
	t.Parallel()

	_, _, err := extraction.ParsePayload(`[1,2,3]`)
	require.Error(t, err)

	assert.Equal(t, domain.ErrorKindResponseParse, domain.KindOf(err))
	assert.Equal(t, "[1,2,3]", domain.RawResponseOf(err))
}
