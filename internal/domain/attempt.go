package domain

import "time"

type RequestShape struct {
	PromptLength int    `json:"prompt_length"          yaml:"prompt_length"`
	HasImage     bool   `json:"has_image"              yaml:"has_image"`
	ImageFormat  string `json:"image_format,omitempty" yaml:"image_format,omitempty"`
	MediaType    string `json:"media_type,omitempty"   yaml:"media_type,omitempty"`
}

type ResponseShape struct {
	ContentLength      int      `json:"content_length"                 yaml:"content_length"`
	ParsedSuccessfully bool     `json:"parsed_successfully"            yaml:"parsed_successfully"`
	ExtractedFields    []string `json:"extracted_fields,omitempty"     yaml:"extracted_fields,omitempty"`
	RawPreview         string   `json:"raw_response_preview,omitempty" yaml:"raw_response_preview,omitempty"`
}

// Extraction is what one call of the extraction function produced.
// It is returned alongside an error too, so that failed attempts still
// carry the request (and possibly response) shape into the audit log.
type Extraction struct {
	Model    string
	Payload  Payload
	Warnings []string
	Request  RequestShape
	Response *ResponseShape
}

type ExtractionAttempt struct {
	File       *ReceiptFile
	Attempt    int
	Model      string
	StartedAt  time.Time
	FinishedAt time.Time
	Request    RequestShape
	Response   *ResponseShape
	Err        error
}

func (a *ExtractionAttempt) Elapsed() time.Duration {
	return a.FinishedAt.Sub(a.StartedAt)
}

func (a *ExtractionAttempt) Succeeded() bool {
	return a.Err == nil
}
