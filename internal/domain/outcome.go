package domain

import "time"

type Status string

const (
	StatusExtracted Status = "extracted"
	StatusFailed    Status = "failed"
)

// Payload is the structured mapping recovered from the model response.
type Payload map[string]any

type OutcomeError struct {
	Kind        ErrorKind `json:"kind"`
	Message     string    `json:"message"`
	Attempt     int       `json:"attempt"`
	RawResponse string    `json:"raw_response,omitempty"`
}

type ExtractionOutcome struct {
	File     *ReceiptFile
	Status   Status
	Payload  Payload       // filled in case of a success
	Error    *OutcomeError // filled in case of a failure
	Warnings []string
	Attempts int
	Elapsed  time.Duration

	Classification *Classification // filled when the run classified receipts
}

func (o *ExtractionOutcome) Succeeded() bool {
	return o.Status == StatusExtracted
}
