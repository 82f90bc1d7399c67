package llm

import (
	"context"
	"errors"
	"time"
)

const DefaultTimeout = 120 * time.Second

var ErrEmptyResponse = errors.New("model returned no text content")

// Request is one model call: a prompt plus at most one attached document
// (image or PDF). Requests without Data are sent as plain text.
type Request struct {
	Prompt    string
	Data      []byte
	MediaType string
	FileName  string
}

func (r Request) HasAttachment() bool {
	return len(r.Data) > 0
}

func (r Request) IsPDF() bool {
	return r.MediaType == "application/pdf"
}

type Response struct {
	Model string
	Text  string
	Raw   []byte
}

type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Model() string
}
