package domain

import (
	"errors"
	"time"
)

type RunRecord struct {
	ID        string    `db:"id"         json:"id"`
	Model     string    `db:"model"      json:"model"`
	InputDir  string    `db:"input_dir"  json:"input_dir"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
	Total     int       `db:"total"      json:"total"`
	Succeeded int       `db:"succeeded"  json:"succeeded"`
	Failed    int       `db:"failed"     json:"failed"`
	ElapsedMS int64     `db:"elapsed_ms" json:"elapsed_ms"`
}

type OutcomeRecord struct {
	RunID        string `db:"run_id"        json:"-"`
	N            int    `db:"n"             json:"n"`
	FileName     string `db:"file_name"     json:"file_name"`
	FilePath     string `db:"file_path"     json:"file_path"`
	Status       Status `db:"status"        json:"status"`
	Payload      []byte `db:"payload"       json:"-"`
	ErrorKind    string `db:"error_kind"    json:"error_kind,omitempty"`
	ErrorMessage string `db:"error_message" json:"error_message,omitempty"`
	Attempts     int    `db:"attempts"      json:"attempts"`
	ElapsedMS    int64  `db:"elapsed_ms"    json:"elapsed_ms"`
}

var ErrRunNotFound = errors.New("run not found")
