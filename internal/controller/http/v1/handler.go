package v1

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

type RunsHandler struct {
	log                *slog.Logger
	runsRepository     RunsRepository
	outcomesRepository OutcomesRepository
}

type RunsRepository interface {
	Run(ctx context.Context, id string) (*domain.RunRecord, error)
}

type OutcomesRepository interface {
	OutcomesByRun(ctx context.Context, runID string, limit, offset uint64) ([]*domain.OutcomeRecord, int, error)
}

func NewRunsHandler(log *slog.Logger, runsRepository RunsRepository, outcomesRepository OutcomesRepository) *RunsHandler {
	return &RunsHandler{
		log:                log,
		runsRepository:     runsRepository,
		outcomesRepository: outcomesRepository,
	}
}

type OutcomeResponse struct {
	N            int             `json:"n"`
	FileName     string          `json:"file_name"`
	FilePath     string          `json:"file_path"`
	Status       domain.Status   `json:"status"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Attempts     int             `json:"attempts"`
	ElapsedMS    int64           `json:"elapsed_ms"`
}

type GetRunOutcomesResponse struct {
	RunID      string             `json:"run_id"`
	Outcomes   []*OutcomeResponse `json:"outcomes"`
	Pagination Pagination         `json:"pagination"`
}

func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.run(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, r, run)
}

func (h *RunsHandler) GetRunOutcomes(w http.ResponseWriter, r *http.Request) {
	page, limit, err := h.parsePagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, ok := h.run(w, r)
	if !ok {
		return
	}

	offset := (page - 1) * limit

	records, total, err := h.outcomesRepository.OutcomesByRun(r.Context(), run.ID, limit, offset)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	outcomes := make([]*OutcomeResponse, 0, len(records))
	for _, o := range records {
		outcomes = append(outcomes, &OutcomeResponse{
			N:            o.N,
			FileName:     o.FileName,
			FilePath:     o.FilePath,
			Status:       o.Status,
			Payload:      o.Payload,
			ErrorKind:    o.ErrorKind,
			ErrorMessage: o.ErrorMessage,
			Attempts:     o.Attempts,
			ElapsedMS:    o.ElapsedMS,
		})
	}

	h.writeJSON(w, r, GetRunOutcomesResponse{
		RunID:    run.ID,
		Outcomes: outcomes,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int(limit) - 1) / int(limit),
		},
	})
}

func (h *RunsHandler) run(w http.ResponseWriter, r *http.Request) (*domain.RunRecord, bool) {
	runID := chi.URLParam(r, "run_id")

	run, err := h.runsRepository.Run(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, false
		}

		h.internalError(w, r, err)
		return nil, false
	}

	return run, true
}

func (h *RunsHandler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		h.log.WarnContext(r.Context(), "failed to write response", slog.String("err", err.Error()))
	}
}

func (h *RunsHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("err", err.Error()),
	)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *RunsHandler) parsePagination(r *http.Request) (page uint64, limit uint64, err error) {
	page, limit = 1, 10

	if p := r.URL.Query().Get("page"); p != "" {
		page, err = strconv.ParseUint(p, 10, 64)
		if err != nil || page == 0 {
			return 0, 0, errors.New("invalid page")
		}
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.ParseUint(l, 10, 64)
		if err != nil || limit < 1 || limit > 100 {
			return 0, 0, errors.New("invalid limit, must be in [1;100]")
		}
	}

	return page, limit, nil
}
