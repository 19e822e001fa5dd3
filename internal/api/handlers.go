// Package api exposes HTTP handlers for milestone projections.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alexjj/wen-goat/internal/chart"
	"github.com/alexjj/wen-goat/internal/domain"
	"github.com/alexjj/wen-goat/internal/observability"
)

// DateParamLayout is the format of the target_date query parameter.
const DateParamLayout = "2006-01-02"

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service     *domain.Service
	defaultRate float64
	logger      *zap.Logger
}

// NewHandler builds a Handler. defaultRate is used when weekly_rate is omitted.
func NewHandler(service *domain.Service, defaultRate float64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, defaultRate: defaultRate, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/projections", h.projection)
	mux.HandleFunc("/v1/projections/chart.png", h.projectionChart)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) projection(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewProjectionResponse(*ev))
}

func (h *Handler) projectionChart(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.evaluate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, *ev, chart.Options{}); err != nil {
		h.logger.Error("render chart failed", zap.String("callsign", ev.Callsign), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "unable to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// evaluate parses the shared query parameters and runs the service. It writes the error
// response itself and reports false when the caller should stop.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) (*domain.Evaluation, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return nil, false
	}

	req, err := h.parseRequest(r)
	if err != nil {
		observability.RecordEvaluation(observability.OutcomeInvalidInput, time.Time{})
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return nil, false
	}

	ev, err := h.service.Evaluate(r.Context(), req)
	if err != nil {
		status, code, detail, outcome := classify(err)
		observability.RecordEvaluation(outcome, time.Time{})
		if status >= http.StatusInternalServerError {
			h.logger.Error("evaluation failed", zap.String("callsign", req.Callsign), zap.Error(err))
		} else {
			h.logger.Info("evaluation rejected", zap.String("callsign", req.Callsign), zap.Error(err))
		}
		writeError(w, status, code, detail)
		return nil, false
	}

	observability.RecordEvaluation(observability.OutcomeOK, time.Now())
	return ev, true
}

func (h *Handler) parseRequest(r *http.Request) (domain.EvaluateRequest, error) {
	q := r.URL.Query()
	req := domain.EvaluateRequest{
		Callsign:   q.Get("callsign"),
		WeeklyRate: h.defaultRate,
	}

	if raw := strings.TrimSpace(q.Get("weekly_rate")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, errors.New("weekly_rate must be a number")
		}
		req.WeeklyRate = rate
	}

	if raw := strings.TrimSpace(q.Get("target_date")); raw != "" {
		date, err := time.Parse(DateParamLayout, raw)
		if err != nil {
			return req, errors.New("target_date must be formatted YYYY-MM-DD")
		}
		req.TargetDate = &date
	}
	return req, nil
}

func classify(err error) (status int, code, detail, outcome string) {
	switch {
	case errors.Is(err, domain.ErrNegativeRate), errors.Is(err, domain.ErrTargetDateInPast):
		return http.StatusBadRequest, "validation_failed", err.Error(), observability.OutcomeInvalidInput
	case errors.Is(err, domain.ErrInvalidCallsign), errors.Is(err, domain.ErrResolutionFailed):
		return http.StatusNotFound, "invalid_callsign", "Invalid callsign or data not found.", observability.OutcomeResolutionFailed
	case errors.Is(err, domain.ErrEmptyHistory):
		return http.StatusNotFound, "no_activation_data", "No activation data found.", observability.OutcomeEmptyHistory
	case errors.Is(err, domain.ErrHistoryUnavailable):
		return http.StatusBadGateway, "upstream_unavailable", "Activation log is unavailable, try again later.", observability.OutcomeHistoryUnavailable
	default:
		return http.StatusInternalServerError, "server_error", "unexpected error", observability.OutcomeError
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
