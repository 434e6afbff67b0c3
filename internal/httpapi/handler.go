package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"EasyFinder/internal/domain"
	"EasyFinder/internal/infrastructure/csvsource"
	"EasyFinder/internal/infrastructure/storage"
	"EasyFinder/internal/ports"
	"EasyFinder/internal/usecase"
)

const (
	maxUploadBytes = 10 << 20
	maxBodyBytes   = 1 << 20
)

// LeadService is the slice of the pipeline the HTTP layer drives.
type LeadService interface {
	List(ctx context.Context) ([]domain.ScoredLead, error)
	Evaluate(lead domain.Lead) usecase.Evaluation
	Process(ctx context.Context) (domain.ProcessSummary, error)
	Upload(ctx context.Context, filename string, content []byte) error
}

// Handler serves the lead API.
type Handler struct {
	leads    LeadService
	activity ports.ActivityLog
	status   ports.StatusRepository
	logger   *slog.Logger
}

// NewHandler wires the API handler.
func NewHandler(leads LeadService, activity ports.ActivityLog, status ports.StatusRepository, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{leads: leads, activity: activity, status: status, logger: logger}
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Root answers the API banner.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

// ListLeads returns every lead scored, highest first.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.List(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	if leads == nil {
		leads = []domain.ScoredLead{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(leads),
		"leads":   leads,
	})
}

// UploadLeads replaces the lead CSV with the multipart "file" field.
func (h *Handler) UploadLeads(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read uploaded file")
		return
	}

	if err := h.leads.Upload(r.Context(), header.Filename, content); err != nil {
		if errors.Is(err, csvsource.ErrMissingColumns) {
			writeError(w, http.StatusBadRequest,
				"CSV must contain these fields: "+strings.Join(domain.RequiredColumns, ", "))
			return
		}
		h.fail(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "CSV uploaded successfully",
		"filename": header.Filename,
	})
}

// ScoreLead scores a single lead posted as JSON without side effects.
func (h *Handler) ScoreLead(w http.ResponseWriter, r *http.Request) {
	var lead domain.Lead
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&lead); err != nil {
		writeError(w, http.StatusBadRequest, "invalid lead payload")
		return
	}
	writeJSON(w, http.StatusOK, h.leads.Evaluate(lead))
}

// ProcessLeads runs the full scoring and outreach pass.
func (h *Handler) ProcessLeads(w http.ResponseWriter, r *http.Request) {
	summary, err := h.leads.Process(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListLogs returns the most recent activity events, oldest first.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	// limit=0 falls back to the default page size. It does not mean "everything".
	limit := storage.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	logs, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	if logs == nil {
		logs = []domain.ActivityEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}

// ClearLogs drops the activity log.
func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := h.activity.Clear(r.Context()); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logs cleared successfully",
	})
}

type statusRequest struct {
	ClientName string `json:"client_name"`
}

// CreateStatus records a client status check.
func (h *Handler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid status payload")
		return
	}

	check, err := h.status.Create(r.Context(), req.ClientName)
	if err != nil {
		if errors.Is(err, storage.ErrMissingClientName) {
			writeError(w, http.StatusBadRequest, "client_name is required")
			return
		}
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// ListStatus returns stored status checks.
func (h *Handler) ListStatus(w http.ResponseWriter, r *http.Request) {
	checks, err := h.status.List(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	if checks == nil {
		checks = []domain.StatusCheck{}
	}
	writeJSON(w, http.StatusOK, checks)
}

func (h *Handler) fail(w http.ResponseWriter, status int, err error) {
	h.logger.Error("request failed", "status", status, "error", err)
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
