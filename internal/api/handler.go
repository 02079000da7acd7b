package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/teamdocs/procap/internal/archive"
	"github.com/teamdocs/procap/internal/config"
	"github.com/teamdocs/procap/internal/document"
	"github.com/teamdocs/procap/internal/extract"
	"github.com/teamdocs/procap/internal/interview"
	"github.com/teamdocs/procap/internal/session"
	"github.com/teamdocs/procap/internal/webhook"
)

const maxRequestBodySize = 1 << 20 // 1MB

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Renderer turns an assembled document model into .docx bytes.
type Renderer interface {
	Render(ctx context.Context, model document.Model) ([]byte, error)
}

// Deliverer posts a submission payload to the downstream intake flow.
type Deliverer interface {
	Deliver(ctx context.Context, p webhook.Payload) error
}

// Archiver records a delivered submission. Failures are logged, never
// surfaced; the archive is an audit trail, not part of the request path.
type Archiver interface {
	Save(sub archive.Submission) error
}

// Deps carries everything the HTTP surface needs. Webhook may be nil when
// no delivery URL is configured; Archive may be nil when the archive is
// disabled.
type Deps struct {
	Sessions  *session.Store
	Interview *interview.Controller
	Extractor *extract.Extractor
	Renderer  Renderer
	Webhook   Deliverer
	Archive   Archiver
	Limits    config.SessionConfig
	AuthUser  string
	AuthPass  string
	Logger    *slog.Logger
}

// NewHandler returns the service's http.Handler. /health is open; every
// /api route sits behind basic auth.
func NewHandler(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	h := &handler{deps: d}

	r := chi.NewRouter()
	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(BasicAuth(d.AuthUser, d.AuthPass))
		r.Post("/session/start", h.handleSessionStart)
		r.Get("/session/status/{sessionID}", h.handleSessionStatus)
		r.Post("/chat", h.handleChat)
		r.Post("/end-early", h.handleEndEarly)
		r.Post("/extract", h.handleExtract)
		r.Post("/generate-doc", h.handleGenerateDoc)
		r.Post("/submit", h.handleSubmit)
		r.Get("/divisions", h.handleDivisions)
		r.Post("/download-chat", h.handleDownloadChat)
	})

	return r
}

type handler struct {
	deps Deps
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type startRequest struct {
	EmployeeName string `json:"employeeName"`
	Division     string `json:"division"`
}

type limitsResponse struct {
	MaxMessages    int `json:"maxMessages"`
	WarningAt      int `json:"warningAt"`
	FinalWarningAt int `json:"finalWarningAt"`
	TimeoutMinutes int `json:"timeoutMinutes"`
}

func (h *handler) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	s := h.deps.Sessions.Create(req.EmployeeName, req.Division, time.Now())
	h.deps.Logger.Info("session started", "session_id", s.ID, "division", req.Division)

	writeJSON(w, map[string]any{
		"sessionId": s.ID,
		"divisions": session.Divisions,
		"limits": limitsResponse{
			MaxMessages:    h.deps.Limits.MaxMessages,
			WarningAt:      h.deps.Limits.WarningAt,
			FinalWarningAt: h.deps.Limits.FinalWarningAt,
			TimeoutMinutes: h.deps.Limits.TimeoutMinutes,
		},
	})
}

func (h *handler) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.Sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session not found or expired")
		return
	}

	sess.Lock()
	count := sess.MessageCount
	sess.Unlock()

	remaining, warning, finalWarning, atLimit := h.deps.Interview.StatusFor(count)
	writeJSON(w, map[string]any{
		"messageCount":     count,
		"remaining":        remaining,
		"maxMessages":      h.deps.Limits.MaxMessages,
		"warningAt":        h.deps.Limits.WarningAt,
		"finalWarningAt":   h.deps.Limits.FinalWarningAt,
		"showWarning":      warning,
		"showFinalWarning": finalWarning,
		"atLimit":          atLimit,
	})
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (h *handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if req.Message == "" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
		return
	}

	sess, err := h.deps.Sessions.Get(req.SessionID)
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session not found or expired")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	res, err := h.deps.Interview.SubmitTurn(r.Context(), sess, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			httpError(w, http.StatusNotFound, "not_found_error", "session not found or expired")
		case errors.Is(err, interview.ErrAIService):
			httpError(w, http.StatusBadGateway, "api_error", "failed to process message: %v", err)
		default:
			httpError(w, http.StatusInternalServerError, "api_error", "failed to process message: %v", err)
		}
		return
	}

	writeJSON(w, map[string]any{
		"message":          res.Reply,
		"isComplete":       res.IsComplete,
		"sessionId":        sess.ID,
		"messageCount":     res.MessageCount,
		"remaining":        res.Remaining,
		"showWarning":      res.ShowWarning,
		"showFinalWarning": res.ShowFinalWarning,
		"forceEnd":         res.ForceEnd,
	})
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *handler) handleEndEarly(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	sess, err := h.deps.Sessions.Get(req.SessionID)
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session not found")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Transition(session.StatusEndedEarly); err != nil {
		httpError(w, http.StatusConflict, "invalid_request_error", "%v", err)
		return
	}

	outcome, err := h.deps.Extractor.Extract(r.Context(), sess, true)
	if err != nil {
		// Partial extraction recovers every failure internally; an error here
		// is a programming mistake, not a capability failure.
		httpError(w, http.StatusInternalServerError, "api_error", "partial extraction: %v", err)
		return
	}

	resp := map[string]any{
		"success": true,
		"data":    sess.Record,
	}
	switch outcome.Status {
	case extract.OutcomeSkipped:
		resp["note"] = outcome.Note
	case extract.OutcomeFailed:
		resp["extractionError"] = outcome.Note
	}
	writeJSON(w, resp)
}

func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	sess, err := h.deps.Sessions.Get(req.SessionID)
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session not found")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if _, err := h.deps.Extractor.Extract(r.Context(), sess, false); err != nil {
		httpError(w, http.StatusBadGateway, "api_error", "failed to extract data: %v", err)
		return
	}

	writeJSON(w, map[string]any{
		"success": true,
		"data":    sess.Record,
	})
}

func (h *handler) handleGenerateDoc(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	sess, err := h.deps.Sessions.Get(req.SessionID)
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session not found")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	now := time.Now()
	model := document.Assemble(sess.Record, sess.EmployeeName, sess.Division, sess.IsDraft(), now)

	docBytes, err := h.deps.Renderer.Render(r.Context(), model)
	if err != nil {
		httpError(w, http.StatusBadGateway, "api_error", "failed to generate document: %v", err)
		return
	}

	filename := document.Filename(sess.Division, sess.Record.ProcessName, sess.IsDraft(), now)
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(docBytes)
}

func (h *handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	sess, err := h.deps.Sessions.Get(req.SessionID)
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session not found")
		return
	}

	if h.deps.Webhook == nil {
		httpError(w, http.StatusInternalServerError, "api_error", "webhook URL not configured")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Status != session.StatusComplete && sess.Status != session.StatusEndedEarly {
		httpError(w, http.StatusConflict, "invalid_request_error",
			"session in state %q cannot be submitted", sess.Status)
		return
	}

	now := time.Now()
	model := document.Assemble(sess.Record, sess.EmployeeName, sess.Division, sess.IsDraft(), now)

	docBytes, err := h.deps.Renderer.Render(r.Context(), model)
	if err != nil {
		httpError(w, http.StatusBadGateway, "api_error", "failed to generate document: %v", err)
		return
	}

	filename := document.Filename(sess.Division, sess.Record.ProcessName, sess.IsDraft(), now)
	payload := webhook.Payload{
		SessionID:      sess.ID,
		EmployeeName:   sess.EmployeeName,
		Division:       sess.Division,
		ProcessName:    sess.Record.ProcessName,
		Summary:        sess.Record.Summary,
		Filename:       filename,
		DocumentBase64: base64.StdEncoding.EncodeToString(docBytes),
		SubmittedAt:    now.UTC().Format(time.RFC3339),
		IsDraft:        sess.IsDraft(),
	}

	if err := h.deps.Webhook.Deliver(r.Context(), payload); err != nil {
		httpError(w, http.StatusBadGateway, "api_error", "failed to submit: %v", err)
		return
	}

	if err := sess.Transition(session.StatusSubmitted); err != nil {
		httpError(w, http.StatusConflict, "invalid_request_error", "%v", err)
		return
	}

	if h.deps.Archive != nil {
		sub := archive.Submission{
			ID:           uuid.New().String(),
			SessionID:    sess.ID,
			EmployeeName: sess.EmployeeName,
			Division:     sess.Division,
			ProcessName:  sess.Record.ProcessName,
			Summary:      sess.Record.Summary,
			Filename:     filename,
			IsDraft:      payload.IsDraft,
			SubmittedAt:  now,
		}
		if err := h.deps.Archive.Save(sub); err != nil {
			h.deps.Logger.Warn("failed to archive submission", "session_id", sess.ID, "error", err)
		}
	}

	h.deps.Logger.Info("submission delivered", "session_id", sess.ID, "filename", filename, "is_draft", payload.IsDraft)
	writeJSON(w, map[string]any{
		"success":  true,
		"filename": filename,
	})
}

func (h *handler) handleDivisions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, session.Divisions)
}

func (h *handler) handleDownloadChat(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	sess, err := h.deps.Sessions.Get(req.SessionID)
	if err != nil {
		httpError(w, http.StatusNotFound, "not_found_error", "session not found")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	now := time.Now()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", session.ChatLogFilename(sess, now)))
	w.Write([]byte(session.ChatLog(sess, now)))
}

// decodeBody decodes a JSON request body into dst, writing the error
// response itself when the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
