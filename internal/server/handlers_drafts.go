package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/grant-assist/internal/db"
	"github.com/jonathan/grant-assist/internal/forms"
	"github.com/jonathan/grant-assist/internal/metrics"
)

// EvaluateRequest is the optional body of POST /v1/drafts/{id}/evaluate.
type EvaluateRequest struct {
	Reference string `json:"reference" validate:"max=200000"`
}

// maxReportHistory caps the limit query parameter of the report history.
const maxReportHistory = 100

// ReportHistoryResponse lists stored reports for a draft, newest first.
type ReportHistoryResponse struct {
	Reports []db.StoredReport `json:"reports"`
}

// SavedResponse reports the ID assigned to a stored document.
type SavedResponse struct {
	ID string `json:"id"`
}

// handleSaveTemplate stores a template document
func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.handleError(w, r, ErrStoreUnavailable)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "body", Message: "unreadable request body", Cause: err})
		return
	}
	template, err := forms.ParseTemplate(body, forms.FormatJSON)
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "template", Message: err.Error(), Cause: err})
		return
	}

	id, err := s.store.SaveTemplate(r.Context(), template)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, SavedResponse{ID: id.String()})
}

// handleGetTemplate returns a stored template
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	template, err := s.store.GetTemplate(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if template == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "template", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, template)
}

// handleSaveDraft stores a draft document. The referenced template must exist.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.handleError(w, r, ErrStoreUnavailable)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "body", Message: "unreadable request body", Cause: err})
		return
	}
	draft, err := forms.ParseDraft(body, forms.FormatJSON)
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "draft", Message: err.Error(), Cause: err})
		return
	}

	templateID, err := db.ParseID(draft.TemplateID)
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "template_id", Message: "must be a stored template ID", Cause: err})
		return
	}
	template, err := s.store.GetTemplate(r.Context(), templateID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if template == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "template", ID: templateID.String()})
		return
	}

	id, err := s.store.SaveDraft(r.Context(), draft)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, SavedResponse{ID: id.String()})
}

// handleGetDraft returns a stored draft
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	draft, err := s.store.GetDraft(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if draft == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "draft", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, draft)
}

// handleEvaluateDraft scores a stored draft against its template and records the report.
func (s *Server) handleEvaluateDraft(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stored, cached, err := s.evaluateDraft(w, r)
	metrics.Observe(metrics.OpEvaluate, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	setCacheHeader(w, s.cache != nil, cached)
	s.jsonResponse(w, http.StatusOK, stored)
}

func (s *Server) evaluateDraft(w http.ResponseWriter, r *http.Request) (*db.StoredReport, bool, error) {
	if s.store == nil {
		return nil, false, ErrStoreUnavailable
	}
	draftID, err := db.ParseID(r.PathValue("id"))
	if err != nil {
		return nil, false, err
	}

	var req EvaluateRequest
	if r.ContentLength != 0 {
		if err := s.decodeJSON(w, r, &req); err != nil {
			return nil, false, err
		}
	}

	ctx := r.Context()
	draft, err := s.store.GetDraft(ctx, draftID)
	if err != nil {
		return nil, false, err
	}
	if draft == nil {
		return nil, false, &ErrNotFound{Resource: "draft", ID: draftID.String()}
	}
	templateID, err := db.ParseID(draft.TemplateID)
	if err != nil {
		return nil, false, err
	}
	template, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, false, err
	}
	if template == nil {
		return nil, false, &ErrNotFound{Resource: "template", ID: templateID.String()}
	}

	report, cached, err := s.evaluate(ctx, template, draft, req.Reference)
	if err != nil {
		return nil, false, err
	}
	stored, err := s.store.SaveScoreReport(ctx, draftID, report)
	if err != nil {
		return nil, false, err
	}
	return stored, cached, nil
}

// handleGetReport returns the latest stored report for a draft
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	stored, err := s.store.GetLatestScoreReport(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if stored == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "score report", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, stored)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxReportHistory {
			s.handleError(w, r, &ErrValidation{Field: "limit", Message: "must be an integer between 1 and 100", Cause: err})
			return
		}
		limit = n
	}

	reports, err := s.store.ListScoreReports(r.Context(), id, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if reports == nil {
		reports = []db.StoredReport{}
	}
	s.jsonResponse(w, http.StatusOK, ReportHistoryResponse{Reports: reports})
}

// pathID checks the store is configured and parses the {id} path value,
// writing the error response itself when either fails.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.store == nil {
		s.handleError(w, r, ErrStoreUnavailable)
		return uuid.Nil, false
	}
	id, err := db.ParseID(r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}
