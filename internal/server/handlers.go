package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jonathan/grant-assist/internal/cache"
	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/forms"
	"github.com/jonathan/grant-assist/internal/metrics"
	"github.com/jonathan/grant-assist/internal/server/middleware"
	"github.com/jonathan/grant-assist/internal/types"
	"go.uber.org/zap"
)

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Template  json.RawMessage `json:"template" validate:"required"`
	Draft     json.RawMessage `json:"draft" validate:"required"`
	Reference string          `json:"reference" validate:"max=200000"`
}

// ScoreContentRequest is the body of POST /v1/score-content.
type ScoreContentRequest struct {
	Text      string `json:"text" validate:"max=200000"`
	Reference string `json:"reference" validate:"max=200000"`
}

// RecommendRequest is the body of POST /v1/recommend.
type RecommendRequest struct {
	Results     []types.ValidationResult `json:"results"`
	Suggestions []types.Suggestion       `json:"suggestions" validate:"dive"`
}

// RecommendResponse lists improvement actions, most important first.
type RecommendResponse struct {
	Improvements []string `json:"improvements"`
}

// AutoCompleteRequest is the body of POST /v1/autocomplete.
type AutoCompleteRequest struct {
	Template     json.RawMessage `json:"template" validate:"required"`
	Draft        json.RawMessage `json:"draft" validate:"required"`
	Fields       []string        `json:"fields" validate:"max=50,dive,required"`
	GrantContext string          `json:"grant_context" validate:"max=20000"`
}

// AutoCompleteResponse maps section IDs to proposed values.
type AutoCompleteResponse struct {
	Results map[string]types.AutoCompleteResult `json:"results"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, cached, err := s.validateDocuments(w, r)
	metrics.Observe(metrics.OpValidate, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	setCacheHeader(w, s.cache != nil, cached)
	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) validateDocuments(w http.ResponseWriter, r *http.Request) (*types.ScoreReport, bool, error) {
	var req ValidateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, false, err
	}
	template, draft, err := parseDocuments(req.Template, req.Draft)
	if err != nil {
		return nil, false, err
	}
	return s.evaluate(r.Context(), template, draft, req.Reference)
}

func (s *Server) handleScoreContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ScoreContentRequest
	err := s.decodeJSON(w, r, &req)
	metrics.Observe(metrics.OpScoreContent, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.engine.ScoreContent(req.Text, req.Reference))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req RecommendRequest
	err := s.decodeJSON(w, r, &req)
	metrics.Observe(metrics.OpRecommend, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, RecommendResponse{
		Improvements: s.engine.Recommend(req.Results, req.Suggestions),
	})
}

func (s *Server) handleAutoComplete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	results, err := s.autoComplete(w, r)
	metrics.Observe(metrics.OpAutoComplete, start, err)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AutoCompleteResponse{Results: results})
}

func (s *Server) autoComplete(w http.ResponseWriter, r *http.Request) (map[string]types.AutoCompleteResult, error) {
	var req AutoCompleteRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	template, draft, err := parseDocuments(req.Template, req.Draft)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{engine.WithConcurrency(s.concurrency)}
	if s.generators != nil {
		opts = append(opts, engine.WithFieldGenerator(s.generators(req.GrantContext)))
	}
	ctx := r.Context()
	if s.genTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.genTimeout)
		defer cancel()
	}
	return engine.New(opts...).AutoComplete(ctx, template, draft, req.Fields)
}

// evaluate validates a draft, consulting the report cache when one is configured.
// Cache failures are logged and never fail the request.
func (s *Server) evaluate(ctx context.Context, template *types.Template, draft *types.Draft, reference string) (*types.ScoreReport, bool, error) {
	var key string
	if s.cache != nil {
		k, err := cache.Key(template, draft, reference)
		if err != nil {
			s.logger.Warn("report cache key failed", zap.Error(err))
		} else {
			key = k
			report, err := s.cache.Get(ctx, key)
			if err != nil {
				s.logger.Warn("report cache read failed",
					zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
			} else if report != nil {
				return report, true, nil
			}
		}
	}

	report, err := s.engine.Validate(template, draft, reference)
	if err != nil {
		return nil, false, err
	}
	metrics.OverallScore.Observe(report.OverallScore)

	if key != "" {
		if err := s.cache.Put(ctx, key, report); err != nil {
			s.logger.Warn("report cache write failed",
				zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
		}
	}
	return report, false, nil
}

// parseDocuments decodes a template and draft through their schemas.
func parseDocuments(rawTemplate, rawDraft json.RawMessage) (*types.Template, *types.Draft, error) {
	template, err := forms.ParseTemplate(rawTemplate, forms.FormatJSON)
	if err != nil {
		return nil, nil, &ErrValidation{Field: "template", Message: err.Error(), Cause: err}
	}
	draft, err := forms.ParseDraft(rawDraft, forms.FormatJSON)
	if err != nil {
		return nil, nil, &ErrValidation{Field: "draft", Message: err.Error(), Cause: err}
	}
	return template, draft, nil
}

func setCacheHeader(w http.ResponseWriter, enabled, hit bool) {
	if !enabled {
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
		return
	}
	w.Header().Set("X-Cache", "MISS")
}
