package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobpost-checker/internal/pipeline"
	"github.com/jonathan/jobpost-checker/internal/report"
)

const maxRequestBytes = 1 << 20

// AnalyzeRequest represents the request body for /analyze
type AnalyzeRequest struct {
	URL                   string   `json:"url" validate:"required"`
	SkillsMatchPercentage *float64 `json:"skills_match_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	// Save defaults to true.
	Save *bool `json:"save,omitempty"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// AnalyzeResponse is the analysis plus whether it reached the trend store.
type AnalyzeResponse struct {
	*pipeline.Result
	Saved        bool   `json:"saved"`
	PersistError string `json:"persist_error,omitempty"`
}

func newAnalyzeResponse(res *pipeline.Result) AnalyzeResponse {
	resp := AnalyzeResponse{Result: res, Saved: res.Saved()}
	if res.PersistError != nil {
		resp.PersistError = res.PersistError.Error()
	}
	return resp
}

// TrendsResponse represents the response for /trends
type TrendsResponse struct {
	Trends []report.Row `json:"trends"`
	Count  int          `json:"count"`
}

func (s *Server) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (*AnalyzeRequest, error) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// newAnalyzer builds a per-request analyzer from the template options.
func (s *Server) newAnalyzer(req *AnalyzeRequest, onProgress pipeline.ProgressCallback) *pipeline.Analyzer {
	opts := s.analyzerOpts
	opts.Aggregator = s.aggregator
	if req.Save != nil && !*req.Save {
		opts.Aggregator = nil
	}
	if req.SkillsMatchPercentage != nil {
		opts.SkillsMatch = req.SkillsMatchPercentage
	}
	opts.OnProgress = onProgress
	return pipeline.NewAnalyzer(opts)
}

// handleAnalyze analyzes one posting and returns the result
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAnalyzeRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.analyzeMu.Lock()
	defer s.analyzeMu.Unlock()

	res, err := s.newAnalyzer(req, nil).Analyze(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, newAnalyzeResponse(res))
}

// handleAnalyzeStream analyzes one posting and streams progress as Server-Sent Events
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAnalyzeRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.analyzeMu.Lock()
	defer s.analyzeMu.Unlock()

	analyzer := s.newAnalyzer(req, func(e pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", e); err != nil {
			s.logger.Debug("failed to write progress event", "error", err)
		}
	})

	res, err := analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		sse.WriteError(HTTPStatus(err), err.Error())
		return
	}
	if err := sse.WriteEvent("result", newAnalyzeResponse(res)); err != nil {
		s.logger.Warn("failed to write result event", "error", err)
	}
}

// positiveIntParam reads an optional positive integer query parameter.
func positiveIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a positive integer"}
	}
	return n, nil
}

// handleTrends returns the top skill trends
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	limit, err := positiveIntParam(r, "limit", s.topN)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	top, err := s.aggregator.Top(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to load trends", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load trends")
		return
	}

	rows := make([]report.Row, len(top))
	for i, t := range top {
		rows[i] = report.Row{Rank: i + 1, SkillTrend: t, AvgPerJob: t.AvgPerJob()}
	}
	s.jsonResponse(w, http.StatusOK, TrendsResponse{Trends: rows, Count: len(rows)})
}

// handleStats returns posting statistics
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.aggregator.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to load posting stats", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load posting stats")
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// handleReport returns the analytics report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	top, err := positiveIntParam(r, "top", s.topN)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	rep, err := report.Generate(r.Context(), s.aggregator, top, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to generate report", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	s.jsonResponse(w, http.StatusOK, rep)
}

// handleGetPostingByURL returns a stored posting by its URL
func (s *Server) handleGetPostingByURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	posting, err := s.store.GetPostingByURL(r.Context(), url)
	if err != nil {
		s.logger.Error("failed to get posting", "url", url, "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get posting")
		return
	}
	if posting == nil {
		err := &ErrNotFound{What: "posting"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
