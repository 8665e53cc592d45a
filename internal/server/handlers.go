package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
	"github.com/simpleray/SNSCheckerBack-phone/internal/ner"
	"github.com/simpleray/SNSCheckerBack-phone/internal/pipeline"
)

// AnalyzeRequest is the body of POST /analyze. Entities, when present,
// replace the configured recognizer for this request.
type AnalyzeRequest struct {
	Text     *string            `json:"text"`
	Entities []model.EntitySpan `json:"entities,omitempty"`
}

// AnalyzeResponse is the body returned by POST /analyze
type AnalyzeResponse struct {
	ID              string       `json:"id"`
	Detail          string       `json:"detail"`
	DirectPercent   float64      `json:"direct_percent"`
	IndirectPercent float64      `json:"indirect_percent"`
	Result          model.Result `json:"result"`
	Warnings        []string     `json:"warnings,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": s.info.Name, "version": s.info.Version})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"version": s.info.Version})
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == nil {
		writeError(w, r, http.StatusUnprocessableEntity, "text is required")
		return
	}
	text := *req.Text
	if s.maxTextLength > 0 && utf8.RuneCountInString(text) > s.maxTextLength {
		writeError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("text must be at most %d characters", s.maxTextLength))
		return
	}

	var (
		report *model.Report
		err    error
	)
	if req.Entities != nil {
		report, err = s.analyzer.AnalyzeWith(r.Context(), text, ner.NewStaticRecognizer(model.EntitiesFromSpans(req.Entities)))
	} else {
		report, err = s.analyzer.Analyze(r.Context(), text)
	}
	if err != nil {
		s.writeAnalyzeError(w, r, err)
		return
	}

	resp := AnalyzeResponse{
		ID:              report.ID,
		DirectPercent:   report.Score.Direct,
		IndirectPercent: float64(report.Score.Indirect),
		Result:          report.Result,
	}
	if report.LLM != nil {
		resp.Detail = report.LLM.Detail
		resp.Warnings = report.LLM.Warnings
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeAnalyzeError(w http.ResponseWriter, r *http.Request, err error) {
	var recErr *pipeline.RecognitionError
	switch {
	case errors.As(err, &recErr):
		logger.Warn("recognition failed", "recognizer", recErr.Recognizer, "error", err)
		writeError(w, r, http.StatusBadGateway, err.Error())
	case errors.Is(err, pipeline.ErrTextTooLong):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error("analysis failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("analysis failed: %v", err))
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("write response", "error", err)
	}
}

// writeError writes a standardized error response
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetReqID(r.Context()),
	})
}
