package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	rdErrors "resumedoctor/internal/errors"
	"resumedoctor/internal/observability"
	"resumedoctor/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// multipartMemoryLimit bounds how much of an upload is held in memory
// before spilling to disk.
const multipartMemoryLimit = 8 << 20

// createAnalyzeHandler handles POST /api/v1/health-check: a multipart
// resume upload analyzed into a full report.
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumedoctor.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		doc, jobDescription, err := s.parseUpload(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.Int("request.file_size", len(doc.Data)),
			attribute.Bool("request.job_description", jobDescription != ""),
		)

		metrics := om.GetMetrics()
		start := time.Now()
		result, err := s.Pipeline.Analyze(ctx, doc, jobDescription)
		duration := time.Since(start)

		metrics.RecordAnalysis(ctx, duration, result.OverallScore, result.Degraded, err)
		if result.TokenUsage != nil {
			metrics.RecordTokenUsage(ctx,
				result.TokenUsage.InputTokens,
				result.TokenUsage.OutputTokens,
				result.TokenUsage.TotalTokens)
		}

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "analysis"))
			if code := rdErrors.CodeOf(err); code != "" {
				metrics.RecordExtractionError(ctx, code)
			}
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("overall_score", result.OverallScore),
			attribute.Int("missing_keywords", len(result.MissingKeywords)),
		)

		writeJSONResponse(w, result, s.Logger)
	}
}

// ExtractResponse is the body returned by the extraction-only endpoint
type ExtractResponse struct {
	Text       string                `json:"text"`
	Sections   []types.Section       `json:"sections"`
	PageCount  int                   `json:"page_count"`
	Confidence float64               `json:"confidence"`
	ParsedData types.ParsedCandidate `json:"parsed_data"`
}

// createExtractHandler handles POST /api/v1/extract: extraction and
// structured parsing without scoring or generative feedback.
func (s *Server) createExtractHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("resumedoctor.api")
		ctx, span := tracer.Start(r.Context(), "api.extract")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		doc, _, err := s.parseUpload(r)
		if err != nil {
			span.RecordError(err)
			s.writeAppError(w, err)
			return
		}

		et, err := s.Pipeline.Extract(doc)
		if err != nil {
			span.RecordError(err)
			if code := rdErrors.CodeOf(err); code != "" {
				om.GetMetrics().RecordExtractionError(ctx, code)
			}
			s.writeAppError(w, err)
			return
		}

		candidate := s.Pipeline.ParseExtracted(et)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("pages", et.PageCount),
			attribute.Int("sections", len(et.Sections)),
		)

		writeJSONResponse(w, ExtractResponse{
			Text:       et.Text,
			Sections:   et.Sections,
			PageCount:  et.PageCount,
			Confidence: et.Confidence,
			ParsedData: candidate,
		}, s.Logger)
	}
}

// parseUpload extracts the resume file and optional job description from
// a multipart request.
func (s *Server) parseUpload(r *http.Request) (types.RawDocument, string, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return types.RawDocument{}, "", rdErrors.NewValidationError(rdErrors.ErrCodeInvalidRequest,
				"Request body too large", err)
		}
		return types.RawDocument{}, "", rdErrors.NewValidationError(rdErrors.ErrCodeInvalidRequest,
			"Request must be multipart/form-data with a file field", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return types.RawDocument{}, "", rdErrors.NewDocumentError(rdErrors.ErrCodeCorruptDocument,
			"Missing or unreadable file field", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.Logger.Warn("Failed to close uploaded file", "error", closeErr.Error())
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return types.RawDocument{}, "", rdErrors.NewDocumentError(rdErrors.ErrCodeCorruptDocument,
			"Failed to read uploaded file", err)
	}

	return types.RawDocument{
		Data:      data,
		MediaType: header.Header.Get("Content-Type"),
		Filename:  header.Filename,
	}, r.FormValue("job_description"), nil
}

// writeAppError maps application errors onto HTTP status codes: format
// rejections are the client's fault (400), documents we accepted but
// could not process are unprocessable (422), everything else is a 500.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	var appErr *rdErrors.AppError
	if !errors.As(err, &appErr) {
		appErr = rdErrors.NewInternalError(rdErrors.ErrCodeInternalFailure, "Internal error", err)
	}

	status := http.StatusInternalServerError
	switch {
	case rdErrors.IsUnsupportedFormat(appErr), appErr.Code == rdErrors.ErrCodeInvalidRequest:
		status = http.StatusBadRequest
	case rdErrors.IsCorruptDocument(appErr):
		status = http.StatusUnprocessableEntity
	}

	writeErrorResponse(w, appErr.Message, causeMessage(appErr), appErr.Code, status)
}

func causeMessage(appErr *rdErrors.AppError) string {
	if appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return ""
}

func writeJSONResponse(w http.ResponseWriter, v any, logger *rdErrors.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogError(err, "Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordRateLimitHit(r.Context(),
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
