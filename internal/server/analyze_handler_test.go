package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"resumedoctor/internal/analysis"
	"resumedoctor/internal/config"
	rdErrors "resumedoctor/internal/errors"
	"resumedoctor/internal/extract"
	"resumedoctor/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	logger, err := rdErrors.New("error")
	require.NoError(t, err)

	pipeline := analysis.NewPipeline(extract.NewExtractor(nil, logger), logger)

	cfg := &config.Config{}
	srv := NewServer(cfg, ServerConfig{
		Host:          "127.0.0.1",
		Port:          "0",
		Version:       "test",
		MaxUploadSize: 1 << 20,
	}, pipeline, nil, logger)

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	require.NoError(t, err)

	return srv, om
}

func multipartUpload(t *testing.T, fieldName, filename, contentType string, data []byte, jobDescription string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if fieldName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	if jobDescription != "" {
		require.NoError(t, writer.WriteField("job_description", jobDescription))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/health-check", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAnalyzeHandlerRejectsNonPDFContentType(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	req := multipartUpload(t, "file", "resume.txt", "text/plain", []byte("plain text resume"), "")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, rdErrors.ErrCodeUnsupportedFormat, decodeError(t, rec).Code)
}

func TestAnalyzeHandlerRejectsNonPDFBytes(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	// Declared as PDF but the payload is not
	req := multipartUpload(t, "file", "resume.pdf", "application/pdf", []byte("not a pdf at all"), "")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, rdErrors.ErrCodeUnsupportedFormat, decodeError(t, rec).Code)
}

func TestAnalyzeHandlerRejectsCorruptPDF(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	// Correct magic bytes but a truncated body
	req := multipartUpload(t, "file", "resume.pdf", "application/pdf", []byte("%PDF-1.7\ngarbage"), "")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, rdErrors.ErrCodeCorruptDocument, decodeError(t, rec).Code)
}

func TestAnalyzeHandlerRejectsMissingFile(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	req := multipartUpload(t, "", "", "", nil, "backend role")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, rdErrors.ErrCodeCorruptDocument, decodeError(t, rec).Code)
}

func TestAnalyzeHandlerRejectsNonMultipartBody(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/health-check", strings.NewReader(`{"resume":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, rdErrors.ErrCodeInvalidRequest, decodeError(t, rec).Code)
}

func TestAnalyzeHandlerRejectsWrongMethod(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health-check", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExtractHandlerErrorMapping(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createExtractHandler(om)

	req := multipartUpload(t, "file", "resume.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		[]byte("PK\x03\x04"), "")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, rdErrors.ErrCodeUnsupportedFormat, decodeError(t, rec).Code)
}

func TestWriteAppErrorWrapsUnknownErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.writeAppError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, rdErrors.ErrCodeInternalFailure, resp.Code)
	assert.Equal(t, "Internal error", resp.Error)
	assert.Equal(t, "boom", resp.Message)
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.APIKeys = map[string]bool{"secret-key-123456": true}

	called := false
	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("MissingKey", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/health-check", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/health-check", nil)
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("HeaderKey", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/health-check", nil)
		req.Header.Set("X-API-Key", "secret-key-123456")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("BearerKey", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/health-check", nil)
		req.Header.Set("Authorization", "Bearer secret-key-123456")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}

func TestStatsHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.statsHandler(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "resumedoctor", resp["service"])
	assert.Contains(t, resp, "rate_limiting")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefgh0123456789"))
}
