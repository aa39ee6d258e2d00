package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
)

func newMiddlewareHandler(buf *bytes.Buffer) *Handler {
	return &Handler{
		clock:  utils.NewManualClock(start),
		logger: logger.NewLoggerTo(buf, "status"),
	}
}

func TestWithTraceID(t *testing.T) {
	h := newMiddlewareHandler(&bytes.Buffer{})

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(traceIDHeader)
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.withTraceID(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, w.Header().Get(traceIDHeader), 36)
		assert.Equal(t, w.Header().Get(traceIDHeader), seen)
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(traceIDHeader, "trace-1")
		w := httptest.NewRecorder()
		h.withTraceID(next).ServeHTTP(w, req)

		assert.Equal(t, "trace-1", w.Header().Get(traceIDHeader))
	})
}

func TestWithLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	h := newMiddlewareHandler(buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})
	req := httptest.NewRequest(http.MethodGet, "/locks", nil)
	req.Header.Set(traceIDHeader, "trace-2")
	h.withTraceID(h.withLogging(next)).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "/locks", entry["uri"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, float64(5), entry["size"])
	assert.Equal(t, "trace-2", entry["trace_id"])
}

func TestResponseWriter_HeaderOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusInternalServerError)
	n, err := w.Write([]byte("abc"))

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, http.StatusAccepted, w.status)
	assert.Equal(t, 3, w.size)
}
