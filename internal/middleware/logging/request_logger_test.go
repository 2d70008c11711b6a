package loggingmw

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logOneRequest(t *testing.T, clientRequestID string) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(logger))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if clientRequestID != "" {
		req.Header.Set(echo.HeaderXRequestID, clientRequestID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestRequestLogger_LogsGeneratedRequestID(t *testing.T) {
	t.Parallel()

	entry := logOneRequest(t, "")

	rid, ok := entry["request_id"].(string)
	require.True(t, ok, "request_id missing from log entry")
	assert.NotEmpty(t, rid)
}

func TestRequestLogger_KeepsClientRequestID(t *testing.T) {
	t.Parallel()

	entry := logOneRequest(t, "client-supplied-id")
	assert.Equal(t, "client-supplied-id", entry["request_id"])
}
