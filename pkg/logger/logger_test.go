package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/corray333/backend-labs/meatshop/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewHandler(&buf, "production"))

	handler := middleware.RequestID(logger.NewLoggerMiddleware(log)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("hello"))
		}),
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "/api/orders", entry["path"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.EqualValues(t, 5, entry["bytes"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestHandlerLevels(t *testing.T) {
	var buf bytes.Buffer

	slog.New(logger.NewHandler(&buf, "production")).Debug("hidden")
	assert.Empty(t, buf.String())

	slog.New(logger.NewHandler(&buf, "development")).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "source")
}
