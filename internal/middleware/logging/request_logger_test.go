package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/orderbot/internal/logging"
)

func serve(t *testing.T, h echo.HandlerFunc) (int, []map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "debug")))
	e.GET("/x", h)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var lines []map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var line map[string]any
		require.NoError(t, json.Unmarshal(raw, &line))
		lines = append(lines, line)
	}
	return rec.Code, lines
}

func TestRequestLogger_Success(t *testing.T) {
	code, lines := serve(t, func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Debug("inside")
		return c.String(http.StatusOK, "ok")
	})
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, lines, 2)
	assert.Equal(t, "inside", lines[0]["msg"])
	assert.Equal(t, "rid-1", lines[0]["request_id"])
	assert.Equal(t, "request_completed", lines[1]["msg"])
	assert.Equal(t, "INFO", lines[1]["level"])
	assert.EqualValues(t, 2, lines[1]["bytes"])
}

func TestRequestLogger_HTTPError(t *testing.T) {
	code, lines := serve(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "nope")
	})
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "request_completed", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.EqualValues(t, http.StatusForbidden, line["status"])
	assert.Equal(t, "/x", line["route"])
}
