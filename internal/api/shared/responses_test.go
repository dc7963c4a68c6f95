package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/supaconf/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	a := GetTraceID(SetTraceID(context.Background()))
	b := GetTraceID(SetTraceID(context.Background()))
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/config.json", nil)

	RespondWithJSON(rec, req, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "client error", status: http.StatusNotFound, wantLevel: "DEBUG"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, _ := logger.SetupTestLogger(t)
			req := httptest.NewRequest(http.MethodGet, "/config.json", nil)
			req = req.WithContext(SetTraceID(req.Context()))
			rec := httptest.NewRecorder()
			cause := errors.New("upstream said apikey=sb_secret_0123456789abcdef")

			RespondWithErrorAndLog(rec, req, tt.status, "something went wrong", cause)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "something went wrong", body.Error)
			assert.Equal(t, GetTraceID(req.Context()), body.TraceID)
			assert.NotContains(t, rec.Body.String(), "upstream")

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0]["level"])
			assert.Equal(t, "upstream said apikey=[REDACTED_KEY]", entries[0]["error"])
		})
	}
}
