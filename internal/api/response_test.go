package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSON(rec, 201, map[string]string{"hello": "world"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	// Channels cannot be marshaled; the buffer-first strategy means the
	// client still gets a clean 500 instead of a half-written body.
	writeJSON(rec, 200, map[string]any{"bad": make(chan int)})

	assert.Equal(t, 500, rec.Code)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	writeError(rec, 404, "ticket_not_found", "ticket not found")

	assert.Equal(t, 404, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ticket_not_found", resp.Error)
	assert.Equal(t, "ticket not found", resp.Message)
}
