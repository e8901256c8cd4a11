package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"})

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var decoded map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	assert.Equal(t, "world", decoded["hello"])
}

func TestWriteRawArray(t *testing.T) {
	w := httptest.NewRecorder()

	WriteRawArray(w, http.StatusOK, []json.RawMessage{
		json.RawMessage(`{"cca2":"ZA"}`),
		json.RawMessage(`{"cca2":"FR"}`),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"cca2":"ZA"},{"cca2":"FR"}]`, w.Body.String())
}

func TestWriteRawArrayEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	WriteRawArray(w, http.StatusOK, nil)
	assert.Equal(t, `[]`, w.Body.String())
}

func TestErrorHelpersMatchRestCountriesShape(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		msg    string
	}{
		{"not found", NotFound, http.StatusNotFound, "Not Found"},
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad body") }, http.StatusBadRequest, "bad body"},
		{"too large", func(w http.ResponseWriter) { TooLarge(w, "too big") }, http.StatusRequestEntityTooLarge, "too big"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom") }, http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)

			var raw map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&raw))
			assert.Equal(t, float64(tt.status), raw["status"])
			assert.Equal(t, tt.msg, raw["message"])
		})
	}
}
