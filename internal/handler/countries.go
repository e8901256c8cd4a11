package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leca/dt-restcountries/internal/api"
	"github.com/leca/dt-restcountries/internal/database"
)

// ListAll handles GET /v3.1/all.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	records, err := h.DB.ListCountries()
	if err != nil {
		slog.Error("list countries", "error", err)
		api.InternalError(w, "failed to list countries")
		return
	}
	api.WriteRawArray(w, http.StatusOK, records)
}

// GetByCode handles GET /v3.1/alpha/{code}. Like the real API it answers
// with a one-element array.
func (h *Handler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	rec, err := h.DB.GetCountry(code)
	if errors.Is(err, database.ErrNotFound) {
		api.NotFound(w)
		return
	}
	if err != nil {
		slog.Error("get country", "code", code, "error", err)
		api.InternalError(w, "failed to get country")
		return
	}
	api.WriteRawArray(w, http.StatusOK, []json.RawMessage{rec})
}

// ReplaceCountries handles PUT /_twin/countries. The body is the JSON array
// the twin serves from then on.
func (h *Handler) ReplaceCountries(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSeedBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.TooLarge(w, "dataset exceeds size limit")
			return
		}
		api.BadRequest(w, "failed to read body: "+err.Error())
		return
	}

	records, err := database.SplitArray(body)
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}
	if err := h.DB.ReplaceCountries(records); err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	slog.Info("dataset replaced", "count", len(records))
	api.WriteJSON(w, http.StatusOK, map[string]int{"count": len(records)})
}
