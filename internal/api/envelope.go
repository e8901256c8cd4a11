package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the error shape restcountries returns, e.g.
// {"status":404,"message":"Not Found"}.
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// WriteJSON serialises resp as JSON and writes it to w with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, status int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("WriteJSON: failed to encode response: %v", err)
	}
}

// WriteRawArray writes records as a JSON array without re-encoding them.
func WriteRawArray(w http.ResponseWriter, status int, records []json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := make([]byte, 0, 2+len(records)*512)
	buf = append(buf, '[')
	for i, rec := range records {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, rec...)
	}
	buf = append(buf, ']')

	if _, err := w.Write(buf); err != nil {
		log.Printf("WriteRawArray: failed to write response: %v", err)
	}
}

// WriteError writes a restcountries style error body.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Status: status, Message: message})
}
