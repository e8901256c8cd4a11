//go:build conformance

package conformance

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/leca/dt-restcountries/internal/countries"
	"github.com/leca/dt-restcountries/internal/model"
)

func newClient() *countries.Client {
	cfg := countries.DefaultClientConfig()
	cfg.Timeout = timeout
	return countries.NewClient(countries.NewHTTPClient(&cfg), target)
}

// fetch performs a fresh request against the target. Every test calls it
// itself so one test's failure never hides another's result.
func fetch(t *testing.T) *model.Dataset {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ds, err := newClient().FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch %s: %v", target, err)
	}
	return ds
}

// alphaURL derives the /alpha/{code} URL from the /all target.
func alphaURL(code string) string {
	return strings.TrimSuffix(strings.TrimRight(target, "/"), "/all") + "/alpha/" + code
}

// doJSONArray performs a GET and decodes a top-level JSON array of objects.
func doJSONArray(t *testing.T, url string) (int, []map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal JSON: %v\nbody: %s", err, string(data))
	}
	return resp.StatusCode, raw
}

// assertField validates a field exists in an object and has the expected Go type.
// Returns the typed value.
func assertField[T any](t *testing.T, obj map[string]any, field string) T {
	t.Helper()
	val, ok := obj[field]
	if !ok {
		var zero T
		t.Errorf("missing field %q", field)
		return zero
	}
	typed, ok := val.(T)
	if !ok {
		var zero T
		t.Errorf("field %q: expected %T, got %T (%v)", field, zero, val, val)
		return zero
	}
	return typed
}
