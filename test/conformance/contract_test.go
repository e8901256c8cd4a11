//go:build conformance

package conformance

import (
	"net/http"
	"testing"

	"github.com/leca/dt-restcountries/internal/contract"
)

func TestAllConformsToSchema(t *testing.T) {
	ds := fetch(t)

	if err := contract.CheckSchema(doc, ds); err != nil {
		t.Fatal(err)
	}
}

func TestAllCardinality(t *testing.T) {
	ds := fetch(t)

	if err := contract.CheckCardinality(ds, opts.ExpectedCount); err != nil {
		t.Fatal(err)
	}
}

func TestTargetCountryListsLanguage(t *testing.T) {
	ds := fetch(t)

	if err := contract.CheckLanguage(ds, opts.CountryCode, opts.Language); err != nil {
		t.Fatal(err)
	}
}

func TestAlphaLookupShape(t *testing.T) {
	status, records := doJSONArray(t, alphaURL(opts.CountryCode))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(records) == 0 {
		t.Fatal("expected at least one record")
	}

	rec := records[0]
	if got := assertField[string](t, rec, "cca2"); got != opts.CountryCode {
		t.Errorf("cca2: expected %q, got %q", opts.CountryCode, got)
	}
	assertField[string](t, rec, "cca3")
	assertField[string](t, rec, "region")

	name := assertField[map[string]any](t, rec, "name")
	if name != nil {
		assertField[string](t, name, "common")
		assertField[string](t, name, "official")
	}

	langs := assertField[map[string]any](t, rec, "languages")
	found := false
	for _, v := range langs {
		if s, ok := v.(string); ok && s == opts.Language {
			found = true
		}
	}
	if !found {
		t.Errorf("languages %v do not include %q", langs, opts.Language)
	}
}

func TestAlphaUnknownCode(t *testing.T) {
	status, _ := doJSONArray(t, alphaURL("QQQ"))
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}
