// Package contract holds the assertions the harness runs against a fetched
// country dataset.
package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leca/dt-restcountries/internal/model"
	"github.com/leca/dt-restcountries/internal/schema"
)

// ExpectedCountryCount is the literal number of records the endpoint must
// return. It is not derived from anything: when the real-world count changes
// the cardinality check is meant to start failing.
const ExpectedCountryCount = 195

const (
	TargetCountryCode = "ZA"
	TargetLanguage    = "South African Sign Language"
)

// Case names one assertion category.
type Case string

const (
	CaseCardinality Case = "cardinality"
	CaseLanguage    Case = "language"
	CaseSchema      Case = "schema"
)

// AssertionError reports a failed check together with what was observed.
type AssertionError struct {
	Case     Case
	Message  string
	Expected any
	Actual   any

	// Violations is set by the schema check.
	Violations []schema.Violation
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s check failed: %s", e.Case, e.Message)
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// ErrNoSchema is returned by CheckSchema when no document was loaded.
var ErrNoSchema = errors.New("no schema document loaded")

// CheckCardinality fails unless the dataset holds exactly want records.
func CheckCardinality(ds *model.Dataset, want int) error {
	got := ds.Len()
	if got != want {
		return &AssertionError{
			Case:     CaseCardinality,
			Message:  fmt.Sprintf("expected %d countries, got %d", want, got),
			Expected: want,
			Actual:   got,
		}
	}
	return nil
}

// CheckLanguage finds the single record whose cca2 equals code and fails
// unless language is one of its language names. Zero or several records with
// that code is a failure.
func CheckLanguage(ds *model.Dataset, code, language string) error {
	matches := ds.FindByCode(code)
	switch len(matches) {
	case 0:
		return &AssertionError{
			Case:     CaseLanguage,
			Message:  fmt.Sprintf("no country with cca2 %q", code),
			Expected: 1,
			Actual:   0,
		}
	case 1:
	default:
		return &AssertionError{
			Case:     CaseLanguage,
			Message:  fmt.Sprintf("%d countries share cca2 %q", len(matches), code),
			Expected: 1,
			Actual:   len(matches),
		}
	}

	country := matches[0]
	if !country.HasLanguage(language) {
		names := country.LanguageNames()
		return &AssertionError{
			Case:     CaseLanguage,
			Message:  fmt.Sprintf("%q not among languages of %s: %q", language, code, names),
			Expected: language,
			Actual:   names,
		}
	}
	return nil
}

// CheckSchema validates the raw payload against doc and fails with the full
// violation list.
func CheckSchema(doc *schema.Document, ds *model.Dataset) error {
	if doc == nil || doc.Root == nil {
		return ErrNoSchema
	}
	var raw any
	if ds != nil {
		raw = ds.Raw
	}
	res := schema.Validate(doc, raw)
	if res.Conforms() {
		return nil
	}

	source := "schema"
	if doc.Source != "" {
		source = doc.Source
	}
	return &AssertionError{
		Case:       CaseSchema,
		Message:    fmt.Sprintf("payload does not conform to %s: %d violation(s)", source, len(res.Violations)),
		Expected:   "conforms",
		Actual:     len(res.Violations),
		Violations: res.Violations,
	}
}
