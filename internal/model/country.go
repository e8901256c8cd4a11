package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// CountryName holds the name block of a restcountries record.
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Country is a single record from the restcountries /all endpoint.
// Only the fields the harness inspects are typed; every other key is kept
// verbatim in Extra so that a record survives a JSON round trip.
type Country struct {
	CCA2      string            `json:"cca2"`
	CCA3      string            `json:"cca3,omitempty"`
	Name      CountryName       `json:"name"`
	Region    string            `json:"region,omitempty"`
	Subregion string            `json:"subregion,omitempty"`
	Languages map[string]string `json:"languages,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownFields lists the JSON keys decoded into typed fields of Country.
var knownFields = map[string]struct{}{
	"cca2":      {},
	"cca3":      {},
	"name":      {},
	"region":    {},
	"subregion": {},
	"languages": {},
}

// countryFields is Country without its methods, used to avoid recursion in
// the custom (un)marshalers.
type countryFields Country

// UnmarshalJSON decodes the typed fields and captures all remaining keys in Extra.
func (c *Country) UnmarshalJSON(data []byte) error {
	var typed countryFields
	if err := json.Unmarshal(data, &typed); err != nil {
		return fmt.Errorf("decode country: %w", err)
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return fmt.Errorf("decode country: %w", err)
	}

	for k := range knownFields {
		delete(all, k)
	}
	if len(all) > 0 {
		typed.Extra = all
	}

	*c = Country(typed)
	return nil
}

// MarshalJSON writes the typed fields followed by the pass-through keys.
// Typed fields win if Extra carries the same key.
func (c Country) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(countryFields(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return typed, nil
	}

	merged := make(map[string]json.RawMessage, len(c.Extra)+len(knownFields))
	for k, v := range c.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(typed, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// LanguageNames returns the values of the languages mapping in sorted order.
func (c Country) LanguageNames() []string {
	names := make([]string, 0, len(c.Languages))
	for _, name := range c.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasLanguage reports whether name is one of the language names (not codes).
func (c Country) HasLanguage(name string) bool {
	for _, v := range c.Languages {
		if v == name {
			return true
		}
	}
	return false
}
