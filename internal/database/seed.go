package database

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// SplitArray breaks a JSON array payload into its raw elements.
func SplitArray(payload []byte) ([]json.RawMessage, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	if !gjson.ParseBytes(payload).IsArray() {
		return nil, fmt.Errorf("payload is not a JSON array")
	}
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}
	return records, nil
}

// Seed replaces the dataset with the records of a JSON array payload and
// returns how many were stored.
func Seed(db Database, payload []byte) (int, error) {
	records, err := SplitArray(payload)
	if err != nil {
		return 0, err
	}
	if err := db.ReplaceCountries(records); err != nil {
		return 0, err
	}
	return len(records), nil
}
