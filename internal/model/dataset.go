package model

// Dataset is the result of one fetch of the countries endpoint.
//
// Countries preserves the order the remote source returned. Raw holds the
// same payload decoded as generic JSON (numbers as json.Number) so it can be
// checked against a schema without assuming it already has the right shape.
// A Dataset is a snapshot and is never modified after it is built.
type Dataset struct {
	Countries []Country
	Raw       any
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Countries)
}

// FindByCode returns every record whose cca2 equals code. Callers decide
// what zero or several matches mean.
func (d *Dataset) FindByCode(code string) []Country {
	if d == nil {
		return nil
	}
	var matches []Country
	for _, c := range d.Countries {
		if c.CCA2 == code {
			matches = append(matches, c)
		}
	}
	return matches
}
