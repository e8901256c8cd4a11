package countries

import "fmt"

// maxExcerpt bounds how much of an offending body is kept for diagnostics.
const maxExcerpt = 256

// NetworkError is returned when the request to the countries endpoint could
// not be completed: DNS failure, refused connection, timeout, cancelled
// context or a body that could not be read to the end.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when the endpoint answered but the
// response is not a 200 carrying a JSON array of objects.
type MalformedResponseError struct {
	Endpoint   string
	StatusCode int
	Reason     string
	Excerpt    string
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed response from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Reason)
	if e.Excerpt != "" {
		msg += fmt.Sprintf("\nbody: %s", e.Excerpt)
	}
	return msg
}

func excerpt(body []byte) string {
	if len(body) <= maxExcerpt {
		return string(body)
	}
	return string(body[:maxExcerpt]) + "..."
}
