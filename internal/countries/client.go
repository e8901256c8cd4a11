// Package countries fetches the full country dataset from a restcountries
// style endpoint. A Client issues exactly one GET per call and never retries.
package countries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leca/dt-restcountries/internal/model"
	"github.com/tidwall/gjson"
)

// DefaultEndpoint is the public "all countries" endpoint.
const DefaultEndpoint = "https://restcountries.com/v3.1/all"

// Client fetches country datasets from a fixed endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient returns a Client that sends requests through httpClient to
// endpoint. A nil httpClient gets NewHTTPClient(nil); an empty endpoint
// means DefaultEndpoint.
func NewClient(httpClient *http.Client, endpoint string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(nil)
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{httpClient: httpClient, endpoint: endpoint}
}

// Endpoint returns the URL the client fetches.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchAll performs one GET against the endpoint and decodes the body into
// a Dataset. Errors are *NetworkError or *MalformedResponseError.
func (c *Client) FetchAll(ctx context.Context) (*model.Dataset, error) {
	body, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := Decode(body)
	if err != nil {
		var mre *MalformedResponseError
		if errors.As(err, &mre) {
			mre.Endpoint = c.endpoint
			mre.StatusCode = http.StatusOK
		}
		return nil, err
	}
	return ds, nil
}

// FetchRaw performs one GET and returns the body once the status is 200.
// The body is not decoded.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &NetworkError{Endpoint: c.endpoint, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: c.endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &MalformedResponseError{
			Endpoint:   c.endpoint,
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("unexpected status %d, want 200", resp.StatusCode),
			Excerpt:    excerpt(body),
		}
	}
	return body, nil
}

// Decode parses a response body into a Dataset. The body must be a JSON
// array whose elements are all objects.
//
// Records whose typed fields do not decode (for example a numeric cca2) are
// kept with every key in Extra so the schema check can still report them.
func Decode(body []byte) (*model.Dataset, error) {
	if !gjson.ValidBytes(body) {
		return nil, &MalformedResponseError{Reason: "body is not valid JSON", Excerpt: excerpt(body)}
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, &MalformedResponseError{
			Reason:  fmt.Sprintf("top-level value is %s, want array", kindOf(root)),
			Excerpt: excerpt(body),
		}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("decode array: %v", err), Excerpt: excerpt(body)}
	}

	raw := make([]any, 0, len(elems))
	out := make([]model.Country, 0, len(elems))
	for i, elem := range elems {
		if r := gjson.ParseBytes(elem); !r.IsObject() {
			return nil, &MalformedResponseError{
				Reason:  fmt.Sprintf("element %d is %s, want object", i, kindOf(r)),
				Excerpt: excerpt(elem),
			}
		}

		generic, err := decodeGeneric(elem)
		if err != nil {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("decode element %d: %v", i, err)}
		}
		raw = append(raw, generic)
		out = append(out, decodeCountry(elem))
	}

	return &model.Dataset{Countries: out, Raw: raw}, nil
}

func decodeGeneric(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeCountry falls back to a record carrying every key in Extra when the
// typed fields do not decode. String codes and a well-formed languages map
// are still lifted so code lookups see the record.
func decodeCountry(data []byte) model.Country {
	var c model.Country
	if err := json.Unmarshal(data, &c); err == nil {
		return c
	}
	var all map[string]json.RawMessage
	_ = json.Unmarshal(data, &all)
	c = model.Country{Extra: all}

	if v := gjson.GetBytes(data, "cca2"); v.Type == gjson.String {
		c.CCA2 = v.Str
	}
	if v := gjson.GetBytes(data, "cca3"); v.Type == gjson.String {
		c.CCA3 = v.Str
	}
	if v := gjson.GetBytes(data, "languages"); v.IsObject() {
		var langs map[string]string
		if err := json.Unmarshal([]byte(v.Raw), &langs); err == nil {
			c.Languages = langs
		}
	}
	return c
}

// kindOf names the JSON kind of a gjson result for error messages.
func kindOf(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	}
	switch r.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Null:
		return "null"
	}
	return "unknown"
}
