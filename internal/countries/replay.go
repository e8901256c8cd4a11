package countries

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/leca/dt-restcountries/internal/model"
)

// Replay decodes a stored payload instead of calling the endpoint. It opens
// the payload afresh on every call, like Client issues a fresh request.
type Replay struct {
	// Source names the payload in errors, e.g. a snapshot run ID.
	Source string
	Open   func() (io.ReadCloser, error)
}

// FetchAll reads and decodes the stored payload.
func (r *Replay) FetchAll(ctx context.Context) (*model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := r.Open()
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", r.Source, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", r.Source, err)
	}

	ds, err := Decode(body)
	if err != nil {
		var mre *MalformedResponseError
		if errors.As(err, &mre) {
			mre.Endpoint = r.Source
		}
		return nil, err
	}
	return ds, nil
}
