// Package schemas embeds the schema documents shipped with the harness.
package schemas

import (
	"embed"

	"github.com/leca/dt-restcountries/internal/schema"
)

// DefaultFile is the schema for the restcountries /all payload.
const DefaultFile = "countries.json"

//go:embed *.json
var FS embed.FS

// Load reads the schema at path, or the embedded default when path is empty.
// Failures are *schema.LoadError and end the run before any case starts.
func Load(path string) (*schema.Document, error) {
	if path == "" {
		return schema.LoadFS(FS, DefaultFile)
	}
	return schema.Load(path)
}
