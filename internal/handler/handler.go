package handler

import "github.com/leca/dt-restcountries/internal/database"

// maxSeedBytes caps the size of a dataset posted to the control plane.
const maxSeedBytes = 32 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	DB database.Database
}
