package usecase

import (
	"encoding/json"
	"fmt"
	"os"

	xhttp "StockCast/pkg/http"
)

// Companies serves the static companies list backing the frontend picker.
type Companies struct {
	path string
}

// NewCompanies creates the companies reader for the configured file.
func NewCompanies(path string) *Companies {
	return &Companies{path: path}
}

// List returns the raw companies JSON. The file is the source of truth; it is
// re-read per request so edits show up without a restart.
func (c *Companies) List() (json.RawMessage, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xhttp.NotFoundError("companies.json not found")
		}
		return nil, xhttp.InternalError(fmt.Sprintf("read companies list: %v", err))
	}
	if !json.Valid(b) {
		return nil, xhttp.InternalError("companies list is not valid JSON")
	}
	return b, nil
}
