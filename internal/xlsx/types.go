package xlsx

import (
	"errors"

	"github.com/fuabioo/gridq/internal/grid"
)

// Error types
var (
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileExists      = errors.New("file already exists")
	ErrNoHeader        = errors.New("sheet has no header row")
	ErrDuplicateHeader = errors.New("duplicate header")
)

// DefaultSheetName is used when writing without an explicit sheet
const DefaultSheetName = "Sheet1"

// Sheet is a worksheet read as a row collection.
// The first worksheet row supplies the field names.
type Sheet struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Rows    grid.Collection `json:"rows"`
}
