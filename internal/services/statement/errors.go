package statement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyStatement is returned when an upload has a header but no data rows.
	ErrEmptyStatement = errors.New("statement: no transaction rows")

	// ErrNoHeader is returned when the CSV header row cannot be read.
	ErrNoHeader = errors.New("statement: cannot read CSV header")
)

// SchemaError reports required columns absent from the statement.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("CSV missing required columns: [%s]", strings.Join(e.Missing, ", "))
}
