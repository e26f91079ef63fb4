package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedImport is returned when an @import directive is not quoted.
	ErrMalformedImport = errors.New("@import path must be quoted")
	// ErrImportRead wraps a failure of the file reader.
	ErrImportRead = errors.New("import read failed")
	// ErrImportCycle is returned when a document imports itself, directly or not.
	ErrImportCycle = errors.New("import cycle")
	// ErrImportDepth is returned when imports nest deeper than the configured limit.
	ErrImportDepth = errors.New("import depth exceeded")
)

// ImportError describes a failed @import directive.
type ImportError struct {
	Directive string   // raw directive text after the keyword
	Path      string   // resolved path, empty if the directive was malformed
	Chain     []string // paths of the importing documents, outermost first
	Err       error
}

func (e *ImportError) Error() string {
	var sb strings.Builder
	sb.WriteString("import")
	if e.Path != "" {
		sb.WriteString(" " + e.Path)
	} else {
		sb.WriteString(fmt.Sprintf(" %q", strings.TrimSpace(e.Directive)))
	}
	if len(e.Chain) > 0 {
		sb.WriteString(" (via " + strings.Join(e.Chain, " -> ") + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
