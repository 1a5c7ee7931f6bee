package report

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the failures that can occur during an upload run.
type Kind int

const (
	Unknown Kind = iota
	Authentication
	FileDecoding
	Row
	CatalogFetch
	ResourceCreation
	Transport
)

var kinds = map[Kind]string{
	Unknown:          "unknown",
	Authentication:   "authentication",
	FileDecoding:     "file decoding",
	Row:              "row",
	CatalogFetch:     "catalog fetch",
	ResourceCreation: "resource creation",
	Transport:        "transport",
}

func (k Kind) String() string {
	if s, ok := kinds[k]; ok {
		return s
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Fatal returns true for the failures that abort an upload run. Transport errors only surface from the
// token exchange, where there is nothing left to do without a token.
func (k Kind) Fatal() bool {
	switch k {
	case Authentication, FileDecoding, Transport:
		return true

	default:
		return false
	}
}

// Error is the error type returned by the ingestor and the HaloPSA client. Status and Body are only
// set for failures that carry an HTTP response.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Op)

	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}

	if body := strings.TrimSpace(e.Body); body != "" {
		fmt.Fprintf(&b, " → %s", body)
	} else if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first report.Error in the error chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Unknown
}

// IsFatal returns true if err should abort an upload run. Errors that are not a report.Error are
// treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Fatal()
	}

	return true
}
