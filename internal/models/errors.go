package models

import (
	"fmt"
	"strings"
)

// MissingDataError is returned when required table files are absent and
// cannot be recovered (e.g. no positions chunks either)
type MissingDataError struct {
	Dir   string
	Files []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing required data in %s: %s", e.Dir, strings.Join(e.Files, ", "))
}

// FundNotFoundError is returned when a named fund lookup matched nothing
type FundNotFoundError struct {
	Query string
}

func (e *FundNotFoundError) Error() string {
	return fmt.Sprintf("fund %q not found", e.Query)
}

// EnrichmentUnavailableError wraps a failed external lookup step.
// It never leaves the enrichment service.
type EnrichmentUnavailableError struct {
	Step string
	Err  error
}

func (e *EnrichmentUnavailableError) Error() string {
	return fmt.Sprintf("enrichment step %s unavailable: %v", e.Step, e.Err)
}

func (e *EnrichmentUnavailableError) Unwrap() error {
	return e.Err
}
