// Package errs is the only place that imports cockroachdb/errors. Everything
// else wraps, marks and inspects errors through these helpers.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Wrap annotates err with msg and captures a stack trace at the call site.
// A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// New creates an error with a stack trace attached.
func New(msg string) error {
	return cr.New(msg)
}

// Mark makes err match markErr under errors.Is while keeping err's own
// message and stack. Layers use it to surface sentinel errors without
// flattening the cause chain.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// ExtractStackLines renders err verbosely and returns at most maxLines of
// the result. The request logger attaches this to 5xx responses.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
