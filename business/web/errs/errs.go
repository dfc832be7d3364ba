// Package errs provides the error types handlers use to report failures
// to the error middleware, and the rules that map ledger errors to HTTP
// statuses.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Response is the body sent to a client when a request fails.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is an error whose message is safe to show the client along with
// the status the middleware responds with.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted marks the error as safe to show with the specified status.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// NewDecodeError reports a request body that couldn't be decoded.
func NewDecodeError(err error) error {
	return &Trusted{fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest}
}

// Error implements the error interface.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns the Trusted error in the chain or nil.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// Rule maps an expected error to the status a handler responds with.
// A rule with a nil target matches any error.
type Rule struct {
	Target error
	Status int
}

// On constructs a rule for errors that match target through errors.Is.
func On(target error, status int) Rule {
	return Rule{Target: target, Status: status}
}

// Otherwise constructs a rule that matches any error.
func Otherwise(status int) Rule {
	return Rule{Status: status}
}

// Classify marks the error as trusted with the status of the first rule
// that matches it. An error no rule matches is returned unchanged and the
// middleware responds with a 500.
func Classify(err error, rules ...Rule) error {
	if err == nil {
		return nil
	}

	for _, rule := range rules {
		if rule.Target == nil || errors.Is(err, rule.Target) {
			return NewTrusted(err, rule.Status)
		}
	}

	return err
}
