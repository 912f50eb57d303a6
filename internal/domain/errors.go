package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoObservations = errors.New("no rate observations")
	ErrRateMissing    = errors.New("currency is absent in upstream payload")
)

// NotSupportedError is returned when a currency code has no registered
// source. It carries the supported set for caller-facing error messages.
type NotSupportedError struct {
	Code      string
	Supported []string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("currency %q is not supported, available: %s", e.Code, strings.Join(e.Supported, ", "))
}
