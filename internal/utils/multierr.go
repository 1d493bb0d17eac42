package utils

import (
	"fmt"
	"strings"
)

// MultiError collects per-item failures from a batch loop so that one bad
// shard, dump file, or query does not hide the rest.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	parts := make([]string, 0, len(m.Errors))
	for _, err := range m.Errors {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Addf records a formatted error. Arguments go through fmt.Errorf, so %w
// wrapping works.
func (m *MultiError) Addf(format string, args ...any) {
	m.Add(fmt.Errorf(format, args...))
}

// Len returns the number of collected errors.
func (m *MultiError) Len() int {
	return len(m.Errors)
}

// ErrOrNil returns the MultiError when it holds at least one error and nil
// otherwise, so callers can return it directly.
func (m *MultiError) ErrOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
