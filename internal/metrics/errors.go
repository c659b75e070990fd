package metrics

import (
	"fmt"

	"fundpanel/internal/panel"
)

// UsageError reports an invalid engine parameter. It is returned immediately
// to the caller and names the offending parameter; numeric degeneracy never
// produces a UsageError, it yields missing values in the output instead.
type UsageError struct {
	Param  string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

func usageErrf(param, format string, args ...any) error {
	return &UsageError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// requireColumns checks that every named column exists on the table.
func requireColumns(t *panel.Table, param string, cols ...string) error {
	if len(cols) == 0 {
		return usageErrf(param, "at least one column is required")
	}
	for _, c := range cols {
		if c == "" {
			return usageErrf(param, "empty column name")
		}
		if !t.HasColumn(c) {
			return usageErrf(param, "column %q not present in table", c)
		}
	}
	return nil
}
