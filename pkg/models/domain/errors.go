package domain

import "fmt"

// DataValidationError reports a source row whose period key is unusable.
type DataValidationError struct {
	Source Metric
	Row    int
	Key    PeriodKey
	Reason string
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("invalid %s row %d (period %d/%d): %s", e.Source, e.Row, e.Key.Year, e.Key.Month, e.Reason)
}

// LoadError reports a loader that could not supply a source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
