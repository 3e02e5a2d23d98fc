package domain

import "fmt"

// PeriodKey identifies one monthly reporting period.
type PeriodKey struct {
	Year  int
	Month int
}

func (k PeriodKey) Valid() bool {
	return k.Year > 0 && k.Month >= 1 && k.Month <= 12
}

// Before orders keys by (year, month).
func (k PeriodKey) Before(other PeriodKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}
