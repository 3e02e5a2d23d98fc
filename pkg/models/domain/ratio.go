package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a number that may be undefined, e.g. a margin over zero revenue.
// The zero value is undefined.
type Ratio struct {
	value   float64
	defined bool
}

func DefinedRatio(v float64) Ratio {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return UndefinedRatio()
	}
	return Ratio{value: v, defined: true}
}

func UndefinedRatio() Ratio {
	return Ratio{}
}

// Divide returns num/den scaled by factor, undefined when den is zero.
func Divide(num, den, factor float64) Ratio {
	if den == 0 {
		return UndefinedRatio()
	}
	return DefinedRatio(num / den * factor)
}

func (r Ratio) Defined() bool {
	return r.defined
}

// Float64 reports the value and whether it is defined.
func (r Ratio) Float64() (float64, bool) {
	return r.value, r.defined
}

// Or returns the value, or fallback when undefined.
func (r Ratio) Or(fallback float64) float64 {
	if !r.defined {
		return fallback
	}
	return r.value
}

// Ptr returns nil for an undefined ratio.
func (r Ratio) Ptr() *float64 {
	if !r.defined {
		return nil
	}
	v := r.value
	return &v
}

// RatioFromPtr is the inverse of Ptr.
func RatioFromPtr(v *float64) Ratio {
	if v == nil {
		return UndefinedRatio()
	}
	return DefinedRatio(*v)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Ptr())
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = RatioFromPtr(v)
	return nil
}

func (r Ratio) String() string {
	if !r.defined {
		return "undefined"
	}
	return strconv.FormatFloat(r.value, 'f', -1, 64)
}
