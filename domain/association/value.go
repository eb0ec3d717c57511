package association

import (
	"encoding/json"
	"math"
)

// State distinguishes why a statistic does or does not carry a number.
type State int

const (
	// NotApplicable: the input needed for the statistic was never there
	// (no table, wrong shape, chi-square not supplied).
	NotApplicable State = iota
	// Undefined: the statistic was attempted but has no value for this table
	// (zero denominator, degenerate cell).
	Undefined
	// Available: the statistic has a finite value.
	Available
)

func (s State) String() string {
	switch s {
	case Available:
		return "available"
	case Undefined:
		return "undefined"
	default:
		return "not_applicable"
	}
}

// Value is the result of one statistic.
type Value struct {
	state State
	v     float64
}

// Of wraps a computed number. Non-finite numbers are Undefined.
func Of(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{state: Undefined, v: math.NaN()}
	}
	return Value{state: Available, v: v}
}

// FromPointer wraps an optional upstream scalar; nil is NotApplicable.
func FromPointer(p *float64) Value {
	if p == nil {
		return NotApplicableValue()
	}
	return Of(*p)
}

func UndefinedValue() Value {
	return Value{state: Undefined, v: math.NaN()}
}

func NotApplicableValue() Value {
	return Value{state: NotApplicable, v: math.NaN()}
}

func (v Value) State() State { return v.state }

func (v Value) IsAvailable() bool { return v.state == Available }

// Applicable is true for both Available and Undefined values.
func (v Value) Applicable() bool { return v.state != NotApplicable }

// Float64 returns the number, or NaN when there is none.
func (v Value) Float64() float64 {
	if v.state != Available {
		return math.NaN()
	}
	return v.v
}

// Get returns the number and whether it is available.
func (v Value) Get() (float64, bool) {
	return v.Float64(), v.state == Available
}

type wireValue struct {
	State string   `json:"state"`
	Value *float64 `json:"value,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{State: v.state.String()}
	if v.state == Available {
		x := v.v
		w.Value = &x
	}
	return json.Marshal(w)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.State == "available" && w.Value != nil:
		*v = Of(*w.Value)
	case w.State == "undefined":
		*v = UndefinedValue()
	default:
		*v = NotApplicableValue()
	}
	return nil
}
