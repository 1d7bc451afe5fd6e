package chem

import "github.com/ctessum/unit"

// Concentration wraps an element's start_concentration as a dimensionless
// ctessum/unit quantity rather than a bare float64, so that declared
// fractions carry their (trivial) dimension like any other physical
// quantity in the system.
type Concentration struct {
	u *unit.Unit
}

// NewConcentration wraps a fraction in [0,1].
func NewConcentration(fraction float64) Concentration {
	return Concentration{u: unit.New(fraction, unit.Dimensions{})}
}

// Value returns the bare fraction.
func (c Concentration) Value() float64 {
	if c.u == nil {
		return 0
	}
	return c.u.Value()
}
