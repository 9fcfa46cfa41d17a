// Package pricing keeps a derived price (used-item resale, buyback
// offer) consistent with a reference price and a percentage.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidPercentage = errors.New("percentage out of range")

// State tells whether the derived price is still a pure function of
// reference x percentage or has been hand-adjusted by an operator.
type State int

const (
	Derived State = iota
	Overridden
)

func (s State) String() string {
	if s == Overridden {
		return "overridden"
	}
	return "derived"
}

// Policy bounds the accepted percentage. The default clamp is [0, 100];
// deployments that want markups above 100% widen Max explicitly.
type Policy struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{Min: decimal.Zero, Max: decimal.NewFromInt(100)}
}

func (p Policy) check(pct decimal.Decimal) error {
	if pct.LessThan(p.Min) || pct.GreaterThan(p.Max) {
		return ErrInvalidPercentage
	}
	return nil
}

// round2 rounds to two decimal places, half away from zero.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Derive computes ref * pct / 100 rounded to cents, validating pct
// against the policy first.
func Derive(ref, pct decimal.Decimal, policy Policy) (decimal.Decimal, error) {
	if err := policy.check(pct); err != nil {
		return decimal.Zero, err
	}
	return round2(ref.Mul(pct).Div(decimal.NewFromInt(100))), nil
}

// Deriver holds one reference/percentage/derived triple. Zero value is
// not usable; construct with New.
type Deriver struct {
	policy     Policy
	reference  decimal.Decimal
	percentage decimal.Decimal
	derived    decimal.Decimal
	state      State
}

func New(percentage decimal.Decimal, policy Policy) (*Deriver, error) {
	if err := policy.check(percentage); err != nil {
		return nil, err
	}
	return &Deriver{policy: policy, percentage: percentage}, nil
}

// SetReferencePrice stores the new reference and recomputes the derived
// price. Any manual override is discarded, even when the value did not
// change.
func (d *Deriver) SetReferencePrice(ref decimal.Decimal) {
	d.reference = ref
	d.recompute()
}

// SetPercentage validates and stores the new percentage, then
// recomputes. Overrides are discarded like SetReferencePrice.
func (d *Deriver) SetPercentage(pct decimal.Decimal) error {
	if err := d.policy.check(pct); err != nil {
		return err
	}
	d.percentage = pct
	d.recompute()
	return nil
}

// SetDerivedPrice hand-adjusts the derived price without touching the
// reference or percentage. The value persists until the next reference
// or percentage edit.
func (d *Deriver) SetDerivedPrice(v decimal.Decimal) {
	d.derived = round2(v)
	d.state = Overridden
}

func (d *Deriver) recompute() {
	d.derived = round2(d.reference.Mul(d.percentage).Div(decimal.NewFromInt(100)))
	d.state = Derived
}

func (d *Deriver) ReferencePrice() decimal.Decimal { return d.reference }
func (d *Deriver) Percentage() decimal.Decimal     { return d.percentage }
func (d *Deriver) DerivedPrice() decimal.Decimal   { return d.derived }
func (d *Deriver) State() State                    { return d.state }

// ApplyPercentage recomputes one derived price per reference,
// independently per entry. It fails before producing any result when
// the percentage is out of policy.
func ApplyPercentage(refs []decimal.Decimal, pct decimal.Decimal, policy Policy) ([]decimal.Decimal, error) {
	if err := policy.check(pct); err != nil {
		return nil, err
	}
	out := make([]decimal.Decimal, len(refs))
	for i, ref := range refs {
		out[i] = round2(ref.Mul(pct).Div(decimal.NewFromInt(100)))
	}
	return out, nil
}
