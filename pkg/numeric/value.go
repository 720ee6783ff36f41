// Package numeric provides exact scaled-integer arithmetic for currency
// magnitudes. Balances and fees travel the wire as base-unit integer strings
// (10^18 base units per display unit); this package keeps every conversion in
// arbitrary-precision decimals so no magnitude ever touches a float.
package numeric

import (
	"github.com/ethereum/go-ethereum/params"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidNumericInput marks a literal that does not parse as a base-10 decimal.
var ErrInvalidNumericInput = errors.New("invalid numeric input")

// DisplayPrecision is the number of fractional digits shown for any amount.
const DisplayPrecision = 6

// divPrecision bounds general division. Scales used here are powers of ten,
// so results stay exact well past 10^30 base units.
const divPrecision = 60

var (
	baseScale = decimal.NewFromInt(params.Ether)
	gasScale  = decimal.NewFromInt(params.GWei)
)

// BaseScale is the number of base units per display unit.
func BaseScale() Value {
	return Value{d: baseScale}
}

// GasScale is the number of base units per gas-price unit.
func GasScale() Value {
	return Value{d: gasScale}
}

// Value is an immutable arbitrary-precision decimal amount.
type Value struct {
	d decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Value {
	return Value{}
}

// FromString parses a base-10 decimal literal.
func FromString(s string) (Value, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Value{}, errors.Wrapf(ErrInvalidNumericInput, "parse %q", s)
	}
	return Value{d: d}, nil
}

// FromBaseString parses a base-unit integer magnitude as reported by the wallet daemon.
func FromBaseString(s string) (Value, error) {
	return FromString(s)
}

// FromInt builds a Value from an integer literal.
func FromInt(i int64) Value {
	return Value{d: decimal.NewFromInt(i)}
}

func (v Value) Add(o Value) Value {
	return Value{d: v.d.Add(o.d)}
}

func (v Value) Sub(o Value) Value {
	return Value{d: v.d.Sub(o.d)}
}

func (v Value) Mul(o Value) Value {
	return Value{d: v.d.Mul(o.d)}
}

// DivScale divides by the given scale without degrading to native floats.
func (v Value) DivScale(scale Value) Value {
	return Value{d: v.d.DivRound(scale.d, divPrecision)}
}

// ToDisplay converts a base-unit magnitude to display units (÷10^18).
// Implemented as an exponent shift, so it is exact for any magnitude.
func (v Value) ToDisplay() Value {
	return Value{d: v.d.Shift(-18)}
}

// ToBase converts a display-unit amount to base units (×10^18).
func (v Value) ToBase() Value {
	return Value{d: v.d.Shift(18)}
}

// ToGasBase converts a gas price quoted in gas units to base units (×10^9).
func (v Value) ToGasBase() Value {
	return Value{d: v.d.Shift(9)}
}

// IsPositive reports whether v > 0.
func (v Value) IsPositive() bool {
	return v.d.IsPositive()
}

func (v Value) Equal(o Value) bool {
	return v.d.Equal(o.d)
}

// FixedString renders v with exactly prec fractional digits, truncating toward
// zero. Display convention never rounds up.
func (v Value) FixedString(prec int32) string {
	return v.d.Truncate(prec).StringFixed(prec)
}

// DisplayString renders v at the standard display precision.
func (v Value) DisplayString() string {
	return v.FixedString(DisplayPrecision)
}

// BaseUnitString renders v as an integer base-unit magnitude for the wire.
func (v Value) BaseUnitString() string {
	return v.d.Truncate(0).String()
}

func (v Value) String() string {
	return v.d.String()
}
