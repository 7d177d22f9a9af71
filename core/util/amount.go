package util

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

// MinorUnitDecimals is the scale of the ledger's integer amount
// representation: 10^18 indivisible subunits per whole unit.
const MinorUnitDecimals = 18

// ToMinorUnit converts a human-decimal amount into the ledger's minor-unit
// integer representation. The conversion is exact: amounts with more than 18
// fractional digits are rejected rather than silently truncated, and negative
// amounts never cross the wire.
func ToMinorUnit(amount *apd.Decimal) (*big.Int, error) {
	if amount == nil {
		return nil, errors.New("amount is nil")
	}
	if amount.Negative {
		return nil, errors.Errorf("amount must not be negative: %s", amount.Text('f'))
	}

	var scaled apd.Decimal
	scaled.Set(amount)
	scaled.Exponent += MinorUnitDecimals

	var integ, frac apd.Decimal
	scaled.Modf(&integ, &frac)
	if !frac.IsZero() {
		return nil, errors.Errorf("amount %s exceeds minor-unit precision", amount.Text('f'))
	}

	integ.Reduce(&integ)
	// an integral decimal has a non-negative exponent after Reduce
	coeff := new(big.Int).Set(integ.Coeff.MathBigInt())
	if integ.Exponent > 0 {
		pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(integ.Exponent)), nil)
		coeff.Mul(coeff, pow)
	}
	return coeff, nil
}

// FromMinorUnit converts a minor-unit integer from the ledger back into a
// human-decimal amount. The conversion is exact for any ledger value.
func FromMinorUnit(minor *big.Int) *apd.Decimal {
	if minor == nil {
		return apd.New(0, 0)
	}
	var coeff apd.BigInt
	coeff.SetMathBigInt(minor)
	d := apd.NewWithBigInt(&coeff, -MinorUnitDecimals)
	d.Reduce(d)
	return d
}

// ParsePositiveAmount parses a user-entered amount string, requiring a
// strictly positive decimal value.
func ParsePositiveAmount(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount %q", s)
	}
	if d.Sign() <= 0 {
		return nil, errors.Errorf("amount must be positive, got %q", s)
	}
	return d, nil
}
