package types

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"

	"github.com/s100fund/sdk-go/core/util"
)

var (
	// ErrInvalidAmount is returned when a user-entered amount does not parse
	// as a positive decimal. The intent is never submitted.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrMissingField is returned when a required intent field is empty. The
	// intent is never submitted.
	ErrMissingField = errors.New("missing required field")
)

// InvestInput is the intent to deposit currency into the fund.
type InvestInput struct {
	// Amount is the human-decimal currency amount, as entered.
	Amount string `validate:"required"`
}

// Validate runs the pre-flight checks. It is synchronous and completes before
// any network call is attempted.
func (i *InvestInput) Validate() error {
	if _, err := util.ParsePositiveAmount(i.Amount); err != nil {
		return errors.Wrapf(ErrInvalidAmount, "invest amount %q", i.Amount)
	}
	return nil
}

// ParsedAmount returns the validated amount as a decimal.
func (i *InvestInput) ParsedAmount() (*apd.Decimal, error) {
	d, err := util.ParsePositiveAmount(i.Amount)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAmount, "invest amount %q", i.Amount)
	}
	return d, nil
}

// WithdrawInput is the operator intent to move currency out of the treasury.
type WithdrawInput struct {
	// Amount is the human-decimal currency amount, as entered.
	Amount string `validate:"required"`
}

// Validate runs the pre-flight checks.
func (w *WithdrawInput) Validate() error {
	if _, err := util.ParsePositiveAmount(w.Amount); err != nil {
		return errors.Wrapf(ErrInvalidAmount, "withdraw amount %q", w.Amount)
	}
	return nil
}

// ParsedAmount returns the validated amount as a decimal.
func (w *WithdrawInput) ParsedAmount() (*apd.Decimal, error) {
	d, err := util.ParsePositiveAmount(w.Amount)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAmount, "withdraw amount %q", w.Amount)
	}
	return d, nil
}

// MintManualInput is the operator intent to issue tokens to a contributor who
// paid outside the ledger (fiat).
type MintManualInput struct {
	// Recipient is the wallet receiving the tokens.
	Recipient string `validate:"required"`
	// Amount is the token amount to issue, human-decimal.
	Amount string `validate:"required"`
	// Reason is a human-readable audit note, e.g. "Fiat payment - $2000".
	Reason string `validate:"required"`
}

// Validate requires every field present, then a positive amount and a
// well-formed recipient address.
func (m *MintManualInput) Validate() error {
	if m.Recipient == "" {
		return errors.Wrap(ErrMissingField, "recipient")
	}
	if m.Amount == "" {
		return errors.Wrap(ErrMissingField, "amount")
	}
	if m.Reason == "" {
		return errors.Wrap(ErrMissingField, "reason")
	}
	if _, err := util.NewEthereumAddressFromString(m.Recipient); err != nil {
		return errors.Wrapf(ErrMissingField, "recipient %q is not a valid address", m.Recipient)
	}
	if _, err := util.ParsePositiveAmount(m.Amount); err != nil {
		return errors.Wrapf(ErrInvalidAmount, "mint amount %q", m.Amount)
	}
	return nil
}

// ParsedAmount returns the validated token amount as a decimal.
func (m *MintManualInput) ParsedAmount() (*apd.Decimal, error) {
	d, err := util.ParsePositiveAmount(m.Amount)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAmount, "mint amount %q", m.Amount)
	}
	return d, nil
}

// ParsedRecipient returns the validated recipient address.
func (m *MintManualInput) ParsedRecipient() (util.EthereumAddress, error) {
	return util.NewEthereumAddressFromString(m.Recipient)
}
