// Package fees converts user-entered transfer amounts into exact base-unit
// values and derives the fee and total to send.
package fees

import (
	"context"

	"github.com/pkg/errors"

	"github.com/serolight/walletdash/internal/domain"
	"github.com/serolight/walletdash/pkg/numeric"
)

// GasLimit is the fixed gas allowance for a plain transfer. The daemon uses
// the same constant, so fee previews match what gets charged.
const GasLimit = 250000

// Compute derives the fee and total for the transfer form. Both inputs are
// display-unit decimal strings typed by the user. Anything non-positive or
// non-numeric collapses to the zero display for the selected currency; the
// form shows "0.000000 <currency>" rather than an error while the user is
// still typing.
func Compute(amount, gasPrice, currency string) domain.FeePreview {
	zero := numeric.Zero().DisplayString() + " " + currency

	amountBase, gasBase, err := toBaseUnits(amount, gasPrice)
	if err != nil {
		return domain.FeePreview{Fee: zero, Total: zero}
	}

	fee := gasBase.Mul(numeric.FromInt(GasLimit))
	total := fee.Add(amountBase)

	return domain.FeePreview{
		Fee:   fee.ToDisplay().DisplayString() + " " + currency,
		Total: total.ToDisplay().DisplayString() + " " + currency,
	}
}

// toBaseUnits parses both form fields and scales them to base units:
// amount ×10^18, gas price ×10^9.
func toBaseUnits(amount, gasPrice string) (numeric.Value, numeric.Value, error) {
	av, err := numeric.FromString(amount)
	if err != nil {
		return numeric.Value{}, numeric.Value{}, err
	}
	gv, err := numeric.FromString(gasPrice)
	if err != nil {
		return numeric.Value{}, numeric.Value{}, err
	}
	if !av.IsPositive() || !gv.IsPositive() {
		return numeric.Value{}, numeric.Value{}, errors.Wrap(numeric.ErrInvalidNumericInput, "amount and gas price must be positive")
	}
	return av.ToBase(), gv.ToGasBase(), nil
}

// BuildTransfer re-derives the base-unit values the same way Compute does and
// assembles the wire request. Magnitudes go out as integer strings, never
// floats.
func BuildTransfer(from, to, currency, amount, gasPrice string) (domain.TransferRequest, error) {
	amountBase, gasBase, err := toBaseUnits(amount, gasPrice)
	if err != nil {
		return domain.TransferRequest{}, err
	}
	return domain.TransferRequest{
		From:     from,
		To:       to,
		Currency: currency,
		Amount:   amountBase.BaseUnitString(),
		GasPrice: gasBase.BaseUnitString(),
	}, nil
}

type transferAPI interface {
	Transfer(ctx context.Context, req domain.TransferRequest) (string, error)
}

// Submitter hands completed transfer requests to the daemon.
type Submitter struct {
	client transferAPI
}

// NewSubmitter creates a Submitter backed by the wallet client.
func NewSubmitter(client transferAPI) *Submitter {
	return &Submitter{client: client}
}

// Submit validates the form, builds the request and sends it. The returned
// preview is what the confirmation dialog showed at submission time.
func (s *Submitter) Submit(ctx context.Context, from, to, currency, amount, gasPrice string) (string, domain.FeePreview, error) {
	req, err := BuildTransfer(from, to, currency, amount, gasPrice)
	if err != nil {
		return "", domain.FeePreview{}, err
	}
	preview := Compute(amount, gasPrice, currency)

	hash, err := s.client.Transfer(ctx, req)
	if err != nil {
		return "", preview, err
	}
	return hash, preview, nil
}
