package fees

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/serolight/walletdash/internal/domain"
)

func TestComputeFeeAndTotal(t *testing.T) {
	preview := Compute("1", "1", "SERO")
	require.Equal(t, "0.000250 SERO", preview.Fee)
	require.Equal(t, "1.000250 SERO", preview.Total)
}

func TestComputeFractionalInputs(t *testing.T) {
	preview := Compute("0.5", "2", "SERO")
	require.Equal(t, "0.000500 SERO", preview.Fee)
	require.Equal(t, "0.500500 SERO", preview.Total)
}

func TestComputeZeroDefaultsOnBadInput(t *testing.T) {
	cases := []struct {
		amount   string
		gasPrice string
	}{
		{"0", "1"},
		{"1", "0"},
		{"-1", "1"},
		{"abc", "1"},
		{"1", ""},
		{"", ""},
	}

	for _, c := range cases {
		preview := Compute(c.amount, c.gasPrice, "SERO")
		require.Equal(t, "0.000000 SERO", preview.Fee, "amount=%q gas=%q", c.amount, c.gasPrice)
		require.Equal(t, "0.000000 SERO", preview.Total, "amount=%q gas=%q", c.amount, c.gasPrice)
	}
}

func TestComputeUsesSelectedCurrency(t *testing.T) {
	preview := Compute("nonsense", "1", "TKN")
	require.Equal(t, "0.000000 TKN", preview.Fee)
	require.Equal(t, "0.000000 TKN", preview.Total)
}

func TestBuildTransferEmitsBaseUnitStrings(t *testing.T) {
	req, err := BuildTransfer("pk1", "pkr9", "SERO", "1", "1")
	require.NoError(t, err)
	require.Equal(t, domain.TransferRequest{
		From:     "pk1",
		To:       "pkr9",
		Currency: "SERO",
		Amount:   "1000000000000000000",
		GasPrice: "1000000000",
	}, req)
}

func TestBuildTransferRejectsBadInput(t *testing.T) {
	_, err := BuildTransfer("pk1", "pkr9", "SERO", "0", "1")
	require.Error(t, err)

	_, err = BuildTransfer("pk1", "pkr9", "SERO", "1", "oops")
	require.Error(t, err)
}

type fakeTransfer struct {
	sent domain.TransferRequest
	hash string
	err  error
}

func (f *fakeTransfer) Transfer(_ context.Context, req domain.TransferRequest) (string, error) {
	f.sent = req
	return f.hash, f.err
}

func TestSubmitterRederivesAndSends(t *testing.T) {
	backend := &fakeTransfer{hash: "0xhash"}
	sub := NewSubmitter(backend)

	hash, preview, err := sub.Submit(context.Background(), "pk1", "pkr9", "SERO", "2", "1")
	require.NoError(t, err)
	require.Equal(t, "0xhash", hash)
	require.Equal(t, "0.000250 SERO", preview.Fee)
	require.Equal(t, "2.000250 SERO", preview.Total)
	require.Equal(t, "2000000000000000000", backend.sent.Amount)
	require.Equal(t, "1000000000", backend.sent.GasPrice)
}

func TestSubmitterRejectsBeforeCallingBackend(t *testing.T) {
	backend := &fakeTransfer{}
	sub := NewSubmitter(backend)

	_, _, err := sub.Submit(context.Background(), "pk1", "pkr9", "SERO", "-3", "1")
	require.Error(t, err)
	require.Empty(t, backend.sent.Amount)
}
