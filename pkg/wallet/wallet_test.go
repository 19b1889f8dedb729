package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

func TestApprove(t *testing.T) {
	ctx := context.Background()
	req := SignRequest{Chain: "ETH", Address: "0xabc", Message: []byte("m")}

	require.NoError(t, Approve(ctx, nil, req))

	decline := func(context.Context, SignRequest) (bool, error) { return false, nil }
	assert.ErrorIs(t, Approve(ctx, decline, req), ErrUserRejected)

	boom := errors.New("prompt closed")
	failing := func(context.Context, SignRequest) (bool, error) { return false, boom }
	err := Approve(ctx, failing, req)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrUserRejected))

	var seen SignRequest
	capture := func(_ context.Context, r SignRequest) (bool, error) { seen = r; return true, nil }
	require.NoError(t, Approve(ctx, capture, req))
	assert.Equal(t, req, seen)
}
