// Package wallet holds what the local EVM and Solana wallets share: the
// signing approval hook and the user-rejection error.
package wallet

import (
	"context"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

// ErrUserRejected is returned when the approver declines a signature.
var ErrUserRejected = errors.New("user rejected the request")

// SignRequest is what the approver is shown before a message is signed.
type SignRequest struct {
	Chain   string
	Address string
	Message []byte
}

// Approver decides whether a signature request may proceed. It plays the
// part of the browser wallet's confirmation popup.
type Approver func(ctx context.Context, req SignRequest) (bool, error)

// AutoApprove approves every request.
func AutoApprove(context.Context, SignRequest) (bool, error) { return true, nil }

// Approve runs approver (AutoApprove when nil) and folds a decline into
// ErrUserRejected.
func Approve(ctx context.Context, approver Approver, req SignRequest) error {
	if approver == nil {
		approver = AutoApprove
	}
	ok, err := approver(ctx, req)
	if err != nil {
		return errors.Errorf("approval: %w", err)
	}
	if !ok {
		return ErrUserRejected
	}
	return nil
}
