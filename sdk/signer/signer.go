// Package signer adapts EVM and Solana wallets to the one capability the
// paste pipeline needs: resolve the sender address, then sign a
// verification buffer.
package signer

import (
	"context"
	"strings"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
)

var (
	ErrWrongNetwork      = errors.New("wallet is connected to the wrong network")
	ErrNoAddress         = errors.New("wallet did not provide an address")
	ErrSignatureRejected = errors.New("signature request rejected")
	ErrInvalidSignature  = errors.New("signature does not verify")
)

// WrongNetworkError carries the observed and the required chain ids.
type WrongNetworkError struct {
	Got  string
	Want string
}

func (e *WrongNetworkError) Error() string {
	return "wallet is on chain " + e.Got + ", expected " + e.Want
}

func (e *WrongNetworkError) Is(target error) bool { return target == ErrWrongNetwork }

// Signer is implemented by EVM and Solana; nothing else.
type Signer interface {
	Chain() storekit.Chain
	Address(ctx context.Context) (string, error)
	Sign(ctx context.Context, buffer []byte) (string, error)

	sealed()
}

// await runs a wallet call in its own goroutine and waits for it or for
// ctx. The wallet call gets a context that is never cancelled, so a
// pending prompt stays up; a result that arrives after ctx ends is dropped.
func await[T any](ctx context.Context, call func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	walletCtx := context.WithoutCancel(ctx)
	go func() {
		v, err := call(walletCtx)
		done <- result{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.v, r.err
	}
}

// asRejection folds the ways wallets report a declined prompt into
// ErrSignatureRejected. Other errors are returned unchanged.
func asRejection(err error) error {
	if err == nil {
		return nil
	}
	var perr *evm.ProviderError
	if errors.As(err, &perr) && perr.Code == evm.CodeUserRejected {
		return errors.Errorf("%w: %s", ErrSignatureRejected, perr.Message)
	}
	if errors.Is(err, wallet.ErrUserRejected) {
		return errors.Errorf("%w: %v", ErrSignatureRejected, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "rejected") || strings.Contains(msg, "denied") {
		return errors.Errorf("%w: %v", ErrSignatureRejected, err)
	}
	return err
}
