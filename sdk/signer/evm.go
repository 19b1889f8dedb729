package signer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
)

// EVM signs through an EIP-1193 provider with personal_sign.
type EVM struct {
	provider evm.Provider
	chainID  string

	mu      sync.Mutex
	address string
}

// NewEVM wraps provider. chainID is the only network the signer accepts.
func NewEVM(provider evm.Provider, chainID string) *EVM {
	return &EVM{provider: provider, chainID: chainID}
}

func (*EVM) sealed() {}

func (*EVM) Chain() storekit.Chain { return storekit.ChainETH }

// Provider returns the wrapped provider.
func (s *EVM) Provider() evm.Provider { return s.provider }

// Address checks the network first, then asks for the accounts.
func (s *EVM) Address(ctx context.Context) (string, error) {
	if err := CheckNetwork(ctx, s.provider, s.chainID); err != nil {
		return "", err
	}

	raw, err := await(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.provider.Request(ctx, evm.RequestArguments{Method: "eth_requestAccounts"})
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		if rej := asRejection(err); errors.Is(rej, ErrSignatureRejected) {
			return "", errors.Errorf("%w: %v", ErrNoAddress, err)
		}
		return "", errors.Errorf("eth_requestAccounts: %w", err)
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil || len(accounts) == 0 || accounts[0] == "" {
		return "", ErrNoAddress
	}

	s.mu.Lock()
	s.address = accounts[0]
	s.mu.Unlock()
	return accounts[0], nil
}

// Sign runs personal_sign over buffer as the resolved account.
func (s *EVM) Sign(ctx context.Context, buffer []byte) (string, error) {
	s.mu.Lock()
	addr := s.address
	s.mu.Unlock()
	if addr == "" {
		var err error
		if addr, err = s.Address(ctx); err != nil {
			return "", err
		}
	}

	raw, err := await(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return s.provider.Request(ctx, evm.RequestArguments{
			Method: "personal_sign",
			Params: []any{"0x" + hex.EncodeToString(buffer), addr},
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", asRejection(errors.Errorf("personal_sign: %w", err))
	}

	var sig string
	if err := json.Unmarshal(raw, &sig); err != nil || sig == "" {
		return "", errors.Errorf("personal_sign: unexpected result %s", string(raw))
	}
	return sig, nil
}
