package signer

import (
	"context"

	"github.com/cosmos/btcutil/base58"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/solana"
)

// SolanaSignature is the JSON carried in a SOL envelope's signature field.
// Field order is part of the wire format.
type SolanaSignature struct {
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// Solana signs through a wallet adapter's signMessage.
type Solana struct {
	wallet solana.Wallet
}

func NewSolana(w solana.Wallet) *Solana {
	return &Solana{wallet: w}
}

func (*Solana) sealed() {}

func (*Solana) Chain() storekit.Chain { return storekit.ChainSOL }

// Wallet returns the wrapped wallet.
func (s *Solana) Wallet() solana.Wallet { return s.wallet }

func (s *Solana) Address(context.Context) (string, error) {
	if s.wallet == nil || !s.wallet.Connected() {
		return "", errors.Errorf("%w: solana wallet not connected", ErrNoAddress)
	}
	pk := s.wallet.PublicKey()
	if pk == "" {
		return "", ErrNoAddress
	}
	return pk, nil
}

// Sign returns the SolanaSignature JSON for buffer.
func (s *Solana) Sign(ctx context.Context, buffer []byte) (string, error) {
	addr, err := s.Address(ctx)
	if err != nil {
		return "", err
	}

	sig, err := await(ctx, func(ctx context.Context) ([]byte, error) {
		return s.wallet.SignMessage(ctx, buffer)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", asRejection(errors.Errorf("signMessage: %w", err))
	}
	if len(sig) == 0 {
		return "", errors.New("signMessage returned an empty signature")
	}

	raw, err := storekit.Marshal(SolanaSignature{Signature: base58.Encode(sig), PublicKey: addr})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
