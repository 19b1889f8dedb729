package signer

import (
	"github.com/cosmos/btcutil/base58"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/solana"
)

// Verify checks env's signature against its sender. It does not re-check
// the item hash; see storekit.VerifyEnvelope.
func Verify(env storekit.Envelope) error {
	buf := env.VerificationBuffer()
	switch env.Chain {
	case storekit.ChainETH:
		if err := evm.VerifyPersonal(buf, env.Signature, env.Sender); err != nil {
			return errors.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return nil
	case storekit.ChainSOL:
		var sig SolanaSignature
		if err := storekit.Unmarshal([]byte(env.Signature), &sig); err != nil {
			return errors.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		if sig.PublicKey != env.Sender {
			return errors.Errorf("%w: signature public key %s is not the sender", ErrInvalidSignature, sig.PublicKey)
		}
		if err := solana.Verify(env.Sender, buf, base58.Decode(sig.Signature)); err != nil {
			return errors.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return nil
	default:
		return errors.Errorf("unsupported chain %q: %w", env.Chain, storekit.ErrMalformedInput)
	}
}
