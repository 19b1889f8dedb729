package keyring

import (
	"crypto/ed25519"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/go-bip39"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/solana"
)

// NormalizeMnemonic collapses whitespace so pasted phrases compare equal.
func NormalizeMnemonic(m string) string {
	return strings.Join(strings.Fields(strings.ToLower(m)), " ")
}

// DeriveEVMKey returns the secp256k1 private key at DefaultHDPath.
func DeriveEVMKey(mnemonic string) ([]byte, error) {
	priv, err := hd.Secp256k1.Derive()(NormalizeMnemonic(mnemonic), DefaultBIP39Passphrase, DefaultHDPath)
	if err != nil {
		return nil, errors.Errorf("derive evm key: %w", err)
	}
	return priv, nil
}

// DeriveSolanaSeed returns the ed25519 seed solana-keygen uses for a
// mnemonic without a derivation path: the first 32 bytes of the BIP-39
// seed.
func DeriveSolanaSeed(mnemonic string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(NormalizeMnemonic(mnemonic), DefaultBIP39Passphrase)
	if err != nil {
		return nil, errors.Errorf("derive solana seed: %w", err)
	}
	return seed[:ed25519.SeedSize], nil
}

func deriveAddresses(mnemonic string) (string, string, error) {
	priv, err := DeriveEVMKey(mnemonic)
	if err != nil {
		return "", "", err
	}
	ew, err := evm.NewLocalWallet(priv)
	if err != nil {
		return "", "", err
	}
	seed, err := DeriveSolanaSeed(mnemonic)
	if err != nil {
		return "", "", err
	}
	sw, err := solana.NewLocalWallet(seed, nil)
	if err != nil {
		return "", "", err
	}
	return ew.Address(), sw.PublicKey(), nil
}
