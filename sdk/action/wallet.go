package action

import (
	"reflect"

	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/solana"
	"github.com/LumeraProtocol/pastadrop/sdk/signer"
)

// Wallet is the caller's wallet handle. Build one with EVMWallet or
// SolanaWallet; no other implementations exist.
type Wallet interface {
	Chain() storekit.Chain
	newSigner(chainID string) (signer.Signer, error)
}

type evmWallet struct{ provider evm.Provider }

type solanaWallet struct{ wallet solana.Wallet }

// EVMWallet wraps an EIP-1193 provider.
func EVMWallet(provider evm.Provider) Wallet { return evmWallet{provider: provider} }

// SolanaWallet wraps a Solana wallet adapter.
func SolanaWallet(w solana.Wallet) Wallet { return solanaWallet{wallet: w} }

func (evmWallet) Chain() storekit.Chain { return storekit.ChainETH }

func (w evmWallet) newSigner(chainID string) (signer.Signer, error) {
	if isNil(w.provider) {
		return nil, ErrNoWallet
	}
	return signer.NewEVM(w.provider, chainID), nil
}

func (solanaWallet) Chain() storekit.Chain { return storekit.ChainSOL }

func (w solanaWallet) newSigner(string) (signer.Signer, error) {
	if isNil(w.wallet) {
		return nil, ErrNoWallet
	}
	return signer.NewSolana(w.wallet), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
