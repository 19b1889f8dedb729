// Package solana implements a Solana message-signing wallet backed by a
// local ed25519 key.
package solana

import (
	"context"
	"crypto/ed25519"
	"sync/atomic"

	"github.com/cosmos/btcutil/base58"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet"
)

// Wallet is the surface of a Solana wallet adapter.
type Wallet interface {
	Connected() bool
	// PublicKey returns the base58 address, or "" when unknown.
	PublicKey() string
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
}

// ErrNotConnected is returned by SignMessage on a disconnected wallet.
var ErrNotConnected = errors.New("wallet not connected")

// LocalWallet signs with an in-memory ed25519 key.
type LocalWallet struct {
	key       ed25519.PrivateKey
	publicKey string
	approver  wallet.Approver
	connected atomic.Bool
}

// NewLocalWallet builds a connected wallet from a 32-byte ed25519 seed.
func NewLocalWallet(seed []byte, approver wallet.Approver) (*LocalWallet, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	key := ed25519.NewKeyFromSeed(seed)
	w := &LocalWallet{
		key:       key,
		publicKey: base58.Encode(key.Public().(ed25519.PublicKey)),
		approver:  approver,
	}
	w.connected.Store(true)
	return w, nil
}

func (w *LocalWallet) Connect()    { w.connected.Store(true) }
func (w *LocalWallet) Disconnect() { w.connected.Store(false) }

func (w *LocalWallet) Connected() bool { return w.connected.Load() }

func (w *LocalWallet) PublicKey() string {
	if !w.Connected() {
		return ""
	}
	return w.publicKey
}

// SignMessage returns the detached ed25519 signature of msg once the
// approver allows it.
func (w *LocalWallet) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	if !w.Connected() {
		return nil, ErrNotConnected
	}
	if err := wallet.Approve(ctx, w.approver, wallet.SignRequest{Chain: "SOL", Address: w.publicKey, Message: msg}); err != nil {
		return nil, err
	}
	return ed25519.Sign(w.key, msg), nil
}

// Verify reports whether sig is a valid signature of msg by the base58
// address.
func Verify(address string, msg, sig []byte) error {
	pub := base58.Decode(address)
	if len(pub) != ed25519.PublicKeySize {
		return errors.Errorf("invalid solana address %q", address)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		return errors.New("ed25519 signature does not verify")
	}
	return nil
}
