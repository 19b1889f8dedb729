package evm

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet"
)

// DefaultChainID is Ethereum mainnet.
const DefaultChainID = "0x1"

// RPC forwards raw JSON-RPC calls to a node.
type RPC interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// LocalWallet is a Provider holding a single private key.
type LocalWallet struct {
	key      *secp256k1.PrivateKey
	address  string
	chainID  string
	rpc      RPC
	approver wallet.Approver
}

// Option configures a LocalWallet.
type Option func(*LocalWallet)

// WithChainID sets the chain id reported when no RPC is configured.
func WithChainID(id string) Option {
	return func(w *LocalWallet) { w.chainID = id }
}

// WithRPC routes eth_chainId, eth_call and unknown methods to rpc.
func WithRPC(rpc RPC) Option {
	return func(w *LocalWallet) { w.rpc = rpc }
}

// WithApprover gates personal_sign behind approver.
func WithApprover(approver wallet.Approver) Option {
	return func(w *LocalWallet) { w.approver = approver }
}

// NewLocalWallet builds a wallet from a 32-byte secp256k1 private key.
func NewLocalWallet(privKey []byte, opts ...Option) (*LocalWallet, error) {
	if len(privKey) != secp256k1.PrivKeyBytesLen {
		return nil, errors.Errorf("private key must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(privKey))
	}
	key := secp256k1.PrivKeyFromBytes(privKey)
	w := &LocalWallet{
		key:      key,
		address:  PubKeyToAddress(key.PubKey()),
		chainID:  DefaultChainID,
		approver: wallet.AutoApprove,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Address returns the wallet's checksummed address.
func (w *LocalWallet) Address() string { return w.address }

// Request implements Provider.
func (w *LocalWallet) Request(ctx context.Context, args RequestArguments) (json.RawMessage, error) {
	switch args.Method {
	case "eth_chainId":
		if w.rpc != nil {
			return w.rpc.Request(ctx, args.Method)
		}
		return json.Marshal(w.chainID)
	case "eth_accounts", "eth_requestAccounts":
		return json.Marshal([]string{w.address})
	case "personal_sign":
		return w.personalSign(ctx, args.Params)
	default:
		if w.rpc == nil {
			return nil, NewProviderError(CodeUnsupportedMethod, "method %s is not supported without an RPC endpoint", args.Method)
		}
		return w.rpc.Request(ctx, args.Method, args.Params...)
	}
}

func (w *LocalWallet) personalSign(ctx context.Context, params []any) (json.RawMessage, error) {
	if len(params) < 2 {
		return nil, NewProviderError(CodeInvalidParams, "personal_sign expects [data, address]")
	}
	data, ok := params[0].(string)
	if !ok {
		return nil, NewProviderError(CodeInvalidParams, "personal_sign data must be a string")
	}
	addr, ok := params[1].(string)
	if !ok || !strings.EqualFold(addr, w.address) {
		return nil, NewProviderError(CodeUnauthorized, "account %v is not managed by this wallet", params[1])
	}

	msg := []byte(data)
	if strings.HasPrefix(data, "0x") {
		decoded, err := hex.DecodeString(data[2:])
		if err != nil {
			return nil, NewProviderError(CodeInvalidParams, "personal_sign data is not valid hex")
		}
		msg = decoded
	}

	err := wallet.Approve(ctx, w.approver, wallet.SignRequest{Chain: "ETH", Address: w.address, Message: msg})
	if errors.Is(err, wallet.ErrUserRejected) {
		return nil, NewProviderError(CodeUserRejected, "User rejected the request.")
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(SignPersonal(w.key, msg))
}
