package preflight

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/sdk/config"
	"github.com/LumeraProtocol/pastadrop/sdk/signer"
)

const holder = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

type scriptedProvider struct {
	chainID string
	balance string
	callErr error
	methods []string
	lastTo  string
	data    string
}

func (p *scriptedProvider) Request(_ context.Context, args evm.RequestArguments) (json.RawMessage, error) {
	p.methods = append(p.methods, args.Method)
	switch args.Method {
	case "eth_chainId":
		return json.Marshal(p.chainID)
	case "eth_call":
		if p.callErr != nil {
			return nil, p.callErr
		}
		msg := args.Params[0].(map[string]string)
		p.lastTo, p.data = msg["to"], msg["data"]
		return json.Marshal(p.balance)
	}
	return nil, evm.NewProviderError(evm.CodeUnsupportedMethod, "unsupported")
}

func newChecker() *Checker {
	return NewChecker(config.DefaultConfig().Ethereum, nil)
}

func TestCheckPasses(t *testing.T) {
	p := &scriptedProvider{chainID: "0x1", balance: "0x" + strings.Repeat("0", 63) + "1"}
	require.NoError(t, newChecker().Check(context.Background(), p, holder))

	assert.Equal(t, []string{"eth_chainId", "eth_call"}, p.methods)
	assert.Equal(t, config.DefaultEntitlementToken, p.lastTo)
	assert.Equal(t, "0x70a08231000000000000000000000000ab5801a7d398351b8be11c439e05c5b3259aec9b", p.data)
}

func TestCheckWrongNetworkSkipsBalance(t *testing.T) {
	p := &scriptedProvider{chainID: "0x5", balance: "0x1"}
	err := newChecker().Check(context.Background(), p, holder)
	assert.ErrorIs(t, err, signer.ErrWrongNetwork)
	assert.Equal(t, []string{"eth_chainId"}, p.methods)
}

func TestCheckZeroBalance(t *testing.T) {
	for _, zero := range []string{"0x", "0x0", "0x" + strings.Repeat("0", 64)} {
		p := &scriptedProvider{chainID: "0x1", balance: zero}
		err := newChecker().Check(context.Background(), p, holder)
		require.ErrorIs(t, err, ErrInsufficientEntitlement, zero)

		var ee *EntitlementError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, holder, ee.Address)
		assert.Equal(t, config.DefaultEntitlementToken, ee.Token)
	}
}

func TestCheckRPCFailureIsNotEntitlement(t *testing.T) {
	p := &scriptedProvider{chainID: "0x1", callErr: errors.New("connection refused")}
	err := newChecker().Check(context.Background(), p, holder)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInsufficientEntitlement))
}

func TestParseUint256(t *testing.T) {
	n, err := ParseUint256("0x" + strings.Repeat("f", 64))
	require.NoError(t, err)
	assert.Equal(t, 256, n.BigInt().BitLen())

	n, err = ParseUint256("0xde0b6b3a7640000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", n.String())

	_, err = ParseUint256("0xzz")
	assert.Error(t, err)
	_, err = ParseUint256("0x1" + strings.Repeat("0", 64))
	assert.Error(t, err)
}

func TestBalanceOfCallDataRejectsBadAddress(t *testing.T) {
	_, err := BalanceOfCallData("not-an-address")
	assert.Error(t, err)
}
