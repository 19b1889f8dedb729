package signer

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
)

// ParseChainID accepts 0x-hex or decimal chain ids.
func ParseChainID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	n := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = n.SetString(s[2:], 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok {
		return nil, errors.Errorf("invalid chain id %q", s)
	}
	return n, nil
}

// CheckNetwork asks provider for its chain id and compares it numerically
// with want. A mismatch is a *WrongNetworkError.
func CheckNetwork(ctx context.Context, provider evm.Provider, want string) error {
	wantID, err := ParseChainID(want)
	if err != nil {
		return err
	}
	raw, err := provider.Request(ctx, evm.RequestArguments{Method: "eth_chainId"})
	if err != nil {
		return errors.Errorf("eth_chainId: %w", err)
	}

	var got string
	if err := json.Unmarshal(raw, &got); err != nil {
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return errors.Errorf("eth_chainId: unexpected result %s", string(raw))
		}
		got = num.String()
	}
	gotID, err := ParseChainID(got)
	if err != nil {
		return errors.Errorf("eth_chainId: %w", err)
	}
	if gotID.Cmp(wantID) != 0 {
		return &WrongNetworkError{Got: "0x" + gotID.Text(16), Want: "0x" + wantID.Text(16)}
	}
	return nil
}
