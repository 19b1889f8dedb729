// Package preflight checks an EVM wallet's preconditions before anything is
// signed: the network it is on and whether it holds the entitlement token.
package preflight

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/sdk/config"
	"github.com/LumeraProtocol/pastadrop/sdk/log"
	"github.com/LumeraProtocol/pastadrop/sdk/signer"
)

// balanceOfSelector is the first four bytes of keccak256("balanceOf(address)").
const balanceOfSelector = "70a08231"

var ErrInsufficientEntitlement = errors.New("address does not hold the entitlement token")

// EntitlementError names the token and the address that holds none of it.
type EntitlementError struct {
	Token   string
	Address string
}

func (e *EntitlementError) Error() string {
	return fmt.Sprintf("address %s holds no %s tokens", e.Address, e.Token)
}

func (e *EntitlementError) Is(target error) bool { return target == ErrInsufficientEntitlement }

// Checker runs the EVM preflight.
type Checker struct {
	chainID string
	token   string
	logger  log.Logger
}

func NewChecker(cfg config.EthereumConfig, logger log.Logger) *Checker {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Checker{chainID: cfg.ChainID, token: cfg.EntitlementToken, logger: logger}
}

// Check verifies the network, then the token balance of address. RPC
// failures are returned as they are, never as entitlement failures.
func (c *Checker) Check(ctx context.Context, provider evm.Provider, address string) error {
	if err := signer.CheckNetwork(ctx, provider, c.chainID); err != nil {
		c.logger.Warn(ctx, "Preflight network check failed", "error", err)
		return err
	}

	balance, err := c.Balance(ctx, provider, address)
	if err != nil {
		return err
	}
	c.logger.Debug(ctx, "Entitlement balance", "address", address, "token", c.token, "balance", balance.String())
	if !balance.IsPositive() {
		return &EntitlementError{Token: c.token, Address: address}
	}
	return nil
}

// Balance returns the ERC-20 balanceOf(address) of the entitlement token.
func (c *Checker) Balance(ctx context.Context, provider evm.Provider, address string) (sdkmath.Int, error) {
	data, err := BalanceOfCallData(address)
	if err != nil {
		return sdkmath.Int{}, err
	}
	raw, err := provider.Request(ctx, evm.RequestArguments{
		Method: "eth_call",
		Params: []any{map[string]string{"to": c.token, "data": data}, "latest"},
	})
	if err != nil {
		return sdkmath.Int{}, errors.Errorf("balanceOf: %w", err)
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return sdkmath.Int{}, errors.Errorf("balanceOf: unexpected result %s", string(raw))
	}
	return ParseUint256(out)
}

// BalanceOfCallData encodes balanceOf(address) call data.
func BalanceOfCallData(address string) (string, error) {
	if !evm.IsHexAddress(address) {
		return "", errors.Errorf("invalid address %q", address)
	}
	return "0x" + balanceOfSelector + strings.Repeat("0", 24) + strings.ToLower(address[2:]), nil
}

// ParseUint256 decodes a 0x-hex ABI word. "0x" alone is zero.
func ParseUint256(s string) (sdkmath.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return sdkmath.ZeroInt(), nil
	}
	if _, err := hex.DecodeString(strings.Repeat("0", len(digits)%2) + digits); err != nil {
		return sdkmath.Int{}, errors.Errorf("invalid uint256 %q", s)
	}
	n, _ := new(big.Int).SetString(digits, 16)
	if n.BitLen() > 256 {
		return sdkmath.Int{}, errors.Errorf("uint256 overflow in %q", s)
	}
	return sdkmath.NewIntFromBigInt(n), nil
}
