package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/LumeraProtocol/pastadrop/pkg/evmrpc"
	"github.com/LumeraProtocol/pastadrop/pkg/history"
	"github.com/LumeraProtocol/pastadrop/pkg/keyring"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/sdk/action"
	"github.com/LumeraProtocol/pastadrop/sdk/adapters/aleph"
	sdklog "github.com/LumeraProtocol/pastadrop/sdk/log"
)

func openKeyring() (*keyring.Keyring, error) {
	kr, err := keyring.InitKeyring(keyring.Config{
		Backend:      appConfig.Keyring.Backend,
		Dir:          appConfig.KeyringDir(),
		PasswordFunc: keyringPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyring: %w", err)
	}
	return kr, nil
}

// keyringPassword prefers the configured passphrase and otherwise asks.
func keyringPassword(prompt string) (string, error) {
	if appConfig.Keyring.Password != "" {
		return appConfig.Keyring.Password, nil
	}
	var pass string
	q := &survey.Password{Message: fmt.Sprintf("%s:", prompt)}
	if err := survey.AskOne(q, &pass, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return pass, nil
}

func openHistory() (*history.Store, error) {
	store, err := history.NewStore(appConfig.HistoryPath(), appConfig.History.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func parseChain(s string) (storekit.Chain, error) {
	c := storekit.Chain(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown chain %q (want eth or sol)", s)
	}
	return c, nil
}

// promptApprover asks on the terminal before each signature.
func promptApprover(_ context.Context, req wallet.SignRequest) (bool, error) {
	fmt.Printf("\n%s wallet %s is asked to sign:\n%s\n\n", req.Chain, req.Address, string(req.Message))
	var ok bool
	prompt := &survey.Confirm{
		Message: "Sign this message?",
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// loadWallet builds the wallet handle for key on chain.
func loadWallet(kr *keyring.Keyring, keyName string, chain storekit.Chain, assumeYes bool) (action.Wallet, string, error) {
	var approver wallet.Approver = promptApprover
	if assumeYes {
		approver = wallet.AutoApprove
	}

	switch chain {
	case storekit.ChainETH:
		rpc := evmrpc.NewClient(appConfig.Ethereum.RPCURL, nil)
		w, err := kr.EVMWallet(keyName,
			evm.WithRPC(rpc),
			evm.WithChainID(appConfig.Ethereum.ChainID),
			evm.WithApprover(approver),
		)
		if err != nil {
			return nil, "", err
		}
		return action.EVMWallet(w), w.Address(), nil
	case storekit.ChainSOL:
		w, err := kr.SolanaWallet(keyName, approver)
		if err != nil {
			return nil, "", err
		}
		return action.SolanaWallet(w), w.PublicKey(), nil
	}
	return nil, "", fmt.Errorf("unknown chain %q", chain)
}

// senderFor returns the address key uses on chain without building a wallet.
func senderFor(kr *keyring.Keyring, keyName string, chain storekit.Chain) (string, error) {
	rec, err := kr.Get(keyName)
	if err != nil {
		return "", err
	}
	if chain == storekit.ChainSOL {
		return rec.SOLAddress, nil
	}
	return rec.ETHAddress, nil
}

func newActionClient(cacheEnabled bool) (action.Client, error) {
	sdkCfg, err := appConfig.SDKConfig()
	if err != nil {
		return nil, err
	}
	opts := []action.Option{}
	if cacheEnabled {
		opts = append(opts, action.WithRetrievalCache(aleph.CacheConfig{Enabled: true}))
	}
	return action.NewClient(sdkCfg, sdklog.NewLogtraceLogger(serviceName), opts...)
}
