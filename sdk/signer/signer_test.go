package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/solana"
)

// fakeProvider answers from a method table and records the call order.
type fakeProvider struct {
	mu      sync.Mutex
	methods []string
	answers map[string]func(args evm.RequestArguments) (json.RawMessage, error)
}

func (f *fakeProvider) Request(_ context.Context, args evm.RequestArguments) (json.RawMessage, error) {
	f.mu.Lock()
	f.methods = append(f.methods, args.Method)
	fn := f.answers[args.Method]
	f.mu.Unlock()
	if fn == nil {
		return nil, evm.NewProviderError(evm.CodeUnsupportedMethod, "unsupported %s", args.Method)
	}
	return fn(args)
}

func (f *fakeProvider) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.methods...)
}

func constant(v string) func(evm.RequestArguments) (json.RawMessage, error) {
	return func(evm.RequestArguments) (json.RawMessage, error) { return json.RawMessage(v), nil }
}

func failing(err error) func(evm.RequestArguments) (json.RawMessage, error) {
	return func(evm.RequestArguments) (json.RawMessage, error) { return nil, err }
}

func testEVMWallet(t *testing.T, approver wallet.Approver) *evm.LocalWallet {
	t.Helper()
	w, err := evm.NewLocalWallet(bytes.Repeat([]byte{0x11}, 32), evm.WithApprover(approver))
	require.NoError(t, err)
	return w
}

func TestEVMAddressWrongNetworkFirst(t *testing.T) {
	p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
		"eth_chainId":         constant(`"0x89"`),
		"eth_requestAccounts": constant(`["0xabc"]`),
	}}
	_, err := NewEVM(p, "0x1").Address(context.Background())

	require.ErrorIs(t, err, ErrWrongNetwork)
	var wn *WrongNetworkError
	require.True(t, errors.As(err, &wn))
	assert.Equal(t, "0x89", wn.Got)
	assert.Equal(t, "0x1", wn.Want)
	assert.Equal(t, []string{"eth_chainId"}, p.calls())
}

func TestEVMAddressComparesNumerically(t *testing.T) {
	for _, reported := range []string{`"0x01"`, `"0X1"`, `"1"`, `1`} {
		p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
			"eth_chainId":         constant(reported),
			"eth_requestAccounts": constant(`["0xabc"]`),
		}}
		addr, err := NewEVM(p, "0x1").Address(context.Background())
		require.NoError(t, err, reported)
		assert.Equal(t, "0xabc", addr)
	}
}

func TestEVMAddressNoAccounts(t *testing.T) {
	for _, answer := range []string{`[]`, `null`, `[""]`} {
		p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
			"eth_chainId":         constant(`"0x1"`),
			"eth_requestAccounts": constant(answer),
		}}
		_, err := NewEVM(p, "0x1").Address(context.Background())
		assert.ErrorIs(t, err, ErrNoAddress, answer)
	}

	p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
		"eth_chainId":         constant(`"0x1"`),
		"eth_requestAccounts": failing(evm.NewProviderError(evm.CodeUserRejected, "User rejected the request.")),
	}}
	_, err := NewEVM(p, "0x1").Address(context.Background())
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestEVMSignVerifies(t *testing.T) {
	w := testEVMWallet(t, nil)
	s := NewEVM(w, "0x1")
	ctx := context.Background()

	sender, err := s.Address(ctx)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), sender)

	item, err := storekit.NewItemContent(sender, storekit.ContentAddress([]byte("hi")), 1700000000.25)
	require.NoError(t, err)
	u, err := storekit.NewUnsignedEnvelope(s.Chain(), "PASTA_DROP", item)
	require.NoError(t, err)

	sig, err := s.Sign(ctx, u.VerificationBuffer())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(sig, "0x"))
	assert.Len(t, sig, 2+2*evm.SignatureLen)

	env, err := u.Sign(sig)
	require.NoError(t, err)
	require.NoError(t, Verify(env))

	env.Sender = "0x0000000000000000000000000000000000000001"
	assert.ErrorIs(t, Verify(env), ErrInvalidSignature)
}

func TestEVMSignRejections(t *testing.T) {
	cases := map[string]error{
		"code 4001":   evm.NewProviderError(evm.CodeUserRejected, "nope"),
		"denied text": errors.New("MetaMask Tx Signature: User denied message signature."),
		"local":       wallet.ErrUserRejected,
	}
	for name, walletErr := range cases {
		t.Run(name, func(t *testing.T) {
			p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
				"eth_chainId":         constant(`"0x1"`),
				"eth_requestAccounts": constant(`["0xabc"]`),
				"personal_sign":       failing(walletErr),
			}}
			_, err := NewEVM(p, "0x1").Sign(context.Background(), []byte("buf"))
			assert.ErrorIs(t, err, ErrSignatureRejected)
		})
	}

	p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
		"eth_chainId":         constant(`"0x1"`),
		"eth_requestAccounts": constant(`["0xabc"]`),
		"personal_sign":       failing(errors.New("internal error")),
	}}
	_, err := NewEVM(p, "0x1").Sign(context.Background(), []byte("buf"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSignatureRejected))
}

func TestEVMSignSendsHexBufferAndAddress(t *testing.T) {
	var params []any
	p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
		"eth_chainId":         constant(`"0x1"`),
		"eth_requestAccounts": constant(`["0xabc"]`),
		"personal_sign": func(args evm.RequestArguments) (json.RawMessage, error) {
			params = args.Params
			return json.RawMessage(`"0xsig"`), nil
		},
	}}
	sig, err := NewEVM(p, "0x1").Sign(context.Background(), []byte("ETH\n0xabc\nSTORE\nh"))
	require.NoError(t, err)
	assert.Equal(t, "0xsig", sig)
	assert.Equal(t, []any{"0x4554480a30786162630a53544f52450a68", "0xabc"}, params)
}

func TestEVMSignCancelledWhilePending(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	p := &fakeProvider{answers: map[string]func(evm.RequestArguments) (json.RawMessage, error){
		"eth_chainId":         constant(`"0x1"`),
		"eth_requestAccounts": constant(`["0xabc"]`),
		"personal_sign": func(evm.RequestArguments) (json.RawMessage, error) {
			close(entered)
			<-release
			return json.RawMessage(`"0xlate"`), nil
		},
	}}
	s := NewEVM(p, "0x1")
	_, err := s.Address(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-entered
		cancel()
	}()
	sig, err := s.Sign(ctx, []byte("buf"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sig)
	close(release)
}

type fakeSolanaWallet struct {
	connected bool
	publicKey string
	sign      func(ctx context.Context, msg []byte) ([]byte, error)
}

func (f *fakeSolanaWallet) Connected() bool   { return f.connected }
func (f *fakeSolanaWallet) PublicKey() string { return f.publicKey }
func (f *fakeSolanaWallet) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	return f.sign(ctx, msg)
}

func TestSolanaAddress(t *testing.T) {
	_, err := NewSolana(nil).Address(context.Background())
	assert.ErrorIs(t, err, ErrNoAddress)

	_, err = NewSolana(&fakeSolanaWallet{connected: false, publicKey: "abc"}).Address(context.Background())
	assert.ErrorIs(t, err, ErrNoAddress)

	_, err = NewSolana(&fakeSolanaWallet{connected: true}).Address(context.Background())
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestSolanaSignFormatAndVerify(t *testing.T) {
	w, err := solana.NewLocalWallet(bytes.Repeat([]byte{9}, 32), nil)
	require.NoError(t, err)
	s := NewSolana(w)
	ctx := context.Background()

	sender, err := s.Address(ctx)
	require.NoError(t, err)
	item, err := storekit.NewItemContent(sender, storekit.ContentAddress([]byte("hi")), 1700000000.25)
	require.NoError(t, err)
	u, err := storekit.NewUnsignedEnvelope(s.Chain(), "PASTA_DROP", item)
	require.NoError(t, err)

	sig, err := s.Sign(ctx, u.VerificationBuffer())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sig, `{"signature":"`))
	assert.True(t, strings.HasSuffix(sig, `","publicKey":"`+sender+`"}`))

	env, err := u.Sign(sig)
	require.NoError(t, err)
	require.NoError(t, Verify(env))

	forged := env
	forged.Signature = strings.Replace(sig, sender, "11111111111111111111111111111111", 1)
	assert.ErrorIs(t, Verify(forged), ErrInvalidSignature)

	forged = env
	forged.ItemHash = strings.Repeat("0", 64)
	assert.ErrorIs(t, Verify(forged), ErrInvalidSignature)
}

func TestSolanaSignRejected(t *testing.T) {
	w := &fakeSolanaWallet{connected: true, publicKey: "Pk", sign: func(context.Context, []byte) ([]byte, error) {
		return nil, errors.New("WalletSignMessageError: User rejected the request.")
	}}
	_, err := NewSolana(w).Sign(context.Background(), []byte("buf"))
	assert.ErrorIs(t, err, ErrSignatureRejected)
}

func TestSolanaSignCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	w := &fakeSolanaWallet{connected: true, publicKey: "Pk", sign: func(context.Context, []byte) ([]byte, error) {
		<-release
		return []byte{1}, nil
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewSolana(w).Sign(ctx, []byte("buf"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerifyUnknownChain(t *testing.T) {
	env := storekit.AssembleEnvelope("BTC", "s", "c", 1, "{}", "h", "sig")
	assert.ErrorIs(t, Verify(env), storekit.ErrMalformedInput)
}
