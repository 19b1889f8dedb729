package storekit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

const (
	testSender = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	// sha256("hello world")
	testFileHash = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
)

func TestTimestampFromMillis(t *testing.T) {
	ts := TimestampFrom(time.UnixMilli(1700000000123).Add(456 * time.Microsecond))
	assert.Equal(t, Timestamp(1700000000.123), ts)
	assert.Equal(t, int64(1700000000123), ts.Time().UnixMilli())
}

func TestSerializeItemContent_ExactBytes(t *testing.T) {
	item, err := NewItemContent(testSender, testFileHash, 1700000000.123)
	require.NoError(t, err)

	raw, err := SerializeItemContent(item)
	require.NoError(t, err)

	want := `{"address":"` + testSender + `","item_type":"storage","item_hash":"` + testFileHash + `","time":1700000000.123}`
	assert.Equal(t, want, string(raw))
}

func TestSerializeItemContent_WholeSecondsAndNoHTMLEscape(t *testing.T) {
	item := ItemContent{Address: "<a&b>", ItemType: ItemTypeStorage, ItemHash: "h", Time: 1700000000}
	raw, err := SerializeItemContent(item)
	require.NoError(t, err)
	assert.Equal(t, `{"address":"<a&b>","item_type":"storage","item_hash":"h","time":1700000000}`, string(raw))
}

func TestSerializeItemContent_Deterministic(t *testing.T) {
	item, err := NewItemContent(testSender, testFileHash, 1712345678.9)
	require.NoError(t, err)

	first, err := SerializeItemContent(item)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := SerializeItemContent(item)
		require.NoError(t, err)
		require.True(t, bytes.Equal(first, again))
	}
	assert.Equal(t, ItemHash(first), ItemHash(first))
}

func TestNewItemContent_RejectsEmpty(t *testing.T) {
	_, err := NewItemContent("", testFileHash, 1)
	assert.True(t, errors.Is(err, ErrMalformedInput))

	_, err = NewItemContent(testSender, "  ", 1)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestContentAddress_Idempotent(t *testing.T) {
	assert.Equal(t, testFileHash, ContentAddress([]byte("hello world")))
	assert.Equal(t, ContentAddress([]byte("x")), ContentAddress([]byte("x")))
	assert.NotEqual(t, ContentAddress([]byte("x")), ContentAddress([]byte("y")))
}

func TestBuildVerificationBuffer_Exact(t *testing.T) {
	buf := BuildVerificationBuffer(ChainETH, "0xabc", "deadbeef")
	assert.Equal(t, []byte("ETH\n0xabc\nSTORE\ndeadbeef"), buf)

	// Any reordering of the same parts is a different buffer.
	assert.NotEqual(t, buf, []byte("0xabc\nETH\nSTORE\ndeadbeef"))
	assert.NotEqual(t, buf, []byte("ETH\n0xabc\ndeadbeef\nSTORE"))
}

func TestUnsignedEnvelope_Chaining(t *testing.T) {
	item, err := NewItemContent(testSender, testFileHash, 1700000000.5)
	require.NoError(t, err)

	u, err := NewUnsignedEnvelope(ChainETH, "PASTA_DROP", item)
	require.NoError(t, err)

	raw, err := SerializeItemContent(item)
	require.NoError(t, err)
	assert.Equal(t, string(raw), u.ItemContent())
	assert.Equal(t, ItemHash(raw), u.ItemHash())
	assert.Equal(t, item.Time, u.Time())
	assert.Equal(t, testSender, u.Sender())
	assert.Equal(t, "PASTA_DROP", u.Channel())
	assert.Equal(t, BuildVerificationBuffer(ChainETH, testSender, u.ItemHash()), u.VerificationBuffer())
}

func TestNewUnsignedEnvelope_RejectsUnknownChain(t *testing.T) {
	item, err := NewItemContent(testSender, testFileHash, 1)
	require.NoError(t, err)

	_, err = NewUnsignedEnvelope(Chain("BTC"), "PASTA_DROP", item)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestUnsignedEnvelope_Sign(t *testing.T) {
	item, err := NewItemContent(testSender, testFileHash, 1700000000.5)
	require.NoError(t, err)
	u, err := NewUnsignedEnvelope(ChainETH, "PASTA_DROP", item)
	require.NoError(t, err)

	_, err = u.Sign("")
	assert.True(t, errors.Is(err, ErrMalformedInput))

	_, err = UnsignedEnvelope{}.Sign("0x01")
	assert.True(t, errors.Is(err, ErrMalformedInput))

	env, err := u.Sign("0xsig")
	require.NoError(t, err)
	assert.Equal(t, ItemTypeInline, env.ItemType)
	assert.Equal(t, MessageTypeStore, env.Type)
	assert.Equal(t, u.ItemHash(), env.ItemHash)
	assert.Equal(t, u.VerificationBuffer(), env.VerificationBuffer())
	require.NoError(t, VerifyEnvelope(env))
}

func TestMarshalEnvelope_FieldOrder(t *testing.T) {
	env := AssembleEnvelope(ChainSOL, "Sender1", "PASTA_DROP", 1.5, `{"a":1}`, "ih", "sig")
	raw, err := MarshalEnvelope(env)
	require.NoError(t, err)

	want := `{"chain":"SOL","sender":"Sender1","channel":"PASTA_DROP","time":1.5,"item_type":"inline",` +
		`"item_content":"{\"a\":1}","item_hash":"ih","type":"STORE","signature":"sig"}`
	assert.Equal(t, want, string(raw))
}

func TestVerifyEnvelope_DetectsTampering(t *testing.T) {
	item, err := NewItemContent(testSender, testFileHash, 1700000000.5)
	require.NoError(t, err)
	u, err := NewUnsignedEnvelope(ChainETH, "PASTA_DROP", item)
	require.NoError(t, err)
	env, err := u.Sign("0xsig")
	require.NoError(t, err)

	cases := map[string]func(e *Envelope){
		"item hash":    func(e *Envelope) { e.ItemHash = testFileHash },
		"sender":       func(e *Envelope) { e.Sender = "0xother" },
		"time":         func(e *Envelope) { e.Time = 1 },
		"chain":        func(e *Envelope) { e.Chain = "BTC" },
		"type":         func(e *Envelope) { e.Type = "POST" },
		"signature":    func(e *Envelope) { e.Signature = "" },
		"item content": func(e *Envelope) { e.ItemContent = "not json"; e.ItemHash = ItemHash([]byte("not json")) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tampered := env
			mutate(&tampered)
			err := VerifyEnvelope(tampered)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
		})
	}
}
