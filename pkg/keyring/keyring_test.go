package keyring

import (
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

// Well-known development mnemonic.
const testMnemonic = "test test test test test test test test test test test junk"

func TestDeriveEVMKey(t *testing.T) {
	priv, err := DeriveEVMKey(testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", hex.EncodeToString(priv))
}

func TestDeriveSolanaSeedDeterministic(t *testing.T) {
	a, err := DeriveSolanaSeed(testMnemonic)
	require.NoError(t, err)
	b, err := DeriveSolanaSeed("  TEST test test test test test test test test test test   junk ")
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.Equal(t, a, b)

	_, err = DeriveSolanaSeed("not a mnemonic")
	assert.Error(t, err)
}

func newMemoryKeyring(t *testing.T) *Keyring {
	t.Helper()
	kr, err := InitKeyring(Config{Backend: BackendMemory})
	require.NoError(t, err)
	return kr
}

func TestRecoverAndGet(t *testing.T) {
	kr := newMemoryKeyring(t)

	rec, err := kr.RecoverAccountFromMnemonic("dev", testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", rec.ETHAddress)
	assert.NotEmpty(t, rec.SOLAddress)

	got, err := kr.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, rec.ETHAddress, got.ETHAddress)
	assert.Equal(t, rec.SOLAddress, got.SOLAddress)

	_, err = kr.RecoverAccountFromMnemonic("dev", testMnemonic)
	assert.True(t, errors.Is(err, ErrKeyExists))

	_, err = kr.RecoverAccountFromMnemonic("dev2", testMnemonic)
	assert.True(t, errors.Is(err, ErrKeyExists))

	_, err = kr.Get("missing")
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestRecoverRejectsBadInput(t *testing.T) {
	kr := newMemoryKeyring(t)

	_, err := kr.RecoverAccountFromMnemonic("dev", "one two three")
	assert.True(t, errors.Is(err, ErrBadMnemonic))

	_, err = kr.RecoverAccountFromMnemonic("../escape", testMnemonic)
	assert.Error(t, err)
}

func TestCreateListDelete(t *testing.T) {
	kr := newMemoryKeyring(t)

	mnemonic, rec, err := kr.CreateNewAccount("b", 0)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic), 24)
	assert.Equal(t, "b", rec.Name)

	_, _, err = kr.CreateNewAccount("a", 128)
	require.NoError(t, err)

	list, err := kr.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)

	require.NoError(t, kr.Delete("a"))
	assert.True(t, errors.Is(kr.Delete("a"), ErrKeyNotFound))
}

func TestWalletsMatchRecord(t *testing.T) {
	kr := newMemoryKeyring(t)
	rec, err := kr.RecoverAccountFromMnemonic("dev", testMnemonic)
	require.NoError(t, err)

	ew, err := kr.EVMWallet("dev")
	require.NoError(t, err)
	assert.Equal(t, rec.ETHAddress, ew.Address())

	sw, err := kr.SolanaWallet("dev", nil)
	require.NoError(t, err)
	assert.Equal(t, rec.SOLAddress, sw.PublicKey())
}

func TestFileBackendEncryptsMnemonic(t *testing.T) {
	dir := t.TempDir()
	kr, err := InitKeyring(Config{Backend: BackendTest, Dir: dir})
	require.NoError(t, err)
	rec, err := kr.RecoverAccountFromMnemonic("dev", testMnemonic)
	require.NoError(t, err)

	var files int
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		files++
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "junk", path)
		return nil
	})
	require.NoError(t, err)
	assert.NotZero(t, files)

	reopened, err := InitKeyring(Config{Backend: BackendTest, Dir: dir})
	require.NoError(t, err)
	got, err := reopened.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, got.Mnemonic)

	ew, err := reopened.EVMWallet("dev")
	require.NoError(t, err)
	assert.Equal(t, rec.ETHAddress, ew.Address())
}

func TestFileBackendRejectsWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	pass := func(p string) func(string) (string, error) {
		return func(string) (string, error) { return p, nil }
	}

	kr, err := InitKeyring(Config{Backend: BackendFile, Dir: dir, PasswordFunc: pass("correct horse")})
	require.NoError(t, err)
	_, err = kr.RecoverAccountFromMnemonic("dev", testMnemonic)
	require.NoError(t, err)

	wrong, err := InitKeyring(Config{Backend: BackendFile, Dir: dir, PasswordFunc: pass("battery staple")})
	require.NoError(t, err)
	_, err = wrong.Get("dev")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrKeyNotFound))

	_, err = InitKeyring(Config{Backend: BackendFile, Dir: dir})
	assert.Error(t, err)
}

func TestPassphraseAskedOnce(t *testing.T) {
	var asked int
	kr, err := InitKeyring(Config{Backend: BackendFile, Dir: t.TempDir(), PasswordFunc: func(string) (string, error) {
		asked++
		return "secret", nil
	}})
	require.NoError(t, err)
	_, err = kr.RecoverAccountFromMnemonic("dev", testMnemonic)
	require.NoError(t, err)
	_, err = kr.EVMWallet("dev")
	require.NoError(t, err)
	_, err = kr.List()
	require.NoError(t, err)
	assert.Equal(t, 1, asked)
}

func TestUnknownBackend(t *testing.T) {
	_, err := InitKeyring(Config{Backend: "kwallet", Dir: t.TempDir()})
	assert.Error(t, err)
}
