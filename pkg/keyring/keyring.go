// Package keyring manages BIP-39 mnemonics and derives the EVM and Solana
// wallets used to sign pastes. The EVM key lives in a cosmos-sdk keyring;
// the mnemonic and addresses sit next to it in the same encrypted
// 99designs store, since Solana's ed25519 key is not a cosmos signing algo.
package keyring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	dkeyring "github.com/99designs/keyring"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdkcrypto "github.com/cosmos/cosmos-sdk/crypto"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/go-bip39"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/evm"
	"github.com/LumeraProtocol/pastadrop/pkg/wallet/solana"
)

const (
	// DefaultHDPath is the first Ethereum account (BIP-44 coin type 60).
	DefaultHDPath          = "m/44'/60'/0'/0/0"
	DefaultBIP39Passphrase = ""
	DefaultEntropyBits     = 256

	// BackendFile encrypts the store with a user passphrase.
	BackendFile = "file"
	// BackendTest is BackendFile with the fixed passphrase "test".
	BackendTest = "test"
	// BackendMemory keeps keys for the life of the process.
	BackendMemory = "memory"

	serviceName      = "pastadrop"
	fileDirName      = "keyring-file"
	testDirName      = "keyring-test"
	secretSuffix     = ".mnemonic"
	exportPassphrase = "pastadrop-export"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyExists   = errors.New("key already exists")
	ErrBadMnemonic = errors.New("invalid mnemonic")

	keyNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Config selects the keyring backend.
type Config struct {
	Backend string
	Dir     string
	// PasswordFunc supplies the passphrase of the file backend. It is
	// called at most once per opened keyring.
	PasswordFunc func(prompt string) (string, error)
}

// Record is one stored key.
type Record struct {
	Name       string    `json:"name"`
	Mnemonic   string    `json:"mnemonic"`
	ETHAddress string    `json:"eth_address"`
	SOLAddress string    `json:"sol_address"`
	CreatedAt  time.Time `json:"created_at"`
}

// Keyring pairs a cosmos keyring holding the EVM keys with the encrypted
// store it is built on.
type Keyring struct {
	dir     string
	backend string
	db      dkeyring.Keyring
	kr      sdkkeyring.Keyring
}

func newCodec() codec.Codec {
	reg := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(reg)
	return codec.NewProtoCodec(reg)
}

// InitKeyring opens (creating if needed) the keyring described by cfg.
func InitKeyring(cfg Config) (*Keyring, error) {
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}

	var (
		db  dkeyring.Keyring
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		db = dkeyring.NewArrayKeyring(nil)
	case BackendTest, BackendFile:
		if cfg.Dir == "" {
			return nil, errors.New("keyring directory is required")
		}
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return nil, errors.Errorf("failed to create keyring directory: %w", err)
		}
		passwordFunc := cfg.PasswordFunc
		fileDir := filepath.Join(cfg.Dir, fileDirName)
		if cfg.Backend == BackendTest {
			passwordFunc = func(string) (string, error) { return "test", nil }
			fileDir = filepath.Join(cfg.Dir, testDirName)
		}
		if passwordFunc == nil {
			return nil, errors.New("file keyring needs a passphrase")
		}
		db, err = dkeyring.Open(dkeyring.Config{
			ServiceName:      serviceName,
			AllowedBackends:  []dkeyring.BackendType{dkeyring.FileBackend},
			FileDir:          fileDir,
			FilePasswordFunc: onceFunc(passwordFunc),
		})
		if err != nil {
			return nil, errors.Errorf("failed to open keyring: %w", err)
		}
	default:
		return nil, errors.Errorf("unsupported keyring backend %q", cfg.Backend)
	}

	return &Keyring{
		dir:     cfg.Dir,
		backend: cfg.Backend,
		db:      db,
		kr:      sdkkeyring.NewInMemoryWithKeyring(db, newCodec()),
	}, nil
}

// onceFunc asks for the passphrase once and reuses the answer.
func onceFunc(f func(string) (string, error)) dkeyring.PromptFunc {
	var pass string
	var asked bool
	return func(prompt string) (string, error) {
		if asked {
			return pass, nil
		}
		p, err := f(prompt)
		if err != nil {
			return "", err
		}
		pass, asked = p, true
		return pass, nil
	}
}

// Dir returns the keyring directory.
func (k *Keyring) Dir() string { return k.dir }

// Backend returns the backend name.
func (k *Keyring) Backend() string { return k.backend }

// CreateNewAccount generates a mnemonic with entropyBits of entropy and
// stores it as name.
func (k *Keyring) CreateNewAccount(name string, entropyBits int) (string, *Record, error) {
	if entropyBits == 0 {
		entropyBits = DefaultEntropyBits
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", nil, errors.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, errors.Errorf("failed to generate mnemonic: %w", err)
	}
	rec, err := k.RecoverAccountFromMnemonic(name, mnemonic)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, rec, nil
}

// RecoverAccountFromMnemonic stores an existing mnemonic as name.
func (k *Keyring) RecoverAccountFromMnemonic(name, mnemonic string) (*Record, error) {
	if !keyNameRe.MatchString(name) {
		return nil, errors.Errorf("invalid key name %q", name)
	}
	mnemonic = NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrBadMnemonic
	}
	if _, err := k.Get(name); err == nil {
		return nil, errors.Errorf("%s: %w", name, ErrKeyExists)
	} else if !errors.Is(err, ErrKeyNotFound) {
		return nil, err
	}

	ethAddr, solAddr, err := deriveAddresses(mnemonic)
	if err != nil {
		return nil, err
	}

	if _, err := k.kr.NewAccount(name, mnemonic, DefaultBIP39Passphrase, DefaultHDPath, hd.Secp256k1); err != nil {
		if errors.Is(err, sdkkeyring.ErrDuplicatedAddress) {
			return nil, errors.Errorf("%s: mnemonic already stored under another name: %w", name, ErrKeyExists)
		}
		return nil, errors.Errorf("failed to store evm key: %w", err)
	}

	rec := &Record{
		Name:       name,
		Mnemonic:   mnemonic,
		ETHAddress: ethAddr,
		SOLAddress: solAddr,
		CreatedAt:  time.Now().UTC(),
	}
	if err := k.putSecret(rec); err != nil {
		_ = k.kr.Delete(name)
		return nil, err
	}
	return rec, nil
}

// Get loads the key named name.
func (k *Keyring) Get(name string) (*Record, error) {
	if !keyNameRe.MatchString(name) {
		return nil, errors.Errorf("invalid key name %q", name)
	}
	item, err := k.db.Get(name + secretSuffix)
	if errors.Is(err, dkeyring.ErrKeyNotFound) {
		return nil, errors.Errorf("%s: %w", name, ErrKeyNotFound)
	}
	if err != nil {
		return nil, errors.Errorf("failed to read key %s: %w", name, err)
	}
	var rec Record
	if err := json.Unmarshal(item.Data, &rec); err != nil {
		return nil, errors.Errorf("failed to decode key %s: %w", name, err)
	}
	return &rec, nil
}

// List returns all stored keys ordered by name.
func (k *Keyring) List() ([]Record, error) {
	infos, err := k.kr.List()
	if err != nil {
		return nil, errors.Errorf("failed to list keyring: %w", err)
	}
	out := make([]Record, 0, len(infos))
	for _, info := range infos {
		rec, err := k.Get(info.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes the key named name.
func (k *Keyring) Delete(name string) error {
	if _, err := k.Get(name); err != nil {
		return err
	}
	if err := k.kr.Delete(name); err != nil {
		return errors.Errorf("failed to delete evm key %s: %w", name, err)
	}
	if err := k.db.Remove(name + secretSuffix); err != nil {
		return errors.Errorf("failed to delete key %s: %w", name, err)
	}
	return nil
}

// EVMWallet builds the local EVM wallet for name from the key held in the
// cosmos keyring.
func (k *Keyring) EVMWallet(name string, opts ...evm.Option) (*evm.LocalWallet, error) {
	rec, err := k.Get(name)
	if err != nil {
		return nil, err
	}
	armor, err := k.kr.ExportPrivKeyArmor(name, exportPassphrase)
	if err != nil {
		return nil, errors.Errorf("failed to export evm key %s: %w", name, err)
	}
	priv, _, err := sdkcrypto.UnarmorDecryptPrivKey(armor, exportPassphrase)
	if err != nil {
		return nil, errors.Errorf("failed to decode evm key %s: %w", name, err)
	}
	w, err := evm.NewLocalWallet(priv.Bytes(), opts...)
	if err != nil {
		return nil, err
	}
	if w.Address() != rec.ETHAddress {
		return nil, errors.Errorf("evm key %s does not match its recorded address %s", name, rec.ETHAddress)
	}
	return w, nil
}

// SolanaWallet builds the local Solana wallet for name.
func (k *Keyring) SolanaWallet(name string, approver wallet.Approver) (*solana.LocalWallet, error) {
	rec, err := k.Get(name)
	if err != nil {
		return nil, err
	}
	seed, err := DeriveSolanaSeed(rec.Mnemonic)
	if err != nil {
		return nil, err
	}
	return solana.NewLocalWallet(seed, approver)
}

func (k *Keyring) putSecret(rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Errorf("failed to encode key: %w", err)
	}
	err = k.db.Set(dkeyring.Item{
		Key:         rec.Name + secretSuffix,
		Data:        raw,
		Label:       rec.Name,
		Description: "pastadrop mnemonic",
	})
	if err != nil {
		return errors.Errorf("failed to store key: %w", err)
	}
	return nil
}
