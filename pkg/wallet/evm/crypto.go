package evm

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

const personalMessagePrefix = "\x19Ethereum Signed Message:\n"

// SignatureLen is the length of an r||s||v signature.
const SignatureLen = 65

// Keccak256 returns the legacy Keccak-256 digest of the concatenated inputs.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// HashPersonalMessage returns the EIP-191 digest personal_sign signs.
func HashPersonalMessage(msg []byte) []byte {
	prefix := personalMessagePrefix + strconv.Itoa(len(msg))
	return Keccak256([]byte(prefix), msg)
}

// PubKeyToAddress derives the EIP-55 checksummed address of pub.
func PubKeyToAddress(pub *secp256k1.PublicKey) string {
	uncompressed := pub.SerializeUncompressed()
	return ChecksumAddress(hex.EncodeToString(Keccak256(uncompressed[1:])[12:]))
}

// ChecksumAddress applies EIP-55 mixed-case encoding to a hex address with
// or without the 0x prefix.
func ChecksumAddress(addr string) string {
	lower := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X"))
	digest := hex.EncodeToString(Keccak256([]byte(lower)))

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return "0x" + string(out)
}

// IsHexAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsHexAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// SignPersonal signs msg the way personal_sign does and returns the 0x-hex
// r||s||v signature with v in {27, 28}.
func SignPersonal(key *secp256k1.PrivateKey, msg []byte) string {
	compact := ecdsa.SignCompact(key, HashPersonalMessage(msg), false)
	// compact is v||r||s; Ethereum orders it r||s||v.
	sig := append(compact[1:SignatureLen:SignatureLen], compact[0])
	return "0x" + hex.EncodeToString(sig)
}

// RecoverPersonal returns the checksummed address that produced sigHex over
// msg.
func RecoverPersonal(msg []byte, sigHex string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return "", errors.Errorf("decode signature: %w", err)
	}
	if len(sig) != SignatureLen {
		return "", errors.Errorf("signature must be %d bytes, got %d", SignatureLen, len(sig))
	}
	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return "", errors.Errorf("invalid recovery id %d", sig[64])
	}

	compact := make([]byte, SignatureLen)
	compact[0] = 27 + v
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, HashPersonalMessage(msg))
	if err != nil {
		return "", errors.Errorf("recover public key: %w", err)
	}
	return PubKeyToAddress(pub), nil
}

// VerifyPersonal reports whether sigHex over msg was produced by address.
func VerifyPersonal(msg []byte, sigHex, address string) error {
	got, err := RecoverPersonal(msg, sigHex)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, address) {
		return errors.Errorf("signature recovers to %s, not %s", got, address)
	}
	return nil
}
