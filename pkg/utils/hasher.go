package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"regexp"
)

// Sha256DigestHexLen is the length of a hex-encoded SHA-256 digest.
const Sha256DigestHexLen = sha256.Size * 2

var hexDigestRe = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// hashReaderSHA256 streams r through SHA-256 using a buffer sized from
// sizeHint so large payloads are not copied through io.Copy's 32 KiB buffer.
func hashReaderSHA256(r io.Reader, sizeHint int64) ([]byte, error) {
	buf := make([]byte, chunkSizeFor(sizeHint))

	h := sha256.New()
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return nil, werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
	}
	return h.Sum(nil), nil
}

// chunkSizeFor returns the read buffer size based on total input size.
func chunkSizeFor(total int64) int64 {
	if total <= 0 {
		return 64 << 10 // 64 KiB when the size is unknown
	}
	switch {
	case total <= 64<<10:
		return total
	case total <= 4<<20: // ≤ 4 MiB
		return 256 << 10
	default:
		return 1 << 20
	}
}

// Sha256Hash returns the SHA-256 digest of msg.
func Sha256Hash(msg []byte) []byte {
	sum := sha256.Sum256(msg)
	return sum[:]
}

// Sha256Hex returns the lower-case hex SHA-256 digest of msg.
func Sha256Hex(msg []byte) string {
	return hex.EncodeToString(Sha256Hash(msg))
}

// Sha256HashReader returns the hex SHA-256 digest of everything read from r.
// sizeHint may be 0 when the length is unknown.
func Sha256HashReader(r io.Reader, sizeHint int64) (string, error) {
	sum, err := hashReaderSHA256(r, sizeHint)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// IsHexDigest reports whether s looks like a hex-encoded SHA-256 digest.
func IsHexDigest(s string) bool {
	return hexDigestRe.MatchString(s)
}
