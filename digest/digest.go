package digest

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/modelops/contracts"
)

// HexLen is the length of a rendered digest: 32 bytes as lowercase hex.
const HexLen = 64

// Digest is a 256-bit BLAKE2b hash rendered as a 64-character lowercase
// hex string. A Digest is immutable once produced; construct one with
// Sum or validate an externally supplied string with Parse.
type Digest string

// String returns the hex rendering.
func (d Digest) String() string {
	return string(d)
}

// Valid reports whether the digest is exactly 64 lowercase hex characters.
func (d Digest) Valid() bool {
	if len(d) != HexLen {
		return false
	}
	for i := 0; i < len(d); i++ {
		if !isHex(d[i]) {
			return false
		}
	}
	return true
}

// Parse validates s as a digest. It fails with KindInvalidDigestFormat
// when s is not exactly 64 lowercase hex characters.
func Parse(s string) (Digest, error) {
	d := Digest(s)
	if !d.Valid() {
		return "", contracts.NewInvalidDigestFormatError("digest.Parse", s)
	}
	return d, nil
}

// Sum computes the BLAKE2b-256 digest of data. Identical input bytes
// always yield identical output; the function is pure and stateless.
func Sum(data []byte) Digest {
	sum := blake2b.Sum256(data)
	return Digest(hex.EncodeToString(sum[:]))
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
