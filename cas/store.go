package cas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/modelops/contracts/digest"
)

// Sentinel errors returned by stores.
var (
	// ErrNotFound means no content exists under the reference.
	ErrNotFound = errors.New("cas: ref not found")

	// ErrChecksumMismatch means the data does not hash to the supplied
	// checksum.
	ErrChecksumMismatch = errors.New("cas: checksum mismatch")
)

// Store is the content-addressable storage port.
type Store interface {
	// Put stores data after verifying it hashes to checksumHex
	// (SHA-256, lowercase hex). It returns the reference for Get.
	// Storing the same content twice is idempotent.
	Put(ctx context.Context, data []byte, checksumHex string) (string, error)

	// Get retrieves content by reference, failing with ErrNotFound
	// when absent.
	Get(ctx context.Context, ref string) ([]byte, error)

	// Exists reports whether content is present under the reference.
	Exists(ctx context.Context, ref string) (bool, error)

	// Close releases backend resources.
	Close() error
}

// RefFor computes the storage reference for a checksum: the default
// shard path of the hex digest.
func RefFor(checksumHex string) (string, error) {
	ref, err := digest.ShardDefault(checksumHex)
	if err != nil {
		return "", err
	}
	return ref, nil
}

// verify hashes data and checks it against the expected checksum,
// returning the verified reference.
func verify(data []byte, checksumHex string) (string, error) {
	sum := sha256.Sum256(data)
	actual := hex.EncodeToString(sum[:])
	if actual != checksumHex {
		return "", fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, checksumHex, actual)
	}
	return RefFor(checksumHex)
}
