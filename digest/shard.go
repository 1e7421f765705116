package digest

import (
	"strings"

	"github.com/modelops/contracts"
)

// Default shard layout: two levels of two characters each keeps
// directories shallow and evenly distributed for hex-named content.
const (
	DefaultShardDepth = 2
	DefaultShardWidth = 2
)

// Shard maps a hex digest to a nested relative path: depth successive
// width-character prefixes followed by the full digest, joined with "/".
//
//	Shard("abcdef...", 2, 2) -> "ab/cd/abcdef..."
//
// It fails with KindDigestTooShort when the digest is shorter than
// depth*width. The function is pure; storage adapters call it to place
// content-addressed data without coordinating.
func Shard(digest string, depth, width int) (string, error) {
	need := depth * width
	if len(digest) < need {
		return "", contracts.NewDigestTooShortError("digest.Shard", need, len(digest))
	}

	parts := make([]string, 0, depth+1)
	for i := 0; i < depth; i++ {
		start := i * width
		parts = append(parts, digest[start:start+width])
	}
	parts = append(parts, digest)

	return strings.Join(parts, "/"), nil
}

// ShardDefault is Shard with the default depth and width.
func ShardDefault(digest string) (string, error) {
	return Shard(digest, DefaultShardDepth, DefaultShardWidth)
}
