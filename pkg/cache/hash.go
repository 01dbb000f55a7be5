package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a stage-scoped cache key: prefix:hash(parts...).
// The prefix names the pipeline stage (graph, layout, artifact) so a
// cache clear or inspection can tell the entry kinds apart; the hash
// covers every option that influences the stage's output.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes the SHA-256 hex digest of data. The full 64-character
// digest is used both for cache keys and as the graph content hash
// surfaced through the pipeline result and the HTTP API.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
