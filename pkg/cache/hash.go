package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/orrery/pkg/scene"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ConfigHash fingerprints a builder configuration. Two configs that
// produce the same scene for a given seed hash equally because the
// hash covers exactly the builder inputs.
func ConfigHash(cfg scene.Config) string {
	data, _ := json.Marshal(cfg)
	return Hash(data)
}

// ArtifactKey generates the cache key for a rendered artifact. The key
// covers everything that influences the output bytes: the seed, the
// config fingerprint, the output format, and the surface size.
func ArtifactKey(seed int64, cfgHash, format string, w, h int) string {
	return hashKey("artifact", seed, cfgHash, format, w, h)
}
