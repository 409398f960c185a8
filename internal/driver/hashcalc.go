package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"mimic/internal/semantic"
)

// Digest is a sha256 sum used as a cache key.
type Digest [32]byte

// cacheKey: H(schema || content || alias digest || options). Любое изменение
// алиасов проекта инвалидирует все файлы.
func cacheKey(content [32]byte, aliasDigest string, nested bool) Digest {
	h := sha256.New()
	var hdr [3]byte
	binary.LittleEndian.PutUint16(hdr[:2], semantic.SchemaVersion)
	if nested {
		hdr[2] = 1
	}
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(content[:])
	_, _ = h.Write([]byte(aliasDigest))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
