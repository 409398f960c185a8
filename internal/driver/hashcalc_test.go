package driver

import (
	"crypto/sha256"
	"testing"
)

func TestCacheKeyDependsOnEveryInput(t *testing.T) {
	a := sha256.Sum256([]byte("struct A {}"))
	b := sha256.Sum256([]byte("struct B {}"))

	base := cacheKey(a, "aliases-1", false)
	if base != cacheKey(a, "aliases-1", false) {
		t.Fatal("cacheKey is not deterministic")
	}
	variants := map[string]Digest{
		"content": cacheKey(b, "aliases-1", false),
		"aliases": cacheKey(a, "aliases-2", false),
		"nested":  cacheKey(a, "aliases-1", true),
	}
	for name, k := range variants {
		if k == base {
			t.Errorf("changing %s did not change the key", name)
		}
	}
}
