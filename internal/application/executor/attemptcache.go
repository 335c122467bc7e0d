package executor

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"convroute/internal/domain/handler"
)

// attemptCache memoizes handler steps within a single TryConvert call: two
// candidate paths that happen to share a prefix (same handler, same
// input/output formats, same input bytes) do not redo the same conversion.
// It is scoped to one call and discarded afterward; it does not change which
// path wins, only how much work producing the winner costs.
type attemptCache struct {
	entries map[string][]handler.File
}

func newAttemptCache() *attemptCache {
	return &attemptCache{entries: make(map[string][]handler.File)}
}

func (c *attemptCache) key(handlerName, inMIME, outMIME string, files []handler.File) string {
	h := blake3.New()
	h.Write([]byte(handlerName))
	h.Write([]byte{0})
	h.Write([]byte(inMIME))
	h.Write([]byte{0})
	h.Write([]byte(outMIME))
	for _, f := range files {
		h.Write([]byte{0})
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write(f.Bytes)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *attemptCache) get(key string) ([]handler.File, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *attemptCache) put(key string, files []handler.File) {
	c.entries[key] = files
}
