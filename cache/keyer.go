package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jonwraymond/safelaw/upstream"
)

// Key derives the deterministic cache key for one query shape. It is a pure
// function of the four search parameters: identical parameters always map
// to the same key, regardless of how the request arrived. The search value
// is used exactly as given; upstream applies its own matching rules.
func Key(p upstream.Params) string {
	canonical := fmt.Sprintf("v=%s\x00c=%d\x00p=%d\x00r=%d",
		p.SearchValue, p.Category, p.PageNo, p.NumOfRows)

	sum := sha256.Sum256([]byte(canonical))
	return "search:" + hex.EncodeToString(sum[:8])
}
