// Package identity derives stable job identifiers from natural-key fields.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// sep keeps the concatenation unambiguous: an absent field stays as an
// empty string between separators, so ("", "abc") and ("abc", "") never
// hash to the same id.
const sep = "\x1f"

// JobID returns the content-addressed id for a job: sha256 over
// source, url and ats id in that fixed order. Identical inputs always
// produce the identical id across runs, which makes re-ingestion an
// update rather than a duplicate.
func JobID(source, url, atsID string) string {
	sum := sha256.Sum256([]byte(source + sep + url + sep + atsID))
	return hex.EncodeToString(sum[:])
}
