// Package fingerprint derives stable dedupe identity keys for remote notes.
package fingerprint

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/starford/pebblesync/internal/models"
)

// Hash returns the FNV-1a 32-bit digest of content rendered in base 36.
// This is a dedupe heuristic, not an integrity check; collisions are
// acceptable and cheapness matters more than strength.
func Hash(content string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

// Key builds the ledger identity key for a note. The key is composed of the
// creation timestamp as given, the remote identifier, and the content hash,
// joined with "|". Empty segments are omitted entirely rather than kept as
// empty placeholders, so a record with an identifier never equals one
// without unless the remaining segments also match.
//
// Records carrying neither a timestamp nor an identifier collapse to the
// content hash alone: two such notes with identical text are
// indistinguishable to the ledger. The remote service sends createdAt in
// practice, so this stays a corner case.
func Key(n models.RemoteNote) string {
	segs := make([]string, 0, 3)
	if n.CreatedAt != "" {
		segs = append(segs, n.CreatedAt)
	}
	if n.RemoteID != "" {
		segs = append(segs, n.RemoteID)
	}
	segs = append(segs, Hash(n.Content))
	return strings.Join(segs, "|")
}
