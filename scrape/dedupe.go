package scrape

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/harvestlabs/harvest"
)

// Policy selects how item fingerprints are derived. Exactly one policy
// applies to a whole batch; policies are never mixed within a run.
type Policy string

const (
	// PolicyTitlePrefix fingerprints on the lowercased title plus the
	// first 200 runes of content. It treats re-published posts with
	// trailing edits as duplicates, which is what batch scraping wants.
	PolicyTitlePrefix Policy = "title-prefix"

	// PolicyContentHash fingerprints on a hash of the full content.
	// Any byte of difference makes items distinct.
	PolicyContentHash Policy = "content-hash"
)

// DefaultPolicy is used when a run does not select one.
const DefaultPolicy = PolicyTitlePrefix

// fingerprintPrefixRunes is how much content participates in the
// title-prefix fingerprint.
const fingerprintPrefixRunes = 200

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	return p == PolicyTitlePrefix || p == PolicyContentHash
}

// Fingerprint derives the dedup key for an item under the given policy.
// Keys are hashed so they stay short regardless of content size, and the
// hash is stable across runs and platforms.
func Fingerprint(item *harvest.Item, policy Policy) string {
	var material string
	switch policy {
	case PolicyContentHash:
		material = item.Content
	default:
		material = strings.ToLower(item.Title) + "|" +
			strings.ToLower(harvest.TruncateRunes(item.Content, fingerprintPrefixRunes))
	}
	return fmt.Sprintf("%x", xxhash.Sum64String(material))
}

// Dedupe removes duplicate items under one policy, keeping the first
// occurrence. Input order is preserved, so deduplication is stable and
// idempotent: running it twice changes nothing.
func Dedupe(items []*harvest.Item, policy Policy) (kept []*harvest.Item, duplicates int) {
	seen := make(map[string]bool, len(items))
	kept = make([]*harvest.Item, 0, len(items))
	for _, item := range items {
		fp := Fingerprint(item, policy)
		if seen[fp] {
			duplicates++
			continue
		}
		seen[fp] = true
		kept = append(kept, item)
	}
	return kept, duplicates
}
