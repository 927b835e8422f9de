package sourcing

import (
	"sort"

	"github.com/procureflow/backend/internal/domain/partner"
)

// Scoring weights. Capability fit dominates; rating refines the order.
const (
	capabilityScore = 60
	ratingWeight    = 8 // per rating point, max 40 at rating 5
)

// VendorMatch pairs a candidate vendor with its compatibility score against
// a sourcing requirements document. Score is 0-100.
type VendorMatch struct {
	Vendor  partner.Vendor
	Score   int
	Reasons []string
}

// Matcher ranks and filters vendors against sourcing requirements. Only
// enough heuristics to shortlist quote candidates: capability fit plus
// rating. Inactive and blacklisted vendors never match.
type Matcher struct {
	minScore int
}

// NewMatcher creates a vendor matcher. Candidates scoring below minScore
// are dropped from the result.
func NewMatcher(minScore int) *Matcher {
	return &Matcher{minScore: minScore}
}

// Match scores every active vendor against the requirements and returns
// the matches ordered by descending score. Ties preserve the input order.
func (m *Matcher) Match(vendors []partner.Vendor, req Requirements) []VendorMatch {
	matches := make([]VendorMatch, 0, len(vendors))
	for _, vendor := range vendors {
		if !vendor.IsActive() {
			continue
		}

		score := 0
		reasons := make([]string, 0, 2)

		if vendor.HasCapability(req.Material) {
			score += capabilityScore
			reasons = append(reasons, "produces "+req.Material)
		}
		if vendor.Rating > 0 {
			score += vendor.Rating * ratingWeight
			reasons = append(reasons, "rated")
		}

		if score < m.minScore {
			continue
		}
		matches = append(matches, VendorMatch{Vendor: vendor, Score: score, Reasons: reasons})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
