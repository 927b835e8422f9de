package procurement

import (
	"sort"
	"strings"

	"github.com/procureflow/backend/internal/domain/shared"
)

// ComplexityLevel classifies an order's production difficulty
type ComplexityLevel string

// Complexity levels
const (
	ComplexityLevelSimple ComplexityLevel = "simple"
	ComplexityLevelMedium ComplexityLevel = "medium"
	ComplexityLevelHigh   ComplexityLevel = "high"
	ComplexityLevelCustom ComplexityLevel = "custom"
)

// IsValid checks if the complexity level is valid
func (l ComplexityLevel) IsValid() bool {
	switch l {
	case ComplexityLevelSimple, ComplexityLevelMedium, ComplexityLevelHigh, ComplexityLevelCustom:
		return true
	}
	return false
}

// OrderComplexity is a value object describing how difficult an order is to
// produce. It is an input to pricing and vendor matching and is never
// persisted independently of the order metadata. Immutable.
type OrderComplexity struct {
	level                 ComplexityLevel
	materialType          string
	designComplexityScore int
	quantity              int
	specialRequirements   []string
}

// NewOrderComplexity creates a new OrderComplexity.
// The design complexity score must be in [1, 10] and quantity at least 1.
// Special requirements are normalized to a deduplicated, sorted set.
func NewOrderComplexity(level ComplexityLevel, materialType string, designComplexityScore, quantity int, specialRequirements []string) (OrderComplexity, error) {
	if !level.IsValid() {
		return OrderComplexity{}, shared.NewDomainError("INVALID_COMPLEXITY_LEVEL", "Complexity level must be simple, medium, high or custom")
	}
	materialType = strings.ToLower(strings.TrimSpace(materialType))
	if materialType == "" {
		return OrderComplexity{}, shared.NewDomainError("INVALID_MATERIAL_TYPE", "Material type cannot be empty")
	}
	if designComplexityScore < 1 || designComplexityScore > 10 {
		return OrderComplexity{}, shared.NewDomainError("INVALID_COMPLEXITY_SCORE", "Design complexity score must be between 1 and 10")
	}
	if quantity < 1 {
		return OrderComplexity{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	seen := make(map[string]bool, len(specialRequirements))
	reqs := make([]string, 0, len(specialRequirements))
	for _, r := range specialRequirements {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		reqs = append(reqs, r)
	}
	sort.Strings(reqs)

	return OrderComplexity{
		level:                 level,
		materialType:          materialType,
		designComplexityScore: designComplexityScore,
		quantity:              quantity,
		specialRequirements:   reqs,
	}, nil
}

// Level returns the complexity level
func (c OrderComplexity) Level() ComplexityLevel {
	return c.level
}

// MaterialType returns the normalized material type
func (c OrderComplexity) MaterialType() string {
	return c.materialType
}

// DesignComplexityScore returns the design complexity score (1-10)
func (c OrderComplexity) DesignComplexityScore() int {
	return c.designComplexityScore
}

// Quantity returns the ordered quantity
func (c OrderComplexity) Quantity() int {
	return c.quantity
}

// SpecialRequirements returns the normalized requirement set
func (c OrderComplexity) SpecialRequirements() []string {
	out := make([]string, len(c.specialRequirements))
	copy(out, c.specialRequirements)
	return out
}

// HasSpecialRequirement returns true if the requirement is present
func (c OrderComplexity) HasSpecialRequirement(req string) bool {
	req = strings.ToLower(strings.TrimSpace(req))
	for _, r := range c.specialRequirements {
		if r == req {
			return true
		}
	}
	return false
}
