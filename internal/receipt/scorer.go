package receipt

import (
	"regexp"
	"strings"
)

var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total[:\s]+r?\s*(\d+[.,]\d{2})`),
	regexp.MustCompile(`(?i)amount[:\s]+r?\s*(\d+[.,]\d{2})`),
	regexp.MustCompile(`(?i)^r\s*(\d+[.,]\d{2})$`),
	regexp.MustCompile(`(?i)(\d+[.,]\d{2})[*\s]*total`),
}

// datePatterns try the year-first form before day-first so "2024/03/15" is
// not read as "24/03/15".
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2})`),
	regexp.MustCompile(`(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{2,4})`),
}

// Scorer aggregates independent receipt signals into an Analysis.
type Scorer struct {
	policy Policy
}

// NewScorer returns a scorer for the given policy.
func NewScorer(policy Policy) *Scorer {
	return &Scorer{policy: policy}
}

// Score builds the analysis of a receipt from its lines and the products
// detected in them. It is deterministic and has no side effects.
func (s *Scorer) Score(lines []string, products []DetectedProduct) Analysis {
	a := Analysis{Products: make([]DetectedProduct, len(products))}
	copy(a.Products, products)

	if store, ok := s.matchStore(lines); ok {
		a.StoreName = strings.ToUpper(store)
		a.Confidence += s.policy.StoreWeight
	}

	for _, p := range products {
		a.Confidence += p.Confidence
		switch p.Family {
		case FamilyPrimary:
			a.TotalBottles += p.Quantity
		case FamilySecondary:
			a.TotalPacks += p.Quantity
		case FamilyBundle:
			a.TotalBottles += p.Quantity
			a.TotalPacks += p.Quantity
		}
	}

	if total, ok := firstCapture(lines, totalPatterns); ok {
		a.TotalAmount = canonicalAmount(total)
		a.Confidence += s.policy.TotalWeight
	}

	if date, ok := firstCapture(lines, datePatterns); ok {
		a.TransactionDate = date
		a.Confidence += s.policy.DateWeight
	}

	a.IsValid = s.policy.Accepts(a.Confidence, a.TotalBottles, a.TotalPacks)
	return a
}

func (s *Scorer) matchStore(lines []string) (string, bool) {
	text := strings.ToLower(strings.Join(lines, "\n"))
	for _, store := range s.policy.Stores {
		if strings.Contains(text, store) {
			return store, true
		}
	}
	return "", false
}

func firstCapture(lines []string, patterns []*regexp.Regexp) (string, bool) {
	for _, line := range lines {
		for _, p := range patterns {
			if m := p.FindStringSubmatch(line); m != nil {
				if len(m) > 1 && m[1] != "" {
					return m[1], true
				}
				return m[0], true
			}
		}
	}
	return "", false
}

// canonicalAmount renders an amount with a dot separator and two decimals.
func canonicalAmount(s string) string {
	d, err := parseAmount(s)
	if err != nil {
		return s
	}
	return d.StringFixed(2)
}

// Award is the number of points a valid analysis earns: the sum of the
// per-product points, with no caps or bonuses.
func Award(a Analysis) int {
	if !a.IsValid {
		return 0
	}
	points := 0
	for _, p := range a.Products {
		points += p.Points
	}
	return points
}
