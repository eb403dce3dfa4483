package receipt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Detector finds qualifying products in normalized receipt lines.
type Detector struct {
	policy    Policy
	primary   []Rule
	secondary []Rule
}

// NewDetector builds a detector over the default rule tables.
func NewDetector(policy Policy) *Detector {
	return NewDetectorWithRules(policy, PrimaryRules, SecondaryRules)
}

// NewDetectorWithRules builds a detector over custom rule tables.
func NewDetectorWithRules(policy Policy, primary, secondary []Rule) *Detector {
	return &Detector{policy: policy, primary: primary, secondary: secondary}
}

// scan is the accumulator of the line fold. Each family keeps its own set
// of processed lines so a physical line contributes at most once per family.
type scan struct {
	seen     map[ProductFamily]map[string]struct{}
	products []DetectedProduct
}

func (s scan) has(f ProductFamily, line string) bool {
	_, ok := s.seen[f][line]
	return ok
}

func (s scan) mark(f ProductFamily, line string) scan {
	set, ok := s.seen[f]
	if !ok {
		set = make(map[string]struct{})
		s.seen[f] = set
	}
	set[line] = struct{}{}
	return s
}

func (s scan) emit(p DetectedProduct) scan {
	s.products = append(s.products, p)
	return s
}

func foldLines[S any](lines []string, acc S, step func(S, string) S) S {
	for _, l := range lines {
		acc = step(acc, l)
	}
	return acc
}

// Detect scans lines in order and returns one product per matched line and
// family. It is a pure function of its input.
func (d *Detector) Detect(lines []string) []DetectedProduct {
	start := scan{seen: make(map[ProductFamily]map[string]struct{})}
	return foldLines(lines, start, d.step).products
}

func (d *Detector) step(acc scan, raw string) scan {
	line := strings.ToLower(strings.TrimSpace(raw))
	if len(line) < d.policy.MinLineLength {
		return acc
	}
	source := strings.TrimSpace(raw)

	primary, hasPrimary := firstMatch(d.primary, line)
	if hasPrimary && acc.has(FamilyPrimary, line) {
		hasPrimary = false
	}
	secondary, hasSecondary := firstMatch(d.secondary, line)
	if hasSecondary && acc.has(FamilySecondary, line) {
		hasSecondary = false
	}

	if hasPrimary && reDisqualifyingSize.MatchString(line) {
		acc = acc.mark(FamilyPrimary, line)
		hasPrimary = false
	}

	if hasPrimary && hasSecondary && d.policy.BundleMode == BundleCombined && reBundleMarker.MatchString(line) {
		qty := d.primaryQuantity(line)
		acc = acc.mark(FamilyPrimary, line).mark(FamilySecondary, line)
		return acc.emit(DetectedProduct{
			Family:     FamilyBundle,
			Name:       d.policy.BundleName,
			Quantity:   qty,
			SourceLine: source,
			Points:     d.policy.BundlePoints * qty,
			Confidence: d.policy.BundleWeight,
			Rule:       primary.Name + "+" + secondary.Name,
		})
	}

	if hasPrimary {
		qty := d.primaryQuantity(line)
		acc = acc.mark(FamilyPrimary, line).emit(DetectedProduct{
			Family:     FamilyPrimary,
			Name:       d.policy.PrimaryName,
			Quantity:   qty,
			SourceLine: source,
			Points:     d.policy.PointsPerBottle * qty,
			Confidence: d.weight(primary),
			Rule:       primary.Name,
		})
	}

	if hasSecondary {
		qty := extractQuantity(line, secondaryQuantityPatterns, d.policy.MaxPacksPerLine)
		acc = acc.mark(FamilySecondary, line).emit(DetectedProduct{
			Family:     FamilySecondary,
			Name:       d.policy.SecondaryName,
			Quantity:   qty,
			SourceLine: source,
			Points:     d.policy.PointsPerPack * qty,
			Confidence: d.weight(secondary),
			Rule:       secondary.Name,
		})
	}

	return acc
}

func (d *Detector) weight(r Rule) int {
	switch {
	case r.Family == FamilyPrimary && r.Strength == StrengthDirect:
		return d.policy.PrimaryDirectWeight
	case r.Family == FamilyPrimary:
		return d.policy.PrimaryFuzzyWeight
	case r.Strength == StrengthDirect:
		return d.policy.SecondaryDirectWeight
	default:
		return d.policy.SecondaryFuzzyWeight
	}
}

func (d *Detector) primaryQuantity(line string) int {
	if qty, ok := matchQuantity(line, primaryQuantityPatterns, d.policy.MaxBottlesPerLine); ok {
		return qty
	}
	if qty, ok := priceRatioQuantity(line, d.policy.MaxBottlesPerLine); ok {
		return qty
	}
	return 1
}

// extractQuantity applies explicit quantity markers and defaults to one.
func extractQuantity(line string, patterns []*regexp.Regexp, limit int) int {
	if qty, ok := matchQuantity(line, patterns, limit); ok {
		return qty
	}
	return 1
}

func matchQuantity(line string, patterns []*regexp.Regexp, limit int) (int, bool) {
	for _, p := range patterns {
		m := p.FindStringSubmatchIndex(line)
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		start, end := m[2], m[3]
		if !standaloneCount(line, start, end) {
			continue
		}
		n, err := strconv.Atoi(line[start:end])
		if err != nil || n <= 0 || n > limit {
			continue
		}
		return n, true
	}
	return 0, false
}

// standaloneCount rejects captures that are part of a larger number, the
// fraction of a price, or an amount following a currency marker.
func standaloneCount(line string, start, end int) bool {
	if start > 0 && isAmountByte(line[start-1]) {
		return false
	}
	if end+1 < len(line) && (line[end] == '.' || line[end] == ',') && isDigit(line[end+1]) {
		return false
	}

	before := strings.TrimRight(line[:start], " \t")
	for _, sym := range []string{"$", "€", "£"} {
		if strings.HasSuffix(before, sym) {
			return false
		}
	}
	if strings.HasSuffix(before, "r") {
		rest := before[:len(before)-1]
		if rest == "" || !isLetter(rest[len(rest)-1]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isLetter(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }

func isAmountByte(b byte) bool { return isDigit(b) || b == '.' || b == ',' }

// priceRatioQuantity infers a quantity from a unit price followed by a line
// total that is an exact multiple of it, e.g. "349.99 699.98" gives 2.
func priceRatioQuantity(line string, limit int) (int, bool) {
	prices := rePrice.FindAllString(line, -1)
	if len(prices) < 2 {
		return 0, false
	}
	unit, err := parseAmount(prices[0])
	if err != nil || !unit.IsPositive() {
		return 0, false
	}
	total, err := parseAmount(prices[len(prices)-1])
	if err != nil || total.LessThanOrEqual(unit) {
		return 0, false
	}
	if !total.Mod(unit).IsZero() {
		return 0, false
	}
	ratio := total.Div(unit).IntPart()
	if ratio < 2 || ratio > int64(limit) {
		return 0, false
	}
	return int(ratio), true
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
