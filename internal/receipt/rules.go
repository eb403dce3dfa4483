package receipt

import "regexp"

// MatchStrength separates full-name matches from tolerant ones.
type MatchStrength int

const (
	StrengthFuzzy MatchStrength = iota
	StrengthDirect
)

// Rule is one fuzzy pattern in a family's ordered rule table. A rule with a
// Backing pattern only matches lines that also carry that second signal.
type Rule struct {
	Name     string
	Family   ProductFamily
	Pattern  *regexp.Regexp
	Backing  *regexp.Regexp
	Strength MatchStrength
}

func rule(family ProductFamily, name string, strength MatchStrength, expr string) Rule {
	return Rule{Name: name, Family: family, Pattern: regexp.MustCompile(expr), Strength: strength}
}

func backed(r Rule, expr string) Rule {
	r.Backing = regexp.MustCompile(expr)
	return r
}

// Matches reports whether line satisfies the rule.
func (r Rule) Matches(line string) bool {
	return r.Pattern.MatchString(line) && (r.Backing == nil || r.Backing.MatchString(line))
}

// gin names the product type; loose spellings of the brand need it on the
// same line.
const gin = `\b(?:gin|amber)\b`

// PrimaryRules match the gin. Lines are lower-cased before matching. Fuzzy
// rules stay inside a single token so letters of unrelated words never
// combine into a match.
var PrimaryRules = []Rule{
	rule(FamilyPrimary, "exact", StrengthDirect, `bloedlemoen`),
	rule(FamilyPrimary, "truncated-tail", StrengthDirect, `bloedlemoe`),
	rule(FamilyPrimary, "ocr-n-confusion", StrengthDirect, `bloedlemon`),
	rule(FamilyPrimary, "separated", StrengthDirect, `\bbloed[\s\-./]{1,3}lemoen`),
	rule(FamilyPrimary, "separated-truncated", StrengthFuzzy, `\bbloed[\s\-./]{1,3}lemoe`),
	rule(FamilyPrimary, "abbreviated", StrengthFuzzy, `\bb[\s/\-.]{1,2}lemoen`),
	rule(FamilyPrimary, "abbreviated-truncated", StrengthFuzzy, `\bb[\s/\-.]{1,2}lemoe`),
	backed(rule(FamilyPrimary, "scattered", StrengthFuzzy, `\bb\S{0,4}l\S{0,4}em\S{0,2}[oe]n\b`), gin),
	backed(rule(FamilyPrimary, "partial-bli", StrengthFuzzy, `\bbli\S{0,3}em\S*`), gin),
	backed(rule(FamilyPrimary, "consonant-skeleton", StrengthFuzzy, `\bbl\S{0,3}d\S{0,3}l\S{0,3}m\S*`), gin),
	rule(FamilyPrimary, "prefix", StrengthFuzzy, `\bbloedl`),
	backed(rule(FamilyPrimary, "lemoen", StrengthFuzzy, `\blemoen\b`), gin),
	backed(rule(FamilyPrimary, "lemoe", StrengthFuzzy, `\blemoe\b`), gin),
}

// SecondaryRules match the tonic packs.
var SecondaryRules = []Rule{
	rule(FamilySecondary, "fever-tree", StrengthDirect, `fever.*tree`),
	rule(FamilySecondary, "fevertree", StrengthDirect, `fevertree`),
	rule(FamilySecondary, "fever-tree-hyphen", StrengthDirect, `fever-tree`),
	rule(FamilySecondary, "tonic-water", StrengthFuzzy, `tonic.*water`),
	rule(FamilySecondary, "fever-tonic", StrengthFuzzy, `fever.*tonic`),
	rule(FamilySecondary, "tree-tonic", StrengthFuzzy, `tree.*tonic`),
	rule(FamilySecondary, "tonic-fever", StrengthFuzzy, `tonic.*fever`),
	rule(FamilySecondary, "water-fever", StrengthFuzzy, `water.*fever`),
	rule(FamilySecondary, "water-tonic", StrengthFuzzy, `water.*tonic`),
	rule(FamilySecondary, "ocr-fover-tree", StrengthFuzzy, `fover.*tree`),
	rule(FamilySecondary, "ocr-fever-troo", StrengthFuzzy, `fever.*troo`),
	rule(FamilySecondary, "ocr-fover-troo", StrengthFuzzy, `fover.*troo`),
	rule(FamilySecondary, "ocr-fovertree", StrengthFuzzy, `fovertree`),
	rule(FamilySecondary, "ocr-fovertro", StrengthFuzzy, `fovertro`),
	rule(FamilySecondary, "fv-tree-tonic", StrengthFuzzy, `[fv].*tree.*tonic`),
	rule(FamilySecondary, "tonic-pack", StrengthFuzzy, `tonic.*[4x]`),
	rule(FamilySecondary, "200ml-tonic", StrengthFuzzy, `200m.*tonic`),
}

// reDisqualifyingSize blocks miniature bottles, which do not earn points.
var reDisqualifyingSize = regexp.MustCompile(`\b50\s*ml\b`)

// reBundleMarker identifies a complimentary secondary product on a line.
var reBundleMarker = regexp.MustCompile(`\+|\bfree\b|\bbundle\b|\bwith\b`)

// firstMatch returns the first rule of the table matching line.
func firstMatch(rules []Rule, line string) (Rule, bool) {
	for _, r := range rules {
		if r.Matches(line) {
			return r, true
		}
	}
	return Rule{}, false
}

const primaryToken = `(?:bloedlemoen|bloedlemoe|bloedlemon|\bb[\s/\-.]{1,2}lemoen)`

const secondaryToken = `(?:fever[\s\-]*tree|fevertree|fover[\s\-]*tree|tonic)`

// primaryQuantityPatterns are tried in order; the first plausible capture
// wins. Counts are tied to the product token so a leading number of another
// product, or the cents of a price, is never read as a bottle count.
var primaryQuantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bqty\s*:?\s*(\d+)`),
	regexp.MustCompile(`\bquantity\s*:?\s*(\d+)`),
	regexp.MustCompile(`(\d{1,2})\s*(?:x\s*)?` + primaryToken),
	regexp.MustCompile(primaryToken + `.*\bx\s*(\d{1,2})\b`),
	regexp.MustCompile(`(\d{1,2})\s*bottles?\s*` + primaryToken),
	regexp.MustCompile(primaryToken + `.*\s(\d{1,2})\s*bottles?`),
}

var secondaryQuantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)\s*x?\s*` + secondaryToken),
	regexp.MustCompile(`qty\s*:?\s*(\d+)`),
	regexp.MustCompile(`quantity\s*:?\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*x\s*` + secondaryToken),
	regexp.MustCompile(`(\d+)\s*packs?\s*(?:of\s*\d+\s*)?` + secondaryToken),
	regexp.MustCompile(secondaryToken + `.*\bx\s*(\d{1,2})\b`),
}

// rePrice finds monetary amounts used by the price-ratio fallback.
var rePrice = regexp.MustCompile(`\d+[.,]\d{2}\b`)
