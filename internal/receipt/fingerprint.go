package receipt

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

const fingerprintVersion = "v1"

// volatileFields are removed before hashing so that two captures of the same
// physical receipt hash identically.
var volatileFields = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2}`),
	regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`),
	regexp.MustCompile(`\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{2,4}`),
	regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?`),
	regexp.MustCompile(`(?:ref(?:erence)?|txn|trans(?:action)?|receipt|order|invoice|auth(?:orisation|orization)?|slip|till)\s*(?:no\.?|number|id|#)?\s*[:#]?\s*[a-z0-9\-]*\d[a-z0-9\-]*`),
	regexp.MustCompile(`\d{6,}`),
}

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Fingerprint derives the duplicate-detection key of a receipt from its
// normalized text and total amount. An empty amount is hashed as such.
func Fingerprint(text, totalAmount string) string {
	content := strings.ToLower(text)
	for _, re := range volatileFields {
		content = re.ReplaceAllString(content, " ")
	}
	content = reNonAlnum.ReplaceAllString(content, "")

	amount := ""
	if totalAmount != "" {
		amount = canonicalAmount(totalAmount)
	}

	sum := sha256.Sum256([]byte(fingerprintVersion + "|" + content + "|" + amount))
	return hex.EncodeToString(sum[:])
}
