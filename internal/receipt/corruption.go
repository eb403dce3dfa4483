package receipt

import (
	"regexp"
)

// CorruptionKind names the failure mode of unusable text. It only selects
// the remediation shown to the user.
type CorruptionKind string

const (
	CorruptionNone         CorruptionKind = ""
	CorruptionEmailPDF     CorruptionKind = "email-pdf-corruption"
	CorruptionGlyph        CorruptionKind = "glyph-corruption"
	CorruptionInsufficient CorruptionKind = "insufficient-text"
)

// Thresholds of the usability check.
const (
	MinWordDensity       = 0.5
	ShortTextLength      = 100
	MaxCorruptionRatio   = 0.5
	MinReadableWordCount = 3
)

var (
	reReadableWord = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
	reGlyphTriplet = regexp.MustCompile(`GGG|VGG`)
	reGlyphRun     = regexp.MustCompile(`[VG]{3,}`)
	reOrderMarker  = regexp.MustCompile(`(?i)order\s*(?:#|no\.?|number)?\s*:?\s*#?\s*\d{3,}|order\s+confirm`)
	reEmailHeader  = regexp.MustCompile(`(?i)\b(?:subject|from|to):`)
)

// Verdict is the result of the usability check.
type Verdict struct {
	Usable          bool
	Kind            CorruptionKind
	ReadableWords   int
	WordDensity     float64
	CorruptionRatio float64
}

// Classify decides whether text is usable for detection and, when it is
// not, which corruption mode most likely caused it.
func Classify(text string) Verdict {
	length := len(text)
	words := len(reReadableWord.FindAllStringIndex(text, -1))

	density := float64(words) / max(float64(length)/10, 1)

	var ratio float64
	if length > 0 {
		ratio = float64(len(reGlyphTriplet.FindAllStringIndex(text, -1))*3) / float64(length)
	}

	v := Verdict{
		ReadableWords:   words,
		WordDensity:     density,
		CorruptionRatio: ratio,
	}

	unusable := (density < MinWordDensity && length < ShortTextLength) ||
		ratio > MaxCorruptionRatio ||
		words < MinReadableWordCount
	if !unusable {
		v.Usable = true
		return v
	}

	v.Kind = corruptionKind(text)
	return v
}

func corruptionKind(text string) CorruptionKind {
	glyphs := reGlyphRun.MatchString(text)
	switch {
	case glyphs && reOrderMarker.MatchString(text) && reEmailHeader.MatchString(text):
		return CorruptionEmailPDF
	case glyphs:
		return CorruptionGlyph
	default:
		return CorruptionInsufficient
	}
}
