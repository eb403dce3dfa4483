package receipt

import (
	"regexp"
	"strings"
)

const (
	// flattenedLineLength is the length above which a lone line is assumed
	// to be a whole receipt with its line breaks lost.
	flattenedLineLength = 200

	maxCleaningPasses = 4
)

var (
	reLineBreaks     = regexp.MustCompile(`\r\n?`)
	reWideSpace      = regexp.MustCompile(`[ \t\f\v]{3,}`)
	reLeadingGlyphs  = regexp.MustCompile(`^(?:[VG]{3,}\s+)+`)
	reSpacedUpper    = regexp.MustCompile(`\b(?:[A-Z][ \t]+){2,}[A-Z]\b`)
	reSpacedLower    = regexp.MustCompile(`\b(?:[a-z][ \t]+){2,}[a-z]\b`)
	reHorizontalGaps = regexp.MustCompile(`[ \t]+`)

	// reSectionBoundary marks where a flattened email receipt had its lines.
	reSectionBoundary = regexp.MustCompile(`(?i)subject:|from:|to:|order|thank you|bloedlemoen|fever tree|subtotal|total|customer information`)
)

type spacedWord struct {
	re        *regexp.Regexp
	canonical string
}

// spacedWords repairs letter-spaced spellings of campaign vocabulary before
// the generic collapse runs, so brand names keep their word boundaries.
var spacedWords = []spacedWord{
	{regexp.MustCompile(`(?i)\bB\s*L\s*O\s*E\s*D\s*L\s*E\s*M\s*O\s*E\s*N\b`), "Bloedlemoen"},
	{regexp.MustCompile(`(?i)\bF\s*E\s*V\s*E\s*R[\s\-]*T\s*R\s*E\s*E\b`), "Fever Tree"},
	{regexp.MustCompile(`(?i)\bT\s*O\s*N\s*I\s*C\b`), "Tonic"},
	{regexp.MustCompile(`(?i)\bW\s*A\s*T\s*E\s*R\b`), "Water"},
	{regexp.MustCompile(`(?i)\bI\s*N\s*D\s*I\s*A\s*N\b`), "Indian"},
	{regexp.MustCompile(`(?i)\bE\s*L\s*D\s*E\s*R\s*F\s*L\s*O\s*W\s*E\s*R\b`), "Elderflower"},
	{regexp.MustCompile(`(?i)\bM\s*E\s*D\s*I\s*T\s*E\s*R\s*R\s*A\s*N\s*E\s*A\s*N\b`), "Mediterranean"},
}

// Normalize cleans extraction artifacts from raw receipt text and returns
// the line-oriented view used by detection. It never fails; malformed input
// yields an empty NormalizedText.
func Normalize(raw string) NormalizedText {
	text := raw
	for i := 0; i < maxCleaningPasses; i++ {
		next := cleanText(text)
		if next == text {
			break
		}
		text = next
	}

	lines := splitLines(text)
	if len(lines) == 1 && len(lines[0]) > flattenedLineLength {
		lines = splitSections(lines[0])
	}

	return NormalizedText{
		Text:  strings.Join(lines, "\n"),
		Lines: lines,
	}
}

func cleanText(s string) string {
	s = reLineBreaks.ReplaceAllString(s, "\n")
	s = strings.TrimSpace(s)
	s = reLeadingGlyphs.ReplaceAllString(s, "")
	s = repairSpacedWords(s)
	s = reSpacedUpper.ReplaceAllStringFunc(s, joinLetters)
	s = reSpacedLower.ReplaceAllStringFunc(s, joinLetters)
	s = reWideSpace.ReplaceAllString(s, " ")
	return strings.Join(splitLines(s), "\n")
}

func repairSpacedWords(s string) string {
	for _, w := range spacedWords {
		canonical := w.canonical
		s = w.re.ReplaceAllStringFunc(s, func(m string) string {
			if strings.EqualFold(m, canonical) || !strings.ContainsAny(m, " \t\n\r-") {
				return m
			}
			return canonical
		})
	}
	return s
}

func joinLetters(m string) string {
	return reHorizontalGaps.ReplaceAllString(m, "")
}

func splitLines(s string) []string {
	parts := strings.Split(s, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return lines
}

func splitSections(line string) []string {
	idx := reSectionBoundary.FindAllStringIndex(line, -1)
	if len(idx) == 0 {
		return []string{line}
	}

	var parts []string
	start := 0
	for _, loc := range idx {
		if loc[0] > start {
			parts = append(parts, line[start:loc[0]])
		}
		start = loc[0]
	}
	parts = append(parts, line[start:])

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
