package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_SinglePrimaryLine(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	products := d.Detect([]string{"BLOEDLEMOEN GIN 750ML"})

	require.Len(t, products, 1)
	assert.Equal(t, FamilyPrimary, products[0].Family)
	assert.Equal(t, 1, products[0].Quantity)
	assert.Equal(t, 100, products[0].Points)
	assert.Equal(t, 40, products[0].Confidence)
	assert.Equal(t, "BLOEDLEMOEN GIN 750ML", products[0].SourceLine)
}

func TestDetect_ExplicitQuantity(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	products := d.Detect([]string{"2 x Bloedlemoen Gin"})

	require.Len(t, products, 1)
	assert.Equal(t, 2, products[0].Quantity)
	assert.Equal(t, 200, products[0].Points)
}

func TestDetect_QuantityForms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{name: "leading count", line: "3 BLOEDLEMOEN GIN", want: 3},
		{name: "qty field", line: "Bloedlemoen Amber Gin Qty: 4", want: 4},
		{name: "trailing multiplier", line: "Bloedlemoen Gin x 2", want: 2},
		{name: "bottles", line: "5 bottles bloedlemoen", want: 5},
		{name: "price ratio", line: "Bloedlemoen Gin 349.99 699.98", want: 2},
		{name: "price ratio not a multiple", line: "Bloedlemoen Gin 349.99 500.00", want: 1},
		{name: "implausible count ignored", line: "999 bloedlemoen gin", want: 1},
		{name: "volume is not a count", line: "Bloedlemoen Gin 750ml", want: 1},
		{name: "attached multiplier", line: "2x Bloedlemoen Gin", want: 2},
		{name: "trailing attached multiplier", line: "Bloedlemoen Gin x2", want: 2},
		{name: "cents before product", line: "R 299.20 Bloedlemoen Gin", want: 1},
		{name: "cents before repeated name", line: "Bloedlemoen Gin 750ml R349.25 bloedlemoen", want: 1},
		{name: "rand amount before product", line: "R12 Bloedlemoen Gin", want: 1},
		{name: "box is not a multiplier", line: "Bloedlemoen Gin Box 12", want: 1},
	}

	d := NewDetector(DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := d.Detect([]string{tt.line})
			require.Len(t, products, 1)
			assert.Equal(t, tt.want, products[0].Quantity)
			assert.Equal(t, 100*tt.want, products[0].Points)
		})
	}
}

func TestDetect_BundleLineSplit(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	products := d.Detect([]string{"Bloedlemoen 750ml + FREE Fever Tree Tonic Water (Pack of 4)"})

	require.Len(t, products, 2)
	assert.Equal(t, FamilyPrimary, products[0].Family)
	assert.Equal(t, FamilySecondary, products[1].Family)

	total := 0
	for _, p := range products {
		assert.Equal(t, 1, p.Quantity)
		total += p.Points
	}
	assert.Equal(t, 150, total)
}

func TestDetect_BundleLineCombined(t *testing.T) {
	policy := DefaultPolicy()
	policy.BundleMode = BundleCombined
	d := NewDetector(policy)

	products := d.Detect([]string{"Bloedlemoen 750ml + FREE Fever Tree Tonic Water (Pack of 4)"})

	require.Len(t, products, 1)
	assert.Equal(t, FamilyBundle, products[0].Family)
	assert.Equal(t, 150, products[0].Points)
	assert.Equal(t, 50, products[0].Confidence)
}

func TestDetect_CombinedModeNeedsMarker(t *testing.T) {
	policy := DefaultPolicy()
	policy.BundleMode = BundleCombined
	d := NewDetector(policy)

	products := d.Detect([]string{"Bloedlemoen Gin Fever Tree Tonic"})

	require.Len(t, products, 2)
	assert.Equal(t, FamilyPrimary, products[0].Family)
	assert.Equal(t, FamilySecondary, products[1].Family)
}

func TestDetect_MiniatureExcluded(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	products := d.Detect([]string{"Bloedlemoen Gin 50ml", "BLOEDLEMOEN GIN 50 ML"})

	assert.Empty(t, products)
}

func TestDetect_RepeatedLineCountedOnce(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	products := d.Detect([]string{"Bloedlemoen Gin", "bloedlemoen gin ", "Fever Tree Tonic"})

	require.Len(t, products, 2)
	assert.Equal(t, FamilyPrimary, products[0].Family)
	assert.Equal(t, FamilySecondary, products[1].Family)
}

func TestDetect_FuzzyMatches(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		family     ProductFamily
		confidence int
	}{
		{name: "ocr confusion", line: "BLOEDLEMON GIN", family: FamilyPrimary, confidence: 40},
		{name: "scattered letters", line: "BLO3DLEMOEN GIN", family: FamilyPrimary, confidence: 25},
		{name: "abbreviated", line: "B/LEMOEN GIN 750", family: FamilyPrimary, confidence: 25},
		{name: "tonic without brand", line: "Indian Tonic Water 200ml", family: FamilySecondary, confidence: 15},
		{name: "ocr fover tree", line: "FOVER TREE TONIC", family: FamilySecondary, confidence: 15},
	}

	d := NewDetector(DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := d.Detect([]string{tt.line})
			require.Len(t, products, 1)
			assert.Equal(t, tt.family, products[0].Family)
			assert.Equal(t, tt.confidence, products[0].Confidence)
		})
	}
}

func TestDetect_QuantityStaysWithItsFamily(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	products := d.Detect([]string{"2 x Fever Tree Tonic Water + Bloedlemoen Gin"})

	require.Len(t, products, 2)
	assert.Equal(t, FamilyPrimary, products[0].Family)
	assert.Equal(t, 1, products[0].Quantity)
	assert.Equal(t, 100, products[0].Points)
	assert.Equal(t, FamilySecondary, products[1].Family)
	assert.Equal(t, 2, products[1].Quantity)
	assert.Equal(t, 100, products[1].Points)
}

func TestDetect_GroceryLinesDoNotMatch(t *testing.T) {
	lines := []string{
		"BULK LEMONS 1KG",
		"Table Lemon Each",
		"Bulldog Premium London Dry Gin",
		"Subtotal 2 items on promotion",
		"Bottle Deposit Item on loan",
		"LEMOEN SAP 750ML",
		"Blue Label Whisky 750ml",
	}

	d := NewDetector(DefaultPolicy())
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			for _, p := range d.Detect([]string{line}) {
				assert.NotEqual(t, FamilyPrimary, p.Family, "rule %s", p.Rule)
			}
		})
	}
}

func TestDetect_LooseSpellingNeedsGin(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	assert.Empty(t, d.Detect([]string{"BLO3DLEMOEN 1KG"}))
	require.Len(t, d.Detect([]string{"BLO3DLEMOEN AMBER"}), 1)
}

func TestDetect_IgnoresShortAndUnrelatedLines(t *testing.T) {
	d := NewDetector(DefaultPolicy())

	products := d.Detect([]string{"", "ab", "MILK 2L 25.99", "BREAD 15.99", "TOTAL 41.98"})

	assert.Empty(t, products)
}

func TestDetect_IsPure(t *testing.T) {
	d := NewDetector(DefaultPolicy())
	lines := []string{"2 x Bloedlemoen Gin", "Fever Tree Tonic Water", "Bloedlemoen Gin"}

	first := d.Detect(lines)
	second := d.Detect(lines)

	assert.Equal(t, first, second)
}

func TestDetect_CustomRuleTable(t *testing.T) {
	primary := []Rule{rule(FamilyPrimary, "house", StrengthDirect, `house gin`)}
	d := NewDetectorWithRules(DefaultPolicy(), primary, nil)

	products := d.Detect([]string{"HOUSE GIN 750ML", "Bloedlemoen Gin"})

	require.Len(t, products, 1)
	assert.Equal(t, "house", products[0].Rule)
}
