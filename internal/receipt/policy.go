package receipt

// BundleMode decides how a line carrying both product families is scored.
type BundleMode string

const (
	// BundleSplit scores a bundle line as two independent products.
	BundleSplit BundleMode = "split"
	// BundleCombined scores a bundle line as a single bundle item.
	BundleCombined BundleMode = "combined"
)

// Policy holds every tunable constant of detection and scoring.
type Policy struct {
	MinConfidence int

	StoreWeight           int
	PrimaryDirectWeight   int
	PrimaryFuzzyWeight    int
	SecondaryDirectWeight int
	SecondaryFuzzyWeight  int
	BundleWeight          int
	TotalWeight           int
	DateWeight            int

	PointsPerBottle int
	PointsPerPack   int
	BundlePoints    int

	MaxBottlesPerLine int
	MaxPacksPerLine   int
	MinLineLength     int

	BundleMode BundleMode

	PrimaryName   string
	SecondaryName string
	BundleName    string

	Stores []string
}

// DefaultStores is the retailer allow-list of the campaign.
var DefaultStores = []string{
	"makro",
	"shoprite",
	"checkers",
	"pick n pay",
	"woolworths",
	"spar",
	"liquor city",
	"tops",
	"ultra liquors",
	"norman goodfellows",
	"wine route",
	"clicks",
	"dischem",
	"game",
	"builders warehouse",
	"bottle store",
	"liquor store",
	"wine shop",
	"spirit store",
}

// DefaultPolicy returns the campaign's production scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		MinConfidence: 40,

		StoreWeight:           25,
		PrimaryDirectWeight:   40,
		PrimaryFuzzyWeight:    25,
		SecondaryDirectWeight: 30,
		SecondaryFuzzyWeight:  15,
		BundleWeight:          50,
		TotalWeight:           15,
		DateWeight:            10,

		PointsPerBottle: 100,
		PointsPerPack:   50,
		BundlePoints:    150,

		MaxBottlesPerLine: 50,
		MaxPacksPerLine:   10,
		MinLineLength:     3,

		BundleMode: BundleSplit,

		PrimaryName:   "Bloedlemoen Amber Gin 750ml",
		SecondaryName: "Fever Tree Tonic Water (Pack of 4)",
		BundleName:    "Bloedlemoen Gin + Fever Tree Tonic Bundle",

		Stores: DefaultStores,
	}
}

// Accepts reports whether a receipt with the given confidence and product
// counts is valid. Both the confidence floor and at least one qualifying
// product are required.
func (p Policy) Accepts(confidence, bottles, packs int) bool {
	return confidence >= p.MinConfidence && (bottles > 0 || packs > 0)
}
