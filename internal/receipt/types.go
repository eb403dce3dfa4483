package receipt

// Source identifies how the raw text of a receipt was obtained.
type Source string

const (
	SourceOCR     Source = "ocr"
	SourceVision  Source = "vision"
	SourcePDFText Source = "pdf-text"
	SourcePDFOCR  Source = "pdf-ocr"
	SourcePlain   Source = "plain-text"
	SourceManual  Source = "manual"
)

// ExtractedText is the raw output of text acquisition.
type ExtractedText struct {
	Text       string
	Source     Source
	Confidence float64 // 0..1, backend specific
	Pages      int
	Attempts   []string
}

// NormalizedText is the cleaned receipt text with its line-oriented view.
type NormalizedText struct {
	Text  string
	Lines []string
}

// ProductFamily groups qualifying products.
type ProductFamily string

const (
	FamilyPrimary   ProductFamily = "primary"
	FamilySecondary ProductFamily = "secondary"
	FamilyBundle    ProductFamily = "bundle"
)

// DetectedProduct is one matched receipt line for one product family.
type DetectedProduct struct {
	Family     ProductFamily `json:"family"`
	Name       string        `json:"name"`
	Quantity   int           `json:"quantity"`
	SourceLine string        `json:"source_line"`
	Points     int           `json:"points"`
	Confidence int           `json:"confidence"`
	Rule       string        `json:"rule"`
}

// Analysis is the outcome of scoring a receipt. It is built once per
// submission and never mutated afterwards.
type Analysis struct {
	IsValid         bool              `json:"is_valid"`
	StoreName       string            `json:"store_name,omitempty"`
	Products        []DetectedProduct `json:"products"`
	TotalBottles    int               `json:"total_bottles"`
	TotalPacks      int               `json:"total_packs"`
	TotalAmount     string            `json:"total_amount,omitempty"`
	TransactionDate string            `json:"transaction_date,omitempty"`
	Confidence      int               `json:"confidence"`
}

// ProductNames returns the display names of the detected products in order.
func (a *Analysis) ProductNames() []string {
	names := make([]string, 0, len(a.Products))
	for _, p := range a.Products {
		names = append(names, p.Name)
	}
	return names
}
