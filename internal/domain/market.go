package domain

// Market is a prediction-market record from the Gamma API, immutable per
// fetch.
type Market struct {
	ID            string
	Question      string
	ConditionID   string
	Slug          string
	Outcomes      []string  // decoded from the JSON-encoded outcome list
	OutcomePrices []float64 // decoded from the JSON-encoded price list
	Volume        float64
	Active        bool
	Closed        bool
	Category      string
	EndDate       string
}
