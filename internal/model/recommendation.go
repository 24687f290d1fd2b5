package model

// Policy is the type of insurance plan recommended.
type Policy string

const (
	TermInsurance Policy = "Term Insurance Plan"
	ULIP          Policy = "ULIP"
	Retirement    Policy = "Retirement Plan"
	Endowment     Policy = "Endowment Plan"
)

// Recommendation is the outcome of a prediction for a customer.
// The formatted fields are meant for display, the rest carry the raw values.
type Recommendation struct {
	Policy               Policy  `json:"recommended_policy"`
	SumAssured           string  `json:"sum_assured"`
	PremiumPerYear       string  `json:"premium_per_year"`
	Term                 string  `json:"recommended_term"`
	ConversionLikelihood string  `json:"conversion_likelihood"`
	Values               Figures `json:"values"`
}

// Figures holds the numeric values behind a recommendation.
type Figures struct {
	SumAssured           float64 `json:"sum_assured"`
	Premium              float64 `json:"premium"`
	RawPremium           float64 `json:"raw_premium"`
	TermYears            int     `json:"term_years"`
	ConversionLikelihood float64 `json:"conversion_likelihood"`
}
