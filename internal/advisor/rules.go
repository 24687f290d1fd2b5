package advisor

import (
	"math"

	"github.com/drakos74/free-cover/internal/model"
)

const (
	// MaxSumAssured caps the recommended cover.
	MaxSumAssured = 30_000_000
	// MinPremium is the floor of the predicted yearly premium.
	MinPremium = 1000
	// MaxTerm is the longest recommended policy term in years.
	MaxTerm = 30
	// MaturityAge is the age by which every policy should mature.
	MaturityAge = 70
	// MaxLikelihood caps the conversion score.
	MaxLikelihood = 100
)

var (
	healthScores = map[string]float64{
		model.Good:    25,
		model.Average: 20,
		model.Poor:    10,
	}
	claimScores = map[string]float64{
		model.NoClaims:   15,
		model.LowClaims:  10,
		model.HighClaims: 5,
	}
)

// CalculateSumAssured returns the recommended cover as a multiple of the yearly income,
// decreasing with age.
func CalculateSumAssured(age int, income float64) float64 {
	var multiplier float64
	switch {
	case age < 30:
		multiplier = 15
	case age < 40:
		multiplier = 12
	case age < 50:
		multiplier = 8
	default:
		multiplier = 5
	}
	return math.Min(income*multiplier, MaxSumAssured)
}

// RecommendPolicyType picks the plan for the customer profile.
func RecommendPolicyType(age int, income float64, marital string) model.Policy {
	switch {
	case age < 35 && marital == model.Single:
		return model.TermInsurance
	case income > 1_000_000:
		return model.ULIP
	case age > 45:
		return model.Retirement
	case marital == model.Married:
		return model.Endowment
	default:
		return model.TermInsurance
	}
}

// CalculateTerm returns the policy term in years.
func CalculateTerm(age int) int {
	maxTerm := MaturityAge - age
	if maxTerm > MaxTerm {
		maxTerm = MaxTerm
	}
	switch {
	case age < 30:
		return maxTerm
	case age < 40:
		return min(maxTerm, 25)
	case age < 50:
		return min(maxTerm, 20)
	default:
		return min(maxTerm, 15)
	}
}

// CalculateConversionLikelihood scores how likely the customer is to buy the policy, in percent.
func CalculateConversionLikelihood(age int, income float64, health, claims string) float64 {
	score := 0.0

	switch {
	case age < 30:
		score += 30
	case age < 40:
		score += 25
	case age < 50:
		score += 20
	default:
		score += 15
	}

	switch {
	case income > 1_000_000:
		score += 30
	case income > 500_000:
		score += 25
	default:
		score += 20
	}

	if s, ok := healthScores[health]; ok {
		score += s
	} else {
		score += 15
	}

	if s, ok := claimScores[claims]; ok {
		score += s
	} else {
		score += 7
	}

	return math.Min(score, MaxLikelihood)
}
