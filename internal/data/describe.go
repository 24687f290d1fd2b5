package data

import (
	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/drakos74/free-cover/internal/model"
)

// Describe summarises the numeric columns of the dataset.
func Describe(records []model.Record) map[model.Column]coinmath.Summary {
	columns := map[model.Column]func(r model.Record) float64{
		model.Age:              func(r model.Record) float64 { return float64(r.Age) },
		model.PreviousPolicies: func(r model.Record) float64 { return float64(r.PreviousPolicies) },
		model.AnnualIncome:     func(r model.Record) float64 { return r.AnnualIncome },
		model.Premium:          func(r model.Record) float64 { return r.Premium },
		model.SumAssured:       func(r model.Record) float64 { return r.SumAssured },
	}
	summary := make(map[model.Column]coinmath.Summary, len(columns))
	for c, extract := range columns {
		values := make([]float64, len(records))
		for i, r := range records {
			values[i] = extract(r)
		}
		summary[c] = coinmath.Describe(values)
	}
	return summary
}

// Missing counts the records without an annual income.
func Missing(records []model.Record) int {
	n := 0
	for _, r := range records {
		if !coinmath.IsValid(r.AnnualIncome) {
			n++
		}
	}
	return n
}
