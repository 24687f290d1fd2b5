package preprocess

import (
	"fmt"
	"math"

	"github.com/drakos74/free-cover/internal/data"
	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/drakos74/free-cover/internal/model"
	"github.com/rs/zerolog/log"
)

// Dataset is the model ready representation of the policy records.
// X holds one row per record in the order of model.FeatureNames, Y the target premium.
type Dataset struct {
	X        [][]float64
	Y        []float64
	Features []model.Column
	Scaler   Scaler
	Encoders Encoders
}

// Preprocess encodes, imputes, derives and scales the records into a feature matrix.
// Current insurance, previous policies and family details are not used as features.
func Preprocess(records []model.Record, kind ScalerKind) (*Dataset, error) {
	if len(records) == 0 {
		return nil, data.ErrEmptyDataset
	}

	encoders := FitEncoders(records, model.CategoricalColumns...)

	n := len(records)
	age := make([]float64, n)
	income := make([]float64, n)
	sumAssured := make([]float64, n)
	premium := make([]float64, n)
	for i, r := range records {
		age[i] = float64(r.Age)
		income[i] = r.AnnualIncome
		sumAssured[i] = r.SumAssured
		premium[i] = r.Premium
	}

	for c, col := range map[model.Column][]float64{
		model.Age:          age,
		model.AnnualIncome: income,
		model.SumAssured:   sumAssured,
		model.Premium:      premium,
	} {
		median := coinmath.Median(col)
		if filled := coinmath.FillNaN(col, median); filled > 0 {
			log.Debug().
				Str("column", string(c)).
				Int("filled", filled).
				Float64("median", median).
				Msg("imputed missing values")
		}
	}

	incomeToAge := make([]float64, n)
	premiumToIncome := make([]float64, n)
	for i := 0; i < n; i++ {
		incomeToAge[i] = ratio(income[i], age[i])
		premiumToIncome[i] = ratio(premium[i], income[i])
	}
	coinmath.FillNaN(incomeToAge, coinmath.Median(incomeToAge))
	coinmath.FillNaN(premiumToIncome, coinmath.Median(premiumToIncome))

	numeric := make([][]float64, n)
	for i := 0; i < n; i++ {
		numeric[i] = []float64{age[i], income[i], sumAssured[i], incomeToAge[i], premiumToIncome[i]}
	}

	scaler, err := NewScaler(kind)
	if err != nil {
		return nil, err
	}
	if err := scaler.Fit(numeric); err != nil {
		return nil, fmt.Errorf("could not fit scaler: %w", err)
	}

	xx := make([][]float64, n)
	for i, r := range records {
		scaled, err := scaler.Transform(numeric[i])
		if err != nil {
			return nil, fmt.Errorf("could not scale record %d: %w", i, err)
		}
		row := make([]float64, 0, len(model.FeatureNames))
		row = append(row, scaled...)
		for _, c := range model.CategoricalColumns {
			code, err := encoders.Encode(c, r.Category(c))
			if err != nil {
				return nil, err
			}
			row = append(row, float64(code))
		}
		xx[i] = row
	}

	return &Dataset{
		X:        xx,
		Y:        premium,
		Features: model.FeatureNames,
		Scaler:   scaler,
		Encoders: encoders,
	}, nil
}

// FeatureVector builds the raw model input for a customer, in the order of model.FeatureNames.
// The premium to income ratio is unknown at inference time and is set to 0.
func FeatureVector(customer model.Customer, sumAssured float64, encoders Encoders) ([]float64, error) {
	if customer.Age <= 0 {
		return nil, fmt.Errorf("invalid age %d", customer.Age)
	}
	age := float64(customer.Age)
	x := []float64{
		age,
		customer.AnnualIncome,
		sumAssured,
		customer.AnnualIncome / age,
		0,
	}
	for _, c := range model.CategoricalColumns {
		code, err := encoders.Encode(c, customer.Category(c))
		if err != nil {
			return nil, err
		}
		x = append(x, float64(code))
	}
	return x, nil
}

// Scale applies the scaler to the leading columns of the feature vector it was fitted on.
// A scaler fitted on the full vector transforms all of it.
func Scale(scaler Scaler, x []float64) ([]float64, error) {
	dim := len(scaler.Params().Center)
	if dim == 0 {
		return nil, ErrNotFitted
	}
	if dim > len(x) {
		return nil, fmt.Errorf("scaler expects %d features but got %d", dim, len(x))
	}
	scaled, err := scaler.Transform(x[:dim])
	if err != nil {
		return nil, err
	}
	return append(scaled, x[dim:]...), nil
}

// ratio divides the numbers, infinite results are reported as NaN.
func ratio(a, b float64) float64 {
	r := a / b
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
