package advisor

import (
	"fmt"
	"math"

	"github.com/drakos74/free-cover/internal/model"
	"github.com/drakos74/free-cover/internal/preprocess"
	"github.com/drakos74/free-cover/internal/storage/checkpoint"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// DefaultCacheSize is the number of artifact versions kept in memory.
const DefaultCacheSize = 4

// Advisor produces policy recommendations from the model artifacts in a directory.
// Artifacts are reloaded whenever the files in the directory change.
type Advisor struct {
	dir   string
	cache *lru.Cache[string, *checkpoint.Artifacts]
}

// New creates a new advisor for the artifacts directory.
func New(dir string, cacheSize int) (*Advisor, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *checkpoint.Artifacts](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create artifact cache: %w", err)
	}
	return &Advisor{
		dir:   dir,
		cache: cache,
	}, nil
}

// Dir returns the artifacts directory.
func (a *Advisor) Dir() string {
	return a.dir
}

// Artifacts returns the current artifacts, loading them if the files changed since the last call.
func (a *Advisor) Artifacts() (*checkpoint.Artifacts, error) {
	version, err := checkpoint.Version(a.dir)
	if err != nil {
		return nil, err
	}
	if artifacts, ok := a.cache.Get(version); ok {
		return artifacts, nil
	}
	artifacts, err := checkpoint.LoadDir(a.dir)
	if err != nil {
		return nil, err
	}
	a.cache.Add(version, artifacts)
	log.Info().
		Str("dir", a.dir).
		Str("id", artifacts.Checkpoint.ID).
		Int("input", artifacts.Checkpoint.InputSize).
		Msg("loaded model")
	return artifacts, nil
}

// Ready reports if the artifacts can be loaded.
func (a *Advisor) Ready() bool {
	_, err := a.Artifacts()
	return err == nil
}

// MakePrediction predicts the premium for the customer and assembles the recommendation.
func (a *Advisor) MakePrediction(data model.CustomerData) (model.Recommendation, error) {
	artifacts, err := a.Artifacts()
	if err != nil {
		return model.Recommendation{}, err
	}

	customer, err := data.Customer()
	if err != nil {
		return model.Recommendation{}, err
	}

	sumAssured := CalculateSumAssured(customer.Age, customer.AnnualIncome)
	x, err := preprocess.FeatureVector(customer, sumAssured, artifacts.Encoders)
	if err != nil {
		return model.Recommendation{}, err
	}
	scaled, err := preprocess.Scale(artifacts.Scaler, x)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("could not scale features: %w", err)
	}
	raw, err := artifacts.Network.Predict(scaled)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("could not predict premium: %w", err)
	}
	premium := math.Max(raw, MinPremium)

	term := CalculateTerm(customer.Age)
	likelihood := CalculateConversionLikelihood(customer.Age, customer.AnnualIncome, customer.HealthStatus, customer.ClaimHistory)

	log.Debug().
		Int("age", customer.Age).
		Float64("income", customer.AnnualIncome).
		Float64("raw-premium", raw).
		Float64("premium", premium).
		Msg("prediction")

	return model.Recommendation{
		Policy:               RecommendPolicyType(customer.Age, customer.AnnualIncome, customer.MaritalStatus),
		SumAssured:           Money(sumAssured),
		PremiumPerYear:       Money(premium),
		Term:                 Years(term),
		ConversionLikelihood: Percent(likelihood),
		Values: model.Figures{
			SumAssured:           sumAssured,
			Premium:              premium,
			RawPremium:           raw,
			TermYears:            term,
			ConversionLikelihood: likelihood,
		},
	}, nil
}
