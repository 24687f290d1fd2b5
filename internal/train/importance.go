package train

import (
	"fmt"
	"sort"

	coinmath "github.com/drakos74/free-cover/internal/math"
	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
)

// DefaultTrees is the size of the forest used to rank the features.
const DefaultTrees = 100

// Importance is the relative weight of a feature.
type Importance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// FeatureImportance ranks the features by how well they separate the premium quartile bands,
// according to a random forest classifier.
func FeatureImportance(xx [][]float64, yy []float64, names []string, trees int) ([]Importance, error) {
	if len(xx) == 0 {
		return nil, ErrNoData
	}
	if len(xx) != len(yy) {
		return nil, fmt.Errorf("features and targets have different length %d vs %d", len(xx), len(yy))
	}
	if len(xx[0]) != len(names) {
		return nil, fmt.Errorf("expected %d feature names but got %d", len(xx[0]), len(names))
	}

	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: xx, Class: Bands(yy)}
	forest.Train(trees)

	ii := make([]Importance, len(names))
	for j, name := range names {
		w := 0.0
		if j < len(forest.FeatureImportance) {
			w = forest.FeatureImportance[j]
		}
		ii[j] = Importance{Feature: name, Weight: w}
	}
	sort.SliceStable(ii, func(a, b int) bool {
		return ii[a].Weight > ii[b].Weight
	})
	for _, i := range ii {
		log.Debug().Str("feature", i.Feature).Float64("weight", coinmath.Round(i.Weight, 4)).Msg("importance")
	}
	return ii, nil
}

// Bands assigns each value to its quartile, 0 being the lowest.
func Bands(yy []float64) []int {
	q1 := coinmath.Quantile(yy, 0.25)
	q2 := coinmath.Quantile(yy, 0.5)
	q3 := coinmath.Quantile(yy, 0.75)
	bands := make([]int, len(yy))
	for i, y := range yy {
		switch {
		case y <= q1:
			bands[i] = 0
		case y <= q2:
			bands[i] = 1
		case y <= q3:
			bands[i] = 2
		default:
			bands[i] = 3
		}
	}
	return bands
}
