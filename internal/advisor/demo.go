package advisor

import (
	"fmt"

	"github.com/drakos74/free-cover/internal/model"
	"github.com/drakos74/free-cover/internal/net"
	"github.com/drakos74/free-cover/internal/preprocess"
	"github.com/drakos74/free-cover/internal/storage/checkpoint"
	"github.com/rs/zerolog/log"
)

// referenceRows are the feature vectors the demo scaler is fitted on.
var referenceRows = [][]float64{
	{35, 800000, 8000000, 22857, 0.15, 1, 1, 1, 0},
	{40, 1000000, 10000000, 25000, 0.12, 0, 2, 0, 1},
}

// SaveDemoModel stores an untrained network with a standard scaler fitted on the full reference vectors
// and the default encoder table, so that the prediction path can be exercised without training.
func SaveDemoModel(dir string) (checkpoint.Checkpoint, error) {
	network, err := net.New(net.NewConfig(len(model.FeatureNames)))
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("could not create network: %w", err)
	}
	scaler, err := preprocess.NewScaler(preprocess.Standard)
	if err != nil {
		return checkpoint.Checkpoint{}, err
	}
	if err := scaler.Fit(referenceRows); err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("could not fit scaler: %w", err)
	}
	c := checkpoint.New(network, scaler, model.FeatureNames)
	if err := checkpoint.SaveDir(dir, c, preprocess.DefaultEncoders()); err != nil {
		return checkpoint.Checkpoint{}, err
	}
	log.Info().Str("dir", dir).Str("id", c.ID).Msg("saved demo model")
	return c, nil
}
