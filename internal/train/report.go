package train

import (
	"time"

	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/rs/zerolog/log"
)

// Report summarises a training run.
// Trend is the slope of the recent validation losses, negative while the model still improves.
type Report struct {
	Epochs       int           `json:"epochs"`
	BestEpoch    int           `json:"best_epoch"`
	BestLoss     float64       `json:"best_loss"`
	StoppedEarly bool          `json:"stopped_early"`
	Cancelled    bool          `json:"cancelled"`
	Trend        float64       `json:"trend"`
	TrainSize    int           `json:"train_size"`
	Validation   int           `json:"validation_size"`
	Losses       []float64     `json:"losses"`
	Duration     time.Duration `json:"duration"`
}

// Log prints the report.
func (r Report) Log() {
	log.Info().
		Int("epochs", r.Epochs).
		Int("best-epoch", r.BestEpoch).
		Str("best-loss", coinmath.Format(r.BestLoss)).
		Bool("early-stop", r.StoppedEarly).
		Bool("cancelled", r.Cancelled).
		Float64("trend", coinmath.Round(r.Trend, 4)).
		Int("train", r.TrainSize).
		Int("validation", r.Validation).
		Dur("duration", r.Duration).
		Msg("training complete")
}
