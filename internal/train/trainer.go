package train

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/drakos74/free-cover/internal/buffer"
	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/drakos74/free-cover/internal/net"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultEpochs is the upper bound of training epochs.
	DefaultEpochs = 1000
	// DefaultBatchSize is the minibatch size.
	DefaultBatchSize = 32
	// DefaultPatience is the number of epochs without improvement before stopping.
	DefaultPatience = 15
	// DefaultValidationRatio is the share of samples held out for validation.
	DefaultValidationRatio = 0.2
	// DefaultSeed makes the split and the shuffling reproducible.
	DefaultSeed = 42
	// DefaultLogEvery is the epoch interval of the progress logs.
	DefaultLogEvery = 10

	trendWindow = 10
)

// ErrNoData is returned when there are no samples to train or validate on.
var ErrNoData = errors.New("no training data")

// Config defines the training loop.
type Config struct {
	Epochs          int                 `yaml:"epochs"`
	BatchSize       int                 `yaml:"batch_size"`
	Patience        int                 `yaml:"patience"`
	ValidationRatio float64             `yaml:"validation_ratio"`
	Seed            uint64              `yaml:"seed"`
	LogEvery        int                 `yaml:"log_every"`
	Optimizer       net.OptimizerConfig `yaml:"optimizer"`
}

// DefaultConfig returns the default training config.
func DefaultConfig() Config {
	return Config{
		Epochs:          DefaultEpochs,
		BatchSize:       DefaultBatchSize,
		Patience:        DefaultPatience,
		ValidationRatio: DefaultValidationRatio,
		Seed:            DefaultSeed,
		LogEvery:        DefaultLogEvery,
		Optimizer:       net.DefaultOptimizerConfig(),
	}
}

// Epoch is the outcome of a single pass over the training set.
type Epoch struct {
	Index      int
	TrainLoss  float64
	ValLoss    float64
	GradNorm   float64
	Improved   bool
	Duration   time.Duration
	SinceBest  int
	Validation int
}

// Hooks are invoked during training.
// OnImprove is called every time the validation loss improves and usually persists the model.
type Hooks struct {
	OnImprove func(epoch int, loss float64) error
	OnEpoch   func(e Epoch)
}

// Train fits the network on the training set until the validation loss stops improving.
func Train(ctx context.Context, network *net.Network, trainSet, valSet Set, cfg Config, hooks Hooks) (Report, error) {
	if trainSet.Len() == 0 || valSet.Len() == 0 {
		return Report{}, ErrNoData
	}
	if cfg.BatchSize <= 0 {
		return Report{}, fmt.Errorf("invalid batch size %d", cfg.BatchSize)
	}
	logEvery := cfg.LogEvery
	if logEvery <= 0 {
		logEvery = DefaultLogEvery
	}

	optimizer := net.NewAdamW(cfg.Optimizer, network.Params())
	rng := rand.New(rand.NewSource(cfg.Seed))
	history := buffer.NewBuffer(trendWindow)

	report := Report{
		BestLoss:   math.Inf(1),
		BestEpoch:  -1,
		TrainSize:  trainSet.Len(),
		Validation: valSet.Len(),
		Losses:     make([]float64, 0),
	}
	sinceBest := 0
	start := time.Now()

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			log.Warn().Err(err).Int("epoch", epoch).Msg("training cancelled")
			break
		}
		t0 := time.Now()

		trainLoss, norm, err := runEpoch(network, optimizer, trainSet, cfg.BatchSize, rng)
		if err != nil {
			return report, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		valLoss, err := Evaluate(network, valSet, cfg.BatchSize)
		if err != nil {
			return report, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		report.Epochs = epoch + 1
		report.Losses = append(report.Losses, valLoss)
		history.Push(valLoss)

		improved := valLoss < report.BestLoss
		if improved {
			report.BestLoss = valLoss
			report.BestEpoch = epoch
			sinceBest = 0
			if hooks.OnImprove != nil {
				if err := hooks.OnImprove(epoch, valLoss); err != nil {
					return report, fmt.Errorf("could not save improvement at epoch %d: %w", epoch, err)
				}
			}
		} else {
			sinceBest++
		}

		if hooks.OnEpoch != nil {
			hooks.OnEpoch(Epoch{
				Index:      epoch,
				TrainLoss:  trainLoss,
				ValLoss:    valLoss,
				GradNorm:   norm,
				Improved:   improved,
				Duration:   time.Since(t0),
				SinceBest:  sinceBest,
				Validation: valSet.Len(),
			})
		}

		if logged(epoch, logEvery) {
			log.Info().
				Int("epoch", epoch).
				Str("train-loss", coinmath.Format(trainLoss)).
				Str("val-loss", coinmath.Format(valLoss)).
				Str("best", coinmath.Format(report.BestLoss)).
				Float64("grad-norm", coinmath.Round(norm, 4)).
				Msg("training")
		}

		if sinceBest >= cfg.Patience {
			report.StoppedEarly = true
			log.Info().
				Int("epoch", epoch).
				Int("patience", cfg.Patience).
				Int("best-epoch", report.BestEpoch).
				Msg("early stopping")
			break
		}
	}

	trend, err := coinmath.Trend(history.Get())
	if err != nil {
		log.Warn().Err(err).Msg("could not fit loss trend")
	}
	report.Trend = trend
	report.Duration = time.Since(start)
	return report, nil
}

// logged reports if the progress of the epoch is logged, once every n completed epochs.
func logged(epoch, every int) bool {
	return (epoch+1)%every == 0
}

// runEpoch shuffles the training set and applies one optimiser step per batch.
// It returns the mean batch loss and the last gradient norm.
func runEpoch(network *net.Network, optimizer *net.AdamW, set Set, size int, rng *rand.Rand) (float64, float64, error) {
	total, count, norm := 0.0, 0, 0.0
	for _, idx := range batches(rng.Perm(set.Len()), size) {
		// batch norm needs more than one sample per batch
		if len(idx) < 2 {
			continue
		}
		xx, yy := set.subset(idx)
		network.ZeroGrad()
		y, err := network.Forward(net.Matrix(xx), true)
		if err != nil {
			return 0, 0, err
		}
		loss, grad, err := net.MSE(y, yy)
		if err != nil {
			return 0, 0, err
		}
		network.Backward(grad)
		norm = optimizer.Step()
		total += loss
		count++
	}
	if count == 0 {
		return 0, 0, ErrNoData
	}
	return total / float64(count), norm, nil
}

// Evaluate returns the mean loss over the batches of the set in evaluation mode.
func Evaluate(network *net.Network, set Set, size int) (float64, error) {
	if set.Len() == 0 {
		return 0, ErrNoData
	}
	idx := make([]int, set.Len())
	for i := range idx {
		idx[i] = i
	}
	total, count := 0.0, 0
	for _, b := range batches(idx, size) {
		xx, yy := set.subset(b)
		pp, err := network.PredictBatch(xx)
		if err != nil {
			return 0, err
		}
		loss, _, err := net.MSE(mat.NewDense(len(pp), 1, pp), yy)
		if err != nil {
			return 0, err
		}
		total += loss
		count++
	}
	return total / float64(count), nil
}
