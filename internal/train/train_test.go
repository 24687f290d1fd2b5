package train

import (
	"context"
	"errors"
	"testing"

	"github.com/drakos74/free-cover/internal/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func linear(n int, seed uint64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	xx := make([][]float64, n)
	yy := make([]float64, n)
	for i := range xx {
		xx[i] = []float64{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		yy[i] = 5 + 2*xx[i][0]
	}
	return xx, yy
}

func TestSplit(t *testing.T) {

	type test struct {
		n     int
		ratio float64
		train int
		val   int
		err   bool
	}

	tests := map[string]test{
		"default-ratio": {
			n:     100,
			ratio: 0.2,
			train: 80,
			val:   20,
		},
		"round-up": {
			n:     11,
			ratio: 0.2,
			train: 8,
			val:   3,
		},
		"invalid-ratio": {
			n:     10,
			ratio: 1,
			err:   true,
		},
		"too-small": {
			n:     1,
			ratio: 0.2,
			err:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			xx, yy := linear(tt.n, 1)
			tr, val, err := Split(xx, yy, tt.ratio, DefaultSeed)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.train, tr.Len())
			assert.Equal(t, tt.val, val.Len())

			total := 0.0
			for _, y := range yy {
				total += y
			}
			split := 0.0
			for _, y := range append(tr.Y, val.Y...) {
				split += y
			}
			assert.InDelta(t, total, split, 1e-9)

			// same seed, same split
			tr2, _, err := Split(xx, yy, tt.ratio, DefaultSeed)
			require.NoError(t, err)
			assert.Equal(t, tr.Y, tr2.Y)
		})
	}
}

func TestSplit_Mismatch(t *testing.T) {
	_, _, err := Split([][]float64{{1}}, []float64{1, 2}, 0.2, 1)
	assert.Error(t, err)
}

func TestTrain_Learns(t *testing.T) {
	xx, yy := linear(200, 3)
	tr, val, err := Split(xx, yy, DefaultValidationRatio, DefaultSeed)
	require.NoError(t, err)

	network, err := net.New(net.Config{InputSize: 3, Dropout: 0.1, Seed: 1})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Epochs = 100
	cfg.Patience = 100
	cfg.Optimizer.LearningRate = 1e-2

	improvements := 0
	epochs := 0
	report, err := Train(context.Background(), network, tr, val, cfg, Hooks{
		OnImprove: func(epoch int, loss float64) error {
			improvements++
			return nil
		},
		OnEpoch: func(e Epoch) {
			epochs++
			assert.Equal(t, val.Len(), e.Validation)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 100, report.Epochs)
	assert.Equal(t, 100, epochs)
	assert.False(t, report.StoppedEarly)
	assert.Len(t, report.Losses, 100)
	assert.Greater(t, improvements, 1)
	assert.Less(t, report.BestLoss, report.Losses[0]/2)
	assert.Equal(t, 160, report.TrainSize)
	assert.Equal(t, 40, report.Validation)
}

// deadOutput silences the output unit, so that the validation loss stays constant.
func deadOutput(t *testing.T, network *net.Network) {
	params := network.Params()
	w := params[len(params)-2]
	b := params[len(params)-1]
	require.Equal(t, "fc4.weight", w.Name)
	require.Equal(t, "fc4.bias", b.Name)
	for i := range w.Values() {
		w.Values()[i] = 0
	}
	b.Values()[0] = -1
}

func TestTrain_EarlyStopping(t *testing.T) {
	xx, yy := linear(100, 5)
	tr, val, err := Split(xx, yy, DefaultValidationRatio, DefaultSeed)
	require.NoError(t, err)

	network, err := net.New(net.NewConfig(3))
	require.NoError(t, err)
	deadOutput(t, network)

	cfg := DefaultConfig()
	cfg.Patience = 5

	improvements := 0
	report, err := Train(context.Background(), network, tr, val, cfg, Hooks{
		OnImprove: func(epoch int, loss float64) error {
			improvements++
			return nil
		},
	})
	require.NoError(t, err)

	assert.True(t, report.StoppedEarly)
	assert.Equal(t, 0, report.BestEpoch)
	assert.Equal(t, cfg.Patience+1, report.Epochs)
	assert.Equal(t, 1, improvements)
	assert.InDelta(t, 0, report.Trend, 1e-9)
}

func TestTrain_Errors(t *testing.T) {
	xx, yy := linear(50, 5)
	tr, val, err := Split(xx, yy, DefaultValidationRatio, DefaultSeed)
	require.NoError(t, err)

	t.Run("cancelled", func(t *testing.T) {
		network, err := net.New(net.NewConfig(3))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		report, err := Train(ctx, network, tr, val, DefaultConfig(), Hooks{})
		require.NoError(t, err)
		assert.True(t, report.Cancelled)
		assert.Equal(t, 0, report.Epochs)
	})

	t.Run("improvement-hook", func(t *testing.T) {
		network, err := net.New(net.NewConfig(3))
		require.NoError(t, err)
		failure := errors.New("disk full")
		_, err = Train(context.Background(), network, tr, val, DefaultConfig(), Hooks{
			OnImprove: func(epoch int, loss float64) error {
				return failure
			},
		})
		assert.ErrorIs(t, err, failure)
	})

	t.Run("no-data", func(t *testing.T) {
		network, err := net.New(net.NewConfig(3))
		require.NoError(t, err)
		_, err = Train(context.Background(), network, Set{}, val, DefaultConfig(), Hooks{})
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("wrong-features", func(t *testing.T) {
		network, err := net.New(net.NewConfig(4))
		require.NoError(t, err)
		_, err = Train(context.Background(), network, tr, val, DefaultConfig(), Hooks{})
		assert.Error(t, err)
	})
}

func TestEvaluate(t *testing.T) {
	network, err := net.New(net.NewConfig(3))
	require.NoError(t, err)
	deadOutput(t, network)

	// the output is always 0, so the loss is the mean of the squared targets
	set := Set{
		X: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		Y: []float64{1, 2, 3},
	}
	loss, err := Evaluate(network, set, 2)
	require.NoError(t, err)
	// batches of {1, 4} and {9}
	assert.InDelta(t, (2.5+9)/2, loss, 1e-9)

	_, err = Evaluate(network, Set{}, 2)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLogged(t *testing.T) {

	type test struct {
		epoch  int
		every  int
		logged bool
	}

	tests := map[string]test{
		"first-epoch": {
			epoch: 0,
			every: 10,
		},
		"tenth-epoch": {
			epoch:  9,
			every:  10,
			logged: true,
		},
		"eleventh-epoch": {
			epoch: 10,
			every: 10,
		},
		"every-epoch": {
			epoch:  0,
			every:  1,
			logged: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.logged, logged(tt.epoch, tt.every))
		})
	}
}

func TestBands(t *testing.T) {
	bands := Bands([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3, 3}, bands)
}

func TestFeatureImportance(t *testing.T) {
	xx, yy := linear(200, 9)
	names := []string{"signal", "noise-1", "noise-2"}

	ii, err := FeatureImportance(xx, yy, names, 20)
	require.NoError(t, err)
	require.Len(t, ii, 3)
	ff := make([]string, len(ii))
	for i, imp := range ii {
		ff[i] = imp.Feature
		if i > 0 {
			assert.LessOrEqual(t, imp.Weight, ii[i-1].Weight)
		}
	}
	assert.ElementsMatch(t, names, ff)

	_, err = FeatureImportance(xx, yy, names[:2], 20)
	assert.Error(t, err)
	_, err = FeatureImportance(nil, nil, names, 20)
	assert.ErrorIs(t, err, ErrNoData)
}
