package preprocess

import (
	"math"
	"testing"

	"github.com/drakos74/free-cover/internal/data"
	coinmath "github.com/drakos74/free-cover/internal/math"
	"github.com/drakos74/free-cover/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records() []model.Record {
	return []model.Record{
		{Age: 30, Gender: "Male", HealthStatus: "Good", MaritalStatus: "Single", ClaimHistory: "No Claims", AnnualIncome: 300000, Premium: 10000, SumAssured: 150000},
		{Age: 40, Gender: "Female", HealthStatus: "Poor", MaritalStatus: "Married", ClaimHistory: "1 Claim", AnnualIncome: math.NaN(), Premium: 12000, SumAssured: 200000},
		{Age: 50, Gender: "Male", HealthStatus: "Excellent", MaritalStatus: "Divorced", ClaimHistory: "No Claims", AnnualIncome: 500000, Premium: 15000, SumAssured: 250000},
		{Age: 60, Gender: "Female", HealthStatus: "Fair", MaritalStatus: "Widowed", ClaimHistory: "3+ Claims", AnnualIncome: 600000, Premium: 18000, SumAssured: 300000},
		{Age: 35, Gender: "Male", HealthStatus: "Good", MaritalStatus: "Married", ClaimHistory: "2 Claims", AnnualIncome: 400000, Premium: 11000, SumAssured: 180000},
	}
}

func TestPreprocess(t *testing.T) {

	type test struct {
		kind  ScalerKind
		check func(t *testing.T, ds *Dataset)
	}

	tests := map[string]test{
		"robust-median-to-zero": {
			kind: Robust,
			check: func(t *testing.T, ds *Dataset) {
				for j := range model.ScaledColumns {
					assert.InDelta(t, 0, coinmath.Median(coinmath.Column(ds.X, j)), 1e-9, "column %d", j)
				}
				// the imputed income is the column median
				assert.InDelta(t, 0, ds.X[1][1], 1e-9)
			},
		},
		"standard-mean-to-zero": {
			kind: Standard,
			check: func(t *testing.T, ds *Dataset) {
				for j := range model.ScaledColumns {
					mean, std := coinmath.MeanStd(coinmath.Column(ds.X, j))
					assert.InDelta(t, 0, mean, 1e-9, "column %d", j)
					assert.InDelta(t, 1, std, 1e-9, "column %d", j)
				}
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := Preprocess(records(), tt.kind)
			require.NoError(t, err)
			require.Len(t, ds.X, 5)
			require.Len(t, ds.Y, 5)
			assert.Equal(t, model.FeatureNames, ds.Features)
			for _, row := range ds.X {
				require.Len(t, row, len(model.FeatureNames))
				for _, v := range row {
					assert.True(t, coinmath.IsValid(v))
				}
			}
			assert.Equal(t, []float64{10000, 12000, 15000, 18000, 11000}, ds.Y)
			assert.Equal(t, tt.kind, ds.Scaler.Params().Kind)
			tt.check(t, ds)
		})
	}
}

func TestPreprocess_Encoding(t *testing.T) {
	ds, err := Preprocess(records(), Robust)
	require.NoError(t, err)

	assert.Equal(t, []string{"Female", "Male"}, ds.Encoders[model.Gender])
	assert.Equal(t, []string{"1 Claim", "2 Claims", "3+ Claims", "No Claims"}, ds.Encoders[model.ClaimHistory])

	// Male, Good, Single, No Claims
	assert.Equal(t, []float64{1, 2, 2, 3}, ds.X[0][5:])
	assert.NoError(t, ds.Encoders.Validate())
}

func TestPreprocess_Empty(t *testing.T) {
	_, err := Preprocess(nil, Robust)
	assert.ErrorIs(t, err, data.ErrEmptyDataset)
}

func TestPreprocess_Generated(t *testing.T) {
	rr := data.Generate(data.GeneratorConfig{Records: 300, Seed: 42, MissingIncome: 20})
	ds, err := Preprocess(rr, Robust)
	require.NoError(t, err)
	require.Len(t, ds.X, 300)
	for _, row := range ds.X {
		for _, v := range row {
			require.True(t, coinmath.IsValid(v))
		}
	}
}

func TestFeatureVector(t *testing.T) {

	type test struct {
		customer model.Customer
		x        []float64
		err      error
	}

	tests := map[string]test{
		"reference-customer": {
			customer: model.Customer{
				Age:           35,
				Gender:        "Male",
				HealthStatus:  "Good",
				MaritalStatus: "Married",
				AnnualIncome:  800000,
				ClaimHistory:  "No Claims",
			},
			x: []float64{35, 800000, 9600000, 800000.0 / 35, 0, 0, 0, 1, 0},
		},
		"encoded-tail": {
			customer: model.Customer{
				Age:           50,
				Gender:        "Female",
				HealthStatus:  "Poor",
				MaritalStatus: "Divorced",
				AnnualIncome:  100000,
				ClaimHistory:  "High Claims",
			},
			x: []float64{50, 100000, 9600000, 2000, 0, 1, 2, 2, 2},
		},
		"unknown-category": {
			customer: model.Customer{
				Age:           35,
				Gender:        "Male",
				HealthStatus:  "Excellent",
				MaritalStatus: "Married",
				AnnualIncome:  800000,
				ClaimHistory:  "No Claims",
			},
			err: ErrUnknownCategory,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			x, err := FeatureVector(tt.customer, 9600000, DefaultEncoders())
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.x, x, 1e-9)
		})
	}
}

func TestScale(t *testing.T) {

	type test struct {
		params ScalerParams
		x      []float64
		y      []float64
		err    bool
	}

	tests := map[string]test{
		"leading-columns": {
			params: ScalerParams{Kind: Robust, Center: []float64{10, 20}, Scale: []float64{2, 4}},
			x:      []float64{12, 28, 1, 2},
			y:      []float64{1, 2, 1, 2},
		},
		"all-columns": {
			params: ScalerParams{Kind: Standard, Center: []float64{1, 1, 1}, Scale: []float64{1, 2, 4}},
			x:      []float64{2, 3, 5},
			y:      []float64{1, 1, 1},
		},
		"too-short": {
			params: ScalerParams{Kind: Standard, Center: []float64{1, 1, 1}, Scale: []float64{1, 1, 1}},
			x:      []float64{2, 3},
			err:    true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			scaler, err := FromParams(tt.params)
			require.NoError(t, err)
			y, err := Scale(scaler, tt.x)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestScaler(t *testing.T) {
	xx := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
		{4, 40, 5},
	}

	t.Run("standard", func(t *testing.T) {
		s, err := NewScaler(Standard)
		require.NoError(t, err)
		_, err = s.Transform(xx[0])
		assert.ErrorIs(t, err, ErrNotFitted)

		require.NoError(t, s.Fit(xx))
		p := s.Params()
		assert.InDeltaSlice(t, []float64{2.5, 25, 5}, p.Center, 1e-9)
		assert.InDeltaSlice(t, []float64{math.Sqrt(1.25), math.Sqrt(125), 1}, p.Scale, 1e-9)
	})

	t.Run("robust", func(t *testing.T) {
		s, err := NewScaler(Robust)
		require.NoError(t, err)
		require.NoError(t, s.Fit(xx))
		p := s.Params()
		assert.InDeltaSlice(t, []float64{2.5, 25, 5}, p.Center, 1e-9)
		// q75 - q25 = 3.25 - 1.75
		assert.InDeltaSlice(t, []float64{1.5, 15, 1}, p.Scale, 1e-9)

		x, err := s.Transform([]float64{2.5, 40, 5})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 1, 0}, x, 1e-9)
	})

	t.Run("params-round-trip", func(t *testing.T) {
		s, err := NewScaler(Robust)
		require.NoError(t, err)
		require.NoError(t, s.Fit(xx))

		restored, err := FromParams(s.Params())
		require.NoError(t, err)
		if diff := cmp.Diff(s.Params(), restored.Params()); diff != "" {
			t.Errorf("params mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown-kind", func(t *testing.T) {
		_, err := NewScaler("minmax")
		assert.Error(t, err)
		_, err = FromParams(ScalerParams{Kind: "minmax"})
		assert.Error(t, err)
	})
}

func TestEncoders(t *testing.T) {
	enc := DefaultEncoders()
	require.NoError(t, enc.Validate())

	code, err := enc.Encode(model.MaritalStatus, "Divorced")
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	_, err = enc.Encode(model.MaritalStatus, "Widowed")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = enc.Encode(model.CurrentInsurance, "ULIP")
	assert.Error(t, err)

	assert.Error(t, Encoders{}.Validate())
}
