package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/drakos74/free-cover/internal/config"
	"github.com/drakos74/free-cover/internal/model"
	"github.com/drakos74/free-cover/internal/storage/checkpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {

	type test struct {
		demo bool
		data model.CustomerData
		err  error
	}

	missing := model.NewCustomerData(sample())
	missing.AnnualIncome = nil

	tests := map[string]test{
		"demo": {
			demo: true,
			data: model.NewCustomerData(sample()),
		},
		"not-loaded": {
			data: model.NewCustomerData(sample()),
			err:  checkpoint.ErrNotLoaded,
		},
		"missing-income": {
			demo: true,
			data: missing,
			err:  model.ErrMissingFields,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(&out, config.Model{Dir: t.TempDir()}, tt.demo, tt.data)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)

			var rec model.Recommendation
			require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
			assert.Equal(t, model.Endowment, rec.Policy)
			assert.Equal(t, "₹9,600,000.00", rec.SumAssured)
			assert.Equal(t, "25 years", rec.Term)
			assert.Equal(t, "90.0%", rec.ConversionLikelihood)
		})
	}
}
