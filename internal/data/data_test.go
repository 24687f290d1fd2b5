package data

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drakos74/free-cover/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Records: 200, Seed: 7, MissingIncome: 10}

	first := Generate(cfg)
	second := Generate(cfg)

	require.Len(t, first, 200)
	require.Len(t, second, 200)
	for i := range first {
		assert.Equal(t, first[i].Age, second[i].Age)
		assert.Equal(t, first[i].FamilyDetails, second[i].FamilyDetails)
		if math.IsNaN(first[i].AnnualIncome) {
			assert.True(t, math.IsNaN(second[i].AnnualIncome))
		} else {
			assert.Equal(t, first[i].AnnualIncome, second[i].AnnualIncome)
		}
	}
}

func TestGenerate_Ranges(t *testing.T) {
	records := Generate(DefaultGeneratorConfig())
	require.Len(t, records, DefaultRecords)

	missing := Missing(records)
	assert.Greater(t, missing, 0)
	assert.LessOrEqual(t, missing, DefaultMissingIncome)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.Age, 25)
		assert.Less(t, r.Age, 70)
		assert.Contains(t, model.Genders, r.Gender)
		assert.Contains(t, model.HealthStatuses, r.HealthStatus)
		assert.Contains(t, model.MaritalStatuses, r.MaritalStatus)
		assert.Contains(t, model.InsuranceTypes, r.CurrentInsurance)
		assert.Contains(t, model.ClaimCategories, r.ClaimHistory)
		assert.GreaterOrEqual(t, r.PreviousPolicies, 0)
		assert.Less(t, r.PreviousPolicies, 5)
		assert.Equal(t, math.Round(r.Premium), r.Premium)
		assert.Equal(t, math.Round(r.SumAssured), r.SumAssured)
		if r.FamilyDetails != "None" {
			members := strings.Split(r.FamilyDetails, ";")
			assert.LessOrEqual(t, len(members), 4)
		}
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	records := Generate(GeneratorConfig{Records: 50, Seed: 1, MissingIncome: 5})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	loaded, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, len(records))

	for i, r := range records {
		l := loaded[i]
		assert.Equal(t, r.Age, l.Age)
		assert.Equal(t, r.Gender, l.Gender)
		assert.Equal(t, r.ClaimHistory, l.ClaimHistory)
		assert.Equal(t, r.PreviousPolicies, l.PreviousPolicies)
		assert.Equal(t, r.Premium, l.Premium)
		assert.Equal(t, r.SumAssured, l.SumAssured)
		assert.Equal(t, r.FamilyDetails, l.FamilyDetails)
		assert.Equal(t, math.IsNaN(r.AnnualIncome), math.IsNaN(l.AnnualIncome))
	}
	assert.Equal(t, Missing(records), Missing(loaded))
}

func TestReadCSV(t *testing.T) {

	type test struct {
		input string
		err   bool
		count int
	}

	tests := map[string]test{
		"empty": {
			input: "",
			err:   true,
		},
		"header-only": {
			input: "Age,Annual_Income,Premium,Sum_Assured\n",
			err:   true,
		},
		"missing-column": {
			input: "Age,Premium,Sum_Assured\n30,100,1000\n",
			err:   true,
		},
		"coerce-invalid-number": {
			input: "Age,Annual_Income,Premium,Sum_Assured\n30,abc,100,1000\n31,58000.0,120,1500\n",
			count: 2,
		},
		"invalid-age": {
			input: "Age,Annual_Income,Premium,Sum_Assured\nx,1,100,1000\n",
			err:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			records, err := ReadCSV(strings.NewReader(tt.input))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.count)
		})
	}
}

func TestSaveXLSX(t *testing.T) {
	records := Generate(GeneratorConfig{Records: 10, Seed: 3, MissingIncome: 1})
	path := filepath.Join(t.TempDir(), "insurance_data.xlsx")

	require.NoError(t, SaveXLSX(path, records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, model.Names(model.Header), rows[0])
}

func TestDescribe(t *testing.T) {
	records := []model.Record{
		{Age: 30, AnnualIncome: 100, Premium: 10, SumAssured: 100},
		{Age: 40, AnnualIncome: math.NaN(), Premium: 20, SumAssured: 300},
	}
	summary := Describe(records)
	assert.Equal(t, 2, summary[model.Age].Count)
	assert.Equal(t, 1, summary[model.AnnualIncome].Count)
	assert.InDelta(t, 35, summary[model.Age].Mean, 1e-9)
	assert.InDelta(t, 200, summary[model.SumAssured].Median, 1e-9)
}
