package main

import (
	"path/filepath"
	"testing"

	"github.com/drakos74/free-cover/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "insurance_data.csv")
	xlsx := filepath.Join(dir, "insurance_data.xlsx")

	cfg := data.GeneratorConfig{Records: 50, Seed: 3, MissingIncome: 5}
	require.NoError(t, run(cfg, csv, xlsx))

	rr, err := data.LoadCSV(csv)
	require.NoError(t, err)
	assert.Len(t, rr, 50)
	assert.FileExists(t, xlsx)
}

func TestRun_Invalid(t *testing.T) {
	err := run(data.GeneratorConfig{}, filepath.Join(t.TempDir(), "out.csv"), "")
	assert.Error(t, err)
}
