package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/drakos74/free-cover/internal/model"
)

// ErrEmptyDataset is returned when a dataset has no rows.
var ErrEmptyDataset = errors.New("empty dataset")

// WriteCSV writes the records with a header line. Missing values are written as empty cells.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Names(model.Header)); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("could not write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the records into the file at the given path, creating the parent directory.
func SaveCSV(path string, records []model.Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not make dir: %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, records)
}

// ReadCSV parses the records from a csv with a header line.
// Columns are matched by name, unknown columns are ignored.
func ReadCSV(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("could not read header: %w", err)
	}
	index := make(map[model.Column]int)
	for i, h := range header {
		index[model.Column(strings.TrimSpace(h))] = i
	}
	for _, c := range []model.Column{model.Age, model.AnnualIncome, model.Premium, model.SumAssured} {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column '%s'", c)
		}
	}

	records := make([]model.Record, 0)
	line := 1
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("could not read line %d: %w", line, err)
		}
		record, err := parse(index, cells)
		if err != nil {
			return nil, fmt.Errorf("could not parse line %d: %w", line, err)
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return records, nil
}

// LoadCSV reads the records from the file at the given path.
func LoadCSV(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file '%s': %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func row(r model.Record) []string {
	return []string{
		strconv.Itoa(r.Age),
		r.Gender,
		r.HealthStatus,
		r.MaritalStatus,
		r.CurrentInsurance,
		strconv.Itoa(r.PreviousPolicies),
		r.ClaimHistory,
		formatNumber(r.AnnualIncome),
		formatNumber(r.Premium),
		formatNumber(r.SumAssured),
		r.FamilyDetails,
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parse(index map[model.Column]int, cells []string) (model.Record, error) {
	get := func(c model.Column) string {
		i, ok := index[c]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	var err error
	var r model.Record
	age := parseNumber(get(model.Age))
	if math.IsNaN(age) {
		return r, fmt.Errorf("invalid age '%s'", get(model.Age))
	}
	r.Age = int(age)
	r.Gender = get(model.Gender)
	r.HealthStatus = get(model.HealthStatus)
	r.MaritalStatus = get(model.MaritalStatus)
	r.CurrentInsurance = get(model.CurrentInsurance)
	r.ClaimHistory = get(model.ClaimHistory)
	r.FamilyDetails = get(model.FamilyDetails)
	if p := get(model.PreviousPolicies); p != "" {
		r.PreviousPolicies, err = strconv.Atoi(p)
		if err != nil {
			return r, fmt.Errorf("invalid previous policies '%s': %w", p, err)
		}
	}
	// numeric columns are coerced, unparsable values become missing
	r.AnnualIncome = parseNumber(get(model.AnnualIncome))
	r.Premium = parseNumber(get(model.Premium))
	r.SumAssured = parseNumber(get(model.SumAssured))
	return r, nil
}

func parseNumber(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
