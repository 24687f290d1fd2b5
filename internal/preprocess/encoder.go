package preprocess

import (
	"errors"
	"fmt"
	"sort"

	"github.com/drakos74/free-cover/internal/model"
)

// ErrUnknownCategory is returned for values that are not part of the encoder table.
var ErrUnknownCategory = errors.New("unknown category")

// Encoders maps each categorical column to its ordered list of values.
// The index of a value in the list is its code.
type Encoders map[model.Column][]string

// FitEncoders builds the encoders from the distinct values of the records, sorted lexicographically.
func FitEncoders(records []model.Record, columns ...model.Column) Encoders {
	enc := make(Encoders, len(columns))
	for _, c := range columns {
		seen := make(map[string]struct{})
		for _, r := range records {
			seen[r.Category(c)] = struct{}{}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		enc[c] = values
	}
	return enc
}

// DefaultEncoders returns the fixed inference table.
func DefaultEncoders() Encoders {
	return Encoders(model.DefaultCategories())
}

// Encode returns the code of the value for the given column.
func (e Encoders) Encode(c model.Column, value string) (int, error) {
	values, ok := e[c]
	if !ok {
		return 0, fmt.Errorf("no encoder for column '%s'", c)
	}
	for i, v := range values {
		if v == value {
			return i, nil
		}
	}
	return 0, fmt.Errorf("'%s' is not a valid '%s' %v: %w", value, c, values, ErrUnknownCategory)
}

// Validate checks that all categorical columns have a non-empty encoder.
func (e Encoders) Validate() error {
	for _, c := range model.CategoricalColumns {
		if len(e[c]) == 0 {
			return fmt.Errorf("missing encoder for '%s'", c)
		}
	}
	return nil
}
