package data

import (
	"fmt"
	"math"

	"github.com/drakos74/free-cover/internal/model"
	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// SaveXLSX exports the records into a spreadsheet at the given path.
func SaveXLSX(path string, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(model.Header))
	for i, c := range model.Header {
		header[i] = string(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Age,
			r.Gender,
			r.HealthStatus,
			r.MaritalStatus,
			r.CurrentInsurance,
			r.PreviousPolicies,
			r.ClaimHistory,
			cellNumber(r.AnnualIncome),
			cellNumber(r.Premium),
			cellNumber(r.SumAssured),
			r.FamilyDetails,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("could not write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save spreadsheet '%s': %w", path, err)
	}
	return nil
}

// missing values stay as blank cells
func cellNumber(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}
