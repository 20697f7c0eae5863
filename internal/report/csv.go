package report

import (
	"encoding/csv"
	"os"

	"finfeed/internal/models"
	"finfeed/pkg/errors"
)

// WriteExpensesCSV writes the consolidated expense list as a date,title,
// amount CSV. This is the inspection-friendly intermediate the dashboard
// build consumes.
func WriteExpensesCSV(path string, records []models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "title", "amount"}); err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err)
	}

	for _, r := range records {
		row := []string{r.ISO(), r.Title, r.Amount.Round(2).String()}
		if err := w.Write(row); err != nil {
			return errors.FileError(errors.CodeFileWrite, path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err)
	}
	return nil
}
