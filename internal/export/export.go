package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"nutrilog/internal/core"
)

const (
	SummarySheet = "Summary"
	EntriesSheet = "Entries"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	summaryHeader = []any{
		"Date", "Calorie goal", "Consumed", "Burned", "Net",
		"Protein", "Fat", "Carbs", "Calories %", "Protein %", "Fat %", "Carbs %",
	}
	entriesHeader = []any{
		"Date", "Kind", "Id", "Name", "Calories", "Protein", "Fat", "Carbs", "Kcal burned",
	}
)

// Filename names an export covering [from, to].
func Filename(from, to string) string {
	return fmt.Sprintf("nutrilog_%s_%s.xlsx", from, to)
}

// WriteSummaries renders one Summary row per day and one Entries row per
// logged entry, then writes the workbook to w.
func WriteSummaries(w io.Writer, days []core.DailySummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(EntriesSheet); err != nil {
		return fmt.Errorf("create entries sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := setRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return err
	}
	if err := setRow(f, EntriesSheet, 1, entriesHeader); err != nil {
		return err
	}

	entryRow := 2
	for i, day := range days {
		p := day.Progress()
		if err := setRow(f, SummarySheet, i+2, []any{
			day.Date, day.Goals.Calories, day.TotalCalories, day.TotalBurned, day.NetCalories,
			day.TotalProtein, day.TotalFat, day.TotalCarbs,
			p.Calories, p.Protein, p.Fat, p.Carbs,
		}); err != nil {
			return err
		}

		for _, e := range day.Food {
			if err := setRow(f, EntriesSheet, entryRow, []any{
				e.Date, core.KindFood.String(), e.ID, e.Food, e.Calories, e.Protein, e.Fat, e.Carbs, nil,
			}); err != nil {
				return err
			}
			entryRow++
		}
		for _, e := range day.Fitness {
			if err := setRow(f, EntriesSheet, entryRow, []any{
				e.Date, core.KindFitness.String(), e.ID, e.Exercise, nil, nil, nil, nil, e.KcalBurned,
			}); err != nil {
				return err
			}
			entryRow++
		}
	}

	f.SetColWidth(SummarySheet, "A", "A", 12)
	f.SetColWidth(SummarySheet, "B", "L", 11)
	f.SetColWidth(EntriesSheet, "A", "A", 12)
	f.SetColWidth(EntriesSheet, "D", "D", 30)
	f.SetDocProps(&excelize.DocProperties{
		Creator: "nutrilog",
		Created: time.Now().UTC().Format(time.RFC3339),
	})

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
