package main

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const rankSheet = "Ranking"

var rankHeader = []interface{}{"Rank", "Title", "Score", "ROI %"}

// writeRankXLSX saves rows as a single-sheet workbook at path.
func writeRankXLSX(path string, rows []rankRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rankSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(rankSheet, "A1", &rankHeader); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.Rank, r.Title, r.Score, nil}
		if r.ROI != nil {
			values[3] = *r.ROI
		}
		if err := f.SetSheetRow(rankSheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
