package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/citymap/internal/citystore"
	"github.com/sells-group/citymap/internal/geo"
)

var cityColumns = []string{"Name", "X", "Y"}

var matchColumns = []string{"Name", "X", "Y", "Distance"}

func cityRows(cities []geo.Point) [][]any {
	rows := make([][]any, 0, len(cities))
	for _, c := range cities {
		rows = append(rows, []any{c.Name, c.X, c.Y})
	}
	return rows
}

func matchRows(res citystore.NearbyResult) [][]any {
	rows := make([][]any, 0, len(res.Matches))
	for _, m := range res.Matches {
		rows = append(rows, []any{m.City.Name, m.City.X, m.City.Y, m.Distance})
	}
	return rows
}

// writeXLSX writes a single-sheet workbook with a header row.
func writeXLSX(w io.Writer, sheetName string, header []string, rows [][]any) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "report: add xlsx sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().SetString(h)
	}

	for _, values := range rows {
		r := sheet.AddRow()
		for _, v := range values {
			cell := r.AddCell()
			switch v := v.(type) {
			case string:
				cell.SetString(v)
			case float64:
				cell.SetFloat(v)
			}
		}
	}

	return eris.Wrap(f.Write(w), "report: write xlsx")
}
