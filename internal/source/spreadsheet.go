package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"network-dashboard/internal/model"
)

const (
	colYearWeek       = "YEARWEEK"
	colCity           = "City"
	colTechnology     = "Technology"
	colAvailability   = "Cell Availability Rate %"
	colSiteUnavail    = "Site_Unavail_TotalHours"
	colCellUnavail    = "Cell_Unavail_TotalHours"
	colSiteCount      = "siteCount"
	colSiteCountAlias = "SiteCount_withDwnTime_98_3"
	colComplaintCount = "ComplaintCount"
)

var requiredColumns = []string{colYearWeek, colCity, colTechnology}

// SpreadsheetSource reads an exported aggregated table from the first sheet
// of an .xlsx workbook. The header row names the columns.
type SpreadsheetSource struct {
	path string
}

func NewSpreadsheetSource(path string) *SpreadsheetSource {
	return &SpreadsheetSource{path: path}
}

func (s *SpreadsheetSource) Name() string {
	return "spreadsheet"
}

func (s *SpreadsheetSource) Load(ctx context.Context) ([]model.AggregatedRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAwaitingFile, s.path)
		}
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []model.AggregatedRow{}, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return parseRecords(records)
}

// parseRecords turns a header row plus data rows into aggregated rows.
// Absent numeric columns read as zero; fault columns are only set when the
// sheet has them.
func parseRecords(records [][]string) ([]model.AggregatedRow, error) {
	rows := make([]model.AggregatedRow, 0)
	if len(records) == 0 {
		return rows, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("spreadsheet is missing column %q", col)
		}
	}
	if _, ok := header[colSiteCount]; !ok {
		if i, alias := header[colSiteCountAlias]; alias {
			header[colSiteCount] = i
		}
	}

	faultCols := make([]model.FaultColumn, 0, len(model.FaultColumns))
	for _, col := range model.FaultColumns {
		if _, ok := header[string(col)]; ok {
			faultCols = append(faultCols, col)
		}
	}

	for n, record := range records[1:] {
		cell := func(name string) string {
			i, ok := header[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		line := n + 2

		yearWeek, err := wholeNumber(cell(colYearWeek))
		if err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colYearWeek, err)
		}
		if yearWeek == "" {
			continue
		}

		row := model.AggregatedRow{
			YearWeek:   yearWeek,
			City:       model.City(cell(colCity)),
			Technology: model.Technology(cell(colTechnology)),
		}
		floats := []struct {
			name string
			dst  *float64
		}{
			{colAvailability, &row.CellAvailabilityRatePct},
			{colSiteUnavail, &row.SiteUnavailTotalHours},
			{colCellUnavail, &row.CellUnavailTotalHours},
		}
		for _, f := range floats {
			if *f.dst, err = number(cell(f.name)); err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", line, f.name, err)
			}
		}
		if row.SiteCount, err = count(cell(colSiteCount)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colSiteCount, err)
		}
		if row.ComplaintCount, err = count(cell(colComplaintCount)); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, colComplaintCount, err)
		}
		for _, col := range faultCols {
			v, err := count(cell(string(col)))
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", line, col, err)
			}
			row.Faults.Set(col, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func number(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func count(raw string) (int64, error) {
	v, err := number(raw)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(v)), nil
}

// wholeNumber normalizes numeric cells such as "202501.0" to "202501".
func wholeNumber(raw string) (string, error) {
	if raw == "" || !strings.ContainsAny(raw, ".eE") {
		return raw, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(v), 10), nil
}
