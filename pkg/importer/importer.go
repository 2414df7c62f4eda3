package importer

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/models/store"
	statsstore "github.com/de-tools/statreport/pkg/store/stats"
)

const maxXLSRows = 100000

type field int

const (
	fieldCode field = iota
	fieldLabel
	fieldCount
	fieldHeadcount
	fieldPayFund
	fieldAvgSalary
	fieldTaxAmount
	fieldWeightPercent
)

// headers maps normalized header text to a field. Both the Russian export headers and English
// equivalents are accepted.
var headers = map[string]field{
	"код окэд":                       fieldCode,
	"code":                           fieldCode,
	"вид деятельности":               fieldLabel,
	"activity":                       fieldLabel,
	"label":                          fieldLabel,
	"количество нп":                  fieldCount,
	"count":                          fieldCount,
	"средняя численность работников": fieldHeadcount,
	"headcount":                      fieldHeadcount,
	"сумма по полю фот":              fieldPayFund,
	"pay fund":                       fieldPayFund,
	"сумма по полю ср.зп":            fieldAvgSalary,
	"avg salary":                     fieldAvgSalary,
	"сумма налогов":                  fieldTaxAmount,
	"tax amount":                     fieldTaxAmount,
	"удельный вес %":                 fieldWeightPercent,
	"weight %":                       fieldWeightPercent,
}

var totalRowMarkers = map[string]bool{
	"общий итог":  true,
	"grand total": true,
}

type Importer struct {
	store statsstore.Store
	newID func() string
}

func New(store statsstore.Store) *Importer {
	return &Importer{
		store: store,
		newID: uuid.NewString,
	}
}

func (im *Importer) ImportFile(ctx context.Context, path string) (domain.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ImportResult{Source: path}, err
	}
	defer f.Close()
	return im.Import(ctx, f, path)
}

// Import reads the first worksheet of an .xlsx or .xls file and stores every row whose code is not
// stored yet. The total row, rows without code or label and duplicate codes are skipped.
func (im *Importer) Import(ctx context.Context, r io.Reader, filename string) (domain.ImportResult, error) {
	logger := zerolog.Ctx(ctx)
	result := domain.ImportResult{Source: filepath.Base(filename)}

	rows, err := ReadRows(r, filename)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", result.Source, err)
	}

	headerIdx, columns, err := findHeader(rows)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", result.Source, err)
	}

	seen := make(map[string]bool)
	var records []store.StatRecord
	for i, row := range rows[headerIdx+1:] {
		if blank(row) {
			continue
		}
		result.Total++

		code := cellValue(row, columns[fieldCode])
		label := cellValue(row, columns[fieldLabel])
		line := headerIdx + i + 2

		switch {
		case code == "" || label == "":
			logger.Debug().Int("row", line).Msg("skipping row without code or label")
			continue
		case totalRowMarkers[normalizeHeader(code)] || totalRowMarkers[normalizeHeader(label)]:
			continue
		case seen[code]:
			logger.Debug().Int("row", line).Str("code", code).Msg("skipping duplicate code")
			continue
		}
		seen[code] = true

		exists, err := im.store.ExistsByCode(ctx, code)
		if err != nil {
			return result, err
		}
		if exists {
			logger.Debug().Int("row", line).Str("code", code).Msg("skipping stored code")
			continue
		}

		records = append(records, store.StatRecord{
			ID:            im.newID(),
			Code:          code,
			Label:         label,
			Count:         parseCount(cellValue(row, columns[fieldCount])),
			Headcount:     parseNumber(cellValue(row, columns[fieldHeadcount])),
			PayFund:       parseNumber(cellValue(row, columns[fieldPayFund])),
			AvgSalary:     parseNumber(cellValue(row, columns[fieldAvgSalary])),
			TaxAmount:     parseNumber(cellValue(row, columns[fieldTaxAmount])),
			WeightPercent: parseNumber(cellValue(row, columns[fieldWeightPercent])),
		})
	}

	if err := im.store.Add(ctx, records); err != nil {
		return result, fmt.Errorf("store records: %w", err)
	}
	result.Imported = len(records)
	result.Skipped = result.Total - result.Imported

	logger.Info().
		Str("source", result.Source).
		Int("total", result.Total).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("import finished")

	return result, nil
}

// ReadRows returns every row of the first worksheet.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		rows, err := xlsRows(workbook)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	case ".xlsx", ".xlsm":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// xlsRows reads the first worksheet only. WorkBook.ReadAllCells would append the rows of every sheet.
func xlsRows(workbook *xls.WorkBook) ([][]string, error) {
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no worksheet found")
	}

	return sheetRows(int(sheet.MaxRow)+1, func(i int) []string {
		row := sheet.Row(i)
		if row == nil {
			return nil
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		return cells
	}), nil
}

// sheetRows collects the first n rows, at most maxXLSRows, and drops trailing blank rows. Missing
// rows stay as empty entries so row numbers in logs match the sheet.
func sheetRows(n int, row func(i int) []string) [][]string {
	n = min(n, maxXLSRows)
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row(i))
	}
	for len(rows) > 0 && blank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// findHeader locates the first row naming both the code and the label column.
func findHeader(rows [][]string) (int, map[field]int, error) {
	for i, row := range rows {
		columns := map[field]int{
			fieldCode: -1, fieldLabel: -1, fieldCount: -1, fieldHeadcount: -1,
			fieldPayFund: -1, fieldAvgSalary: -1, fieldTaxAmount: -1, fieldWeightPercent: -1,
		}
		for idx, cell := range row {
			if f, ok := headers[normalizeHeader(cell)]; ok && columns[f] < 0 {
				columns[f] = idx
			}
		}
		if columns[fieldCode] >= 0 && columns[fieldLabel] >= 0 {
			return i, columns, nil
		}
	}
	return 0, nil, fmt.Errorf("header row with code and activity columns not found")
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), " "))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts grouped numbers ("1 234,5", "1,234.5"). Anything else imports as null.
func parseNumber(s string) sql.NullFloat64 {
	d, ok := parseDecimal(s)
	if !ok {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: d.InexactFloat64(), Valid: true}
}

func parseCount(s string) sql.NullInt64 {
	d, ok := parseDecimal(s)
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: d.Round(0).IntPart(), Valid: true}
}

// groupedByCommas reports whether commas in a number without a dot separate thousands: "1,234,567"
// and "1,234" are grouped, "12,5" and "0,125" carry a decimal comma.
func groupedByCommas(s string) bool {
	switch strings.Count(s, ",") {
	case 0:
		return false
	case 1:
		whole, frac, _ := strings.Cut(s, ",")
		whole = strings.TrimLeft(whole, "+-")
		return len(frac) == 3 && whole != "" && strings.Trim(whole, "0") != ""
	default:
		return true
	}
}

// parseDecimal accepts grouped numbers with either decimal separator.
func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, s)
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return decimal.Decimal{}, false
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case groupedByCommas(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
