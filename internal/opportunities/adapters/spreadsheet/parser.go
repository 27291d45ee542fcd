package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"funnel-forecast-service/internal/opportunities/core/domain"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrMissingColumn       = errors.New("missing required column")
	ErrEmptyTable          = errors.New("table has no data rows")
	ErrMissingID           = errors.New("missing opportunity id")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidRevenue      = errors.New("invalid revenue")
)

// IsInputError reports whether err comes from a malformed upload rather than an I/O failure.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrUnsupportedFileType,
		ErrMissingColumn,
		ErrEmptyTable,
		ErrMissingID,
		ErrInvalidDate,
		ErrInvalidRevenue,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type Parser struct {
	schema Schema
}

func NewParser(schema Schema) *Parser {
	return &Parser{schema: schema}
}

type format struct {
	read func(io.Reader) ([][]string, error)
	date func(string) (time.Time, error)
}

var formats = map[string]format{
	".xlsx": {read: readXLSX, date: parseDate},
	".xlsm": {read: readXLSX, date: parseDate},
	".xls":  {read: readXLS, date: parseXLSDate},
	".csv":  {read: readCSV, date: parseDate},
}

// Parse reads the first sheet of an .xlsx/.xls workbook or a .csv file and
// returns typed opportunity records. The format is chosen from filename.
func (p *Parser) Parse(filename string, r io.Reader) ([]domain.Opportunity, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := formats[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	records, err := f.read(r)
	if err != nil {
		return nil, err
	}

	return p.toOpportunities(records, f.date)
}

// ParseUpload parses a file received as a multipart form field.
func (p *Parser) ParseUpload(fh *multipart.FileHeader) ([]domain.Opportunity, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return p.Parse(fh.Filename, f)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	// raw values keep dates as serial numbers instead of locale formatted text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readXLS(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xls: %w", err)
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb == nil {
		return nil, errors.New("open xls: no workbook stream")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyTable
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row, ok := xlsRow(sheet, i)
		if !ok {
			rows = append(rows, nil)
			continue
		}
		// rows built from cells alone carry no column bounds
		width = max(width, row.LastCol())
		cols := make([]string, width)
		for c := range cols {
			cols[c] = row.Col(c)
		}
		rows = append(rows, cols)
	}
	return rows, nil
}

// xlsRow returns row i of sheet. WorkSheet.Row dereferences the row before
// returning it, so an index without a ROW record panics instead of yielding nil.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row, ok bool) {
	defer func() {
		if recover() != nil {
			row, ok = nil, false
		}
	}()
	row = sheet.Row(i)
	return row, row != nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	// French spreadsheet exports use ';'
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		cr.Comma = ';'
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

type columns struct {
	id, date, service, stage, revenue int
}

func (p *Parser) resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var (
		c   columns
		err error
	)
	if c.id, err = lookup(p.schema.IDColumn); err != nil {
		return c, err
	}
	if c.date, err = lookup(p.schema.DateColumn); err != nil {
		return c, err
	}
	if c.service, err = lookup(p.schema.ServiceTypeColumn); err != nil {
		return c, err
	}
	if c.stage, err = lookup(p.schema.StageColumn); err != nil {
		return c, err
	}
	if c.revenue, err = lookup(p.schema.RevenueColumn); err != nil {
		return c, err
	}
	return c, nil
}

func (p *Parser) toOpportunities(records [][]string, dateOf func(string) (time.Time, error)) ([]domain.Opportunity, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrEmptyTable)
	}

	cols, err := p.resolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	out := make([]domain.Opportunity, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		line := i + 2 // 1-based, header is line 1

		id := cell(rec, cols.id)
		if id == "" {
			return nil, fmt.Errorf("row %d: %w", line, ErrMissingID)
		}

		rawDate := cell(rec, cols.date)
		date, err := dateOf(rawDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w %q: %v", line, ErrInvalidDate, rawDate, err)
		}

		stage := p.schema.stage(cell(rec, cols.stage))

		// revenue only counts on won rows; elsewhere an unreadable amount is zero
		rawRevenue := cell(rec, cols.revenue)
		revenue, err := parseRevenue(rawRevenue)
		switch {
		case stage != domain.StageWon:
			if err != nil || revenue.IsNegative() {
				revenue = decimal.Zero
			}
		case err != nil:
			return nil, fmt.Errorf("row %d: %w %q: %v", line, ErrInvalidRevenue, rawRevenue, err)
		case revenue.IsNegative():
			return nil, fmt.Errorf("row %d: %w %q: negative amount", line, ErrInvalidRevenue, rawRevenue)
		}

		out = append(out, domain.Opportunity{
			ID:          id,
			Date:        date,
			ServiceType: cell(rec, cols.service),
			Stage:       stage,
			Revenue:     revenue,
		})
	}

	if len(out) == 0 {
		return nil, ErrEmptyTable
	}
	return out, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
