package spreadsheet

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Day-first layouts come before month-first ones: workbooks are French exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"02/01/06",
	"2006/01/02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	// raw xlsx cells carry dates as serial numbers
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return excelize.ExcelDateToTime(f, false)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognised date format")
}

// xlsMonthOnly is how the .xls reader renders a cell with a built-in date
// format: only year and month survive.
var xlsMonthOnly = regexp.MustCompile(`^\d{4}\.\d{2}$`)

func parseXLSDate(s string) (time.Time, error) {
	if xlsMonthOnly.MatchString(strings.TrimSpace(s)) {
		return time.Time{}, errors.New("built-in .xls date format keeps only year and month, use a custom date format or save as .xlsx")
	}
	return parseDate(s)
}

var revenueReplacer = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"€", "",
	"EUR", "",
)

// parseRevenue accepts both "1 234,56" and "1,234.56". Empty cells are zero.
func parseRevenue(s string) (decimal.Decimal, error) {
	s = revenueReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	return decimal.NewFromString(s)
}
