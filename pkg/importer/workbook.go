package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"melp-api/internal/models"

	"github.com/google/uuid"
	"github.com/tealeg/xlsx/v3"
)

// Record is a parsed data row ready to be written.
type Record struct {
	Sheet      string
	Row        int // 1-based, as shown by spreadsheet tools
	Restaurant models.Restaurant
}

// ReadWorkbook parses every mapped sheet of an xlsx file. The first row of
// a sheet is its header. Rows without data are skipped, rows that fail to
// parse or validate are reported in the summary and left out of the result.
// Rows without an id get a random UUID.
func ReadWorkbook(data []byte, mapping *MappingConfig, maxErrors int) ([]Record, ImportSummary, error) {
	summary := ImportSummary{Sheets: []SheetSummary{}}
	if maxErrors <= 0 {
		maxErrors = defaultMaxErrors
	}

	wb, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	var records []Record
	for _, sheet := range wb.Sheets {
		if !mapping.includes(sheet.Name) {
			continue
		}

		recs, ss, err := readSheet(sheet, mapping, maxErrors)
		if err != nil {
			return nil, summary, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
		records = append(records, recs...)
		summary.Sheets = append(summary.Sheets, ss)
		summary.Skipped += ss.Skipped
		summary.Errors += ss.Errors

		if summary.Errors > maxErrors {
			return records, summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
		}
	}
	return records, summary, nil
}

func readSheet(sheet *xlsx.Sheet, mapping *MappingConfig, maxErrors int) ([]Record, SheetSummary, error) {
	ss := SheetSummary{Name: sheet.Name}
	var (
		records []Record
		columns map[int]string
	)

	err := sheet.ForEachRow(func(row *xlsx.Row) error {
		line := row.GetCoordinate() + 1

		values := make(map[string]string)
		headers := make(map[int]string)
		err := row.ForEachCell(func(cell *xlsx.Cell) error {
			col, _ := cell.GetCoordinates()
			text := strings.TrimSpace(cell.String())
			if columns == nil {
				if field, ok := mapping.fieldFor(text); ok {
					headers[col] = field
				}
				return nil
			}
			field, ok := columns[col]
			if !ok {
				return nil
			}
			if numericField(field) {
				// raw value, the formatted one follows the cell's number format
				text = strings.TrimSpace(cell.Value)
			}
			if text != "" {
				values[field] = text
			}
			return nil
		})
		if err != nil {
			return err
		}

		if columns == nil {
			columns = headers
			return nil
		}
		if len(values) == 0 {
			ss.Skipped++
			return nil
		}

		r, err := buildRestaurant(values)
		if err == nil {
			err = r.Validate()
		}
		if err != nil {
			ss.Errors++
			if len(ss.Samples) < maxErrors {
				ss.Samples = append(ss.Samples, RowError{Sheet: sheet.Name, Row: line, Message: err.Error()})
			}
			return nil
		}
		records = append(records, Record{Sheet: sheet.Name, Row: line, Restaurant: r})
		return nil
	})
	return records, ss, err
}

func buildRestaurant(values map[string]string) (models.Restaurant, error) {
	r := models.Restaurant{ID: values["id"]}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	for field, raw := range values {
		switch field {
		case "id":
		case "rating":
			n, err := parseInt(raw)
			if err != nil {
				return r, fmt.Errorf("rating: %w", err)
			}
			r.Rating = &n
		case "lat", "lng":
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return r, fmt.Errorf("%s: invalid number %q", field, raw)
			}
			if field == "lat" {
				r.Lat = &f
			} else {
				r.Lng = &f
			}
		default:
			s := raw
			*textField(&r, field) = &s
		}
	}
	return r, nil
}

// parseInt accepts integral numbers written as floats, which is how
// spreadsheets often store them.
func parseInt(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return int(f), nil
}

func numericField(field string) bool {
	return field == "rating" || field == "lat" || field == "lng"
}

func textField(r *models.Restaurant, field string) **string {
	switch field {
	case "name":
		return &r.Name
	case "site":
		return &r.Site
	case "email":
		return &r.Email
	case "phone":
		return &r.Phone
	case "street":
		return &r.Street
	case "city":
		return &r.City
	default:
		return &r.State
	}
}
