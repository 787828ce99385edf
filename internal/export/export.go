// Package export writes the admin appointment table to XLSX or CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"booking-client/internal/pages"
)

type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case XLSX, CSV:
		return f, nil
	case "":
		return XLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want xlsx or csv)", s)
}

const sheet = "Appointments"

var headers = []string{"ID", "User ID", "Service", "Date", "Time", "Booked On", "Status"}

func row(r pages.AdminRow) []string {
	return []string{r.ID, r.UserID, r.Service, r.Date, r.Time, r.BookedOn, r.Status}
}

func WriteCSV(w io.Writer, rows []pages.AdminRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, rows []pages.AdminRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := row(r)
		out := make([]any, len(vals))
		for j, v := range vals {
			out[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &out); err != nil {
			return err
		}
	}
	for col, width := range map[string]float64{"A": 28, "C": 24} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	return f.Write(w)
}

// ToFile writes rows into dir as appointments_<date>.<format> and returns
// the path.
func ToFile(dir string, format Format, rows []pages.AdminRow, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("appointments_%s.%s", now.Format("2006-01-02"), format))
	file, err := os.Create(name)
	if err != nil {
		return "", err
	}

	switch format {
	case CSV:
		err = WriteCSV(file, rows)
	default:
		err = WriteXLSX(file, rows)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("export %s: %w", format, err)
	}
	return name, nil
}
