package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Summary aggregates the sales log. Mean and Median are per-sale charged
// totals and are zero for an empty log.
type Summary struct {
	Count   int
	Units   int
	Revenue decimal.Decimal
	Mean    float64
	Median  float64
	Largest float64
}

func Summarize(sales []model.Sale) (Summary, error) {
	s := Summary{Count: len(sales), Revenue: decimal.Zero}
	if len(sales) == 0 {
		return s, nil
	}

	totals := make(stats.Float64Data, 0, len(sales))
	for _, sale := range sales {
		s.Units += sale.Quantity
		s.Revenue = s.Revenue.Add(sale.Total)
		totals = append(totals, sale.Total.InexactFloat64())
	}

	var err error
	if s.Mean, err = totals.Mean(); err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	if s.Median, err = totals.Median(); err != nil {
		return Summary{}, fmt.Errorf("median: %w", err)
	}
	if s.Largest, err = totals.Max(); err != nil {
		return Summary{}, fmt.Errorf("max: %w", err)
	}
	return s, nil
}

type saleRow struct {
	ID       string `csv:"id"`
	SoldAt   string `csv:"sold_at"`
	Item     string `csv:"item"`
	Customer string `csv:"customer"`
	Quantity int    `csv:"quantity"`
	Total    string `csv:"total"`
}

var columns = []string{"id", "sold_at", "item", "customer", "quantity", "total"}

func toRows(sales []model.Sale) []saleRow {
	rows := make([]saleRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, saleRow{
			ID:       s.ID.String(),
			SoldAt:   s.SoldAt.Format(time.RFC3339),
			Item:     s.ItemName,
			Customer: s.CustomerName,
			Quantity: s.Quantity,
			Total:    s.Total.StringFixed(2),
		})
	}
	return rows
}

// WriteCSV writes the sales log with a header row.
func WriteCSV(w io.Writer, sales []model.Sale) error {
	// The header comes from saleRow's tags, so an empty log still gets one.
	if err := gocsv.Marshal(toRows(sales), w); err != nil {
		return fmt.Errorf("marshal csv: %w", err)
	}
	return nil
}

const sheetName = "Sales"

// WriteXLSX writes the sales log as a single-sheet workbook.
func WriteXLSX(w io.Writer, sales []model.Sale) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, s := range sales {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			s.ID.String(),
			s.SoldAt.Format(time.RFC3339),
			s.ItemName,
			s.CustomerName,
			s.Quantity,
			s.Total.Round(2).InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Export writes the sales log to path in the format named by its extension,
// .csv or .xlsx.
func Export(path string, sales []model.Sale) error {
	var write func(io.Writer, []model.Sale) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		write = WriteCSV
	case ".xlsx":
		write = WriteXLSX
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, sales); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// SupportedExport reports whether Export understands the path's extension.
func SupportedExport(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
