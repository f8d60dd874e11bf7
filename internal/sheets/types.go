package sheets

import (
	"time"

	"github.com/Veraticus/kategori/internal/service"
	"github.com/shopspring/decimal"
)

// SummaryRow is one category line of the exported summary.
type SummaryRow struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Report holds everything written to the summary sheet.
type Report struct {
	GeneratedAt time.Time
	Title       string
	Total       decimal.Decimal
	Rows        []SummaryRow
	RecordCount int
}

// NewReport builds a report from category totals, keeping their order.
func NewReport(title string, totals []service.CategoryTotal, generatedAt time.Time) Report {
	report := Report{
		GeneratedAt: generatedAt,
		Title:       title,
		Total:       decimal.Zero,
		Rows:        make([]SummaryRow, 0, len(totals)),
	}
	for _, t := range totals {
		report.Rows = append(report.Rows, SummaryRow{
			Category: t.Category,
			Total:    t.Total,
			Count:    t.Count,
		})
		report.Total = report.Total.Add(t.Total)
		report.RecordCount += t.Count
	}
	return report
}
