package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// StationInfo identifies the station a report was built for.
type StationInfo struct {
	ID   ID      `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code"`
}

// StationReport is an aggregate plus the metadata the renderers print around it.
type StationReport struct {
	Station       StationInfo       `json:"station"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Currency      string            `json:"currency"`
	GroupedAssets []AggregatedAsset `json:"grouped_assets"`
	TotalValue    decimal.Decimal   `json:"total_value"`
	ItemCount     int               `json:"item_count"`
}

// NewStationReport wraps an aggregate for rendering.
func NewStationReport(station StationInfo, agg Aggregate, currency string, now time.Time) StationReport {
	return StationReport{
		Station:       station,
		GeneratedAt:   now,
		Currency:      currency,
		GroupedAssets: agg.GroupedAssets,
		TotalValue:    agg.TotalValue,
		ItemCount:     agg.ItemCount(),
	}
}

// Row is the flat, one-line-per-unit projection used by the print and export renderers.
type Row struct {
	No            int
	AssetName     string
	AssetNumber   string
	BatchName     string
	PurchaseDate  *time.Time
	SerialNumber  string
	AssignedAt    *time.Time
	PurchasePrice decimal.Decimal
}

// Rows flattens the hierarchy in report order. Rows are numbered from 1.
func Rows(r StationReport) []Row {
	rows := make([]Row, 0, r.ItemCount)
	for _, asset := range r.GroupedAssets {
		number := ""
		if asset.AssetNumber != nil {
			number = *asset.AssetNumber
		}
		for _, batch := range asset.Batches {
			for _, item := range batch.Items {
				serial := ""
				if item.SerialNumber != nil {
					serial = *item.SerialNumber
				}
				rows = append(rows, Row{
					No:            len(rows) + 1,
					AssetName:     asset.Name,
					AssetNumber:   number,
					BatchName:     batch.Name,
					PurchaseDate:  batch.PurchaseDate,
					SerialNumber:  serial,
					AssignedAt:    item.AssignedAt,
					PurchasePrice: batch.PurchasePrice,
				})
			}
		}
	}
	return rows
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
