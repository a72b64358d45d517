package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency report values are printed in.
const DefaultCurrency = money.SAR

const (
	themePrimary = "#1F4E79"
	themeMuted   = "#6B7280"
	themeBorder  = "#D1D5DB"
	themeStripe  = "#F3F4F6"
)

// sar prints riyal amounts with a code prefix so HTML, JSON and the Latin-1 PDF fonts agree.
var sar = money.AddCurrency(money.SAR, "SAR", "$ 1", ".", ",", 2)

// FormatCurrency renders v in the given ISO currency with that currency's fraction digits
// and grouping, e.g. "SAR 1,250.50". Unknown codes fall back to DefaultCurrency.
func FormatCurrency(v decimal.Decimal, code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		cur = sar
	}
	minor := v.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{
	"date": formatDate,
	"dash": orDash,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} · {{.Station.Name}}</title>
  <style>
    body { font-family: Arial, Helvetica, sans-serif; color: #111827; margin: 24px; }
    h1 { color: {{.Primary}}; font-size: 22px; margin: 0 0 4px 0; }
    .meta { color: {{.Muted}}; font-size: 12px; margin-bottom: 16px; }
    table { width: 100%; border-collapse: collapse; font-size: 12px; }
    th, td { border: 1px solid {{.Border}}; padding: 6px 8px; text-align: left; }
    th { background: {{.Primary}}; color: #FFFFFF; }
    tr:nth-child(even) td { background: {{.Stripe}}; }
    td.num, th.num { text-align: right; }
    tfoot td { font-weight: bold; }
    .empty { color: {{.Muted}}; font-style: italic; }
    @media print { body { margin: 0; } }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">Station: <strong>{{.Station.Name}}</strong>{{with .Station.Code}} ({{.}}){{end}} · Generated {{.Generated}} · {{.ItemCount}} item(s)</div>
  {{if .Rows}}
  <table>
    <thead>
      <tr><th>#</th><th>Asset</th><th>Asset No.</th><th>Batch</th><th>Purchase Date</th><th>Serial No.</th><th>Assigned</th><th class="num">Price</th></tr>
    </thead>
    <tbody>
      {{range .Rows}}<tr><td>{{.No}}</td><td>{{.AssetName}}</td><td>{{dash .AssetNumber}}</td><td>{{.BatchName}}</td><td>{{date .PurchaseDate}}</td><td>{{dash .SerialNumber}}</td><td>{{date .AssignedAt}}</td><td class="num">{{.Price}}</td></tr>
      {{end}}
    </tbody>
    <tfoot>
      <tr><td colspan="7">Total</td><td class="num">{{.Total}}</td></tr>
    </tfoot>
  </table>
  {{else}}
  <p class="empty">No assets are assigned to this station.</p>
  {{end}}
</body>
</html>
`))

type printRow struct {
	Row
	Price string
}

// RenderPrintHTML builds the standalone print document for a station report.
func RenderPrintHTML(r StationReport, title string) (string, error) {
	if title == "" {
		title = "Asset Register"
	}
	rows := Rows(r)
	printRows := make([]printRow, len(rows))
	for i, row := range rows {
		printRows[i] = printRow{Row: row, Price: FormatCurrency(row.PurchasePrice, r.Currency)}
	}
	data := struct {
		Title     string
		Station   StationInfo
		Generated string
		ItemCount int
		Rows      []printRow
		Total     string
		Primary   template.CSS
		Muted     template.CSS
		Border    template.CSS
		Stripe    template.CSS
	}{
		Title:     title,
		Station:   r.Station,
		Generated: r.GeneratedAt.Format("2006-01-02 15:04"),
		ItemCount: r.ItemCount,
		Rows:      printRows,
		Total:     FormatCurrency(r.TotalValue, r.Currency),
		Primary:   themePrimary,
		Muted:     themeMuted,
		Border:    themeBorder,
		Stripe:    themeStripe,
	}
	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render print html: %w", err)
	}
	return buf.String(), nil
}
