package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	reportsvc "asset-register/internal/application/reports"
	"asset-register/internal/interfaces/handlers/httpx"
	"asset-register/internal/middleware"
	"asset-register/internal/observability/metrics"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handlers struct {
	Service *reportsvc.Service
}

var knownErrors = httpx.ErrorMap{
	reportsvc.ErrStationNotFound: fiber.StatusNotFound,
}

// Station GET /api/v1/reports/stations/:id
func (h *Handlers) Station(c *fiber.Ctx) error { return h.station(c, FormatJSON) }

// Print GET /api/v1/reports/stations/:id/print
func (h *Handlers) Print(c *fiber.Ctx) error { return h.station(c, FormatHTML) }

// ExportXLSX GET /api/v1/reports/stations/:id/xlsx
func (h *Handlers) ExportXLSX(c *fiber.Ctx) error { return h.station(c, FormatXLSX) }

// ExportPDF GET /api/v1/reports/stations/:id/pdf
func (h *Handlers) ExportPDF(c *fiber.Ctx) error { return h.station(c, FormatPDF) }

func (h *Handlers) station(c *fiber.Ctx, format string) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "station id")
	}
	report, err := h.Service.StationReport(c.UserContext(), id)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return h.render(c, *report, format)
}

// aggregateRequest is a client-held asset listing. Assets use the tolerant report model, so
// malformed entries at any level are dropped rather than rejected.
type aggregateRequest struct {
	StationID   reportsvc.ID        `json:"station_id"`
	StationName string              `json:"station_name"`
	Assets      reportsvc.AssetList `json:"assets"`
}

// Aggregate POST /api/v1/reports/aggregate and /api/v1/reports/aggregate/:format (html, xlsx, pdf)
func (h *Handlers) Aggregate(c *fiber.Ctx) error {
	format := c.Params("format", FormatJSON)
	if !validFormat(format) {
		return response.BadRequest(c, "format must be one of: json, html, xlsx, pdf", nil)
	}
	var req aggregateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return httpx.InvalidBody(c)
	}
	if req.StationID == "" {
		return response.BadRequest(c, "Validation failed", fiber.Map{"station_id": "is required"})
	}
	report := h.Service.SnapshotReport(req.Assets, req.StationID, req.StationName)
	return h.render(c, report, format)
}

func (h *Handlers) render(c *fiber.Ctx, report reportsvc.StationReport, format string) error {
	var (
		body []byte
		err  error
	)
	switch format {
	case FormatJSON:
		return response.Success(c, "Report generated successfully", fiber.Map{"report": report}, fiber.Map{
			"item_count": report.ItemCount,
			"total":      reportsvc.FormatCurrency(report.TotalValue, report.Currency),
		})
	case FormatHTML:
		var html string
		html, err = reportsvc.RenderPrintHTML(report, h.Service.Title)
		body = []byte(html)
		c.Type("html", "utf-8")
	case FormatXLSX:
		body, err = reportsvc.BuildStationXLSX(report, h.Service.Title)
		c.Set(fiber.HeaderContentType, mimeXLSX)
		c.Attachment(fileName(report, format))
	case FormatPDF:
		body, err = reportsvc.BuildStationPDF(report, h.Service.Title)
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Attachment(fileName(report, format))
	}
	metrics.ObserveExport(format, len(body), err)
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("format", format).Msg("report render failed")
		c.Response().Header.Del(fiber.HeaderContentDisposition)
		return response.Internal(c)
	}
	return c.Status(fiber.StatusOK).Send(body)
}

func validFormat(f string) bool {
	switch f {
	case FormatJSON, FormatHTML, FormatXLSX, FormatPDF:
		return true
	}
	return false
}

func fileName(r reportsvc.StationReport, ext string) string {
	station := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, string(r.Station.ID))
	if station == "" {
		station = "snapshot"
	}
	return fmt.Sprintf("station-%s-assets-%s.%s", station, r.GeneratedAt.Format("20060102"), ext)
}
