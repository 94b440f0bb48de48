package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"repair-desk/internal/views"
)

const reportSheet = "Service requests"

var reportHeaders = []string{
	"ID", "Customer", "Contact", "Services", "Estimate", "Status", "Submitted", "Last updated",
}

// ReportController exports dashboard rows as a spreadsheet.
type ReportController struct {
	now    func() time.Time
	logger *zap.Logger
}

func NewReportController(logger *zap.Logger) *ReportController {
	return &ReportController{now: time.Now, logger: logger}
}

func rowToSlice(row views.RequestRow) []interface{} {
	const stamp = "2006-01-02 15:04"
	return []interface{}{
		row.ID, row.CustomerName, row.ContactInfo, row.Services, row.PriceEstimate,
		row.Status.Label, row.SubmittedAt.Format(stamp), row.LastUpdatedAt.Format(stamp),
	}
}

// BuildWorkbook writes one header row and one row per request.
func BuildWorkbook(rows []views.RequestRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "A1", "H1", style); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := rowToSlice(row)
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(reportSheet, "B", "C", 28)
	f.SetColWidth(reportSheet, "F", "H", 18)
	return f, nil
}

func (c *ReportController) RespondWithXLSX(ctx echo.Context, rows []views.RequestRow) error {
	f, err := BuildWorkbook(rows)
	if err != nil {
		c.logger.Error("xlsx export failed", zap.Error(err))
		return err
	}
	defer f.Close()

	fileName := fmt.Sprintf("service_requests_%s.xlsx", c.now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
