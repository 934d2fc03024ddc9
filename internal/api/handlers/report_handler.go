package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"pnt-health-station-api-server/internal/core"
	"pnt-health-station-api-server/internal/report"
)

type ReportHandler struct {
	Reporter *core.Reporter
}

// GetDispensedItems trả về mọi dòng thuốc đã cấp (phiếu APPROVED).
func (h *ReportHandler) GetDispensedItems(c *gin.Context) {
	items, err := h.Reporter.DispensedItems(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMonthlyReport xuất báo cáo tháng ra file Excel.
// type=medications: tổng theo thuốc; type=requesters: theo người nhận.
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	month, errM := strconv.Atoi(c.Query("month"))
	year, errY := strconv.Atoi(c.Query("year"))
	if errM != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month and year are required"})
		return
	}

	reportType := c.DefaultQuery("type", "medications")
	var (
		f        *excelize.File
		fileName string
	)

	switch reportType {
	case "medications":
		rows, err := h.Reporter.MonthlyByMedication(c.Request.Context(), month, year)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		wb, err := report.MonthlyMedicationsWorkbook(rows, month, year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}
		f = wb
		fileName = fmt.Sprintf("BaoCao_Thuoc_T%d_%d.xlsx", month, year)

	case "requesters":
		rows, err := h.Reporter.MonthlyByRequester(c.Request.Context(), month, year)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		wb, err := report.MonthlyRequestersWorkbook(rows, month, year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}
		f = wb
		fileName = fmt.Sprintf("BaoCao_NguoiNhan_T%d_%d.xlsx", month, year)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be medications or requesters"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := f.WriteTo(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
