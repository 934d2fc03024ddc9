package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pnt-health-station-api-server/internal/core"
	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

type MedicationHandler struct {
	Ledger *core.Ledger
	Meds   store.MedicationStore
}

// GetAllMedications trả về danh mục thuốc với tồn kho của cả hai khu.
func (h *MedicationHandler) GetAllMedications(c *gin.Context) {
	meds, err := h.Meds.ListMedications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query medications"})
		return
	}
	c.JSON(http.StatusOK, meds)
}

type CreateMedicationPayload struct {
	ID           string `json:"id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Unit         string `json:"unit"`
	StockA       int    `json:"stockA" binding:"gte=0"`
	StockB       int    `json:"stockB" binding:"gte=0"`
	MinThreshold int    `json:"minThreshold" binding:"gte=0"`
}

// CreateMedication thêm một thuốc mới vào danh mục.
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var payload CreateMedicationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	med := &models.Medication{
		MedicationID: payload.ID,
		Name:         payload.Name,
		Unit:         payload.Unit,
		StockA:       payload.StockA,
		StockB:       payload.StockB,
		MinThreshold: payload.MinThreshold,
	}
	if err := h.Ledger.AddMedication(c.Request.Context(), c.GetString("user_email"), med); err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, med)
}

type RestockPayload struct {
	Area     string `json:"area" binding:"required"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

// Restock đặt lại tồn kho tại một khu. Chỉ được tăng; giảm phải đi qua
// cấp phát hoặc chuyển kho để còn dấu vết kiểm toán.
func (h *MedicationHandler) Restock(c *gin.Context) {
	var payload RestockPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Ledger.Restock(c.Request.Context(), c.GetString("user_email"),
		c.Param("id"), models.Area(payload.Area), payload.Quantity)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully"})
}

type TransferPayload struct {
	Amount int    `json:"amount" binding:"required,gt=0"`
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
}

// Transfer chuyển kho giữa hai khu vực, bảo toàn tổng tồn kho.
func (h *MedicationHandler) Transfer(c *gin.Context) {
	var payload TransferPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Ledger.Transfer(c.Request.Context(), c.GetString("user_email"),
		c.Param("id"), payload.Amount, models.Area(payload.From), models.Area(payload.To))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock transferred successfully"})
}
