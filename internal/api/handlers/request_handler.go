package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pnt-health-station-api-server/internal/core"
	"pnt-health-station-api-server/internal/models"
)

type RequestHandler struct {
	Engine *core.Engine
}

type CreateRequestPayload struct {
	SubjectGroup string `json:"subjectGroup" binding:"required"`
	Note         string `json:"note"`
	MedicationID string `json:"medicationId"`
	Quantity     int    `json:"quantity"`
}

// CreateRequest tạo một phiếu yêu cầu thuốc mới (trạng thái PENDING).
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.Engine.CreateRequest(c.Request.Context(), currentActor(c), core.CreateRequestInput{
		SubjectGroup: payload.SubjectGroup,
		Note:         payload.Note,
		MedicationID: payload.MedicationID,
		Quantity:     payload.Quantity,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// GetRequests trả về danh sách phiếu theo quyền của người xem.
// STAFF/ADMIN không thấy phiếu EXPIRED; người tạo luôn thấy phiếu của mình.
func (h *RequestHandler) GetRequests(c *gin.Context) {
	requests, err := h.Engine.ListRequests(c.Request.Context(), currentActor(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequestByID lấy chi tiết một phiếu theo requestID.
func (h *RequestHandler) GetRequestByID(c *gin.Context) {
	req, err := h.Engine.GetRequest(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type ProcessItemPayload struct {
	MedicationID string `json:"medicationId" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
}

type ProcessRequestPayload struct {
	Status           string               `json:"status" binding:"required"`
	StaffNote        string               `json:"staffNote" binding:"required"`
	DistributionArea string               `json:"distributionArea"`
	Items            []ProcessItemPayload `json:"items" binding:"dive"`
}

// ProcessRequest duyệt / từ chối một phiếu. Phiếu đã xử lý chỉ admin
// được sửa lại, và các dòng thuốc mới là cộng dồn.
func (h *RequestHandler) ProcessRequest(c *gin.Context) {
	var payload ProcessRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]core.ProcessItemInput, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, core.ProcessItemInput{
			MedicationID: it.MedicationID,
			Quantity:     it.Quantity,
		})
	}

	req, err := h.Engine.ProcessRequest(c.Request.Context(), currentActor(c), core.ProcessRequestInput{
		RequestID:        c.Param("id"),
		Status:           payload.Status,
		StaffNote:        payload.StaffNote,
		DistributionArea: models.Area(payload.DistributionArea),
		Items:            items,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}
