package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

type NotificationHandler struct {
	Subs           store.SubscriptionStore
	VAPIDPublicKey string
}

// GetVAPIDPublicKey cho client lấy public key để đăng ký Web Push.
func (h *NotificationHandler) GetVAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.VAPIDPublicKey})
}

type SubscribePayload struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// Subscribe lưu subscription của trình duyệt hiện tại. Đăng ký lại cùng
// endpoint thì ghi đè, không nhân đôi.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var payload SubscribePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := &models.PushSubscription{
		Email:     c.GetString("user_email"),
		Endpoint:  payload.Endpoint,
		P256dh:    payload.Keys.P256dh,
		Auth:      payload.Keys.Auth,
		UserAgent: c.GetHeader("User-Agent"),
		CreatedAt: time.Now(),
	}
	if err := h.Subs.AddSubscription(c.Request.Context(), sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed"})
}

type UnsubscribePayload struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// Unsubscribe gỡ subscription khi người dùng tắt thông báo.
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	var payload UnsubscribePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Subs.RemoveSubscription(c.Request.Context(), payload.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}
