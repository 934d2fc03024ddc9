// Package notify chuyển sự kiện nghiệp vụ của core thành thông báo
// realtime (websocket) và Web Push. Đây là collaborator bên ngoài của
// engine: giao thất bại không được ảnh hưởng trạng thái core.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pnt-health-station-api-server/internal/core"
	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/push"
	"pnt-health-station-api-server/internal/socket"
	"pnt-health-station-api-server/internal/store"
)

const deliverTimeout = 10 * time.Second

type Notifier struct {
	Hub   *socket.Hub
	Push  *push.Sender
	Users store.UserStore
}

// Publish giao sự kiện trên một goroutine riêng để không chặn engine.
func (n *Notifier) Publish(ev core.Event) {
	go n.deliver(ev)
}

type wsMessage struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	RequestID string `json:"requestId,omitempty"`
}

func (n *Notifier) deliver(ev core.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	switch ev.Type {
	case core.EventRequestCreated:
		title := "Yêu cầu thuốc mới"
		body := fmt.Sprintf("%s vừa gửi phiếu %s", ev.RequesterEmail, ev.RequestID)
		n.toRoles(ctx, []string{models.RoleStaff, models.RoleAdmin}, wsMessage{
			Type: string(ev.Type), Title: title, Body: body, RequestID: ev.RequestID,
		})

	case core.EventRequestProcessed:
		title := "Yêu cầu đã được xử lý"
		verb := "đã được duyệt"
		if ev.Status == models.StatusRejected {
			verb = "đã bị từ chối"
		}
		body := fmt.Sprintf("Phiếu %s %s", ev.RequestID, verb)
		n.toUser(ctx, ev.RequesterEmail, wsMessage{
			Type: string(ev.Type), Title: title, Body: body, RequestID: ev.RequestID,
		})

	case core.EventStockLow:
		title := "Cảnh báo tồn kho thấp"
		body := fmt.Sprintf("%s tại khu %s chỉ còn %d (ngưỡng %d)",
			ev.MedicationName, ev.Area, ev.Remaining, ev.Threshold)
		n.toRoles(ctx, []string{models.RoleStaff, models.RoleAdmin}, wsMessage{
			Type: string(ev.Type), Title: title, Body: body,
		})
	}
}

func (n *Notifier) toUser(ctx context.Context, email string, msg wsMessage) {
	if n.Hub != nil {
		if data, err := json.Marshal(msg); err == nil {
			if err := n.Hub.Send(email, data); err != nil {
				log.Printf("Failed to send websocket message to %s: %v", email, err)
			}
		}
	}
	if n.Push != nil {
		n.Push.SendToUser(ctx, email, msg.Title, msg.Body, "/")
	}
}

func (n *Notifier) toRoles(ctx context.Context, roles []string, msg wsMessage) {
	if n.Users == nil {
		return
	}
	users, err := n.Users.ListUsers(ctx)
	if err != nil {
		log.Printf("Failed to list users for notification: %v", err)
		return
	}
	wanted := make(map[string]bool, len(roles))
	for _, r := range roles {
		wanted[r] = true
	}
	for _, u := range users {
		if wanted[u.Role] {
			n.toUser(ctx, u.Email, msg)
		}
	}
}
