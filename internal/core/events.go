package core

import "pnt-health-station-api-server/internal/models"

// EventType là loại sự kiện nghiệp vụ phát ra cho bên ngoài (push, websocket).
type EventType string

const (
	EventRequestCreated   EventType = "REQUEST_CREATED"
	EventRequestProcessed EventType = "REQUEST_PROCESSED"
	EventStockLow         EventType = "STOCK_LOW"
)

// Event là một sự kiện nghiệp vụ. Việc giao sự kiện có thất bại cũng
// không được ảnh hưởng tới trạng thái của core.
type Event struct {
	Type           EventType
	RequestID      string
	RequesterEmail string
	Status         string
	MedicationID   string
	MedicationName string
	Area           models.Area
	Remaining      int
	Threshold      int
}

// EventSink nhận sự kiện từ engine và ledger. Hiện thực phải không chặn
// luồng gọi (giao bất đồng bộ hoặc bỏ qua).
type EventSink interface {
	Publish(event Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
