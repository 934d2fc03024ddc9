// Package store định nghĩa các interface lưu trữ của hệ thống.
// Bản gốc thao tác thẳng lên Google Sheets; ở đây mọi truy cập dữ liệu
// đi qua các interface này để core không phụ thuộc backend cụ thể.
package store

import (
	"context"
	"errors"
	"time"

	"pnt-health-station-api-server/internal/models"
)

// ErrNotFound được trả về khi không tìm thấy bản ghi.
var ErrNotFound = errors.New("store: not found")

type MedicationStore interface {
	ListMedications(ctx context.Context) ([]models.Medication, error)
	GetMedication(ctx context.Context, medicationID string) (*models.Medication, error)
	InsertMedication(ctx context.Context, med *models.Medication) error
	// UpdateStock ghi đè giá trị tồn kho tại một khu vực.
	UpdateStock(ctx context.Context, medicationID string, area models.Area, value int) error
}

type RequestStore interface {
	InsertRequest(ctx context.Context, req *models.Request) error
	GetRequest(ctx context.Context, requestID string) (*models.Request, error)
	ListRequests(ctx context.Context) ([]models.Request, error)
	// SetRequestStatus ghi trạng thái và các trường xử lý của phiếu.
	SetRequestStatus(ctx context.Context, requestID, status, staffNote string, processedAt *time.Time, distributionArea string) error
	// MarkExpired chỉ chuyển PENDING -> EXPIRED; gọi lại lần nữa là no-op.
	MarkExpired(ctx context.Context, requestID string) error
	AppendRequestItem(ctx context.Context, item *models.RequestItem) error
	ListRequestItems(ctx context.Context) ([]models.RequestItem, error)
	ListItemsByRequest(ctx context.Context, requestID string) ([]models.RequestItem, error)
}

type UserStore interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type LogStore interface {
	AppendLog(ctx context.Context, entry *models.ActivityLogEntry) error
	ListLogs(ctx context.Context) ([]models.ActivityLogEntry, error)
}

type SubscriptionStore interface {
	AddSubscription(ctx context.Context, sub *models.PushSubscription) error
	// ListSubscriptions trả về mọi subscription của các email truyền vào.
	ListSubscriptions(ctx context.Context, emails []string) ([]models.PushSubscription, error)
	RemoveSubscription(ctx context.Context, endpoint string) error
}
