package core

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

// Các action ghi vào nhật ký thao tác.
const (
	ActionLogCreateRequest  = "CREATE_REQUEST"
	ActionLogApproveRequest = "APPROVE_REQUEST"
	ActionLogRejectRequest  = "REJECT_REQUEST"
	ActionLogExpireRequest  = "EXPIRE_REQUEST"
	ActionLogDispense       = "DISPENSE"
	ActionLogTransferStock  = "TRANSFER_STOCK"
	ActionLogRestock        = "RESTOCK"
	ActionLogAddMedication  = "ADD_MEDICATION"
	ActionLogUpdateProfile  = "UPDATE_PROFILE"
	ActionLogCreateUser     = "CREATE_USER"
)

// ActivityLog ghi nhật ký thao tác sau mỗi thay đổi thành công.
// Ghi log thất bại không làm hỏng nghiệp vụ chính: lỗi chỉ được in ra
// rồi bỏ qua, nhật ký không phải nguồn dữ liệu chuẩn.
type ActivityLog struct {
	store store.LogStore
}

func NewActivityLog(s store.LogStore) *ActivityLog {
	return &ActivityLog{store: s}
}

func (a *ActivityLog) Record(ctx context.Context, actorEmail, action, details string) {
	if a == nil || a.store == nil {
		return
	}
	entry := &models.ActivityLogEntry{
		EntryID:    uuid.New().String(),
		Timestamp:  time.Now(),
		ActorEmail: actorEmail,
		Action:     action,
		Details:    details,
	}
	if err := a.store.AppendLog(ctx, entry); err != nil {
		log.Printf("Failed to append activity log (%s by %s): %v", action, actorEmail, err)
	}
}
