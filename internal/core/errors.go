package core

import (
	"fmt"

	"pnt-health-station-api-server/internal/models"
)

// ValidationError: dữ liệu vào thiếu hoặc sai, chưa có gì bị ghi.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthorizationError: sai vai trò hoặc tự duyệt phiếu của mình, chưa có gì bị ghi.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// InsufficientStockError: không qua được điều kiện cấp phát / chuyển kho.
// Available là tồn kho tại thời điểm kiểm tra.
type InsufficientStockError struct {
	MedicationID string
	Area         models.Area
	Requested    int
	Available    int
	// BelowThreshold đánh dấu trường hợp bị chặn do tồn kho đã chạm ngưỡng
	// cảnh báo, dù số lượng yêu cầu vẫn nhỏ hơn tồn kho.
	BelowThreshold bool
}

func (e *InsufficientStockError) Error() string {
	if e.BelowThreshold {
		return fmt.Sprintf("stock of %s at area %s is at or below the minimum threshold (have %d), dispensing is blocked", e.MedicationID, e.Area, e.Available)
	}
	return fmt.Sprintf("insufficient stock of %s at area %s: need %d, have %d", e.MedicationID, e.Area, e.Requested, e.Available)
}

// NotFoundError: không tìm thấy phiếu / thuốc / người dùng.
type NotFoundError struct {
	Kind string // "request", "medication", "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// BackingStoreError bọc lỗi I/O của tầng lưu trữ. Core không retry;
// việc đó (nếu có) thuộc về store.
type BackingStoreError struct {
	Op  string
	Err error
}

func (e *BackingStoreError) Error() string {
	return fmt.Sprintf("backing store failed during %s: %v", e.Op, e.Err)
}

func (e *BackingStoreError) Unwrap() error { return e.Err }
