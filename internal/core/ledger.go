package core

import (
	"context"
	"fmt"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

// Ledger quản lý tồn kho của hai khu vực. Mọi thay đổi tồn kho phải đi
// qua ba thao tác Dispense / Transfer / Restock để còn dấu vết kiểm toán.
// Mỗi thao tác giữ khóa theo medicationID trong suốt chuỗi đọc-sửa-ghi.
type Ledger struct {
	meds   store.MedicationStore
	locks  *KeyedMutex
	log    *ActivityLog
	events EventSink
}

func NewLedger(meds store.MedicationStore, alog *ActivityLog, events EventSink) *Ledger {
	if events == nil {
		events = nopSink{}
	}
	return &Ledger{
		meds:   meds,
		locks:  NewKeyedMutex(),
		log:    alog,
		events: events,
	}
}

func (l *Ledger) getMedication(ctx context.Context, medicationID string) (*models.Medication, error) {
	med, err := l.meds.GetMedication(ctx, medicationID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, &NotFoundError{Kind: "medication", ID: medicationID}
		}
		return nil, &BackingStoreError{Op: "get medication", Err: err}
	}
	return med, nil
}

// AddMedication thêm một thuốc mới vào danh mục.
func (l *Ledger) AddMedication(ctx context.Context, actorEmail string, med *models.Medication) error {
	if med.MedicationID == "" || med.Name == "" {
		return &ValidationError{Message: "medication id and name are required"}
	}
	if med.StockA < 0 || med.StockB < 0 || med.MinThreshold < 0 {
		return &ValidationError{Message: "stock and threshold must be non-negative"}
	}
	if med.Unit == "" {
		med.Unit = "viên"
	}

	unlock := l.locks.Lock(med.MedicationID)
	defer unlock()

	if _, err := l.meds.GetMedication(ctx, med.MedicationID); err == nil {
		return &ValidationError{Message: fmt.Sprintf("medication %q already exists", med.MedicationID)}
	} else if err != store.ErrNotFound {
		return &BackingStoreError{Op: "check medication", Err: err}
	}

	if err := l.meds.InsertMedication(ctx, med); err != nil {
		return &BackingStoreError{Op: "insert medication", Err: err}
	}

	l.log.Record(ctx, actorEmail, ActionLogAddMedication,
		fmt.Sprintf("%s (%s): kho A %d, kho B %d, ngưỡng %d", med.MedicationID, med.Name, med.StockA, med.StockB, med.MinThreshold))
	return nil
}

// Dispense trừ kho khi cấp phát. Điều kiện: tồn kho TRƯỚC khi cấp phải
// lớn hơn ngưỡng cảnh báo (chạm ngưỡng là chặn hẳn, không phải "cấp cho
// tới 0"), và số lượng yêu cầu không vượt tồn kho. Một lần cấp hợp lệ
// vẫn có thể đưa tồn kho xuống dưới ngưỡng.
func (l *Ledger) Dispense(ctx context.Context, actorEmail, medicationID string, quantity int, area models.Area) error {
	if quantity <= 0 {
		return &ValidationError{Message: "dispense quantity must be a positive integer"}
	}
	if !area.Valid() {
		return &ValidationError{Message: fmt.Sprintf("invalid distribution area %q", area)}
	}

	unlock := l.locks.Lock(medicationID)
	defer unlock()

	med, err := l.getMedication(ctx, medicationID)
	if err != nil {
		return err
	}

	available := med.StockAt(area)
	if available <= med.MinThreshold {
		return &InsufficientStockError{
			MedicationID:   medicationID,
			Area:           area,
			Requested:      quantity,
			Available:      available,
			BelowThreshold: true,
		}
	}
	if quantity > available {
		return &InsufficientStockError{
			MedicationID: medicationID,
			Area:         area,
			Requested:    quantity,
			Available:    available,
		}
	}

	newStock := available - quantity
	if err := l.meds.UpdateStock(ctx, medicationID, area, newStock); err != nil {
		return &BackingStoreError{Op: "update stock", Err: err}
	}

	l.log.Record(ctx, actorEmail, ActionLogDispense,
		fmt.Sprintf("%s x%d tại khu %s (còn %d)", medicationID, quantity, area, newStock))

	if newStock <= med.MinThreshold {
		l.events.Publish(Event{
			Type:           EventStockLow,
			MedicationID:   medicationID,
			MedicationName: med.Name,
			Area:           area,
			Remaining:      newStock,
			Threshold:      med.MinThreshold,
		})
	}
	return nil
}

// Transfer chuyển kho giữa hai khu vực. Hai lần ghi tuần tự, không có
// rollback nếu lần ghi thứ hai lỗi; tổng tồn kho được bảo toàn khi cả
// hai lần ghi thành công.
func (l *Ledger) Transfer(ctx context.Context, actorEmail, medicationID string, amount int, from, to models.Area) error {
	if amount <= 0 {
		return &ValidationError{Message: "transfer amount must be a positive integer"}
	}
	if !from.Valid() || !to.Valid() || from == to {
		return &ValidationError{Message: fmt.Sprintf("invalid location pair %q -> %q", from, to)}
	}

	unlock := l.locks.Lock(medicationID)
	defer unlock()

	med, err := l.getMedication(ctx, medicationID)
	if err != nil {
		return err
	}

	sourceStock := med.StockAt(from)
	if sourceStock < amount {
		return &InsufficientStockError{
			MedicationID: medicationID,
			Area:         from,
			Requested:    amount,
			Available:    sourceStock,
		}
	}

	if err := l.meds.UpdateStock(ctx, medicationID, from, sourceStock-amount); err != nil {
		return &BackingStoreError{Op: "update source stock", Err: err}
	}
	if err := l.meds.UpdateStock(ctx, medicationID, to, med.StockAt(to)+amount); err != nil {
		return &BackingStoreError{Op: "update destination stock", Err: err}
	}

	l.log.Record(ctx, actorEmail, ActionLogTransferStock,
		fmt.Sprintf("%s x%d từ khu %s sang khu %s", medicationID, amount, from, to))
	return nil
}

// Restock chỉ được phép TĂNG tồn kho. Giảm phải đi qua Dispense hoặc
// Transfer để còn dấu vết; yêu cầu giảm bị từ chối thẳng, không tự co về.
func (l *Ledger) Restock(ctx context.Context, actorEmail, medicationID string, area models.Area, newQuantity int) error {
	if newQuantity < 0 {
		return &ValidationError{Message: "stock quantity must be non-negative"}
	}
	if !area.Valid() {
		return &ValidationError{Message: fmt.Sprintf("invalid area %q", area)}
	}

	unlock := l.locks.Lock(medicationID)
	defer unlock()

	med, err := l.getMedication(ctx, medicationID)
	if err != nil {
		return err
	}

	current := med.StockAt(area)
	if newQuantity < current {
		return &ValidationError{Message: fmt.Sprintf(
			"restock chỉ được tăng tồn kho: khu %s đang có %d, không thể đặt về %d (dùng cấp phát hoặc chuyển kho để giảm)",
			area, current, newQuantity)}
	}

	if err := l.meds.UpdateStock(ctx, medicationID, area, newQuantity); err != nil {
		return &BackingStoreError{Op: "update stock", Err: err}
	}

	l.log.Record(ctx, actorEmail, ActionLogRestock,
		fmt.Sprintf("%s tại khu %s: %d -> %d", medicationID, area, current, newQuantity))
	return nil
}
