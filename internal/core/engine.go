package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

// ExpiryWindow: phiếu PENDING quá 24 giờ không ai xử lý thì hết hạn.
const ExpiryWindow = 24 * time.Hour

// Actor là danh tính đã được tầng auth phân giải. Engine không xác thực,
// chỉ phân quyền dựa trên vai trò được đưa vào.
type Actor struct {
	Email string
	Role  string
}

// Engine là máy trạng thái của phiếu yêu cầu thuốc. Mọi thao tác ghi lên
// một phiếu được tuần tự hóa bằng khóa theo requestID.
type Engine struct {
	requests store.RequestStore
	ledger   *Ledger
	log      *ActivityLog
	events   EventSink
	locks    *KeyedMutex
	now      func() time.Time
}

func NewEngine(requests store.RequestStore, ledger *Ledger, alog *ActivityLog, events EventSink) *Engine {
	if events == nil {
		events = nopSink{}
	}
	return &Engine{
		requests: requests,
		ledger:   ledger,
		log:      alog,
		events:   events,
		locks:    NewKeyedMutex(),
		now:      time.Now,
	}
}

// DeriveStatus trả về trạng thái hiệu lực của một phiếu tại thời điểm now,
// không ghi gì cả. Áp dụng cho phiếu đã EXPIRED là no-op.
func DeriveStatus(req *models.Request, now time.Time) string {
	if req.Status == models.StatusPending && now.Sub(req.CreatedAt) > ExpiryWindow {
		return models.StatusExpired
	}
	return req.Status
}

type CreateRequestInput struct {
	SubjectGroup string
	Note         string
	// Thuốc chọn kèm lúc tạo phiếu (tùy chọn).
	MedicationID string
	Quantity     int
}

// CreateRequest tạo phiếu mới ở trạng thái PENDING.
func (e *Engine) CreateRequest(ctx context.Context, actor Actor, in CreateRequestInput) (*models.Request, error) {
	if !Allowed(ActionCreateRequest, actor.Role, RelationNone) {
		return nil, &AuthorizationError{Message: "you are not allowed to create requests"}
	}
	if in.SubjectGroup != models.SubjectStudent && in.SubjectGroup != models.SubjectEmployee {
		return nil, &ValidationError{Message: "subjectGroup must be STUDENT or EMPLOYEE"}
	}
	hasItem := in.MedicationID != "" && in.Quantity > 0
	if strings.TrimSpace(in.Note) == "" && !hasItem {
		// Giữ nguyên thông báo của bản cũ: phải nêu lý do hoặc chọn thuốc.
		return nil, &ValidationError{Message: "Vui lòng nhập lý do hoặc chọn thuốc"}
	}

	now := e.now()
	req := &models.Request{
		RequestID:      fmt.Sprintf("REQ-%d", now.UnixMilli()),
		RequesterEmail: actor.Email,
		CreatedAt:      now,
		SubjectGroup:   in.SubjectGroup,
		Note:           in.Note,
		Status:         models.StatusPending,
		Items:          []models.RequestItem{},
	}

	if err := e.requests.InsertRequest(ctx, req); err != nil {
		return nil, &BackingStoreError{Op: "insert request", Err: err}
	}

	if hasItem {
		item := models.RequestItem{
			RequestID:    req.RequestID,
			MedicationID: in.MedicationID,
			Quantity:     in.Quantity,
		}
		if err := e.requests.AppendRequestItem(ctx, &item); err != nil {
			return nil, &BackingStoreError{Op: "append request item", Err: err}
		}
		req.Items = append(req.Items, item)
	}

	e.log.Record(ctx, actor.Email, ActionLogCreateRequest, req.RequestID)
	e.events.Publish(Event{
		Type:           EventRequestCreated,
		RequestID:      req.RequestID,
		RequesterEmail: actor.Email,
	})
	return req, nil
}

// ListRequests trả về danh sách phiếu theo quyền của người xem, phiếu mới
// nhất trước. Expiry được đánh giá "lười" tại thời điểm đọc: phiếu PENDING
// quá hạn được ghi về EXPIRED ngay lần đọc đầu tiên quan sát thấy điều đó.
// STAFF/ADMIN không thấy phiếu EXPIRED trong hàng đợi; người tạo phiếu
// luôn thấy phiếu của mình, kể cả đã hết hạn.
func (e *Engine) ListRequests(ctx context.Context, actor Actor) ([]models.Request, error) {
	requests, err := e.requests.ListRequests(ctx)
	if err != nil {
		return nil, &BackingStoreError{Op: "list requests", Err: err}
	}
	items, err := e.requests.ListRequestItems(ctx)
	if err != nil {
		return nil, &BackingStoreError{Op: "list request items", Err: err}
	}

	itemsByRequest := make(map[string][]models.RequestItem)
	for _, it := range items {
		itemsByRequest[it.RequestID] = append(itemsByRequest[it.RequestID], it)
	}

	now := e.now()
	isStaff := Allowed(ActionViewAllRequests, actor.Role, RelationNone)

	visible := []models.Request{}
	for i := range requests {
		r := requests[i]
		e.applyExpiry(ctx, &r, now)

		r.Items = itemsByRequest[r.RequestID]
		if r.Items == nil {
			r.Items = []models.RequestItem{}
		}

		if r.RequesterEmail == actor.Email || (isStaff && r.Status != models.StatusExpired) {
			visible = append(visible, r)
		}
	}

	// Mới nhất trước, như bản cũ.
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, nil
}

// GetRequest lấy chi tiết một phiếu. Người tạo luôn xem được phiếu của
// mình; STAFF/ADMIN xem được mọi phiếu (quy tắc ẩn EXPIRED chỉ áp dụng
// cho hàng đợi, không áp dụng cho truy cập trực tiếp theo ID).
func (e *Engine) GetRequest(ctx context.Context, actor Actor, requestID string) (*models.Request, error) {
	req, err := e.fetchRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.RequesterEmail != actor.Email && !Allowed(ActionViewAllRequests, actor.Role, RelationNone) {
		return nil, &AuthorizationError{Message: "you can only view your own requests"}
	}

	e.applyExpiry(ctx, req, e.now())

	items, err := e.requests.ListItemsByRequest(ctx, requestID)
	if err != nil {
		return nil, &BackingStoreError{Op: "list request items", Err: err}
	}
	req.Items = items
	return req, nil
}

type ProcessItemInput struct {
	MedicationID string
	Quantity     int
}

type ProcessRequestInput struct {
	RequestID        string
	Status           string // APPROVED | REJECTED
	StaffNote        string
	DistributionArea models.Area
	Items            []ProcessItemInput
}

// ProcessRequest duyệt hoặc từ chối một phiếu.
//
// PENDING: cần vai trò STAFF/ADMIN, không được tự xử lý phiếu của mình,
// bắt buộc có ghi chú. Phiếu đã xử lý (APPROVED/REJECTED) chỉ ADMIN được
// sửa lại; các dòng thuốc là cộng dồn, không có hoàn kho cho lần duyệt
// trước. Phiếu EXPIRED bất biến với tất cả mọi người.
//
// Thứ tự side effect khi duyệt có thuốc: trừ kho + ghi dòng thuốc từng
// dòng một (lỗi giữa chừng thì dừng, các dòng đã cấp không rollback nhưng
// trạng thái phiếu chưa bị ghi), sau đó mới ghi trạng thái, cuối cùng là
// nhật ký và sự kiện.
func (e *Engine) ProcessRequest(ctx context.Context, actor Actor, in ProcessRequestInput) (*models.Request, error) {
	if in.Status != models.StatusApproved && in.Status != models.StatusRejected {
		return nil, &ValidationError{Message: "status must be APPROVED or REJECTED"}
	}
	if strings.TrimSpace(in.StaffNote) == "" {
		return nil, &ValidationError{Message: "staff note is required"}
	}
	if in.Status == models.StatusRejected && len(in.Items) > 0 {
		return nil, &ValidationError{Message: "a rejected request cannot have dispensed items"}
	}
	if in.Status == models.StatusApproved && len(in.Items) > 0 && !in.DistributionArea.Valid() {
		return nil, &ValidationError{Message: "a valid distribution area (A or B) is required to dispense items"}
	}
	for _, it := range in.Items {
		if it.MedicationID == "" || it.Quantity <= 0 {
			return nil, &ValidationError{Message: "each item needs a medication id and a positive quantity"}
		}
	}

	unlock := e.locks.Lock(in.RequestID)
	defer unlock()

	req, err := e.fetchRequest(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	if DeriveStatus(req, now) == models.StatusExpired {
		e.applyExpiry(ctx, req, now)
		return nil, &ValidationError{Message: "request has expired and can no longer be processed"}
	}

	rel := RelationNone
	if req.RequesterEmail == actor.Email {
		rel = RelationSelf
	}
	action := ActionProcessRequest
	if req.Status != models.StatusPending {
		action = ActionReprocessRequest
	}
	if !Allowed(action, actor.Role, rel) {
		if rel == RelationSelf {
			return nil, &AuthorizationError{Message: "you cannot process your own request"}
		}
		if action == ActionReprocessRequest {
			return nil, &AuthorizationError{Message: "only an admin can edit an already processed request"}
		}
		return nil, &AuthorizationError{Message: "you do not have permission to process requests"}
	}

	// Cấp phát từng dòng. Không có transaction nên đây là "best-effort
	// sequential": dòng lỗi làm dừng cả batch, dòng đã cấp giữ nguyên.
	for _, it := range in.Items {
		if err := e.ledger.Dispense(ctx, actor.Email, it.MedicationID, it.Quantity, in.DistributionArea); err != nil {
			return nil, err
		}
		item := models.RequestItem{
			RequestID:    req.RequestID,
			MedicationID: it.MedicationID,
			Quantity:     it.Quantity,
		}
		if err := e.requests.AppendRequestItem(ctx, &item); err != nil {
			return nil, &BackingStoreError{Op: "append request item", Err: err}
		}
	}

	area := ""
	if in.Status == models.StatusApproved {
		if in.DistributionArea.Valid() {
			area = string(in.DistributionArea)
		} else {
			// Duyệt lại không kèm thuốc thì giữ khu đã ghi trước đó.
			area = req.DistributionArea
		}
	}

	if err := e.requests.SetRequestStatus(ctx, req.RequestID, in.Status, in.StaffNote, &now, area); err != nil {
		return nil, &BackingStoreError{Op: "set request status", Err: err}
	}

	req.Status = in.Status
	req.StaffNote = in.StaffNote
	req.ProcessedAt = &now
	req.DistributionArea = area
	if items, err := e.requests.ListItemsByRequest(ctx, req.RequestID); err == nil {
		req.Items = items
	}

	logAction := ActionLogApproveRequest
	if in.Status == models.StatusRejected {
		logAction = ActionLogRejectRequest
	}
	e.log.Record(ctx, actor.Email, logAction, fmt.Sprintf("%s (%d dòng thuốc)", req.RequestID, len(in.Items)))

	e.events.Publish(Event{
		Type:           EventRequestProcessed,
		RequestID:      req.RequestID,
		RequesterEmail: req.RequesterEmail,
		Status:         in.Status,
	})
	return req, nil
}

func (e *Engine) fetchRequest(ctx context.Context, requestID string) (*models.Request, error) {
	req, err := e.requests.GetRequest(ctx, requestID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, &NotFoundError{Kind: "request", ID: requestID}
		}
		return nil, &BackingStoreError{Op: "get request", Err: err}
	}
	return req, nil
}

// applyExpiry ghi EXPIRED cho phiếu PENDING quá hạn. Hai reader cùng thấy
// một phiếu quá hạn có thể cùng ghi; giá trị đích giống nhau nên
// last-write-wins là chấp nhận được, và MarkExpired tự nó idempotent.
func (e *Engine) applyExpiry(ctx context.Context, req *models.Request, now time.Time) {
	derived := DeriveStatus(req, now)
	if derived == req.Status {
		return
	}
	if err := e.requests.MarkExpired(ctx, req.RequestID); err != nil {
		log.Printf("Failed to persist expiry for %s: %v", req.RequestID, err)
	} else {
		e.log.Record(ctx, "system", ActionLogExpireRequest, req.RequestID)
	}
	req.Status = derived
}
