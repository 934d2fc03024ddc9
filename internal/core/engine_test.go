package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store/memstore"
)

var (
	employee = Actor{Email: "sinhvien@pnt.edu.vn", Role: models.RoleEmployee}
	staff    = Actor{Email: "ytetruong@pnt.edu.vn", Role: models.RoleStaff}
	admin    = Actor{Email: "quantri@pnt.edu.vn", Role: models.RoleAdmin}
)

// testEngine gói engine với một đồng hồ chỉnh được bằng tay.
type testEngine struct {
	*Engine
	store *memstore.Store
	now   time.Time
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	st := memstore.New()
	alog := NewActivityLog(st)
	ledger := NewLedger(st, alog, nil)
	engine := NewEngine(st, ledger, alog, nil)

	te := &testEngine{Engine: engine, store: st, now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	engine.now = func() time.Time { return te.now }
	return te
}

func (te *testEngine) advance(d time.Duration) {
	te.now = te.now.Add(d)
}

func (te *testEngine) mustCreate(t *testing.T, actor Actor, in CreateRequestInput) *models.Request {
	t.Helper()
	req, err := te.CreateRequest(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	return req
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("note only", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})
		if !strings.HasPrefix(req.RequestID, "REQ-") {
			t.Errorf("request id = %q, want REQ- prefix", req.RequestID)
		}
		if req.Status != models.StatusPending {
			t.Errorf("status = %q, want PENDING", req.Status)
		}
		if req.RequesterEmail != employee.Email {
			t.Errorf("requester = %q, want %q", req.RequesterEmail, employee.Email)
		}
	})

	t.Run("item only, no note", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectEmployee,
			MedicationID: "MED-01",
			Quantity:     2,
		})
		if len(req.Items) != 1 || req.Items[0].Quantity != 2 {
			t.Errorf("items = %+v, want one item x2", req.Items)
		}
	})

	t.Run("neither note nor item", func(t *testing.T) {
		te := newTestEngine(t)
		_, err := te.CreateRequest(ctx, employee, CreateRequestInput{SubjectGroup: models.SubjectStudent})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		if validationErr.Message != "Vui lòng nhập lý do hoặc chọn thuốc" {
			t.Errorf("unexpected message: %q", validationErr.Message)
		}
	})

	t.Run("blank note does not count", func(t *testing.T) {
		te := newTestEngine(t)
		_, err := te.CreateRequest(ctx, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "   ",
		})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("invalid subject group", func(t *testing.T) {
		te := newTestEngine(t)
		_, err := te.CreateRequest(ctx, employee, CreateRequestInput{
			SubjectGroup: "VISITOR",
			Note:         "Đau đầu",
		})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})
}

func TestRequestExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("pending request expires after the window", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		te.advance(ExpiryWindow + time.Minute)

		// Người tạo vẫn thấy phiếu của mình, ở trạng thái EXPIRED.
		mine, err := te.ListRequests(ctx, employee)
		if err != nil {
			t.Fatalf("ListRequests: %v", err)
		}
		if len(mine) != 1 || mine[0].Status != models.StatusExpired {
			t.Fatalf("owner view = %+v, want one EXPIRED request", mine)
		}

		// Trạng thái phải được ghi lại chứ không chỉ derive lúc đọc.
		stored, err := te.store.GetRequest(ctx, req.RequestID)
		if err != nil {
			t.Fatalf("GetRequest: %v", err)
		}
		if stored.Status != models.StatusExpired {
			t.Errorf("persisted status = %q, want EXPIRED", stored.Status)
		}
	})

	t.Run("exactly at the window boundary is still pending", func(t *testing.T) {
		te := newTestEngine(t)
		te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		te.advance(ExpiryWindow)

		mine, err := te.ListRequests(ctx, employee)
		if err != nil {
			t.Fatalf("ListRequests: %v", err)
		}
		if mine[0].Status != models.StatusPending {
			t.Errorf("status = %q, want PENDING at exact boundary", mine[0].Status)
		}
	})

	t.Run("expired requests are hidden from the staff queue", func(t *testing.T) {
		te := newTestEngine(t)
		te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})
		te.advance(ExpiryWindow + time.Minute)
		te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Sổ mũi",
		})

		queue, err := te.ListRequests(ctx, staff)
		if err != nil {
			t.Fatalf("ListRequests: %v", err)
		}
		if len(queue) != 1 || queue[0].Status != models.StatusPending {
			t.Fatalf("staff queue = %+v, want only the fresh PENDING request", queue)
		}
	})

	t.Run("expired request can no longer be processed", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})
		te.advance(ExpiryWindow + time.Minute)

		_, err := te.ProcessRequest(ctx, admin, ProcessRequestInput{
			RequestID: req.RequestID,
			Status:    models.StatusRejected,
			StaffNote: "Quá hạn",
		})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("expiry is idempotent across repeated reads", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})
		te.advance(ExpiryWindow + time.Minute)

		for i := 0; i < 3; i++ {
			if _, err := te.ListRequests(ctx, employee); err != nil {
				t.Fatalf("ListRequests #%d: %v", i, err)
			}
		}
		stored, err := te.store.GetRequest(ctx, req.RequestID)
		if err != nil {
			t.Fatalf("GetRequest: %v", err)
		}
		if stored.Status != models.StatusExpired {
			t.Errorf("status = %q, want EXPIRED", stored.Status)
		}
	})
}

func TestProcessRequest(t *testing.T) {
	ctx := context.Background()

	seedMed := func(t *testing.T, te *testEngine, id string, stockA, threshold int) {
		t.Helper()
		if err := te.store.InsertMedication(ctx, &models.Medication{
			MedicationID: id,
			Name:         "Paracetamol 500mg",
			Unit:         "viên",
			StockA:       stockA,
			MinThreshold: threshold,
		}); err != nil {
			t.Fatalf("seed medication: %v", err)
		}
	}

	t.Run("approve with items dispenses and records everything", func(t *testing.T) {
		te := newTestEngine(t)
		seedMed(t, te, "MED-01", 10, 0)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		got, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID:        req.RequestID,
			Status:           models.StatusApproved,
			StaffNote:        "Đã cấp thuốc",
			DistributionArea: models.AreaA,
			Items:            []ProcessItemInput{{MedicationID: "MED-01", Quantity: 3}},
		})
		if err != nil {
			t.Fatalf("ProcessRequest: %v", err)
		}
		if got.Status != models.StatusApproved || got.StaffNote != "Đã cấp thuốc" {
			t.Errorf("request = %+v", got)
		}
		if got.ProcessedAt == nil || got.DistributionArea != "A" {
			t.Errorf("processedAt/area not set: %+v", got)
		}
		if len(got.Items) != 1 || got.Items[0].Quantity != 3 {
			t.Errorf("items = %+v", got.Items)
		}

		med, _ := te.store.GetMedication(ctx, "MED-01")
		if med.StockA != 7 {
			t.Errorf("stock A = %d, want 7", med.StockA)
		}
	})

	t.Run("self approval is forbidden, admin included", func(t *testing.T) {
		for _, actor := range []Actor{staff, admin} {
			te := newTestEngine(t)
			req := te.mustCreate(t, actor, CreateRequestInput{
				SubjectGroup: models.SubjectEmployee,
				Note:         "Đau đầu",
			})

			_, err := te.ProcessRequest(ctx, actor, ProcessRequestInput{
				RequestID: req.RequestID,
				Status:    models.StatusApproved,
				StaffNote: "Tự duyệt",
			})
			var authErr *AuthorizationError
			if !errors.As(err, &authErr) {
				t.Fatalf("%s: err = %v, want AuthorizationError", actor.Role, err)
			}
		}
	})

	t.Run("employee cannot process", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, staff, CreateRequestInput{
			SubjectGroup: models.SubjectEmployee,
			Note:         "Đau đầu",
		})

		_, err := te.ProcessRequest(ctx, employee, ProcessRequestInput{
			RequestID: req.RequestID,
			Status:    models.StatusApproved,
			StaffNote: "ok",
		})
		var authErr *AuthorizationError
		if !errors.As(err, &authErr) {
			t.Fatalf("err = %v, want AuthorizationError", err)
		}
	})

	t.Run("reprocess is admin only and additive", func(t *testing.T) {
		te := newTestEngine(t)
		seedMed(t, te, "MED-01", 10, 0)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		if _, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID:        req.RequestID,
			Status:           models.StatusApproved,
			StaffNote:        "Lần 1",
			DistributionArea: models.AreaA,
			Items:            []ProcessItemInput{{MedicationID: "MED-01", Quantity: 2}},
		}); err != nil {
			t.Fatalf("first process: %v", err)
		}

		// STAFF không được sửa phiếu đã xử lý.
		_, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID: req.RequestID,
			Status:    models.StatusRejected,
			StaffNote: "Đổi ý",
		})
		var authErr *AuthorizationError
		if !errors.As(err, &authErr) {
			t.Fatalf("staff reprocess: err = %v, want AuthorizationError", err)
		}

		// ADMIN duyệt lại với thêm thuốc: dòng mới cộng dồn, không hoàn
		// kho cho lần duyệt trước.
		got, err := te.ProcessRequest(ctx, admin, ProcessRequestInput{
			RequestID:        req.RequestID,
			Status:           models.StatusApproved,
			StaffNote:        "Bổ sung",
			DistributionArea: models.AreaA,
			Items:            []ProcessItemInput{{MedicationID: "MED-01", Quantity: 3}},
		})
		if err != nil {
			t.Fatalf("admin reprocess: %v", err)
		}
		if len(got.Items) != 2 {
			t.Fatalf("items = %+v, want 2 accumulated lines", got.Items)
		}
		med, _ := te.store.GetMedication(ctx, "MED-01")
		if med.StockA != 5 {
			t.Errorf("stock A = %d, want 5 (2 + 3 dispensed)", med.StockA)
		}
	})

	t.Run("reapprove without area keeps the recorded one", func(t *testing.T) {
		te := newTestEngine(t)
		seedMed(t, te, "MED-01", 10, 0)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		if _, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID:        req.RequestID,
			Status:           models.StatusApproved,
			StaffNote:        "Lần 1",
			DistributionArea: models.AreaA,
			Items:            []ProcessItemInput{{MedicationID: "MED-01", Quantity: 1}},
		}); err != nil {
			t.Fatalf("first process: %v", err)
		}

		got, err := te.ProcessRequest(ctx, admin, ProcessRequestInput{
			RequestID: req.RequestID,
			Status:    models.StatusApproved,
			StaffNote: "Sửa ghi chú",
		})
		if err != nil {
			t.Fatalf("reprocess: %v", err)
		}
		if got.DistributionArea != "A" {
			t.Errorf("area = %q, want previous area A preserved", got.DistributionArea)
		}
	})

	t.Run("reject with items is invalid", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		_, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID: req.RequestID,
			Status:    models.StatusRejected,
			StaffNote: "Không cấp",
			Items:     []ProcessItemInput{{MedicationID: "MED-01", Quantity: 1}},
		})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("staff note is mandatory", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		_, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID: req.RequestID,
			Status:    models.StatusRejected,
			StaffNote: "  ",
		})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("failed dispense leaves the request pending", func(t *testing.T) {
		te := newTestEngine(t)
		seedMed(t, te, "MED-01", 2, 0)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		_, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID:        req.RequestID,
			Status:           models.StatusApproved,
			StaffNote:        "Cấp thuốc",
			DistributionArea: models.AreaA,
			Items:            []ProcessItemInput{{MedicationID: "MED-01", Quantity: 5}},
		})
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}

		stored, _ := te.store.GetRequest(ctx, req.RequestID)
		if stored.Status != models.StatusPending {
			t.Errorf("status = %q, want PENDING after failed dispense", stored.Status)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		te := newTestEngine(t)
		_, err := te.ProcessRequest(ctx, staff, ProcessRequestInput{
			RequestID: "REQ-404",
			Status:    models.StatusRejected,
			StaffNote: "x",
		})
		var notFoundErr *NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Fatalf("err = %v, want NotFoundError", err)
		}
	})
}

func TestGetRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("owner and staff can view, strangers cannot", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})

		if _, err := te.GetRequest(ctx, employee, req.RequestID); err != nil {
			t.Errorf("owner view: %v", err)
		}
		if _, err := te.GetRequest(ctx, staff, req.RequestID); err != nil {
			t.Errorf("staff view: %v", err)
		}

		stranger := Actor{Email: "khac@pnt.edu.vn", Role: models.RoleEmployee}
		_, err := te.GetRequest(ctx, stranger, req.RequestID)
		var authErr *AuthorizationError
		if !errors.As(err, &authErr) {
			t.Errorf("stranger view: err = %v, want AuthorizationError", err)
		}
	})

	t.Run("direct lookup still shows an expired request to staff", func(t *testing.T) {
		te := newTestEngine(t)
		req := te.mustCreate(t, employee, CreateRequestInput{
			SubjectGroup: models.SubjectStudent,
			Note:         "Đau đầu",
		})
		te.advance(ExpiryWindow + time.Minute)

		got, err := te.GetRequest(ctx, staff, req.RequestID)
		if err != nil {
			t.Fatalf("GetRequest: %v", err)
		}
		if got.Status != models.StatusExpired {
			t.Errorf("status = %q, want EXPIRED", got.Status)
		}
	})
}
