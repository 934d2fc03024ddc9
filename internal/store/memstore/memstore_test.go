package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

func TestNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.GetMedication(ctx, "MED-404"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetMedication err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetRequest(ctx, "REQ-404"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetRequest err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetUser(ctx, "none@pnt.edu.vn"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUser err = %v, want ErrNotFound", err)
	}
}

func TestMarkExpiredOnlyTouchesPending(t *testing.T) {
	s := New()
	ctx := context.Background()

	now := time.Now()
	if err := s.InsertRequest(ctx, &models.Request{RequestID: "REQ-1", Status: models.StatusPending, CreatedAt: now}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRequestStatus(ctx, "REQ-1", models.StatusApproved, "ok", &now, "A"); err != nil {
		t.Fatal(err)
	}

	// Phiếu đã duyệt không được MarkExpired ghi đè.
	if err := s.MarkExpired(ctx, "REQ-1"); err != nil {
		t.Fatal(err)
	}
	r, err := s.GetRequest(ctx, "REQ-1")
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != models.StatusApproved {
		t.Errorf("status = %q, want APPROVED", r.Status)
	}
}

func TestUpsertUserKeepsPassword(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertUser(ctx, &models.User{Email: "a@pnt.edu.vn", Name: "A", Password: "hash1"}); err != nil {
		t.Fatal(err)
	}
	// Cập nhật hồ sơ không kèm mật khẩu thì mật khẩu cũ phải còn.
	if err := s.UpsertUser(ctx, &models.User{Email: "a@pnt.edu.vn", Name: "A mới"}); err != nil {
		t.Fatal(err)
	}

	u, err := s.GetUser(ctx, "a@pnt.edu.vn")
	if err != nil {
		t.Fatal(err)
	}
	if u.Password != "hash1" {
		t.Errorf("password = %q, want preserved hash", u.Password)
	}
	if u.Name != "A mới" {
		t.Errorf("name = %q, want updated", u.Name)
	}
}

func TestSubscriptionsByEndpoint(t *testing.T) {
	s := New()
	ctx := context.Background()

	sub := &models.PushSubscription{Email: "a@pnt.edu.vn", Endpoint: "https://push/1"}
	if err := s.AddSubscription(ctx, sub); err != nil {
		t.Fatal(err)
	}
	// Đăng ký lại cùng endpoint thì ghi đè, không nhân đôi.
	if err := s.AddSubscription(ctx, sub); err != nil {
		t.Fatal(err)
	}

	subs, err := s.ListSubscriptions(ctx, []string{"a@pnt.edu.vn"})
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d subscriptions, want 1", len(subs))
	}

	if err := s.RemoveSubscription(ctx, "https://push/1"); err != nil {
		t.Fatal(err)
	}
	subs, _ = s.ListSubscriptions(ctx, []string{"a@pnt.edu.vn"})
	if len(subs) != 0 {
		t.Errorf("got %d subscriptions after removal, want 0", len(subs))
	}
}
