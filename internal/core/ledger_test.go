package core

import (
	"context"
	"errors"
	"testing"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store/memstore"
)

// recordingSink thu lại các event để kiểm tra, thay cho notifier thật.
type recordingSink struct {
	events []Event
}

func (s *recordingSink) Publish(ev Event) {
	s.events = append(s.events, ev)
}

func newTestLedger(t *testing.T) (*Ledger, *memstore.Store, *recordingSink) {
	t.Helper()
	st := memstore.New()
	sink := &recordingSink{}
	return NewLedger(st, NewActivityLog(st), sink), st, sink
}

func seedMedication(t *testing.T, st *memstore.Store, id string, stockA, stockB, threshold int) {
	t.Helper()
	err := st.InsertMedication(context.Background(), &models.Medication{
		MedicationID: id,
		Name:         "Paracetamol 500mg",
		Unit:         "viên",
		StockA:       stockA,
		StockB:       stockB,
		MinThreshold: threshold,
	})
	if err != nil {
		t.Fatalf("seed medication: %v", err)
	}
}

func stockAt(t *testing.T, st *memstore.Store, id string, area models.Area) int {
	t.Helper()
	med, err := st.GetMedication(context.Background(), id)
	if err != nil {
		t.Fatalf("get medication: %v", err)
	}
	return med.StockAt(area)
}

func TestDispense(t *testing.T) {
	ctx := context.Background()

	t.Run("reduces stock at the chosen area only", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 10, 7, 3)

		if err := ledger.Dispense(ctx, "staff@pnt.edu.vn", "MED-01", 4, models.AreaA); err != nil {
			t.Fatalf("Dispense: %v", err)
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 6 {
			t.Errorf("stock A = %d, want 6", got)
		}
		if got := stockAt(t, st, "MED-01", models.AreaB); got != 7 {
			t.Errorf("stock B = %d, want 7", got)
		}
	})

	t.Run("stock at threshold blocks dispensing entirely", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 3, 0, 3)

		err := ledger.Dispense(ctx, "staff@pnt.edu.vn", "MED-01", 1, models.AreaA)
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
		if !stockErr.BelowThreshold {
			t.Error("BelowThreshold = false, want true")
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 3 {
			t.Errorf("stock changed to %d after rejected dispense", got)
		}
	})

	t.Run("stock one above threshold can still be dispensed", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 4, 0, 3)

		if err := ledger.Dispense(ctx, "staff@pnt.edu.vn", "MED-01", 1, models.AreaA); err != nil {
			t.Fatalf("Dispense: %v", err)
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 3 {
			t.Errorf("stock A = %d, want 3", got)
		}
	})

	t.Run("zero threshold allows dispensing down to zero", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 10, 0, 0)

		if err := ledger.Dispense(ctx, "staff@pnt.edu.vn", "MED-01", 10, models.AreaA); err != nil {
			t.Fatalf("Dispense: %v", err)
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 0 {
			t.Errorf("stock A = %d, want 0", got)
		}

		// Kho đã về 0 thì lần cấp tiếp theo phải bị chặn.
		err := ledger.Dispense(ctx, "staff@pnt.edu.vn", "MED-01", 1, models.AreaA)
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
	})

	t.Run("quantity above available is rejected", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 5, 0, 0)

		err := ledger.Dispense(ctx, "staff@pnt.edu.vn", "MED-01", 6, models.AreaA)
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
		if stockErr.BelowThreshold {
			t.Error("BelowThreshold = true, want false")
		}
	})

	t.Run("dropping to threshold publishes a low stock event", func(t *testing.T) {
		ledger, st, sink := newTestLedger(t)
		seedMedication(t, st, "MED-01", 5, 0, 3)

		if err := ledger.Dispense(ctx, "staff@pnt.edu.vn", "MED-01", 2, models.AreaA); err != nil {
			t.Fatalf("Dispense: %v", err)
		}
		if len(sink.events) != 1 {
			t.Fatalf("got %d events, want 1", len(sink.events))
		}
		ev := sink.events[0]
		if ev.Type != EventStockLow || ev.Remaining != 3 || ev.Threshold != 3 {
			t.Errorf("unexpected event: %+v", ev)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 10, 0, 0)

		cases := []struct {
			name     string
			medID    string
			quantity int
			area     models.Area
			wantErr  any
		}{
			{"zero quantity", "MED-01", 0, models.AreaA, &ValidationError{}},
			{"negative quantity", "MED-01", -2, models.AreaA, &ValidationError{}},
			{"invalid area", "MED-01", 1, models.Area("C"), &ValidationError{}},
			{"unknown medication", "MED-99", 1, models.AreaA, &NotFoundError{}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := ledger.Dispense(ctx, "staff@pnt.edu.vn", tc.medID, tc.quantity, tc.area)
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				switch want := tc.wantErr.(type) {
				case *ValidationError:
					if !errors.As(err, &want) {
						t.Errorf("err = %v, want ValidationError", err)
					}
				case *NotFoundError:
					if !errors.As(err, &want) {
						t.Errorf("err = %v, want NotFoundError", err)
					}
				}
			})
		}
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("conserves total stock", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 10, 2, 0)

		if err := ledger.Transfer(ctx, "staff@pnt.edu.vn", "MED-01", 4, models.AreaA, models.AreaB); err != nil {
			t.Fatalf("Transfer: %v", err)
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 6 {
			t.Errorf("stock A = %d, want 6", got)
		}
		if got := stockAt(t, st, "MED-01", models.AreaB); got != 6 {
			t.Errorf("stock B = %d, want 6", got)
		}
	})

	t.Run("entire source stock can be moved", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 5, 0, 0)

		if err := ledger.Transfer(ctx, "staff@pnt.edu.vn", "MED-01", 5, models.AreaA, models.AreaB); err != nil {
			t.Fatalf("Transfer: %v", err)
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 0 {
			t.Errorf("stock A = %d, want 0", got)
		}
	})

	t.Run("insufficient source stock", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 3, 0, 0)

		err := ledger.Transfer(ctx, "staff@pnt.edu.vn", "MED-01", 4, models.AreaA, models.AreaB)
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("err = %v, want InsufficientStockError", err)
		}
	})

	t.Run("invalid pairs and amounts", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 10, 10, 0)

		cases := []struct {
			name   string
			amount int
			from   models.Area
			to     models.Area
		}{
			{"same area", 1, models.AreaA, models.AreaA},
			{"unknown source", 1, models.Area("X"), models.AreaB},
			{"unknown destination", 1, models.AreaA, models.Area("X")},
			{"zero amount", 0, models.AreaA, models.AreaB},
			{"negative amount", -1, models.AreaA, models.AreaB},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				err := ledger.Transfer(ctx, "staff@pnt.edu.vn", "MED-01", tc.amount, tc.from, tc.to)
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("err = %v, want ValidationError", err)
				}
			})
		}
	})
}

func TestRestock(t *testing.T) {
	ctx := context.Background()

	t.Run("raising stock succeeds", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 5, 0, 0)

		if err := ledger.Restock(ctx, "staff@pnt.edu.vn", "MED-01", models.AreaA, 50); err != nil {
			t.Fatalf("Restock: %v", err)
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 50 {
			t.Errorf("stock A = %d, want 50", got)
		}
	})

	t.Run("setting the same value is a no-op, not an error", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 5, 0, 0)

		if err := ledger.Restock(ctx, "staff@pnt.edu.vn", "MED-01", models.AreaA, 5); err != nil {
			t.Fatalf("Restock: %v", err)
		}
	})

	t.Run("lowering stock is rejected", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 5, 0, 0)

		err := ledger.Restock(ctx, "staff@pnt.edu.vn", "MED-01", models.AreaA, 4)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		if got := stockAt(t, st, "MED-01", models.AreaA); got != 5 {
			t.Errorf("stock changed to %d after rejected restock", got)
		}
	})
}

func TestAddMedication(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate id is rejected", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)
		seedMedication(t, st, "MED-01", 5, 0, 0)

		err := ledger.AddMedication(ctx, "staff@pnt.edu.vn", &models.Medication{
			MedicationID: "MED-01",
			Name:         "Khác",
		})
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("unit defaults when omitted", func(t *testing.T) {
		ledger, st, _ := newTestLedger(t)

		med := &models.Medication{MedicationID: "MED-02", Name: "Vitamin C"}
		if err := ledger.AddMedication(ctx, "staff@pnt.edu.vn", med); err != nil {
			t.Fatalf("AddMedication: %v", err)
		}
		got, err := st.GetMedication(ctx, "MED-02")
		if err != nil {
			t.Fatalf("GetMedication: %v", err)
		}
		if got.Unit != "viên" {
			t.Errorf("unit = %q, want %q", got.Unit, "viên")
		}
	})
}
