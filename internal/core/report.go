package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

// Reporter cung cấp các phép tổng hợp chỉ-đọc trên phiếu đã duyệt, cho
// trang báo cáo và file xuất Excel. Reporter không ghi gì cả.
type Reporter struct {
	requests store.RequestStore
	meds     store.MedicationStore
	users    store.UserStore
}

func NewReporter(requests store.RequestStore, meds store.MedicationStore, users store.UserStore) *Reporter {
	return &Reporter{requests: requests, meds: meds, users: users}
}

// DispensedItem là một dòng thuốc đã cấp, đã join tên thuốc và người nhận.
type DispensedItem struct {
	RequestID      string    `json:"requestId"`
	MedicationID   string    `json:"medicationId"`
	MedicationName string    `json:"medicationName"`
	Unit           string    `json:"unit"`
	Quantity       int       `json:"quantity"`
	RequesterEmail string    `json:"requesterEmail"`
	RequesterName  string    `json:"requesterName"`
	Area           string    `json:"area"`
	Date           time.Time `json:"date"`
}

// MedicationTotal là tổng số lượng đã cấp của một thuốc trong kỳ.
type MedicationTotal struct {
	MedicationID string `json:"medicationId"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	Total        int    `json:"total"`
}

// RequesterRow là một phiếu đã duyệt trong kỳ, gộp danh sách thuốc
// thành một chuỗi "Tên (số lượng), ..." như bản cũ.
type RequesterRow struct {
	RequestID      string    `json:"requestId"`
	RequesterEmail string    `json:"requesterEmail"`
	SubjectGroup   string    `json:"subjectGroup"`
	Medications    string    `json:"medications"`
	StaffNote      string    `json:"staffNote"`
	ProcessedAt    time.Time `json:"processedAt"`
}

type joined struct {
	requests []models.Request
	itemsBy  map[string][]models.RequestItem
	medBy    map[string]models.Medication
	userBy   map[string]models.User
}

func (r *Reporter) load(ctx context.Context) (*joined, error) {
	requests, err := r.requests.ListRequests(ctx)
	if err != nil {
		return nil, &BackingStoreError{Op: "list requests", Err: err}
	}
	items, err := r.requests.ListRequestItems(ctx)
	if err != nil {
		return nil, &BackingStoreError{Op: "list request items", Err: err}
	}
	meds, err := r.meds.ListMedications(ctx)
	if err != nil {
		return nil, &BackingStoreError{Op: "list medications", Err: err}
	}
	users, err := r.users.ListUsers(ctx)
	if err != nil {
		return nil, &BackingStoreError{Op: "list users", Err: err}
	}

	j := &joined{
		requests: requests,
		itemsBy:  make(map[string][]models.RequestItem),
		medBy:    make(map[string]models.Medication),
		userBy:   make(map[string]models.User),
	}
	for _, it := range items {
		j.itemsBy[it.RequestID] = append(j.itemsBy[it.RequestID], it)
	}
	for _, m := range meds {
		j.medBy[m.MedicationID] = m
	}
	for _, u := range users {
		j.userBy[u.Email] = u
	}
	return j, nil
}

// dispenseDate: ưu tiên thời điểm xử lý, thiếu thì lùi về thời điểm tạo.
func dispenseDate(req *models.Request) time.Time {
	if req.ProcessedAt != nil {
		return *req.ProcessedAt
	}
	return req.CreatedAt
}

func inMonth(t time.Time, month, year int) bool {
	return int(t.Month()) == month && t.Year() == year
}

// DispensedItems liệt kê mọi dòng thuốc của các phiếu APPROVED, mới nhất trước.
func (r *Reporter) DispensedItems(ctx context.Context) ([]DispensedItem, error) {
	j, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := []DispensedItem{}
	for i := range j.requests {
		req := &j.requests[i]
		if req.Status != models.StatusApproved {
			continue
		}
		date := dispenseDate(req)
		requesterName := req.RequesterEmail
		if u, ok := j.userBy[req.RequesterEmail]; ok && u.Name != "" {
			requesterName = u.Name
		}
		for _, it := range j.itemsBy[req.RequestID] {
			med, ok := j.medBy[it.MedicationID]
			if !ok {
				med = models.Medication{MedicationID: it.MedicationID, Name: it.MedicationID, Unit: "?"}
			}
			out = append(out, DispensedItem{
				RequestID:      req.RequestID,
				MedicationID:   it.MedicationID,
				MedicationName: med.Name,
				Unit:           med.Unit,
				Quantity:       it.Quantity,
				RequesterEmail: req.RequesterEmail,
				RequesterName:  requesterName,
				Area:           req.DistributionArea,
				Date:           date,
			})
		}
	}

	sort.Slice(out, func(i, k int) bool { return out[i].Date.After(out[k].Date) })
	return out, nil
}

// MonthlyByMedication gộp theo thuốc các phiếu APPROVED trong tháng.
func (r *Reporter) MonthlyByMedication(ctx context.Context, month, year int) ([]MedicationTotal, error) {
	if month < 1 || month > 12 || year <= 0 {
		return nil, &ValidationError{Message: "month and year are required"}
	}
	j, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for i := range j.requests {
		req := &j.requests[i]
		if req.Status != models.StatusApproved || !inMonth(dispenseDate(req), month, year) {
			continue
		}
		for _, it := range j.itemsBy[req.RequestID] {
			totals[it.MedicationID] += it.Quantity
		}
	}

	out := []MedicationTotal{}
	for medID, total := range totals {
		med, ok := j.medBy[medID]
		if !ok {
			med = models.Medication{MedicationID: medID, Name: "Unknown", Unit: "?"}
		}
		out = append(out, MedicationTotal{
			MedicationID: medID,
			Name:         med.Name,
			Unit:         med.Unit,
			Total:        total,
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].MedicationID < out[k].MedicationID })
	return out, nil
}

// MonthlyByRequester liệt kê các phiếu APPROVED trong tháng theo người nhận.
func (r *Reporter) MonthlyByRequester(ctx context.Context, month, year int) ([]RequesterRow, error) {
	if month < 1 || month > 12 || year <= 0 {
		return nil, &ValidationError{Message: "month and year are required"}
	}
	j, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := []RequesterRow{}
	for i := range j.requests {
		req := &j.requests[i]
		if req.Status != models.StatusApproved || !inMonth(dispenseDate(req), month, year) {
			continue
		}

		parts := []string{}
		for _, it := range j.itemsBy[req.RequestID] {
			name := it.MedicationID
			if med, ok := j.medBy[it.MedicationID]; ok {
				name = med.Name
			}
			parts = append(parts, fmt.Sprintf("%s (%d)", name, it.Quantity))
		}

		out = append(out, RequesterRow{
			RequestID:      req.RequestID,
			RequesterEmail: req.RequesterEmail,
			SubjectGroup:   req.SubjectGroup,
			Medications:    strings.Join(parts, ", "),
			StaffNote:      req.StaffNote,
			ProcessedAt:    dispenseDate(req),
		})
	}

	sort.Slice(out, func(i, k int) bool { return out[i].ProcessedAt.After(out[k].ProcessedAt) })
	return out, nil
}
