// Package memstore là hiện thực in-memory của các interface trong store,
// dùng cho test và chạy thử không cần MongoDB.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

type Store struct {
	mu            sync.RWMutex
	medications   map[string]*models.Medication
	requests      map[string]*models.Request
	requestItems  []models.RequestItem
	users         map[string]*models.User
	logs          []models.ActivityLogEntry
	subscriptions map[string]*models.PushSubscription // key: endpoint
}

func New() *Store {
	return &Store{
		medications:   make(map[string]*models.Medication),
		requests:      make(map[string]*models.Request),
		users:         make(map[string]*models.User),
		subscriptions: make(map[string]*models.PushSubscription),
	}
}

// --- MedicationStore ---

func (s *Store) ListMedications(ctx context.Context) ([]models.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meds := make([]models.Medication, 0, len(s.medications))
	for _, m := range s.medications {
		meds = append(meds, *m)
	}
	sort.Slice(meds, func(i, j int) bool { return meds[i].MedicationID < meds[j].MedicationID })
	return meds, nil
}

func (s *Store) GetMedication(ctx context.Context, medicationID string) (*models.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medications[medicationID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) InsertMedication(ctx context.Context, med *models.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *med
	s.medications[med.MedicationID] = &cp
	return nil
}

func (s *Store) UpdateStock(ctx context.Context, medicationID string, area models.Area, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[medicationID]
	if !ok {
		return store.ErrNotFound
	}
	if area == models.AreaB {
		m.StockB = value
	} else {
		m.StockA = value
	}
	return nil
}

// --- RequestStore ---

func (s *Store) InsertRequest(ctx context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *req
	cp.Items = nil
	s.requests[req.RequestID] = &cp
	return nil
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRequests(ctx context.Context) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	requests := make([]models.Request, 0, len(s.requests))
	for _, r := range s.requests {
		requests = append(requests, *r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })
	return requests, nil
}

func (s *Store) SetRequestStatus(ctx context.Context, requestID, status, staffNote string, processedAt *time.Time, distributionArea string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = status
	r.StaffNote = staffNote
	r.ProcessedAt = processedAt
	r.DistributionArea = distributionArea
	return nil
}

func (s *Store) MarkExpired(ctx context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return store.ErrNotFound
	}
	if r.Status == models.StatusPending {
		r.Status = models.StatusExpired
	}
	return nil
}

func (s *Store) AppendRequestItem(ctx context.Context, item *models.RequestItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestItems = append(s.requestItems, *item)
	return nil
}

func (s *Store) ListRequestItems(ctx context.Context) ([]models.RequestItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.RequestItem, len(s.requestItems))
	copy(items, s.requestItems)
	return items, nil
}

func (s *Store) ListItemsByRequest(ctx context.Context, requestID string) ([]models.RequestItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []models.RequestItem{}
	for _, it := range s.requestItems {
		if it.RequestID == requestID {
			items = append(items, it)
		}
	}
	return items, nil
}

// --- UserStore ---

func (s *Store) GetUser(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.Email]
	if ok && user.Password == "" {
		user.Password = existing.Password
	}
	cp := *user
	s.users[user.Email] = &cp
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// --- LogStore ---

func (s *Store) AppendLog(ctx context.Context, entry *models.ActivityLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *Store) ListLogs(ctx context.Context) ([]models.ActivityLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := make([]models.ActivityLogEntry, len(s.logs))
	copy(logs, s.logs)
	return logs, nil
}

// --- SubscriptionStore ---

func (s *Store) AddSubscription(ctx context.Context, sub *models.PushSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.subscriptions[sub.Endpoint] = &cp
	return nil
}

func (s *Store) ListSubscriptions(ctx context.Context, emails []string) ([]models.PushSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[e] = true
	}
	subs := []models.PushSubscription{}
	for _, sub := range s.subscriptions {
		if wanted[sub.Email] {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Endpoint < subs[j].Endpoint })
	return subs, nil
}

func (s *Store) RemoveSubscription(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscriptions, endpoint)
	return nil
}
