package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bakesight-dashboard/internal/domain"
)

type fakeReviews struct {
	mu        sync.Mutex
	byStatus  map[string][]domain.Review
	listErr   map[string]error
	updateErr map[int64]error
	updates   map[int64]domain.ReviewUpdate
	listCalls int
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{
		byStatus:  map[string][]domain.Review{},
		listErr:   map[string]error{},
		updateErr: map[int64]error{},
		updates:   map[int64]domain.ReviewUpdate{},
	}
}

func (f *fakeReviews) ListReviews(_ context.Context, status string) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.listErr[status]; err != nil {
		return nil, err
	}
	return f.byStatus[status], nil
}

func (f *fakeReviews) UpdateReview(_ context.Context, reviewID int64, update domain.ReviewUpdate) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErr[reviewID]; err != nil {
		return nil, err
	}
	f.updates[reviewID] = update
	resolvedBy := update.ResolvedBy
	return &domain.Review{
		ReviewID:   reviewID,
		SessionID:  reviewID * 10,
		Status:     update.Status,
		Reason:     domain.ReasonReview,
		CreatedAt:  "2024-01-01T03:00:00",
		ResolvedBy: &resolvedBy,
	}, nil
}

func (f *fakeReviews) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

type fakeDetections struct {
	events []domain.CctvEvent
	err    error
}

func (f *fakeDetections) ListCctvEvents(context.Context) ([]domain.CctvEvent, error) {
	return f.events, f.err
}

type fakeOrders struct {
	orders  []domain.Order
	err     error
	storeID *int64
}

func (f *fakeOrders) ListOrders(_ context.Context, storeID *int64) ([]domain.Order, error) {
	f.storeID = storeID
	return f.orders, f.err
}

type fakeStores struct {
	mu          sync.Mutex
	stores      []domain.Store
	devices     map[string][]domain.Device
	rows        []domain.TopMenuRow
	err         error
	storeCalls  int
	deviceCalls int
	topMenuArgs struct {
		code     string
		from, to time.Time
		limit    int
	}
}

func (f *fakeStores) ListStores(context.Context) ([]domain.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++
	return f.stores, f.err
}

func (f *fakeStores) ListDevices(_ context.Context, storeCode string) ([]domain.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deviceCalls++
	return f.devices[storeCode], f.err
}

func (f *fakeStores) TopMenu(_ context.Context, storeCode string, from, to time.Time, limit int) ([]domain.TopMenuRow, error) {
	f.topMenuArgs.code = storeCode
	f.topMenuArgs.from = from
	f.topMenuArgs.to = to
	f.topMenuArgs.limit = limit
	return f.rows, f.err
}

func review(id int64, reason, status, createdAt string, topK string) domain.Review {
	r := domain.Review{
		ReviewID:  id,
		SessionID: id * 10,
		Reason:    reason,
		Status:    status,
		CreatedAt: createdAt,
	}
	if topK != "" {
		r.TopKJSON = json.RawMessage(topK)
	}
	return r
}

func detection(id int64, eventType, status, createdAt string) domain.CctvEvent {
	return domain.CctvEvent{
		EventID:      id,
		CctvDeviceID: id + 100,
		EventType:    eventType,
		Status:       status,
		CreatedAt:    createdAt,
	}
}
