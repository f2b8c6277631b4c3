package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loadlink/internal/models"
)

// --- MOCKS ---

var errMockNotFound = errors.New("record not found")

// passTx runs the function directly; rollback behavior is asserted by
// checking which saves happened before the error.
type passTx struct{}

func (passTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLoads struct {
	loads   map[uint]*models.Load
	saved   []*models.Load
	deleted []*models.Load
	saveErr error
}

func newMockLoads(loads ...*models.Load) *mockLoads {
	m := &mockLoads{loads: map[uint]*models.Load{}}
	for _, l := range loads {
		m.loads[l.ID] = l
	}
	return m
}

func (m *mockLoads) Get(ctx context.Context, id uint) (*models.Load, error) {
	if l, ok := m.loads[id]; ok {
		return l, nil
	}
	return nil, errMockNotFound
}

func (m *mockLoads) GetForUpdate(ctx context.Context, id uint) (*models.Load, error) {
	return m.Get(ctx, id)
}

func (m *mockLoads) Save(ctx context.Context, load *models.Load) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, load)
	return nil
}

func (m *mockLoads) Delete(ctx context.Context, load *models.Load) error {
	m.deleted = append(m.deleted, load)
	delete(m.loads, load.ID)
	return nil
}

type mockTrips struct {
	trips   map[uint]*models.Trip
	created *models.Trip
	saved   []*models.Trip
}

func newMockTrips(trips ...*models.Trip) *mockTrips {
	m := &mockTrips{trips: map[uint]*models.Trip{}}
	for _, t := range trips {
		m.trips[t.ID] = t
	}
	return m
}

func (m *mockTrips) Get(ctx context.Context, id uint) (*models.Trip, error) {
	if t, ok := m.trips[id]; ok {
		return t, nil
	}
	return nil, errMockNotFound
}

func (m *mockTrips) GetForUpdate(ctx context.Context, id uint) (*models.Trip, error) {
	return m.Get(ctx, id)
}

func (m *mockTrips) GetActiveByLoad(ctx context.Context, loadID uint) (*models.Trip, error) {
	for _, t := range m.trips {
		if t.LoadID == loadID && t.Status != models.TripCompleted && t.Status != models.TripCancelled {
			return t, nil
		}
	}
	return nil, errMockNotFound
}

func (m *mockTrips) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = uint(len(m.trips) + 100)
	m.trips[trip.ID] = trip
	m.created = trip
	return nil
}

func (m *mockTrips) Save(ctx context.Context, trip *models.Trip) error {
	m.saved = append(m.saved, trip)
	return nil
}

type mockTrucks struct {
	trucks map[uint]*models.Truck
}

func newMockTrucks(trucks ...*models.Truck) *mockTrucks {
	m := &mockTrucks{trucks: map[uint]*models.Truck{}}
	for _, t := range trucks {
		m.trucks[t.ID] = t
	}
	return m
}

func (m *mockTrucks) Get(ctx context.Context, id uint) (*models.Truck, error) {
	if t, ok := m.trucks[id]; ok {
		return t, nil
	}
	return nil, errMockNotFound
}

type mockRequests struct {
	cores        map[string]*models.RequestCore
	pending      bool
	stalePending bool
	expireCalls  int
	markWins     bool
	createdLoad  *models.LoadRequest
	createdTruck *models.TruckRequest
}

func reqKey(kind models.RequestKind, id uint) string {
	return fmt.Sprintf("%s/%d", kind, id)
}

func newMockRequests() *mockRequests {
	return &mockRequests{cores: map[string]*models.RequestCore{}, markWins: true}
}

func (m *mockRequests) put(kind models.RequestKind, id uint, core *models.RequestCore) {
	m.cores[reqKey(kind, id)] = core
}

func (m *mockRequests) GetForUpdate(ctx context.Context, kind models.RequestKind, id uint) (*models.RequestCore, error) {
	if c, ok := m.cores[reqKey(kind, id)]; ok {
		return c, nil
	}
	return nil, errMockNotFound
}

func (m *mockRequests) HasPending(ctx context.Context, loadID, truckID uint, now time.Time) (bool, error) {
	return m.pending, nil
}

// ExpireStale mirrors the store behavior: when the only pending row is
// past its expiry (stalePending), flipping it clears the block.
func (m *mockRequests) ExpireStale(ctx context.Context, loadID, truckID uint, now time.Time) error {
	m.expireCalls++
	if m.stalePending {
		m.pending = false
		m.stalePending = false
	}
	return nil
}

func (m *mockRequests) CreateLoadRequest(ctx context.Context, req *models.LoadRequest) error {
	req.ID = 1
	m.createdLoad = req
	return nil
}

func (m *mockRequests) CreateTruckRequest(ctx context.Context, req *models.TruckRequest) error {
	req.ID = 1
	m.createdTruck = req
	return nil
}

func (m *mockRequests) MarkResponded(ctx context.Context, kind models.RequestKind, id uint, status models.RequestStatus, notes string, at time.Time) (bool, error) {
	return m.markWins, nil
}

type mockPostings struct {
	postings    map[uint]*models.TruckPosting
	active      bool
	staleActive bool
	expireCalls int
	created     *models.TruckPosting
	saved       []*models.TruckPosting
}

func newMockPostings(postings ...*models.TruckPosting) *mockPostings {
	m := &mockPostings{postings: map[uint]*models.TruckPosting{}}
	for _, p := range postings {
		m.postings[p.ID] = p
	}
	return m
}

func (m *mockPostings) Get(ctx context.Context, id uint) (*models.TruckPosting, error) {
	if p, ok := m.postings[id]; ok {
		return p, nil
	}
	return nil, errMockNotFound
}

func (m *mockPostings) GetForUpdate(ctx context.Context, id uint) (*models.TruckPosting, error) {
	return m.Get(ctx, id)
}

func (m *mockPostings) HasActive(ctx context.Context, truckID uint) (bool, error) {
	return m.active, nil
}

func (m *mockPostings) ExpireStale(ctx context.Context, truckID uint, now time.Time) error {
	m.expireCalls++
	if m.staleActive {
		m.active = false
		m.staleActive = false
	}
	return nil
}

func (m *mockPostings) Create(ctx context.Context, posting *models.TruckPosting) error {
	posting.ID = 1
	m.created = posting
	return nil
}

func (m *mockPostings) Save(ctx context.Context, posting *models.TruckPosting) error {
	m.saved = append(m.saved, posting)
	return nil
}

type mockSettler struct {
	settlement *models.TripSettlement
	err        error
	calls      int
}

func (m *mockSettler) SettleTrip(ctx context.Context, trip *models.Trip) (*models.TripSettlement, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.settlement != nil {
		return m.settlement, nil
	}
	return &models.TripSettlement{TripID: trip.ID}, nil
}

type mockNotifier struct {
	events []string
}

func (m *mockNotifier) Notify(event string, payload map[string]any) {
	m.events = append(m.events, event)
}
