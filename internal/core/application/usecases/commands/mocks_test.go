package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllReadyUnassigned(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) Claim(ctx context.Context, courierID kernel.UUID, orderID kernel.UUID) error {
	args := m.Called(ctx, courierID, orderID)
	return args.Error(0)
}

func (m *MockCourierRepository) Release(ctx context.Context, courierID kernel.UUID, completed bool) error {
	args := m.Called(ctx, courierID, completed)
	return args.Error(0)
}

func (m *MockCourierRepository) AddRating(ctx context.Context, courierID kernel.UUID, score int) error {
	args := m.Called(ctx, courierID, score)
	return args.Error(0)
}

func (m *MockCourierRepository) GetAllOnline(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockProductInventory struct{ mock.Mock }

func (m *MockProductInventory) Get(ctx context.Context, id kernel.UUID) (ports.ProductSnapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.ProductSnapshot), args.Error(1)
}

func (m *MockProductInventory) Reserve(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductInventory) Restock(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

type MockVendorDirectory struct{ mock.Mock }

func (m *MockVendorDirectory) Get(ctx context.Context, id kernel.UUID) (ports.VendorSnapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.VendorSnapshot), args.Error(1)
}

func (m *MockVendorDirectory) AddRating(ctx context.Context, id kernel.UUID, score int) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

type MockCustomerDirectory struct{ mock.Mock }

func (m *MockCustomerDirectory) Get(ctx context.Context, id kernel.UUID) (ports.CustomerSnapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.CustomerSnapshot), args.Error(1)
}

// stubUoW wires the mocks together behind the unit of work contract. Begin,
// Commit and Rollback are owned by the executor, which the stub below
// replaces, so they are plain no-ops here.
type stubUoW struct {
	orders    *MockOrderRepository
	couriers  *MockCourierRepository
	inventory *MockProductInventory
	vendors   *MockVendorDirectory
	customers *MockCustomerDirectory
}

func newStubUoW() *stubUoW {
	return &stubUoW{
		orders:    new(MockOrderRepository),
		couriers:  new(MockCourierRepository),
		inventory: new(MockProductInventory),
		vendors:   new(MockVendorDirectory),
		customers: new(MockCustomerDirectory),
	}
}

func (u *stubUoW) Begin(context.Context) error                { return nil }
func (u *stubUoW) Commit(context.Context) error               { return nil }
func (u *stubUoW) Rollback(context.Context) error             { return nil }
func (u *stubUoW) OrderRepository() ports.OrderRepository     { return u.orders }
func (u *stubUoW) CourierRepository() ports.CourierRepository { return u.couriers }
func (u *stubUoW) ProductInventory() ports.ProductInventory   { return u.inventory }
func (u *stubUoW) VendorDirectory() ports.VendorDirectory     { return u.vendors }
func (u *stubUoW) CustomerDirectory() ports.CustomerDirectory { return u.customers }

func (u *stubUoW) assertExpectations(t *testing.T) {
	t.Helper()
	u.orders.AssertExpectations(t)
	u.couriers.AssertExpectations(t)
	u.inventory.AssertExpectations(t)
	u.vendors.AssertExpectations(t)
	u.customers.AssertExpectations(t)
}

// stubExecutor runs the transactional body directly against the stub unit of
// work, standing in for the retrying database executor.
type stubExecutor struct {
	uow   *stubUoW
	calls int
}

func (s *stubExecutor) Execute(ctx context.Context, fn func(context.Context, ports.UnitOfWork) error) error {
	s.calls++
	return fn(ctx, s.uow)
}

type dispatched struct {
	Order *order.Order
	Event ports.OrderEvent
}

// recordingNotifier captures dispatched events synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	events []dispatched
}

func (n *recordingNotifier) Dispatch(o *order.Order, event ports.OrderEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, dispatched{Order: o, Event: event})
}

func (n *recordingNotifier) all() []dispatched {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dispatched(nil), n.events...)
}

func mustGeoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), "Plov", kernel.Money(45000), 2)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.GenerateNumber(time.Now()),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Item{item},
		mustGeoPoint(t, 41.311, 69.279),
		"Amir Temur 42",
		"card",
		"",
		kernel.Money(12000),
		kernel.Money(4500),
		kernel.Money(0),
	)
	require.NoError(t, err)
	return o
}

// orderInStatus walks a fresh order along the happy path until it reaches the
// wanted status. Assignment and later stages attach a generated courier.
func orderInStatus(t *testing.T, want order.Status) *order.Order {
	t.Helper()

	o := newPendingOrder(t)
	actor := kernel.NewUUID()

	steps := []order.Status{
		order.Confirmed, order.Preparing, order.Ready,
		order.Assigned, order.PickedUp, order.InTransit, order.Delivered,
	}
	for _, step := range steps {
		if o.Status() == want {
			return o
		}
		if step == order.Assigned {
			require.NoError(t, o.Assign(kernel.NewUUID()))
			continue
		}
		require.NoError(t, o.ChangeStatus(step, actor, ""))
	}
	require.Equal(t, want, o.Status())
	return o
}
