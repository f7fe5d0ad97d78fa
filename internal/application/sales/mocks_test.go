package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/domain/task"
)

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*sales.Quote, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.Quote, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]sales.Quote), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepository) Create(ctx context.Context, quote *sales.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

func (m *MockQuoteRepository) Update(ctx context.Context, quote *sales.Quote, expectedVersion int) error {
	return m.Called(ctx, quote, expectedVersion).Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type MockExpiryFinder struct {
	mock.Mock
}

func (m *MockExpiryFinder) FindExpired(ctx context.Context, asOf time.Time, limit int) ([]sales.Quote, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Quote), args.Error(1)
}

type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesOrder, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]sales.SalesOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesOrderRepository) Create(ctx context.Context, order *sales.SalesOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockSalesOrderRepository) Update(ctx context.Context, order *sales.SalesOrder, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

func (m *MockSalesOrderRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

// MockCustomerRepository only answers FindByID
type MockCustomerRepository struct {
	partner.CustomerRepository
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

// MockPartRepository answers FindByID and FindByIDs
type MockPartRepository struct {
	catalog.PartRepository
	mock.Mock
}

func (m *MockPartRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.Part, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Part), args.Error(1)
}

func (m *MockPartRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]catalog.Part, error) {
	args := m.Called(ctx, companyID, ids)
	return args.Get(0).([]catalog.Part), args.Error(1)
}

// stubIssuer numbers documents as <type>-<n>
type stubIssuer struct {
	numbers    map[sequence.DocumentType]string
	rolledBack []sequence.DocumentType
}

func (s *stubIssuer) WithNext(_ context.Context, _ uuid.UUID, docType sequence.DocumentType, insert func(string) error) error {
	if err := insert(s.numbers[docType]); err != nil {
		s.rolledBack = append(s.rolledBack, docType)
		return err
	}
	return nil
}

type recordingDispatcher struct {
	tasks []task.Task
	err   error
}

func (d *recordingDispatcher) Trigger(_ context.Context, t task.Task) error {
	if d.err != nil {
		return d.err
	}
	d.tasks = append(d.tasks, t)
	return nil
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}
