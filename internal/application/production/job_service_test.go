package production

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*production.Job, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Job), args.Error(1)
}

func (m *MockJobRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]production.Job, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]production.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepository) Create(ctx context.Context, job *production.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, job *production.Job, expectedVersion int) error {
	return m.Called(ctx, job, expectedVersion).Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

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

type MockSalesOrderRepository struct {
	sales.SalesOrderRepository
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesOrder, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesOrder), args.Error(1)
}

type stubIssuer struct{ number string }

func (s stubIssuer) WithNext(_ context.Context, _ uuid.UUID, _ sequence.DocumentType, insert func(string) error) error {
	return insert(s.number)
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

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type jobFixture struct {
	companyID uuid.UUID
	part      *catalog.Part
	jobs      *MockJobRepository
	parts     *MockPartRepository
	orders    *MockSalesOrderRepository
	publisher *recordingPublisher
	svc       *JobService
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	companyID := uuid.New()
	part, err := catalog.NewPart(companyID, "BRKT-1", "Bracket", catalog.ReplenishmentMake)
	require.NoError(t, err)

	f := &jobFixture{
		companyID: companyID,
		part:      part,
		jobs:      new(MockJobRepository),
		parts:     new(MockPartRepository),
		orders:    new(MockSalesOrderRepository),
		publisher: &recordingPublisher{},
	}
	f.svc = NewJobService(f.jobs, f.parts, f.orders, stubIssuer{number: "J-000012"})
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func TestJobService_Create(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	f.parts.On("FindByID", ctx, f.companyID, f.part.ID).Return(f.part, nil)
	f.jobs.On("Create", ctx, mock.AnythingOfType("*production.Job")).Return(nil)

	resp, err := f.svc.Create(ctx, f.companyID, uuid.New(), CreateJobRequest{PartID: f.part.ID, Quantity: dec("25")})
	require.NoError(t, err)
	assert.Equal(t, "J-000012", resp.JobNumber)
	assert.Equal(t, "BRKT-1", resp.PartNumber)
	assert.Equal(t, "Draft", resp.Status)
	assert.Nil(t, resp.SalesOrderID)
}

func TestJobService_CreateFromSalesOrderLine(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	order, err := sales.NewSalesOrder(f.companyID, "SO-00001", uuid.New())
	require.NoError(t, err)
	require.NoError(t, order.AddLine(f.part.ID, f.part.PartNumber, f.part.Name, dec("40"), dec("12")))
	line := order.Lines[0]

	f.orders.On("FindByID", ctx, f.companyID, order.ID).Return(order, nil)
	f.parts.On("FindByID", ctx, f.companyID, f.part.ID).Return(f.part, nil)
	f.jobs.On("Create", ctx, mock.AnythingOfType("*production.Job")).Return(nil)

	t.Run("defaults from the line", func(t *testing.T) {
		resp, err := f.svc.Create(ctx, f.companyID, uuid.New(), CreateJobRequest{
			SalesOrderID:     &order.ID,
			SalesOrderLineID: &line.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, f.part.ID, resp.PartID)
		assert.True(t, resp.Quantity.Equal(dec("40")))
		require.NotNil(t, resp.SalesOrderLineID)
		assert.Equal(t, line.ID, *resp.SalesOrderLineID)
	})

	t.Run("unknown line", func(t *testing.T) {
		other := uuid.New()
		_, err := f.svc.Create(ctx, f.companyID, uuid.New(), CreateJobRequest{
			SalesOrderID:     &order.ID,
			SalesOrderLineID: &other,
		})
		assert.Error(t, err)
	})

	t.Run("part mismatch", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.companyID, uuid.New(), CreateJobRequest{
			PartID:           uuid.New(),
			SalesOrderID:     &order.ID,
			SalesOrderLineID: &line.ID,
		})
		assert.Error(t, err)
	})
}

func TestJobService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	job, err := production.NewJob(f.companyID, "J-000012", f.part.ID, f.part.PartNumber, dec("10"))
	require.NoError(t, err)
	f.jobs.On("FindByID", ctx, f.companyID, job.ID).Return(job, nil)
	f.jobs.On("Update", ctx, job, 1).Return(nil)

	steps := []struct {
		name string
		run  func() (*JobResponse, error)
		want string
	}{
		{"plan", func() (*JobResponse, error) { return f.svc.Plan(ctx, f.companyID, job.ID, ActionRequest{}) }, "Planned"},
		{"release", func() (*JobResponse, error) { return f.svc.Release(ctx, f.companyID, job.ID, ActionRequest{}) }, "Ready"},
		{"start", func() (*JobResponse, error) { return f.svc.Start(ctx, f.companyID, job.ID, ActionRequest{}) }, "In Progress"},
		{"pause", func() (*JobResponse, error) { return f.svc.Pause(ctx, f.companyID, job.ID, ActionRequest{}) }, "Paused"},
		{"resume", func() (*JobResponse, error) { return f.svc.Resume(ctx, f.companyID, job.ID, ActionRequest{}) }, "In Progress"},
		{"progress", func() (*JobResponse, error) {
			return f.svc.ReportProgress(ctx, f.companyID, job.ID, QuantityRequest{Quantity: dec("6")})
		}, "In Progress"},
	}
	for _, step := range steps {
		resp, err := step.run()
		require.NoError(t, err, step.name)
		assert.Equal(t, step.want, resp.Status, step.name)
	}

	_, err = f.svc.Complete(ctx, f.companyID, job.ID, QuantityRequest{Quantity: dec("5")})
	assert.Error(t, err, "10 units cannot complete 11")

	resp, err := f.svc.Complete(ctx, f.companyID, job.ID, QuantityRequest{Quantity: dec("4")})
	require.NoError(t, err)
	assert.Equal(t, "Completed", resp.Status)
	assert.True(t, resp.QuantityComplete.Equal(dec("10")))
	assert.True(t, resp.Progress.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, []string{production.EventTypeJobCompleted}, f.publisher.types)

	_, err = f.svc.Cancel(ctx, f.companyID, job.ID, ActionRequest{})
	assert.Error(t, err)
}

func TestJobService_Update(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	job, err := production.NewJob(f.companyID, "J-000012", f.part.ID, f.part.PartNumber, dec("10"))
	require.NoError(t, err)
	f.jobs.On("FindByID", ctx, f.companyID, job.ID).Return(job, nil)
	f.jobs.On("Update", ctx, job, 1).Return(nil)

	qty := dec("15")
	notes := "rush"
	resp, err := f.svc.Update(ctx, f.companyID, job.ID, UpdateJobRequest{Quantity: &qty, Notes: &notes})
	require.NoError(t, err)
	assert.True(t, resp.Quantity.Equal(qty))
	assert.Equal(t, "rush", resp.Notes)

	stale := 2
	_, err = f.svc.Update(ctx, f.companyID, job.ID, UpdateJobRequest{Notes: &notes, Version: &stale})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestJobService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture(t)
	job, err := production.NewJob(f.companyID, "J-000012", f.part.ID, f.part.PartNumber, dec("10"))
	require.NoError(t, err)
	f.jobs.On("FindByID", ctx, f.companyID, job.ID).Return(job, nil)
	f.jobs.On("Delete", ctx, f.companyID, job.ID).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, f.companyID, job.ID))

	require.NoError(t, job.Plan())
	assert.Error(t, f.svc.Delete(ctx, f.companyID, job.ID))
}
