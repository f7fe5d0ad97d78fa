package providers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

// findByID mocks only the lookups the providers use; the embedded interface
// panics on anything else.
type mockCustomers struct {
	mock.Mock
	partner.CustomerRepository
}

func (m *mockCustomers) FindByID(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, companyID, id)
	c, _ := args.Get(0).(*partner.Customer)
	return c, args.Error(1)
}

type mockSuppliers struct {
	mock.Mock
	partner.SupplierRepository
}

func (m *mockSuppliers) FindByID(ctx context.Context, companyID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, companyID, id)
	s, _ := args.Get(0).(*partner.Supplier)
	return s, args.Error(1)
}

type mockQuotes struct {
	mock.Mock
	sales.QuoteRepository
}

func (m *mockQuotes) FindByID(ctx context.Context, companyID, id uuid.UUID) (*sales.Quote, error) {
	args := m.Called(ctx, companyID, id)
	q, _ := args.Get(0).(*sales.Quote)
	return q, args.Error(1)
}

type mockSalesOrders struct {
	mock.Mock
	sales.SalesOrderRepository
}

func (m *mockSalesOrders) FindByID(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesOrder, error) {
	args := m.Called(ctx, companyID, id)
	o, _ := args.Get(0).(*sales.SalesOrder)
	return o, args.Error(1)
}

type mockPurchaseOrders struct {
	mock.Mock
	purchasing.PurchaseOrderRepository
}

func (m *mockPurchaseOrders) FindByID(ctx context.Context, companyID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, companyID, id)
	o, _ := args.Get(0).(*purchasing.PurchaseOrder)
	return o, args.Error(1)
}

type mockJobs struct {
	mock.Mock
	production.JobRepository
}

func (m *mockJobs) FindByID(ctx context.Context, companyID, id uuid.UUID) (*production.Job, error) {
	args := m.Called(ctx, companyID, id)
	j, _ := args.Get(0).(*production.Job)
	return j, args.Error(1)
}

type mockParts struct {
	mock.Mock
	catalog.PartRepository
}

func (m *mockParts) FindByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.Part, error) {
	args := m.Called(ctx, companyID, id)
	p, _ := args.Get(0).(*catalog.Part)
	return p, args.Error(1)
}

func newCustomer(t *testing.T, companyID uuid.UUID) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(companyID, "acme", "Acme Corp")
	require.NoError(t, err)
	c.Contact = partner.Contact{Email: "buyer@acme.test", City: "Austin", Country: "US"}
	return c
}

func newPart(t *testing.T, companyID uuid.UUID) *catalog.Part {
	t.Helper()
	p, err := catalog.NewPart(companyID, "brkt-001", "Bracket", catalog.ReplenishmentMake)
	require.NoError(t, err)
	require.NoError(t, p.SetCost(catalog.StandardCost{
		Material: decimal.NewFromInt(6),
		Labor:    decimal.NewFromInt(3),
		Overhead: decimal.NewFromInt(1),
	}))
	return p
}

func TestQuoteProvider_GetData(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customer := newCustomer(t, companyID)
	part := newPart(t, companyID)

	quote, err := sales.NewQuote(companyID, "Q-000001", customer.ID)
	require.NoError(t, err)
	line, err := quote.AddLine(part, "", []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(100)}, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, quote.SelectQuantity(line.ID, decimal.NewFromInt(100)))

	quotes := &mockQuotes{}
	quotes.On("FindByID", ctx, companyID, quote.ID).Return(quote, nil)
	customers := &mockCustomers{}
	customers.On("FindByID", ctx, companyID, customer.ID).Return(customer, nil)

	p := NewQuoteProvider(quotes, customers)
	assert.Equal(t, printing.DocTypeQuote, p.DocType())

	data, err := p.GetData(ctx, companyID, quote.ID)
	require.NoError(t, err)

	assert.Equal(t, "Q-000001", data.Meta.Number)
	assert.Equal(t, "Quote", data.Meta.Title)
	assert.Equal(t, "ACME", data.Party.Code)
	assert.Equal(t, "Austin", data.Party.City)
	require.Len(t, data.Lines, 1)
	require.Len(t, data.Lines[0].Prices, 2)
	assert.False(t, data.Lines[0].Prices[0].Selected)
	assert.True(t, data.Lines[0].Prices[1].Selected)
	// 10 unit cost with 50% markup
	assert.True(t, data.Lines[0].UnitPrice.Equal(decimal.NewFromInt(15)), data.Lines[0].UnitPrice.String())
	assert.True(t, data.Total.Equal(decimal.NewFromInt(1500)), data.Total.String())
	assert.Equal(t, "Bracket", data.Lines[0].Description)
	quotes.AssertExpectations(t)
	customers.AssertExpectations(t)
}

func TestQuoteProvider_NotFound(t *testing.T) {
	ctx := context.Background()
	companyID, id := uuid.New(), uuid.New()
	quotes := &mockQuotes{}
	quotes.On("FindByID", ctx, companyID, id).Return(nil, shared.ErrNotFound)

	_, err := NewQuoteProvider(quotes, &mockCustomers{}).GetData(ctx, companyID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSalesOrderProvider_GetData(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customer := newCustomer(t, companyID)

	order, err := sales.NewSalesOrder(companyID, "SO-000004", customer.ID)
	require.NoError(t, err)
	require.NoError(t, order.AddLine(uuid.New(), "BRKT-001", "Bracket", decimal.NewFromInt(4), decimal.RequireFromString("2.50")))

	orders := &mockSalesOrders{}
	orders.On("FindByID", ctx, companyID, order.ID).Return(order, nil)
	customers := &mockCustomers{}
	customers.On("FindByID", ctx, companyID, customer.ID).Return(customer, nil)

	data, err := NewSalesOrderProvider(orders, customers).GetData(ctx, companyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, printing.DocTypeSalesOrder, data.Meta.DocType)
	assert.Equal(t, "Draft", data.Meta.Status)
	assert.Equal(t, "Promised", data.Meta.DueLabel)
	require.Len(t, data.Lines, 1)
	assert.Equal(t, 1, data.Lines[0].Index)
	assert.True(t, data.Total.Equal(decimal.NewFromInt(10)))
}

func TestPurchaseOrderProvider_GetData(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	supplier, err := partner.NewSupplier(companyID, "steel", "Steel Co")
	require.NoError(t, err)

	order, err := purchasing.NewPurchaseOrder(companyID, "PO-000002", supplier.ID)
	require.NoError(t, err)
	require.NoError(t, order.AddLine(uuid.New(), "SHEET-10", "Sheet", decimal.NewFromInt(20), decimal.NewFromInt(4)))

	orders := &mockPurchaseOrders{}
	orders.On("FindByID", ctx, companyID, order.ID).Return(order, nil)
	suppliers := &mockSuppliers{}
	suppliers.On("FindByID", ctx, companyID, supplier.ID).Return(supplier, nil)

	data, err := NewPurchaseOrderProvider(orders, suppliers).GetData(ctx, companyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Supplier", data.Party.Role)
	assert.Equal(t, "STEEL", data.Party.Code)
	require.Len(t, data.Lines, 1)
	assert.True(t, data.Lines[0].Received.IsZero())
	assert.True(t, data.Total.Equal(decimal.NewFromInt(80)))
}

func TestJobProvider_GetData(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	part := newPart(t, companyID)

	job, err := production.NewJob(companyID, "J-000009", part.ID, part.PartNumber, decimal.NewFromInt(50))
	require.NoError(t, err)
	soID := uuid.New()
	job.LinkSalesOrder(soID, uuid.New())
	due := time.Now().Add(48 * time.Hour)
	require.NoError(t, job.SetDueDate(&due))

	jobs := &mockJobs{}
	jobs.On("FindByID", ctx, companyID, job.ID).Return(job, nil)

	t.Run("resolves part and order", func(t *testing.T) {
		parts := &mockParts{}
		parts.On("FindByID", ctx, companyID, part.ID).Return(part, nil)
		order, err := sales.NewSalesOrder(companyID, "SO-000001", uuid.New())
		require.NoError(t, err)
		orders := &mockSalesOrders{}
		orders.On("FindByID", ctx, companyID, soID).Return(order, nil)

		data, err := NewJobProvider(jobs, parts, orders).GetData(ctx, companyID, job.ID)
		require.NoError(t, err)
		require.NotNil(t, data.Job)
		assert.Equal(t, "Bracket", data.Job.PartName)
		assert.Equal(t, "SO-000001", data.Job.SalesOrder)
		assert.Equal(t, "SO-000001", data.Meta.Reference)
		assert.Equal(t, &due, data.Meta.DueDate)
	})

	t.Run("missing part and order leave blanks", func(t *testing.T) {
		parts := &mockParts{}
		parts.On("FindByID", ctx, companyID, part.ID).Return(nil, shared.ErrNotFound)
		orders := &mockSalesOrders{}
		orders.On("FindByID", ctx, companyID, soID).Return(nil, shared.ErrNotFound)

		data, err := NewJobProvider(jobs, parts, orders).GetData(ctx, companyID, job.ID)
		require.NoError(t, err)
		assert.Empty(t, data.Job.PartName)
		assert.Empty(t, data.Job.SalesOrder)
	})

	t.Run("part lookup failure", func(t *testing.T) {
		parts := &mockParts{}
		parts.On("FindByID", ctx, companyID, part.ID).Return(nil, assert.AnError)

		_, err := NewJobProvider(jobs, parts, &mockSalesOrders{}).GetData(ctx, companyID, job.ID)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDataProviderRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewDataProviderRegistry(
		NewQuoteProvider(&mockQuotes{}, &mockCustomers{}),
		NewJobProvider(&mockJobs{}, &mockParts{}, &mockSalesOrders{}),
	)
	r.Register(nil)

	assert.True(t, r.HasProvider(printing.DocTypeQuote))
	assert.False(t, r.HasProvider(printing.DocTypePurchaseOrder))
	assert.Equal(t, []printing.DocType{printing.DocTypeJob, printing.DocTypeQuote}, r.RegisteredTypes())

	_, err := r.LoadData(ctx, uuid.New(), printing.DocTypePurchaseOrder, uuid.New())
	assert.ErrorContains(t, err, "no data provider registered")

	companyID, id := uuid.New(), uuid.New()
	jobs := &mockJobs{}
	jobs.On("FindByID", ctx, companyID, id).Return(nil, shared.ErrNotFound)
	r.Register(NewJobProvider(jobs, &mockParts{}, &mockSalesOrders{}))
	_, err = r.LoadData(ctx, companyID, printing.DocTypeJob, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
