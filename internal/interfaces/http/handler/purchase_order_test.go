package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	purchasingapp "github.com/van-william/carbon-sub017/internal/application/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/dto"
)

type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) order(args mock.Arguments) (*purchasingapp.PurchaseOrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasingapp.PurchaseOrderResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) Create(ctx context.Context, companyID, userID uuid.UUID, req purchasingapp.CreatePurchaseOrderRequest) (*purchasingapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, companyID, userID, req))
}

func (m *MockPurchaseOrderService) GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*purchasingapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, companyID, orderID))
}

func (m *MockPurchaseOrderService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]purchasingapp.PurchaseOrderResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]purchasingapp.PurchaseOrderResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderService) ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderService) Update(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.UpdatePurchaseOrderRequest) (*purchasingapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, companyID, orderID, req))
}

func (m *MockPurchaseOrderService) Submit(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ActionRequest) (*purchasingapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, companyID, orderID, req))
}

func (m *MockPurchaseOrderService) Receive(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ReceiveRequest) (*purchasingapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, companyID, orderID, req))
}

func (m *MockPurchaseOrderService) Close(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ActionRequest) (*purchasingapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, companyID, orderID, req))
}

func (m *MockPurchaseOrderService) Cancel(ctx context.Context, companyID, orderID uuid.UUID, req purchasingapp.ActionRequest) (*purchasingapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, companyID, orderID, req))
}

func (m *MockPurchaseOrderService) Delete(ctx context.Context, companyID, orderID uuid.UUID) error {
	return m.Called(ctx, companyID, orderID).Error(0)
}

func newPurchaseOrderTestEngine(svc *MockPurchaseOrderService) *gin.Engine {
	return newTestEngine("purchasing", NewPurchaseOrderHandler(svc, nil, nil).Routes)
}

func TestPurchaseOrderHandler_Receive(t *testing.T) {
	svc := new(MockPurchaseOrderService)
	engine := newPurchaseOrderTestEngine(svc)
	id, lineID := uuid.New(), uuid.New()

	svc.On("Receive", mock.Anything, testCompanyID, id, mock.MatchedBy(func(req purchasingapp.ReceiveRequest) bool {
		return len(req.Lines) == 1 && req.Lines[0].LineID == lineID &&
			req.Lines[0].Quantity.Equal(decimal.NewFromInt(40))
	})).Return(&purchasingapp.PurchaseOrderResponse{ID: id, OrderNumber: "PO-00007", Status: "PartiallyReceived"}, nil)

	w := performRequest(t, engine, http.MethodPost, "/api/v1/purchasing/orders/"+id.String()+"/receive", map[string]any{
		"lines": []map[string]any{{"line_id": lineID, "quantity": 40}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got purchasingapp.PurchaseOrderResponse
	decodeData(t, w, &got)
	assert.Equal(t, "PartiallyReceived", got.Status)
	svc.AssertExpectations(t)
}

func TestPurchaseOrderHandler_Receive_OverReceipt(t *testing.T) {
	svc := new(MockPurchaseOrderService)
	engine := newPurchaseOrderTestEngine(svc)
	id := uuid.New()

	svc.On("Receive", mock.Anything, testCompanyID, id, mock.Anything).
		Return(nil, shared.NewDomainError("OVER_RECEIPT", "Line BRKT-200 would exceed the ordered quantity"))

	w := performRequest(t, engine, http.MethodPost, "/api/v1/purchasing/orders/"+id.String()+"/receive", map[string]any{
		"lines": []map[string]any{{"line_id": uuid.New(), "quantity": 500}},
	})

	requireErrorCode(t, w, http.StatusUnprocessableEntity, dto.ErrCodeOverReceipt)
}

func TestPurchaseOrderHandler_Receive_NoLines(t *testing.T) {
	svc := new(MockPurchaseOrderService)
	engine := newPurchaseOrderTestEngine(svc)

	w := performRequest(t, engine, http.MethodPost, "/api/v1/purchasing/orders/"+uuid.NewString()+"/receive",
		map[string]any{"lines": []any{}})

	requireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	svc.AssertNotCalled(t, "Receive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseOrderHandler_Submit_WithoutBody(t *testing.T) {
	svc := new(MockPurchaseOrderService)
	engine := newPurchaseOrderTestEngine(svc)
	id := uuid.New()

	svc.On("Submit", mock.Anything, testCompanyID, id, purchasingapp.ActionRequest{}).
		Return(&purchasingapp.PurchaseOrderResponse{ID: id, Status: "Submitted"}, nil)

	w := performRequest(t, engine, http.MethodPost, "/api/v1/purchasing/orders/"+id.String()+"/submit", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}

func TestPurchaseOrderHandler_Cancel_InvalidState(t *testing.T) {
	svc := new(MockPurchaseOrderService)
	engine := newPurchaseOrderTestEngine(svc)
	id := uuid.New()
	version := 2

	svc.On("Cancel", mock.Anything, testCompanyID, id, purchasingapp.ActionRequest{Reason: "supplier closed", Version: &version}).
		Return(nil, shared.ErrInvalidState)

	w := performRequest(t, engine, http.MethodPost, "/api/v1/purchasing/orders/"+id.String()+"/cancel",
		map[string]any{"reason": "supplier closed", "version": 2})

	requireErrorCode(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState)
	svc.AssertExpectations(t)
}
