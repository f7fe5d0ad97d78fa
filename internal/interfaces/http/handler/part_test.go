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
	catalogapp "github.com/van-william/carbon-sub017/internal/application/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/dto"
)

type MockPartService struct {
	mock.Mock
}

func (m *MockPartService) part(args mock.Arguments) (*catalogapp.PartResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PartResponse), args.Error(1)
}

func (m *MockPartService) Create(ctx context.Context, companyID, userID uuid.UUID, req catalogapp.CreatePartRequest) (*catalogapp.PartResponse, error) {
	return m.part(m.Called(ctx, companyID, userID, req))
}

func (m *MockPartService) GetByID(ctx context.Context, companyID, partID uuid.UUID) (*catalogapp.PartResponse, error) {
	return m.part(m.Called(ctx, companyID, partID))
}

func (m *MockPartService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]catalogapp.PartResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalogapp.PartResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockPartService) Update(ctx context.Context, companyID, partID uuid.UUID, req catalogapp.UpdatePartRequest) (*catalogapp.PartResponse, error) {
	return m.part(m.Called(ctx, companyID, partID, req))
}

func (m *MockPartService) SetPriceBreaks(ctx context.Context, companyID, partID uuid.UUID, req catalogapp.SetPriceBreaksRequest) (*catalogapp.PartResponse, error) {
	return m.part(m.Called(ctx, companyID, partID, req))
}

func (m *MockPartService) Price(ctx context.Context, companyID, partID uuid.UUID, quantity decimal.Decimal) (*catalogapp.PriceResponse, error) {
	args := m.Called(ctx, companyID, partID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PriceResponse), args.Error(1)
}

func (m *MockPartService) Delete(ctx context.Context, companyID, partID uuid.UUID) error {
	return m.Called(ctx, companyID, partID).Error(0)
}

func newPartTestEngine(svc *MockPartService) *gin.Engine {
	return newTestEngine("items", NewPartHandler(svc).Routes)
}

func TestPartHandler_Price(t *testing.T) {
	svc := new(MockPartService)
	engine := newPartTestEngine(svc)
	id := uuid.New()

	svc.On("Price", mock.Anything, testCompanyID, id, mock.MatchedBy(func(q decimal.Decimal) bool {
		return q.Equal(decimal.NewFromInt(25))
	})).Return(&catalogapp.PriceResponse{
		PartID:        id,
		Quantity:      decimal.NewFromInt(25),
		UnitPrice:     decimal.RequireFromString("8.40"),
		ExtendedPrice: decimal.RequireFromString("210.00"),
		Source:        "price_break",
	}, nil)

	w := performRequest(t, engine, http.MethodGet, "/api/v1/items/parts/"+id.String()+"/price?quantity=25", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got catalogapp.PriceResponse
	decodeData(t, w, &got)
	assert.Equal(t, "price_break", got.Source)
	assert.True(t, got.ExtendedPrice.Equal(decimal.NewFromInt(210)), got.ExtendedPrice.String())
	svc.AssertExpectations(t)
}

func TestPartHandler_Price_BadQuantity(t *testing.T) {
	svc := new(MockPartService)
	engine := newPartTestEngine(svc)

	w := performRequest(t, engine, http.MethodGet, "/api/v1/items/parts/"+uuid.NewString()+"/price?quantity=lots", nil)

	requireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	svc.AssertNotCalled(t, "Price", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPartHandler_SetPriceBreaks(t *testing.T) {
	svc := new(MockPartService)
	engine := newPartTestEngine(svc)
	id := uuid.New()

	svc.On("SetPriceBreaks", mock.Anything, testCompanyID, id, mock.MatchedBy(func(req catalogapp.SetPriceBreaksRequest) bool {
		return len(req.Breaks) == 2 &&
			req.Breaks[0].MinQuantity.Equal(decimal.NewFromInt(10)) &&
			req.Breaks[1].UnitPrice.Equal(decimal.RequireFromString("7.25")) &&
			req.Version != nil && *req.Version == 4
	})).Return(&catalogapp.PartResponse{ID: id, PartNumber: "BRKT-200", Version: 5}, nil)

	w := performRequest(t, engine, http.MethodPut, "/api/v1/items/parts/"+id.String()+"/price-breaks", map[string]any{
		"breaks": []map[string]any{
			{"min_quantity": "10", "unit_price": "8.40"},
			{"min_quantity": "100", "unit_price": "7.25"},
		},
		"version": 4,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got catalogapp.PartResponse
	decodeData(t, w, &got)
	assert.Equal(t, 5, got.Version)
	svc.AssertExpectations(t)
}

func TestPartHandler_List_BoolFilter(t *testing.T) {
	svc := new(MockPartService)
	engine := newPartTestEngine(svc)

	svc.On("List", mock.Anything, testCompanyID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["active"] == true && f.Filters["replenishment"] == "make"
	})).Return([]catalogapp.PartResponse{{PartNumber: "SHAFT-10"}}, int64(1), nil)

	w := performRequest(t, engine, http.MethodGet, "/api/v1/items/parts?active=true&replenishment=make", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	svc.AssertExpectations(t)
}

func TestPartHandler_Create_DuplicateNumber(t *testing.T) {
	svc := new(MockPartService)
	engine := newPartTestEngine(svc)

	svc.On("Create", mock.Anything, testCompanyID, testUserID, mock.Anything).
		Return(nil, shared.NewDomainError("PART_NUMBER_EXISTS", "Part number already in use"))

	w := performRequest(t, engine, http.MethodPost, "/api/v1/items/parts",
		map[string]any{"part_number": "SHAFT-10", "name": "Drive shaft"})

	requireErrorCode(t, w, http.StatusConflict, "ERR_PART_NUMBER_EXISTS")
}

func TestPartHandler_Delete(t *testing.T) {
	svc := new(MockPartService)
	engine := newPartTestEngine(svc)
	id := uuid.New()

	svc.On("Delete", mock.Anything, testCompanyID, id).Return(nil)

	w := performRequest(t, engine, http.MethodDelete, "/api/v1/items/parts/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	svc.AssertExpectations(t)
}
