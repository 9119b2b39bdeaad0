package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fashionstore/internal/auth"
	storeHttp "fashionstore/internal/handler/http"
	"fashionstore/internal/order"
	"fashionstore/internal/profile"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileService) SaveProfile(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID uuid.UUID, total int64) (*order.Order, error) {
	args := m.Called(ctx, userID, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) AddItems(ctx context.Context, orderID uuid.UUID, items []order.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockOrderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, paymentID string) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error {
	args := m.Called(ctx, orderID, newStatus)
	return args.Error(0)
}

func newAccountRouter(handler *storeHttp.AccountHandler) *chi.Mux {
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestAccountHandler_handleGetProfile_Success(t *testing.T) {
	mockProfiles := new(MockProfileService)
	mockOrders := new(MockOrderService)
	handler := storeHttp.NewAccountHandler(mockProfiles, mockOrders, auth.NewBroker())

	session := auth.Session{UserID: uuid.Must(uuid.NewV4())}
	stored := &profile.Profile{
		UserID:  session.UserID,
		Address: "12 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		Pincode: "560001",
	}
	mockProfiles.On("GetProfile", mock.Anything, session.UserID).Return(stored, nil).Once()

	req := authenticated(httptest.NewRequest(http.MethodGet, "/account/profile", nil), session)
	rr := httptest.NewRecorder()
	newAccountRouter(handler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var actual profile.Profile
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actual))
	assert.Equal(t, stored.Address, actual.Address)
	assert.Equal(t, stored.Pincode, actual.Pincode)
	mockProfiles.AssertExpectations(t)
}

func TestAccountHandler_handleGetProfile_FirstTimeUserGetsBlankProfile(t *testing.T) {
	mockProfiles := new(MockProfileService)
	mockOrders := new(MockOrderService)
	handler := storeHttp.NewAccountHandler(mockProfiles, mockOrders, auth.NewBroker())

	session := auth.Session{UserID: uuid.Must(uuid.NewV4())}
	mockProfiles.On("GetProfile", mock.Anything, session.UserID).Return(nil, profile.ErrProfileNotFound).Once()

	req := authenticated(httptest.NewRequest(http.MethodGet, "/account/profile", nil), session)
	rr := httptest.NewRecorder()
	newAccountRouter(handler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var actual profile.Profile
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actual))
	assert.Equal(t, session.UserID, actual.UserID)
	assert.Empty(t, actual.Address)
	mockProfiles.AssertExpectations(t)
}

func TestAccountHandler_handleUpdateProfile_Success(t *testing.T) {
	mockProfiles := new(MockProfileService)
	mockOrders := new(MockOrderService)
	handler := storeHttp.NewAccountHandler(mockProfiles, mockOrders, auth.NewBroker())

	session := auth.Session{UserID: uuid.Must(uuid.NewV4())}
	requestDTO := storeHttp.UpdateProfileRequest{
		FullName: "Priya Sharma",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560001",
	}

	mockProfiles.On("SaveProfile", mock.Anything, mock.MatchedBy(func(p *profile.Profile) bool {
		return p.UserID == session.UserID &&
			p.FullName == requestDTO.FullName &&
			p.Address == requestDTO.Address &&
			p.Pincode == requestDTO.Pincode
	})).Return(nil).Once()

	jsonBody, err := json.Marshal(requestDTO)
	require.NoError(t, err)
	req := authenticated(httptest.NewRequest(http.MethodPut, "/account/profile", bytes.NewBuffer(jsonBody)), session)
	rr := httptest.NewRecorder()
	newAccountRouter(handler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	mockProfiles.AssertExpectations(t)
}

func TestAccountHandler_handleUpdateProfile_RejectsBadPincode(t *testing.T) {
	mockProfiles := new(MockProfileService)
	mockOrders := new(MockOrderService)
	handler := storeHttp.NewAccountHandler(mockProfiles, mockOrders, auth.NewBroker())

	session := auth.Session{UserID: uuid.Must(uuid.NewV4())}
	jsonBody := []byte(`{"pincode": "56"}`)
	req := authenticated(httptest.NewRequest(http.MethodPut, "/account/profile", bytes.NewBuffer(jsonBody)), session)
	rr := httptest.NewRecorder()
	newAccountRouter(handler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockProfiles.AssertNotCalled(t, "SaveProfile")
}

func TestAccountHandler_handleListOrders_Success(t *testing.T) {
	mockProfiles := new(MockProfileService)
	mockOrders := new(MockOrderService)
	handler := storeHttp.NewAccountHandler(mockProfiles, mockOrders, auth.NewBroker())

	session := auth.Session{UserID: uuid.Must(uuid.NewV4())}
	paymentID := "pay_29QQoUBi66xm2f"
	orders := []order.Order{
		{
			ID:        uuid.Must(uuid.NewV4()),
			UserID:    session.UserID,
			Status:    order.StatusProcessing,
			Total:     112000,
			PaymentID: &paymentID,
			Items: []order.OrderItem{
				{ProductID: uuid.Must(uuid.NewV4()), ProductName: "Linen Shirt", Quantity: 2, PriceAtTime: 50000, Size: "M"},
			},
			CreatedAt: time.Now(),
		},
	}
	mockOrders.On("GetOrdersByUserID", mock.Anything, session.UserID).Return(orders, nil).Once()

	req := authenticated(httptest.NewRequest(http.MethodGet, "/account/orders", nil), session)
	rr := httptest.NewRecorder()
	newAccountRouter(handler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var actual []storeHttp.OrderResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actual))
	require.Len(t, actual, 1)
	assert.Equal(t, order.StatusProcessing, actual[0].Status)
	assert.Equal(t, "₹1,120", actual[0].TotalDisplay)
	require.Len(t, actual[0].Items, 1)
	assert.Equal(t, "Linen Shirt", actual[0].Items[0].ProductName)
	mockOrders.AssertExpectations(t)
}

func TestAccountHandler_handleSignOut_PublishesEvent(t *testing.T) {
	mockProfiles := new(MockProfileService)
	mockOrders := new(MockOrderService)
	broker := auth.NewBroker()
	handler := storeHttp.NewAccountHandler(mockProfiles, mockOrders, broker)

	events, unsubscribe := broker.Subscribe()
	defer unsubscribe()

	session := auth.Session{UserID: uuid.Must(uuid.NewV4())}
	req := authenticated(httptest.NewRequest(http.MethodPost, "/account/signout", nil), session)
	rr := httptest.NewRecorder()
	newAccountRouter(handler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	select {
	case event := <-events:
		assert.Equal(t, auth.SignedOut, event.Type)
		assert.Equal(t, session.UserID, event.UserID)
	default:
		t.Fatal("expected a sign-out event on the broker")
	}
}
