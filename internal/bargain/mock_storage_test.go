package bargain_test

import (
	"time"

	"bargainhub/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetProductByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) SaveProduct(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockStorage) ListProducts() ([]models.Product, error) {
	args := m.Called()
	if p, ok := args.Get(0).([]models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CreateSession(session *models.BargainSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockStorage) GetSessionByID(id string) (*models.BargainSession, error) {
	args := m.Called(id)
	if s, ok := args.Get(0).(*models.BargainSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) FindActiveSession(buyerID, productID string) (*models.BargainSession, error) {
	args := m.Called(buyerID, productID)
	if s, ok := args.Get(0).(*models.BargainSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListSessionsForBuyer(buyerID string) ([]models.BargainSession, error) {
	args := m.Called(buyerID)
	if s, ok := args.Get(0).([]models.BargainSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListSessionsForSeller(sellerID string) ([]models.BargainSession, error) {
	args := m.Called(sellerID)
	if s, ok := args.Get(0).([]models.BargainSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) AppendMessage(msg *models.BargainMessage, currentPrice float64) error {
	args := m.Called(msg, currentPrice)
	return args.Error(0)
}

func (m *MockStorage) UpdateSessionStatus(sessionID string, status models.SessionStatus) (bool, error) {
	args := m.Called(sessionID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) ExpireOverdueSessions(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CreateOrder(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockStorage) GetOrderBySessionID(sessionID string) (*models.Order, error) {
	args := m.Called(sessionID)
	if o, ok := args.Get(0).(*models.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) PublishEvent(sessionID string, ev models.Event) error {
	args := m.Called(sessionID, ev)
	return args.Error(0)
}

func (m *MockStorage) SubscribeToSessions() *redis.PubSub {
	args := m.Called()
	return args.Get(0).(*redis.PubSub)
}

func (m *MockStorage) AcquireCreateLock(buyerID, productID string, ttl time.Duration) (func(), error) {
	args := m.Called(buyerID, productID, ttl)
	if f, ok := args.Get(0).(func()); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) AddActiveSession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockStorage) RemoveActiveSession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockStorage) GetActiveSessionIDs() ([]string, error) {
	args := m.Called()
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockOrderSink is a testify mock of the bargain.OrderSink interface.
type MockOrderSink struct {
	mock.Mock
}

func (m *MockOrderSink) CommitFinalPrice(session *models.BargainSession) error {
	args := m.Called(session)
	return args.Error(0)
}
