package bargainhub_test

import (
	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockClient is an in-memory Client implementation. Events the hub sends to
// the connection land on RecvChannel.
type MockClient struct {
	connID      string
	userID      string
	role        models.Role
	rooms       map[string]struct{}
	RecvChannel chan models.Event
	Closed      bool
}

func newMockClient(connID, userID string, role models.Role) *MockClient {
	return &MockClient{
		connID:      connID,
		userID:      userID,
		role:        role,
		rooms:       make(map[string]struct{}),
		RecvChannel: make(chan models.Event, 10),
	}
}

func (c *MockClient) ConnID() string                        { return c.connID }
func (c *MockClient) UserID() string                        { return c.userID }
func (c *MockClient) Role() models.Role                     { return c.role }
func (c *MockClient) JoinRoom(sessionID string)             { c.rooms[sessionID] = struct{}{} }
func (c *MockClient) LeaveRoom(sessionID string)            { delete(c.rooms, sessionID) }
func (c *MockClient) InRoom(sessionID string) (joined bool) { _, joined = c.rooms[sessionID]; return }
func (c *MockClient) SendChannel() chan<- models.Event      { return c.RecvChannel }
func (c *MockClient) Run()                                  {}
func (c *MockClient) Close()                                { c.Closed = true }

// MockSessions is a testify mock of the SessionService interface.
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) GetSession(sessionID, principalID string) (*models.BargainSession, error) {
	args := m.Called(sessionID, principalID)
	if s, ok := args.Get(0).(*models.BargainSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) AppendMessage(sessionID, principalID, text string, isOffer bool, offerAmount *float64) (*models.BargainMessage, error) {
	args := m.Called(sessionID, principalID, text, isOffer, offerAmount)
	if msg, ok := args.Get(0).(*models.BargainMessage); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) UpdateStatus(sessionID, principalID string, newStatus models.SessionStatus) (*models.BargainSession, error) {
	args := m.Called(sessionID, principalID, newStatus)
	if s, ok := args.Get(0).(*models.BargainSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockHubStorage mocks the slice of storage.Storage the hub touches. The
// embedded interface panics on anything else, which would flag an
// unexpected storage call from gateway code.
type MockHubStorage struct {
	mock.Mock
	storage.Storage
}

func (m *MockHubStorage) GetActiveSessionIDs() ([]string, error) {
	args := m.Called()
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
