package bargainhub_test

import (
	"testing"
	"time"

	"bargainhub/backend/internal/bargain"
	"bargainhub/backend/internal/bargainhub"
	"bargainhub/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*bargainhub.Manager, *MockSessions, *MockHubStorage) {
	t.Helper()
	ms := new(MockHubStorage)
	ms.On("GetActiveSessionIDs").Return([]string{}, nil)
	sessions := new(MockSessions)
	hub := bargainhub.NewManager(ms, sessions)
	go hub.Run()
	return hub, sessions, ms
}

func recvEvent(t *testing.T, c *MockClient) models.Event {
	t.Helper()
	select {
	case ev := <-c.RecvChannel:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.Event{}
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	hub, _, _ := newTestHub(t)

	client := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	hub.RegisterCh <- client
	time.Sleep(50 * time.Millisecond)

	assert.Contains(t, hub.Clients, "conn-1")

	hub.UnregisterCh <- client
	time.Sleep(50 * time.Millisecond)

	assert.NotContains(t, hub.Clients, "conn-1")
	assert.True(t, client.Closed)
}

func TestJoinRoomAuthorized(t *testing.T) {
	hub, sessions, _ := newTestHub(t)

	sessions.On("GetSession", "sess-1", "buyer-1").
		Return(&models.BargainSession{ID: "sess-1"}, nil)

	client := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	hub.RegisterCh <- client

	hub.InboundCh <- bargainhub.Inbound{
		Client:  client,
		Command: models.ClientCommand{Action: models.ActionJoinRoom, SessionID: "sess-1"},
	}

	ev := recvEvent(t, client)
	assert.Equal(t, models.EventRoomJoined, ev.Type)
	assert.Equal(t, "sess-1", ev.SessionID)
	assert.True(t, client.InRoom("sess-1"))
}

func TestJoinRoomRejectsNonParticipant(t *testing.T) {
	hub, sessions, _ := newTestHub(t)

	sessions.On("GetSession", "sess-1", "stranger").
		Return(nil, bargain.ErrForbidden)

	client := newMockClient("conn-1", "stranger", models.RoleBuyer)
	hub.RegisterCh <- client

	hub.InboundCh <- bargainhub.Inbound{
		Client:  client,
		Command: models.ClientCommand{Action: models.ActionJoinRoom, SessionID: "sess-1"},
	}

	ev := recvEvent(t, client)
	assert.Equal(t, models.EventOperationError, ev.Type)
	assert.Equal(t, "sess-1", ev.SessionID)
	assert.Equal(t, "forbidden", ev.Code)
	assert.False(t, client.InRoom("sess-1"))
}

func TestLeaveRoom(t *testing.T) {
	hub, _, _ := newTestHub(t)

	client := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	client.JoinRoom("sess-1")
	hub.RegisterCh <- client

	hub.InboundCh <- bargainhub.Inbound{
		Client:  client,
		Command: models.ClientCommand{Action: models.ActionLeaveRoom, SessionID: "sess-1"},
	}

	ev := recvEvent(t, client)
	assert.Equal(t, models.EventRoomLeft, ev.Type)
	assert.False(t, client.InRoom("sess-1"))
}

func TestSubmitMessageDelegatesToService(t *testing.T) {
	hub, sessions, _ := newTestHub(t)

	amount := 96.0
	sessions.On("AppendMessage", "sess-1", "buyer-1", "Would you take 96?", true, &amount).
		Return(&models.BargainMessage{ID: 1, SessionID: "sess-1"}, nil)

	client := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	hub.RegisterCh <- client

	hub.InboundCh <- bargainhub.Inbound{
		Client: client,
		Command: models.ClientCommand{
			Action:      models.ActionSubmitMessage,
			SessionID:   "sess-1",
			Text:        "Would you take 96?",
			IsOffer:     true,
			OfferAmount: &amount,
		},
	}
	time.Sleep(50 * time.Millisecond)

	sessions.AssertExpectations(t)
	// No direct reply: the committed message arrives via pub/sub fan-out.
	assert.Empty(t, client.RecvChannel)
}

func TestSubmitMessageErrorScopedToSender(t *testing.T) {
	hub, sessions, _ := newTestHub(t)

	sessions.On("AppendMessage", "sess-1", "buyer-1", "one more", false, (*float64)(nil)).
		Return(nil, bargain.ErrTurnLimitExceeded)
	sessions.On("GetSession", "sess-1", mock.Anything).
		Return(&models.BargainSession{ID: "sess-1"}, nil)

	sender := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	other := newMockClient("conn-2", "seller-1", models.RoleSeller)
	hub.RegisterCh <- sender
	hub.RegisterCh <- other

	for _, c := range []*MockClient{sender, other} {
		hub.InboundCh <- bargainhub.Inbound{
			Client:  c,
			Command: models.ClientCommand{Action: models.ActionJoinRoom, SessionID: "sess-1"},
		}
		recvEvent(t, c)
	}

	hub.InboundCh <- bargainhub.Inbound{
		Client:  sender,
		Command: models.ClientCommand{Action: models.ActionSubmitMessage, SessionID: "sess-1", Text: "one more"},
	}

	ev := recvEvent(t, sender)
	assert.Equal(t, models.EventOperationError, ev.Type)
	assert.Equal(t, "turn_limit_exceeded", ev.Code)

	// The other room member must not see the failure.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, other.RecvChannel)
}

func TestSubmitStatusErrorMapped(t *testing.T) {
	hub, sessions, _ := newTestHub(t)

	sessions.On("UpdateStatus", "sess-1", "buyer-1", models.StatusAccepted).
		Return(nil, bargain.ErrForbidden)

	client := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	hub.RegisterCh <- client

	hub.InboundCh <- bargainhub.Inbound{
		Client: client,
		Command: models.ClientCommand{
			Action:    models.ActionSubmitStatus,
			SessionID: "sess-1",
			Status:    string(models.StatusAccepted),
		},
	}

	ev := recvEvent(t, client)
	assert.Equal(t, models.EventOperationError, ev.Type)
	assert.Equal(t, "forbidden", ev.Code)
}

func TestUnknownActionReturnsValidationError(t *testing.T) {
	hub, _, _ := newTestHub(t)

	client := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	hub.RegisterCh <- client

	hub.InboundCh <- bargainhub.Inbound{
		Client:  client,
		Command: models.ClientCommand{Action: "dance", SessionID: "sess-1"},
	}

	ev := recvEvent(t, client)
	assert.Equal(t, models.EventOperationError, ev.Type)
	assert.Equal(t, "validation_error", ev.Code)
}

// Two connections joined to the same room each receive every broadcast
// exactly once, in publish order.
func TestBroadcastReachesAllRoomMembersInOrder(t *testing.T) {
	hub, sessions, _ := newTestHub(t)

	sessions.On("GetSession", "sess-1", mock.Anything).
		Return(&models.BargainSession{ID: "sess-1"}, nil)

	first := newMockClient("conn-1", "buyer-1", models.RoleBuyer)
	second := newMockClient("conn-2", "seller-1", models.RoleSeller)
	outsider := newMockClient("conn-3", "buyer-2", models.RoleBuyer)
	hub.RegisterCh <- first
	hub.RegisterCh <- second
	hub.RegisterCh <- outsider

	for _, c := range []*MockClient{first, second} {
		hub.InboundCh <- bargainhub.Inbound{
			Client:  c,
			Command: models.ClientCommand{Action: models.ActionJoinRoom, SessionID: "sess-1"},
		}
		recvEvent(t, c)
	}

	hub.PubSubCh <- bargainhub.SessionEvent{
		SessionID: "sess-1",
		Event:     models.Event{Type: models.EventMessageReceived, SessionID: "sess-1", Message: &models.BargainMessage{ID: 1}},
	}
	hub.PubSubCh <- bargainhub.SessionEvent{
		SessionID: "sess-1",
		Event:     models.Event{Type: models.EventStatusUpdated, SessionID: "sess-1"},
	}

	for _, c := range []*MockClient{first, second} {
		ev := recvEvent(t, c)
		require.Equal(t, models.EventMessageReceived, ev.Type)
		ev = recvEvent(t, c)
		require.Equal(t, models.EventStatusUpdated, ev.Type)
		assert.Empty(t, c.RecvChannel)
	}

	// The client that never joined the room sees nothing.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, outsider.RecvChannel)
}
