// Package bargainhub is the realtime gateway: it owns the live connections,
// maps bargain sessions to rooms and fans committed session events out to
// room members. It performs no business logic itself: every inbound command
// maps 1:1 to a session-service operation, and every broadcast originates
// from a write that already committed.
package bargainhub

import (
	"log"

	"bargainhub/backend/internal/bargain"
	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/storage"
)

// SessionService is the slice of the bargain service the gateway needs.
type SessionService interface {
	GetSession(sessionID, principalID string) (*models.BargainSession, error)
	AppendMessage(sessionID, principalID, text string, isOffer bool, offerAmount *float64) (*models.BargainMessage, error)
	UpdateStatus(sessionID, principalID string, newStatus models.SessionStatus) (*models.BargainSession, error)
}

// SessionEvent is an event received from Redis pub/sub, tagged with the
// session room it belongs to.
type SessionEvent struct {
	SessionID string
	Event     models.Event
}

// Manager is the hub goroutine owning all connection and room state. The
// state is process-scoped and ephemeral: it is rebuilt from zero on restart
// via explicit join_room commands, never treated as a durability source.
type Manager struct {
	// Clients holds every live connection, keyed by connection id.
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	InboundCh    chan Inbound

	Storage  storage.Storage
	Sessions SessionService

	PubSubCh chan SessionEvent
}

// NewManager creates the hub.
func NewManager(s storage.Storage, sessions SessionService) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		InboundCh:    make(chan Inbound),
		Storage:      s,
		Sessions:     sessions,
		PubSubCh:     make(chan SessionEvent, 64),
	}
}

// Run is the main dispatcher loop. All Clients/room mutations happen on
// this goroutine, which also gives per-room delivery the log order of the
// underlying pub/sub channel.
func (m *Manager) Run() {
	m.logActiveSessions()

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.ConnID()] = client
			log.Printf("Client %s connected (user %s, role %s)", client.ConnID(), client.UserID(), client.Role())

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.ConnID()]; ok {
				delete(m.Clients, client.ConnID())
				client.Close()
				log.Printf("Client %s disconnected", client.ConnID())
			}

		case in := <-m.InboundCh:
			m.handleCommand(in.Client, in.Command)

		case ev := <-m.PubSubCh:
			m.broadcast(ev.SessionID, ev.Event)
		}
	}
}

// handleCommand routes one inbound client command. Failures are delivered
// as operation_error events to the originating connection only.
func (m *Manager) handleCommand(c Client, cmd models.ClientCommand) {
	switch cmd.Action {
	case models.ActionJoinRoom:
		// Joining requires being a participant of the session; GetSession
		// enforces that.
		if _, err := m.Sessions.GetSession(cmd.SessionID, c.UserID()); err != nil {
			m.sendError(c, cmd.SessionID, err)
			return
		}
		c.JoinRoom(cmd.SessionID)
		m.send(c, models.Event{Type: models.EventRoomJoined, SessionID: cmd.SessionID})

	case models.ActionLeaveRoom:
		c.LeaveRoom(cmd.SessionID)
		m.send(c, models.Event{Type: models.EventRoomLeft, SessionID: cmd.SessionID})

	case models.ActionSubmitMessage:
		if _, err := m.Sessions.AppendMessage(cmd.SessionID, c.UserID(), cmd.Text, cmd.IsOffer, cmd.OfferAmount); err != nil {
			m.sendError(c, cmd.SessionID, err)
		}
		// The appended message reaches the room via pub/sub fan-out.

	case models.ActionSubmitStatus:
		if _, err := m.Sessions.UpdateStatus(cmd.SessionID, c.UserID(), models.SessionStatus(cmd.Status)); err != nil {
			m.sendError(c, cmd.SessionID, err)
		}

	default:
		m.send(c, models.Event{
			Type:      models.EventOperationError,
			SessionID: cmd.SessionID,
			Code:      "validation_error",
			Reason:    "unknown action: " + cmd.Action,
		})
	}
}

// broadcast delivers an event to every connection joined to the session's
// room. Slow consumers are dropped rather than allowed to stall the hub.
func (m *Manager) broadcast(sessionID string, ev models.Event) {
	for _, client := range m.Clients {
		if !client.InRoom(sessionID) {
			continue
		}
		select {
		case client.SendChannel() <- ev:
		default:
			delete(m.Clients, client.ConnID())
			client.Close()
			log.Printf("WARNING: Dropped slow client %s", client.ConnID())
		}
	}
}

func (m *Manager) send(c Client, ev models.Event) {
	select {
	case c.SendChannel() <- ev:
	default:
		log.Printf("WARNING: Failed to deliver %s event to client %s", ev.Type, c.ConnID())
	}
}

func (m *Manager) sendError(c Client, sessionID string, err error) {
	code := bargain.ErrorCode(err)
	reason := err.Error()
	if code == "internal_error" {
		// Do not leak infrastructure details to clients.
		reason = "internal server error"
		log.Printf("ERROR: Operation failed for client %s on session %s: %v", c.ConnID(), sessionID, err)
	}
	m.send(c, models.Event{
		Type:      models.EventOperationError,
		SessionID: sessionID,
		Code:      code,
		Reason:    reason,
	})
}

// logActiveSessions reports how many sessions may still receive traffic
// after a restart. Room membership itself is rebuilt by clients rejoining.
func (m *Manager) logActiveSessions() {
	ids, err := m.Storage.GetActiveSessionIDs()
	if err != nil {
		log.Printf("ERROR: Failed to retrieve active sessions from storage: %v", err)
		return
	}
	log.Printf("Hub started. %d bargain sessions currently active.", len(ids))
}
