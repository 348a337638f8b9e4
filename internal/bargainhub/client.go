package bargainhub

import "bargainhub/backend/internal/models"

// Client is the interface for one live connection to the gateway. It
// abstracts the underlying transport so the Manager can treat all
// connection types uniformly.
type Client interface {
	// ConnID returns the unique identifier of this connection. One
	// principal may hold several connections (multiple tabs/devices).
	ConnID() string
	// UserID returns the authenticated principal behind the connection.
	UserID() string
	// Role returns the principal's marketplace role.
	Role() models.Role

	// JoinRoom, LeaveRoom and InRoom manage the connection's room
	// membership. Only the Manager goroutine touches membership, so
	// implementations need no locking.
	JoinRoom(sessionID string)
	LeaveRoom(sessionID string)
	InRoom(sessionID string) bool

	// SendChannel returns the channel the Manager pushes outbound events
	// into. It is a send-only channel.
	SendChannel() chan<- models.Event

	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts down the connection and its channels.
	Close()
}

// Inbound pairs a decoded client command with the connection it arrived on.
type Inbound struct {
	Client  Client
	Command models.ClientCommand
}
