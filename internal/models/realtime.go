package models

// Inbound actions a connected client may send over the websocket. Each one
// maps 1:1 to a session-service operation or a room membership change; the
// gateway itself carries no business logic.
const (
	ActionJoinRoom      = "join_room"
	ActionLeaveRoom     = "leave_room"
	ActionSubmitMessage = "submit_message"
	ActionSubmitStatus  = "submit_status"
)

// Outbound event types broadcast to room members or returned to a single
// connection.
const (
	EventMessageReceived = "message_received"
	EventStatusUpdated   = "status_updated"
	EventRoomJoined      = "room_joined"
	EventRoomLeft        = "room_left"
	EventOperationError  = "operation_error"
)

// ClientCommand is the envelope for every client-to-server websocket frame.
type ClientCommand struct {
	Action      string   `json:"action"`
	SessionID   string   `json:"session_id"`
	Text        string   `json:"text,omitempty"`
	IsOffer     bool     `json:"is_offer,omitempty"`
	OfferAmount *float64 `json:"offer_amount,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// Event is the envelope for every server-to-client websocket frame and for
// frames relayed between instances via Redis pub/sub.
type Event struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Message   *BargainMessage `json:"message,omitempty"`
	Status    SessionStatus   `json:"status,omitempty"`
	// Code and Reason are set only on operation_error events and mirror the
	// REST error codes so clients can tell the failure cases apart.
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}
