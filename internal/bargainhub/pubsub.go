package bargainhub

import (
	"encoding/json"
	"log"

	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/storage"
)

// StartPubSubListener subscribes to all session channels on Redis and feeds
// received events into the hub loop. Running the fan-out through pub/sub
// keeps multiple server instances consistent: whichever instance committed
// the write, every instance relays the event to its local room members.
func (m *Manager) StartPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeToSessions()
		defer pubsub.Close()

		ch := pubsub.Channel()
		for msg := range ch {
			var ev models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("ERROR: Failed to unmarshal pub/sub event: %v", err)
				continue
			}
			m.PubSubCh <- SessionEvent{
				SessionID: storage.SessionIDFromChannel(msg.Channel),
				Event:     ev,
			}
		}
	}()
}
