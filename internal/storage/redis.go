package storage

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"bargainhub/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when the create lock for a buyer/product pair is
// already held by another request.
var ErrLockHeld = errors.New("lock already held")

const (
	sessionChannelPrefix = "bargain:"
	activeSessionSetKey  = "active_sessions"
)

// unlockScript deletes a lock key only if its value still matches the
// caller's token, so one holder cannot release another holder's lock.
var unlockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// SessionChannel returns the Redis pub/sub channel name for a session room.
func SessionChannel(sessionID string) string {
	return sessionChannelPrefix + sessionID
}

// SessionIDFromChannel extracts the session id from a pub/sub channel name.
func SessionIDFromChannel(channel string) string {
	return strings.TrimPrefix(channel, sessionChannelPrefix)
}

// PublishEvent publishes a realtime event on the session's pub/sub channel.
// Every running instance of the hub is subscribed and fans the event out to
// the sockets joined to that room.
func (s *Service) PublishEvent(sessionID string, ev models.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, SessionChannel(sessionID), payload).Err()
}

// SubscribeToSessions subscribes to every session channel.
func (s *Service) SubscribeToSessions() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, sessionChannelPrefix+"*")
}

// AcquireCreateLock takes a short-lived distributed lock for one
// buyer/product pair so two racing createSession calls cannot both pass the
// existing-session check. Returns an unlock func that is safe to call more
// than once, or ErrLockHeld.
func (s *Service) AcquireCreateLock(buyerID, productID string, ttl time.Duration) (func(), error) {
	key := "lock:create:" + buyerID + ":" + productID
	token := uuid.New().String()

	ok, err := s.Redis.SetNX(s.Ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	released := false
	unlock := func() {
		if released {
			return
		}
		released = true
		_ = unlockScript.Run(s.Ctx, s.Redis, []string{key}, token).Err()
	}
	return unlock, nil
}

// AddActiveSession records a session id in the active-session set.
func (s *Service) AddActiveSession(sessionID string) error {
	return s.Redis.SAdd(s.Ctx, activeSessionSetKey, sessionID).Err()
}

// RemoveActiveSession drops a session id from the active-session set.
func (s *Service) RemoveActiveSession(sessionID string) error {
	return s.Redis.SRem(s.Ctx, activeSessionSetKey, sessionID).Err()
}

// GetActiveSessionIDs returns every session id currently marked active.
func (s *Service) GetActiveSessionIDs() ([]string, error) {
	return s.Redis.SMembers(s.Ctx, activeSessionSetKey).Result()
}
