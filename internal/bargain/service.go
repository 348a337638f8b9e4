// Package bargain implements the bargaining session lifecycle: idempotent
// creation, message and offer exchange with validation, and the
// active/accepted/rejected/expired state machine. It is the sole writer of
// bargaining state in storage.
package bargain

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/pricing"
	"bargainhub/backend/internal/storage"
)

const (
	createLockTTL   = 5 * time.Second
	createLockRetry = 50 * time.Millisecond
	createLockTries = 40

	greetingText = "Hi! I'm interested in this item."
)

// OrderSink receives the final accepted price of a session. It is the
// one-way boundary to the cart/checkout pipeline.
type OrderSink interface {
	CommitFinalPrice(session *models.BargainSession) error
}

// SellerNotifier pushes out-of-band notifications to sellers. Delivery is
// best effort and never affects the outcome of an operation.
type SellerNotifier interface {
	NotifySeller(sellerID, text string)
}

// Service orchestrates bargain sessions over the Storage. All state
// transitions and validations happen here; the realtime gateway only relays
// the events this service publishes after each committed write.
type Service struct {
	Storage  storage.Storage
	Policy   pricing.Policy
	MaxTurns int
	TTL      time.Duration

	Orders   OrderSink
	Notifier SellerNotifier

	locks *sessionLocks
}

// NewService creates a bargain service. Orders and Notifier may be nil when
// the downstream sinks are not wired (tests, admin tooling).
func NewService(s storage.Storage, policy pricing.Policy, maxTurns int, ttl time.Duration) *Service {
	return &Service{
		Storage:  s,
		Policy:   policy,
		MaxTurns: maxTurns,
		TTL:      ttl,
		locks:    newSessionLocks(),
	}
}

// CreateSession starts a negotiation for the buyer on the given product, or
// returns the already existing active session for the same pair unchanged.
// A supplied initial offer seeds the log only if the price policy accepts
// it; otherwise the session is seeded with a neutral greeting.
func (s *Service) CreateSession(buyerID, productID string, initialOffer *float64) (*models.BargainSession, error) {
	product, err := s.Storage.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if product.SellerID == buyerID {
		// Sellers do not bargain with themselves.
		return nil, ErrForbidden
	}

	unlock, err := s.acquireCreateLock(buyerID, productID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.Storage.FindActiveSession(buyerID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if refreshed := s.ensureFresh(existing); refreshed.Status == models.StatusActive {
			return refreshed, nil
		}
		// The previous session just expired under us; fall through and
		// open a new one.
	}

	now := time.Now()
	session := &models.BargainSession{
		ProductID:    product.ID,
		BuyerID:      buyerID,
		SellerID:     product.SellerID,
		InitialPrice: product.Price,
		CurrentPrice: product.Price,
		Status:       models.StatusActive,
		ExpiresAt:    now.Add(s.TTL),
	}

	seed := models.BargainMessage{
		Sender:    models.RoleBuyer,
		Text:      greetingText,
		CreatedAt: now,
	}
	if initialOffer != nil && s.Policy.IsValidOffer(*initialOffer, product.Price) {
		amount := *initialOffer
		seed.Text = fmt.Sprintf("I'd like to offer %.2f for %q.", amount, product.Title)
		seed.IsOffer = true
		seed.OfferAmount = &amount
		session.CurrentPrice = amount
	}
	session.Messages = []models.BargainMessage{seed}

	if err := s.Storage.CreateSession(session); err != nil {
		return nil, err
	}
	if err := s.Storage.AddActiveSession(session.ID); err != nil {
		log.Printf("WARNING: Failed to track active session %s: %v", session.ID, err)
	}

	s.notifySeller(session.SellerID,
		fmt.Sprintf("New bargain on %q (listed %.2f), opening at %.2f.",
			product.Title, product.Price, session.CurrentPrice))

	return session, nil
}

// GetSession returns the session with its chronological message log. Only
// the two participants may read it.
func (s *Service) GetSession(sessionID, principalID string) (*models.BargainSession, error) {
	session, err := s.Storage.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.RoleOf(principalID) == models.RoleNone {
		return nil, ErrForbidden
	}
	return s.ensureFresh(session), nil
}

// ListForBuyer returns the buyer's sessions, most recently updated first.
func (s *Service) ListForBuyer(buyerID string) ([]models.BargainSession, error) {
	sessions, err := s.Storage.ListSessionsForBuyer(buyerID)
	if err != nil {
		return nil, err
	}
	return s.freshenAll(sessions), nil
}

// ListForSeller returns the seller's sessions, most recently updated first.
func (s *Service) ListForSeller(sellerID string) ([]models.BargainSession, error) {
	sessions, err := s.Storage.ListSessionsForSeller(sellerID)
	if err != nil {
		return nil, err
	}
	return s.freshenAll(sessions), nil
}

// AppendMessage validates and appends one message to the session log on
// behalf of the principal, updating the current price when the message
// carries an offer. The write commits before the room broadcast goes out.
func (s *Service) AppendMessage(sessionID, principalID, text string, isOffer bool, offerAmount *float64) (*models.BargainMessage, error) {
	defer s.locks.Lock(sessionID)()

	session, err := s.Storage.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	role := session.RoleOf(principalID)
	if role == models.RoleNone {
		return nil, ErrForbidden
	}

	session = s.ensureFresh(session)
	if session.Status != models.StatusActive {
		return nil, ErrInvalidState
	}

	// The turn limit applies regardless of message content.
	if session.CountMessagesBy(role) >= s.MaxTurns {
		return nil, ErrTurnLimitExceeded
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text must not be empty", ErrValidation)
	}

	currentPrice := session.CurrentPrice
	msg := &models.BargainMessage{
		SessionID: session.ID,
		Sender:    role,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if isOffer {
		if offerAmount == nil {
			return nil, fmt.Errorf("%w: offer amount is required", ErrValidation)
		}
		// Offers are always validated against the original listing price,
		// never against the latest counter-offer.
		if !s.Policy.IsValidOffer(*offerAmount, session.InitialPrice) {
			return nil, ErrInvalidOffer
		}
		amount := *offerAmount
		msg.IsOffer = true
		msg.OfferAmount = &amount
		currentPrice = amount
	}

	if err := s.Storage.AppendMessage(msg, currentPrice); err != nil {
		return nil, err
	}

	s.publish(session.ID, models.Event{
		Type:      models.EventMessageReceived,
		SessionID: session.ID,
		Message:   msg,
	})

	if msg.IsOffer && role == models.RoleBuyer {
		s.notifySeller(session.SellerID,
			fmt.Sprintf("New offer of %.2f on session %s.", *msg.OfferAmount, session.ID))
	}

	return msg, nil
}

// UpdateStatus lets the seller accept or reject an active session. On
// acceptance the session's current price is committed to the order sink.
func (s *Service) UpdateStatus(sessionID, principalID string, newStatus models.SessionStatus) (*models.BargainSession, error) {
	defer s.locks.Lock(sessionID)()

	session, err := s.Storage.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	role := session.RoleOf(principalID)
	if role == models.RoleNone {
		return nil, ErrForbidden
	}
	if role != models.RoleSeller {
		return nil, ErrForbidden
	}

	if newStatus != models.StatusAccepted && newStatus != models.StatusRejected {
		return nil, fmt.Errorf("%w: status must be accepted or rejected", ErrValidation)
	}

	session = s.ensureFresh(session)
	if session.Status != models.StatusActive {
		return nil, ErrInvalidState
	}

	closed, err := s.Storage.UpdateSessionStatus(session.ID, newStatus)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Another writer closed the session between our read and this write.
		return nil, ErrInvalidState
	}
	session.Status = newStatus
	session.UpdatedAt = time.Now()

	if err := s.Storage.RemoveActiveSession(session.ID); err != nil {
		log.Printf("WARNING: Failed to untrack session %s: %v", session.ID, err)
	}

	if newStatus == models.StatusAccepted && s.Orders != nil {
		if err := s.Orders.CommitFinalPrice(session); err != nil {
			// The negotiation outcome stands; checkout can re-commit later.
			log.Printf("ERROR: Failed to commit final price for session %s: %v", session.ID, err)
		}
	}

	s.publish(session.ID, models.Event{
		Type:      models.EventStatusUpdated,
		SessionID: session.ID,
		Status:    newStatus,
	})

	return session, nil
}

// ensureFresh applies lazy expiry: an active session past its deadline is
// flipped to expired and persisted before the caller acts on it. The flip is
// conditional on the row still being active, so a terminal status committed
// by a concurrent writer is never overwritten; in that case the session is
// reloaded and returned as the other writer left it.
func (s *Service) ensureFresh(session *models.BargainSession) *models.BargainSession {
	if !session.IsOverdue(time.Now()) {
		return session
	}

	expired, err := s.Storage.UpdateSessionStatus(session.ID, models.StatusExpired)
	if err != nil {
		log.Printf("ERROR: Failed to expire session %s: %v", session.ID, err)
		return session
	}
	if !expired {
		fresh, err := s.Storage.GetSessionByID(session.ID)
		if err != nil || fresh == nil {
			return session
		}
		return fresh
	}
	session.Status = models.StatusExpired
	session.UpdatedAt = time.Now()

	if err := s.Storage.RemoveActiveSession(session.ID); err != nil {
		log.Printf("WARNING: Failed to untrack session %s: %v", session.ID, err)
	}
	s.publish(session.ID, models.Event{
		Type:      models.EventStatusUpdated,
		SessionID: session.ID,
		Status:    models.StatusExpired,
	})
	return session
}

func (s *Service) freshenAll(sessions []models.BargainSession) []models.BargainSession {
	for i := range sessions {
		sessions[i] = *s.ensureFresh(&sessions[i])
	}
	return sessions
}

func (s *Service) acquireCreateLock(buyerID, productID string) (func(), error) {
	for i := 0; i < createLockTries; i++ {
		unlock, err := s.Storage.AcquireCreateLock(buyerID, productID, createLockTTL)
		if err == nil {
			return unlock, nil
		}
		if !errors.Is(err, storage.ErrLockHeld) {
			return nil, err
		}
		time.Sleep(createLockRetry)
	}
	return nil, fmt.Errorf("create lock for buyer %s, product %s: %w", buyerID, productID, storage.ErrLockHeld)
}

func (s *Service) publish(sessionID string, ev models.Event) {
	if err := s.Storage.PublishEvent(sessionID, ev); err != nil {
		log.Printf("ERROR: Failed to publish %s event for session %s: %v", ev.Type, sessionID, err)
	}
}

func (s *Service) notifySeller(sellerID, text string) {
	if s.Notifier == nil {
		return
	}
	go s.Notifier.NotifySeller(sellerID, text)
}
