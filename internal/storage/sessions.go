package storage

import (
	"errors"
	"log"
	"time"

	"bargainhub/backend/internal/models"

	"gorm.io/gorm"
)

// CreateSession stores a new bargain session together with any seed messages.
func (s *Service) CreateSession(session *models.BargainSession) error {
	if err := s.DB.Create(session).Error; err != nil {
		log.Printf("ERROR: Failed to create session for buyer %s, product %s: %v",
			session.BuyerID, session.ProductID, err)
		return err
	}
	return nil
}

// GetSessionByID loads a session with its full message log in chronological
// order, or nil if the session does not exist.
func (s *Service) GetSessionByID(id string) (*models.BargainSession, error) {
	var session models.BargainSession
	err := s.DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Where("id = ?", id).First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get session %s: %v", id, err)
		return nil, err
	}
	return &session, nil
}

// FindActiveSession returns the active session for the given buyer and
// product, or nil if there is none. Used for idempotent creation.
func (s *Service) FindActiveSession(buyerID, productID string) (*models.BargainSession, error) {
	var session models.BargainSession
	err := s.DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Where("buyer_id = ? AND product_id = ? AND status = ?",
		buyerID, productID, models.StatusActive).First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessionsForBuyer returns all sessions where the principal is the buyer,
// most recently updated first. Message logs are not loaded for listings.
func (s *Service) ListSessionsForBuyer(buyerID string) ([]models.BargainSession, error) {
	var sessions []models.BargainSession
	if err := s.DB.Where("buyer_id = ?", buyerID).
		Order("updated_at desc").Find(&sessions).Error; err != nil {
		log.Printf("ERROR: Failed to list sessions for buyer %s: %v", buyerID, err)
		return nil, err
	}
	return sessions, nil
}

// ListSessionsForSeller returns all sessions where the principal is the
// seller, most recently updated first.
func (s *Service) ListSessionsForSeller(sellerID string) ([]models.BargainSession, error) {
	var sessions []models.BargainSession
	if err := s.DB.Where("seller_id = ?", sellerID).
		Order("updated_at desc").Find(&sessions).Error; err != nil {
		log.Printf("ERROR: Failed to list sessions for seller %s: %v", sellerID, err)
		return nil, err
	}
	return sessions, nil
}

// AppendMessage stores a message and updates the session's current price and
// updated_at in one transaction, so a broadcast emitted afterwards never
// precedes the durable write.
func (s *Service) AppendMessage(msg *models.BargainMessage, currentPrice float64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			log.Printf("ERROR: Failed to append message to session %s: %v", msg.SessionID, err)
			return err
		}
		return tx.Model(&models.BargainSession{}).
			Where("id = ?", msg.SessionID).
			Updates(map[string]interface{}{
				"current_price": currentPrice,
				"updated_at":    time.Now(),
			}).Error
	})
}

// UpdateSessionStatus moves an active session into the given status and
// bumps updated_at. Every legal transition starts from active, so the update
// is conditional on it: a false return means another writer already closed
// the session and the row was left untouched.
func (s *Service) UpdateSessionStatus(sessionID string, status models.SessionStatus) (bool, error) {
	result := s.DB.Model(&models.BargainSession{}).
		Where("id = ? AND status = ?", sessionID, models.StatusActive).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to update status of session %s: %v", sessionID, result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExpireOverdueSessions flips every active session whose expires_at has
// passed to expired. Returns how many rows changed. Used by the admin sweep;
// the service also expires lazily on read.
func (s *Service) ExpireOverdueSessions(now time.Time) (int64, error) {
	result := s.DB.Model(&models.BargainSession{}).
		Where("status = ? AND expires_at < ?", models.StatusActive, now).
		Updates(map[string]interface{}{
			"status":     models.StatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to expire overdue sessions: %v", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
