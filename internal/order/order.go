// Package order is the one-way sink that turns an accepted negotiation into
// a checkout order at the agreed price.
package order

import (
	"log"

	"bargainhub/backend/internal/bargain"
	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/storage"
)

// Service writes order records for accepted sessions.
type Service struct {
	Storage storage.Storage
}

// NewService creates an order service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// CommitFinalPrice records the session's current price as the order's final
// price. Safe to call more than once for the same session; only the first
// call creates a row.
func (s *Service) CommitFinalPrice(session *models.BargainSession) error {
	o := &models.Order{
		SessionID:  session.ID,
		ProductID:  session.ProductID,
		BuyerID:    session.BuyerID,
		SellerID:   session.SellerID,
		FinalPrice: session.CurrentPrice,
		Status:     "pending",
	}
	if err := s.Storage.CreateOrder(o); err != nil {
		return err
	}
	log.Printf("Order %s committed for session %s at %.2f", o.ID, session.ID, o.FinalPrice)
	return nil
}

// Compile-time interface check.
var _ bargain.OrderSink = (*Service)(nil)
