package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"bargainhub/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence boundary of the marketplace. The session
// service is its only writer for bargaining state; the realtime hub only
// consumes the pub/sub side.
type Storage interface {
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	SaveUser(user *models.User) error

	GetProductByID(id string) (*models.Product, error)
	SaveProduct(product *models.Product) error
	ListProducts() ([]models.Product, error)

	CreateSession(session *models.BargainSession) error
	GetSessionByID(id string) (*models.BargainSession, error)
	FindActiveSession(buyerID, productID string) (*models.BargainSession, error)
	ListSessionsForBuyer(buyerID string) ([]models.BargainSession, error)
	ListSessionsForSeller(sellerID string) ([]models.BargainSession, error)
	AppendMessage(msg *models.BargainMessage, currentPrice float64) error
	UpdateSessionStatus(sessionID string, status models.SessionStatus) (bool, error)
	ExpireOverdueSessions(now time.Time) (int64, error)

	CreateOrder(order *models.Order) error
	GetOrderBySessionID(sessionID string) (*models.Order, error)

	PublishEvent(sessionID string, ev models.Event) error
	SubscribeToSessions() *redis.PubSub
	AcquireCreateLock(buyerID, productID string, ttl time.Duration) (func(), error)

	AddActiveSession(sessionID string) error
	RemoveActiveSession(sessionID string) error
	GetActiveSessionIDs() ([]string, error)
}

// Service implements Storage on top of PostgreSQL (gorm) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// GetUserByID returns the user with the given id, or nil if absent.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetProductByID returns the product with the given id, or nil if absent.
func (s *Service) GetProductByID(id string) (*models.Product, error) {
	var product models.Product
	err := s.DB.Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get product %s: %v", id, err)
		return nil, err
	}
	return &product, nil
}

func (s *Service) SaveProduct(product *models.Product) error {
	return s.DB.Save(product).Error
}

// ListProducts returns all active catalog listings.
func (s *Service) ListProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.DB.Where("active = ?", true).Order("created_at desc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateOrder records the accepted final price for a session. One order per
// session: a second call for the same session leaves the existing row
// untouched.
func (s *Service) CreateOrder(order *models.Order) error {
	result := s.DB.Where("session_id = ?", order.SessionID).FirstOrCreate(order)
	if result.Error != nil {
		log.Printf("ERROR: Failed to create order for session %s: %v", order.SessionID, result.Error)
		return result.Error
	}
	return nil
}

// GetOrderBySessionID returns the order committed for a session, or nil.
func (s *Service) GetOrderBySessionID(sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Where("session_id = ?", sessionID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
