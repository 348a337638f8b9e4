package handler

import (
	"errors"
	"log"
	"net/http"

	"bargainhub/backend/internal/bargain"
	"bargainhub/backend/internal/catalog"
	"bargainhub/backend/internal/models"

	"github.com/gin-gonic/gin"
)

func principal(c *gin.Context) (string, models.Role) {
	return c.GetString(ContextUserIDKey), c.MustGet(ContextRoleKey).(models.Role)
}

// respondError maps service errors onto HTTP statuses with stable codes so
// the UI can tell "out of turns" from "offer too low" from "session closed".
func respondError(c *gin.Context, err error) {
	code := bargain.ErrorCode(err)
	status := http.StatusInternalServerError
	message := err.Error()

	switch code {
	case "not_found":
		status = http.StatusNotFound
	case "forbidden":
		status = http.StatusForbidden
	case "invalid_state":
		status = http.StatusConflict
	case "turn_limit_exceeded", "invalid_offer":
		status = http.StatusUnprocessableEntity
	case "validation_error":
		status = http.StatusBadRequest
	default:
		log.Printf("ERROR: Request failed: %v", err)
		message = "internal server error"
	}

	c.JSON(status, gin.H{"code": code, "error": message})
}

// CreateSession opens (or idempotently returns) a bargain session for the
// authenticated buyer.
func (h *Handler) CreateSession(c *gin.Context) {
	userID, role := principal(c)
	if role != models.RoleBuyer {
		c.JSON(http.StatusForbidden, gin.H{"code": "forbidden", "error": "only buyers can open bargain sessions"})
		return
	}

	var req struct {
		ProductID    string   `json:"product_id" binding:"required"`
		InitialOffer *float64 `json:"initial_offer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "product_id is required"})
		return
	}

	session, err := h.Bargain.CreateSession(userID, req.ProductID, req.InitialOffer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns one session with its full message log.
func (h *Handler) GetSession(c *gin.Context) {
	userID, _ := principal(c)
	session, err := h.Bargain.GetSession(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListSessions returns the principal's sessions, routed by role.
func (h *Handler) ListSessions(c *gin.Context) {
	userID, role := principal(c)

	var (
		sessions []models.BargainSession
		err      error
	)
	if role == models.RoleSeller {
		sessions, err = h.Bargain.ListForSeller(userID)
	} else {
		sessions, err = h.Bargain.ListForBuyer(userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// AppendMessage submits a chat message or offer to a session.
func (h *Handler) AppendMessage(c *gin.Context) {
	userID, _ := principal(c)

	var req struct {
		Text        string   `json:"text"`
		IsOffer     bool     `json:"is_offer"`
		OfferAmount *float64 `json:"offer_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "invalid request body"})
		return
	}

	msg, err := h.Bargain.AppendMessage(c.Param("id"), userID, req.Text, req.IsOffer, req.OfferAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// UpdateStatus lets the seller accept or reject a session.
func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, _ := principal(c)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "status is required"})
		return
	}

	session, err := h.Bargain.UpdateStatus(c.Param("id"), userID, models.SessionStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListProducts returns the active catalog listings.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.Catalog.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one catalog listing.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.Catalog.GetProduct(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
