package handler

import (
	"net/http"
	"strings"
	"time"

	"bargainhub/backend/internal/config"
	"bargainhub/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Gin context keys for the authenticated principal.
const (
	ContextUserIDKey = "current_user_id"
	ContextRoleKey   = "current_user_role"
)

// generateJWT mints an HS256 token carrying the principal id and role.
func (h *Handler) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(config.TokenTTL).Unix(),
		"iss":  config.TokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

// parseJWT validates a bearer token and returns the principal id and role.
func (h *Handler) parseJWT(tokenString string) (string, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// Only accept HMAC signing.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", models.RoleNone, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.RoleNone, jwt.ErrTokenInvalidClaims
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || (role != string(models.RoleBuyer) && role != string(models.RoleSeller)) {
		return "", models.RoleNone, jwt.ErrTokenInvalidClaims
	}
	return sub, models.Role(role), nil
}

// IssueToken exchanges a known username for a JWT. This is the boundary stub
// for the external identity provider; real credential checks live there.
func (h *Handler) IssueToken(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user, err := h.Storage.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	token, err := h.generateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": user.ID, "role": user.Role})
}

// AuthMiddleware rejects requests without a valid bearer token and resolves
// the principal into the gin context.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := h.principalFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// principalFromRequest extracts the principal from the Authorization header,
// falling back to the token query parameter for websocket upgrades where
// browsers cannot set headers.
func (h *Handler) principalFromRequest(c *gin.Context) (string, models.Role, error) {
	auth := c.GetHeader("Authorization")
	tokenString := ""
	if auth != "" {
		parts := strings.Fields(auth)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return "", models.RoleNone, jwt.ErrTokenMalformed
	}
	return h.parseJWT(tokenString)
}
