package websocket

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/msrishav-28/penpal/internal/core"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
	EnableCompression: true,
}

// Handler returns the gin handler that upgrades a connection into a
// reading room. Authentication uses the Authorization header or, since
// browsers cannot set headers on WebSocket upgrades, a token query param.
func Handler(hub *Hub, authSvc core.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID := c.Param("book_id")
		if bookID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "book_id parameter is required"})
			return
		}

		token, err := extractToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		user, err := authSvc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Warnf("WebSocket upgrade failed: %v", err)
			return
		}

		hub.ServeClient(conn, user.ID, user.Username, bookID)
	}
}

func extractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], nil
		}
		return "", errors.New("invalid authorization format")
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", errors.New("missing authentication token")
}
