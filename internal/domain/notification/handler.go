package notification

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tablehub/internal/pkg/jwt"
	"tablehub/internal/pkg/logger"
	"tablehub/internal/pkg/response"
)

// WSHandler upgrades authenticated clients onto the hub.
type WSHandler struct {
	hub        *Hub
	jwtService *jwt.Service
	upgrader   websocket.Upgrader
}

// NewWSHandler accepts browser connections from allowedOrigins. An empty
// list or "*" accepts any origin.
func NewWSHandler(hub *Hub, jwtService *jwt.Service, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// HandleWebSocket serves GET /ws/reservations?token=JWT. Browsers cannot set
// headers on websocket requests, so the token travels in the query.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	logger.Log.Debug("websocket connected", zap.Int64("user_id", claims.UserID), zap.String("role", claims.Role))
	h.hub.serve(conn, claims.UserID)
}

func (h *WSHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/reservations", h.HandleWebSocket)
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
