package ws

import (
	"net/http"
	"strings"

	"job-scraping/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub    *Hub
	tokens jwt.Service
	logger *zap.Logger
}

// NewHandler serves the live feed. tokens may be nil, in which case every
// connection is anonymous and only sees jobs_updated events.
func NewHandler(hub *Hub, tokens jwt.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, tokens: tokens, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) HandleJobsWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	userID, err := h.identify(c.Query("token"))
	if err != nil {
		return fiber.ErrUnauthorized
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn, userID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

// identify resolves an optional access token. An absent token is anonymous;
// a present but invalid one is rejected.
func (h *Handler) identify(token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" || h.tokens == nil {
		return uuid.Nil, nil
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return uuid.Nil, jwt.ErrTokenInvalid
	}
	return claims.UserID, nil
}
