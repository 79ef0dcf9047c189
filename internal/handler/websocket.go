package handler

import (
	"context"
	"net/http"
	"strings"

	"direct_chat/internal/domain"
	"direct_chat/internal/events"
	"direct_chat/internal/service"
	"direct_chat/internal/stream"
	"direct_chat/pkg/chatutil"
	"direct_chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

// Кадры подписки: snapshot несет полную коллекцию (замена, не слияние),
// error терминален — после него соединение закрывается, повтор только
// переоткрытием представления на клиенте.
type streamFrame struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type messageView struct {
	*domain.Message
	DisplayTime string `json:"display_time"`
}

type WebSocketHandler struct {
	broker              *stream.Broker
	authService         service.AuthService
	directoryService    service.DirectoryService
	conversationService service.ConversationService
	messageService      service.MessageService
	log                 logger.Logger
}

func NewWebSocketHandler(
	broker *stream.Broker,
	authService service.AuthService,
	directoryService service.DirectoryService,
	conversationService service.ConversationService,
	messageService service.MessageService,
	log logger.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		broker:              broker,
		authService:         authService,
		directoryService:    directoryService,
		conversationService: conversationService,
		messageService:      messageService,
		log:                 log,
	}
}

// HandleUsers — живая подписка на справочник пользователей.
func (h *WebSocketHandler) HandleUsers(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}

	h.serve(c, events.TopicUsers, func(ctx context.Context) (any, error) {
		return h.directoryService.List(ctx, user.ID, "")
	})
}

// HandleConversation — живая подписка на журнал сообщений одного диалога.
// Доступна только участникам.
func (h *WebSocketHandler) HandleConversation(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}

	conversationID := c.Param("id")
	if _, err := h.conversationService.Get(c.Request.Context(), conversationID, user.ID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	h.serve(c, events.TopicConversation(conversationID), func(ctx context.Context) (any, error) {
		messages, err := h.messageService.List(ctx, conversationID, user.ID)
		if err != nil {
			return nil, err
		}
		views := make([]messageView, 0, len(messages))
		for _, m := range messages {
			views = append(views, messageView{
				Message:     m,
				DisplayTime: chatutil.FormatMessageTime(&m.CreatedAt),
			})
		}
		return views, nil
	})
}

func (h *WebSocketHandler) serve(c *gin.Context, topic string, load stream.SnapshotFunc) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	sub := h.broker.Subscribe(c.Request.Context(), topic, load)
	defer sub.Close()

	// Читающий goroutine нужен только чтобы заметить закрытие со стороны
	// клиента (смена собеседника, размонтирование, конец сессии) и снять
	// подписку; входящих данных по этому сокету не бывает.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close()
				return
			}
		}
	}()

	for ev := range sub.C {
		if ev.Err != nil {
			_ = conn.WriteJSON(streamFrame{Type: "error", Error: ev.Err.Error()})
			return
		}
		if err := conn.WriteJSON(streamFrame{Type: "snapshot", Data: ev.Snapshot}); err != nil {
			h.log.Debug("Subscriber went away", "topic", topic, "error", err)
			return
		}
	}
}

// authenticate проверяет токен до апгрейда. Браузерный WebSocket не умеет
// выставлять заголовки, поэтому токен принимается и как query-параметр.
func (h *WebSocketHandler) authenticate(c *gin.Context) (*domain.User, bool) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return nil, false
	}

	user, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return nil, false
	}

	return user, true
}
