package handler

import (
	"net/http"

	"direct_chat/internal/domain"
	"direct_chat/internal/service"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationService service.ConversationService
	messageService      service.MessageService
	log                 logger.Logger
}

func NewConversationHandler(conversationService service.ConversationService, messageService service.MessageService, log logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		messageService:      messageService,
		log:                 log,
	}
}

type OpenConversationRequest struct {
	PeerID string `json:"peer_id" binding:"required"`
}

// Open открывает (при необходимости создавая) диалог с выбранным
// собеседником. При ошибке активный диалог не меняется — клиент не должен
// переключать представление, пока не получит ответ с ID.
func (h *ConversationHandler) Open(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.conversationService.Open(c.Request.Context(), userID.(string), req.PeerID)
	if err != nil {
		h.log.Warn("Failed to open conversation", "error", err, "user_id", userID, "peer_id", req.PeerID)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conv)
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	convs, err := h.conversationService.ListForUser(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, convs)
}

func (h *ConversationHandler) GetByID(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	conv, err := h.conversationService.Get(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conv)
}

func (h *ConversationHandler) GetMessages(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	messages, err := h.messageService.List(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"max=500"`
}

// SendMessage добавляет сообщение в диалог. Пустой после трима текст — не
// ошибка: возвращается 204, клиент просто очищает поле ввода.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), c.Param("id"), userID.(string), req.Text)
	if err != nil {
		h.log.Warn("Failed to send message", "error", err, "conversation_id", c.Param("id"))
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if message == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, message)
}
