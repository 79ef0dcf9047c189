package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"direct_chat/internal/domain"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLog = logger.New("error")

type stubConversationService struct {
	openResult *domain.Conversation
	openErr    error
}

func (s *stubConversationService) Open(context.Context, string, string) (*domain.Conversation, error) {
	return s.openResult, s.openErr
}

func (s *stubConversationService) Get(context.Context, string, string) (*domain.Conversation, error) {
	return s.openResult, s.openErr
}

func (s *stubConversationService) ListForUser(context.Context, string) ([]*domain.Conversation, error) {
	return nil, nil
}

type stubMessageService struct {
	sendResult *domain.Message
	sendErr    error
	sentText   string
}

func (s *stubMessageService) Send(_ context.Context, _ string, _ string, text string) (*domain.Message, error) {
	s.sentText = text
	return s.sendResult, s.sendErr
}

func (s *stubMessageService) List(context.Context, string, string) ([]*domain.Message, error) {
	return nil, nil
}

func newTestRouter(h *ConversationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "alice123")
		c.Next()
	})
	router.POST("/conversations", h.Open)
	router.POST("/conversations/:id/messages", h.SendMessage)
	router.GET("/conversations/:id/messages", h.GetMessages)
	return router
}

func TestConversationHandler_Open(t *testing.T) {
	t.Run("returns the opened conversation", func(t *testing.T) {
		conv := &domain.Conversation{ID: "alice123_bob456", UserAID: "alice123", UserBID: "bob456", CreatedAt: time.Now()}
		h := NewConversationHandler(&stubConversationService{openResult: conv}, &stubMessageService{}, testLog)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conversations", strings.NewReader(`{"peer_id":"bob456"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice123_bob456")
	})

	t.Run("self selection maps to bad request", func(t *testing.T) {
		h := NewConversationHandler(&stubConversationService{openErr: apperrors.ErrSelfConversation}, &stubMessageService{}, testLog)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conversations", strings.NewReader(`{"peer_id":"alice123"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("init failure surfaces without a conversation", func(t *testing.T) {
		h := NewConversationHandler(&stubConversationService{openErr: apperrors.ErrConversationInit}, &stubMessageService{}, testLog)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conversations", strings.NewReader(`{"peer_id":"bob456"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})
}

func TestConversationHandler_SendMessage(t *testing.T) {
	t.Run("created message is returned", func(t *testing.T) {
		msg := &domain.Message{ID: 1, ConversationID: "alice123_bob456", SenderID: "alice123", Text: "hi", CreatedAt: time.Now()}
		h := NewConversationHandler(&stubConversationService{}, &stubMessageService{sendResult: msg}, testLog)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conversations/alice123_bob456/messages", strings.NewReader(`{"text":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("empty text is a no-op, not an error", func(t *testing.T) {
		h := NewConversationHandler(&stubConversationService{}, &stubMessageService{}, testLog)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conversations/alice123_bob456/messages", strings.NewReader(`{"text":"   "}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("over-length text is rejected at the boundary", func(t *testing.T) {
		h := NewConversationHandler(&stubConversationService{}, &stubMessageService{}, testLog)
		router := newTestRouter(h)

		body := `{"text":"` + strings.Repeat("a", domain.MaxMessageLength+1) + `"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conversations/alice123_bob456/messages", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("send failure is recoverable for the client", func(t *testing.T) {
		h := NewConversationHandler(&stubConversationService{}, &stubMessageService{sendErr: apperrors.ErrMessageSend}, testLog)
		router := newTestRouter(h)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/conversations/alice123_bob456/messages", strings.NewReader(`{"text":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})
}
