package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"direct_chat/internal/domain"
	apperrors "direct_chat/pkg/errors"
	"direct_chat/pkg/logger"
)

var testLog = logger.New("error")

type fakeNotifier struct {
	mu        sync.Mutex
	published []string
}

func (f *fakeNotifier) Publish(_ context.Context, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, topic)
	return nil
}

func (f *fakeNotifier) Subscribe(_ context.Context, _ string) (<-chan struct{}, func()) {
	ch := make(chan struct{})
	return ch, func() {}
}

func (f *fakeNotifier) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.published...)
}

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	sessions map[string]*domain.UserSession
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.UserSession),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrUserAlreadyExists
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastOnlineAt = &now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.DisplayName = user.DisplayName
	stored.AvatarURL = user.AvatarURL
	return nil
}

func (r *fakeUserRepo) UpdateLastOnline(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	user.LastOnlineAt = &now
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName != users[j].DisplayName {
			return users[i].DisplayName < users[j].DisplayName
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *fakeUserRepo) CreateSession(_ context.Context, session *domain.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.RefreshTokenHash] = session
	return nil
}

func (r *fakeUserRepo) GetSessionByTokenHash(_ context.Context, tokenHash string) (*domain.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[tokenHash]
	if !ok || session.RevokedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return session, nil
}

func (r *fakeUserRepo) RevokeSession(_ context.Context, sessionID string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == sessionID {
			now := time.Now()
			s.RevokedAt = &now
			s.RevokedReason = &reason
		}
	}
	return nil
}

type fakeConvRepo struct {
	mu         sync.Mutex
	convs      map[string]*domain.Conversation
	inserted   int
	failCreate error
	failGet    error
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{convs: make(map[string]*domain.Conversation)}
}

func (r *fakeConvRepo) CreateIfAbsent(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, ok := r.convs[conv.ID]; ok {
		return nil
	}
	stored := *conv
	stored.CreatedAt = time.Now()
	r.convs[conv.ID] = &stored
	r.inserted++
	return nil
}

func (r *fakeConvRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	conv, ok := r.convs[id]
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConvRepo) ListForUser(_ context.Context, userID string) ([]*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var convs []*domain.Conversation
	for _, c := range r.convs {
		if c.HasParticipant(userID) {
			copied := *c
			convs = append(convs, &copied)
		}
	}
	return convs, nil
}

type fakeMessageRepo struct {
	mu         sync.Mutex
	messages   []*domain.Message
	nextID     int64
	failCreate error
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	message.ID = r.nextID
	message.CreatedAt = time.Now()
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) ListByConversation(_ context.Context, conversationID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []*domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			copied := *m
			messages = append(messages, &copied)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

func userFixture(id, email, name string, lastOnline *time.Time) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "x",
		DisplayName:  name,
		LastOnlineAt: lastOnline,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
