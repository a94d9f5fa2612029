package service

import (
	"context"
	"errors"

	"github.com/personachat/personachat-go/internal/model"
	"github.com/personachat/personachat-go/internal/repository"
)

var ErrTitleRequired = errors.New("title is required")

// ChatService handles conversation persistence business logic. The owner is
// always the authenticated principal; callers can never write or read
// another user's history.
type ChatService struct {
	repo *repository.ChatRepository
}

// NewChatService creates a new ChatService.
func NewChatService(repo *repository.ChatRepository) *ChatService {
	return &ChatService{repo: repo}
}

// SaveConversation persists a conversation with its messages for the owner.
func (s *ChatService) SaveConversation(ctx context.Context, owner string, req model.SaveConversationRequest) error {
	if req.Title == "" {
		return ErrTitleRequired
	}

	conv := &model.Conversation{
		Title:     req.Title,
		UserEmail: owner,
	}
	return s.repo.SaveConversation(ctx, conv, req.Messages)
}

// ListConversations returns the owner's conversations with nested messages.
func (s *ChatService) ListConversations(ctx context.Context, owner string) ([]model.ConversationResponse, error) {
	return s.repo.ListByOwner(ctx, owner)
}
