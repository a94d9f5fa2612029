package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/personachat/personachat-go/internal/model"
)

func TestSaveConversation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO conversations").
		WithArgs("First chat", "a@x.com").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(int64(3), "user", "hello").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(int64(3), "assistant", "hi there").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := NewChatRepository(db)
	conv := &model.Conversation{Title: "First chat", UserEmail: "a@x.com"}
	messages := []model.MessagePayload{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}

	if err := repo.SaveConversation(context.Background(), conv, messages); err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}
	if conv.ID != 3 {
		t.Errorf("SaveConversation() ID = %d, want 3", conv.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSaveConversationRollsBackOnMessageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO conversations").
		WithArgs("First chat", "a@x.com").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO messages").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	repo := NewChatRepository(db)
	conv := &model.Conversation{Title: "First chat", UserEmail: "a@x.com"}
	messages := []model.MessagePayload{{Role: "user", Content: "hello"}}

	if err := repo.SaveConversation(context.Background(), conv, messages); err == nil {
		t.Fatal("SaveConversation() expected error when a message insert fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, title, created_at FROM conversations WHERE user_email").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).
			AddRow(1, "First chat", now))
	mock.ExpectQuery("SELECT role, content FROM messages WHERE conversation_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"role", "content"}).
			AddRow("user", "hello").
			AddRow("assistant", "hi there"))

	repo := NewChatRepository(db)
	convos, err := repo.ListByOwner(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(convos) != 1 {
		t.Fatalf("ListByOwner() returned %d conversations, want 1", len(convos))
	}
	if convos[0].Title != "First chat" {
		t.Errorf("unexpected title %q", convos[0].Title)
	}
	if len(convos[0].Messages) != 2 || convos[0].Messages[1].Role != "assistant" {
		t.Errorf("unexpected messages %+v", convos[0].Messages)
	}
}

func TestListByOwnerEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, created_at FROM conversations WHERE user_email").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}))

	repo := NewChatRepository(db)
	convos, err := repo.ListByOwner(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(convos) != 0 {
		t.Errorf("ListByOwner() returned %d conversations, want 0", len(convos))
	}
}
