package service

import (
	"context"
	"fmt"
	"strings"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"gorm.io/gorm"
)

type StartThreadRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerPhone string `json:"customerPhone" binding:"required,phone"`
	Subject       string `json:"subject"`
	Text          string `json:"text" binding:"required"`
}

type SendMessageRequest struct {
	Text   string `json:"text" binding:"required"`
	Sender string `json:"sender"`
}

type ChatService interface {
	ListThreads(ctx context.Context, q ListQuery) ([]model.ChatThread, error)
	GetThread(ctx context.Context, id string) (*model.ChatThread, error)
	StartThread(ctx context.Context, req StartThreadRequest) (*model.ChatThread, error)
	SendMessage(ctx context.Context, actor Actor, threadID string, req SendMessageRequest) (*model.ChatMessage, error)
	UpdateStatus(ctx context.Context, actor Actor, threadID, status string) error
}

type chatService struct {
	chatRepo  repository.ChatRepository
	txManager repository.TransactionManager
	audit     auditor
	notifier  Notifier
}

func NewChatService(chatRepo repository.ChatRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, notifier Notifier) ChatService {
	return &chatService{
		chatRepo:  chatRepo,
		txManager: txManager,
		audit:     auditor{repo: auditRepo, entityType: "chat"},
		notifier:  notifierOrNop(notifier),
	}
}

func (s *chatService) ListThreads(ctx context.Context, q ListQuery) ([]model.ChatThread, error) {
	threads, err := s.chatRepo.ListThreads(ctx, q.options())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chats: %w", err)
	}
	return threads, nil
}

// GetThread loads the thread with its messages and marks it read.
func (s *chatService) GetThread(ctx context.Context, id string) (*model.ChatThread, error) {
	uid, err := parseID("chat", id)
	if err != nil {
		return nil, err
	}
	thread, err := s.chatRepo.FindThread(ctx, uid)
	if err != nil {
		return nil, lookupErr("chat", err)
	}
	if thread.Unread > 0 {
		if err := s.chatRepo.UpdateThread(ctx, uid, map[string]interface{}{"unread": 0}); err != nil {
			return nil, fmt.Errorf("failed to mark chat read: %w", err)
		}
		thread.Unread = 0
	}
	return thread, nil
}

func (s *chatService) StartThread(ctx context.Context, req StartThreadRequest) (*model.ChatThread, error) {
	if err := requireText("customerName", req.CustomerName); err != nil {
		return nil, err
	}
	if !validate.Phone(req.CustomerPhone) {
		return nil, ValidationError{Field: "customerPhone", Msg: validate.Message("phone")}
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ValidationError{Field: "text", Msg: "is required"}
	}

	thread := model.ChatThread{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: req.CustomerPhone,
		Subject:       strings.TrimSpace(req.Subject),
		Status:        model.ChatPending,
		LastMessage:   text,
		Unread:        1,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.chatRepo.CreateThread(txCtx, &thread); err != nil {
			return fmt.Errorf("failed to create chat: %w", err)
		}
		msg := model.ChatMessage{ThreadID: thread.ID, Sender: model.SenderCustomer, Author: thread.CustomerName, Text: text}
		if err := s.chatRepo.AddMessage(txCtx, &msg); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
		thread.Messages = []model.ChatMessage{msg}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(Event{
		Type:    "chat.thread",
		Message: "New chat from " + thread.CustomerName,
		Entity:  "chat",
		ID:      thread.ID.String(),
	})
	return &thread, nil
}

// SendMessage appends a message. Customer messages bump the unread count and
// reopen resolved threads; agent replies clear it.
func (s *chatService) SendMessage(ctx context.Context, actor Actor, threadID string, req SendMessageRequest) (*model.ChatMessage, error) {
	uid, err := parseID("chat", threadID)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ValidationError{Field: "text", Msg: "is required"}
	}
	sender := req.Sender
	if sender == "" {
		sender = model.SenderAgent
	}
	if err := oneOf("sender", sender, model.SenderCustomer, model.SenderAgent); err != nil {
		return nil, err
	}

	thread, err := s.chatRepo.FindThread(ctx, uid)
	if err != nil {
		return nil, lookupErr("chat", err)
	}

	msg := model.ChatMessage{ThreadID: uid, Sender: sender, Text: text}
	fields := map[string]interface{}{"last_message": text, "updated_at": nowFunc()}
	if sender == model.SenderAgent {
		msg.Author = actor.Username
		fields["unread"] = 0
		if thread.Status == model.ChatPending {
			fields["status"] = model.ChatActive
		}
	} else {
		msg.Author = thread.CustomerName
		fields["unread"] = gorm.Expr("unread + 1")
		if thread.Status == model.ChatResolved {
			fields["status"] = model.ChatActive
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.chatRepo.AddMessage(txCtx, &msg); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
		return s.chatRepo.UpdateThread(txCtx, uid, fields)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(Event{
		Type:    "chat.message",
		Message: msg.Author + ": " + text,
		Entity:  "chat",
		ID:      thread.ID.String(),
		Data:    msg,
	})
	return &msg, nil
}

func (s *chatService) UpdateStatus(ctx context.Context, actor Actor, threadID, status string) error {
	uid, err := parseID("chat", threadID)
	if err != nil {
		return err
	}
	if err := oneOf("status", status, model.ChatActive, model.ChatPending, model.ChatResolved); err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.chatRepo.UpdateThread(txCtx, uid, map[string]interface{}{"status": status}); err != nil {
			return lookupErr("chat", err)
		}
		return s.audit.record(txCtx, actor, model.ActionStatusChange, uid.String(), "", "Chat marked "+status)
	})
}
