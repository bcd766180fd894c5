package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/dmitrijs2005/gopherchat/internal/server/images"
	"github.com/dmitrijs2005/gopherchat/internal/server/models"
	"github.com/dmitrijs2005/gopherchat/internal/server/realtime"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/messages"
	"github.com/google/uuid"
)

// SendInput is the client-supplied part of a message. Image, when set, is a
// base64 payload or data URL.
type SendInput struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// MessageService stores direct messages and pushes them to online
// recipients.
type MessageService struct {
	messages messages.Repository
	images   images.Host
	notifier Notifier
	clock    *monotonicClock
	logger   logging.Logger
}

func NewMessageService(repo messages.Repository, host images.Host, notifier Notifier, logger logging.Logger) *MessageService {
	return &MessageService{
		messages: repo,
		images:   host,
		notifier: notifier,
		clock:    newMonotonicClock(),
		logger:   logger.With("module", "messages"),
	}
}

// Send persists a message from senderID to receiverID and then tries a live
// push to the receiver. The receiver is not checked for existence. A failed
// push never fails the send: the message stays retrievable through
// Conversation.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID string, in SendInput) (*models.Message, error) {
	if strings.TrimSpace(in.Text) == "" && in.Image == "" {
		return nil, common.NewValidationError("Message text or image is required")
	}

	var imageURL string
	if in.Image != "" {
		u, _, err := s.images.Upload(ctx, in.Image)
		if err != nil {
			return nil, uploadError(err)
		}
		imageURL = u
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       in.Text,
		Image:      imageURL,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	if err := s.notifier.Push(receiverID, realtime.EventNewMessage, msg); err != nil {
		s.logger.Debug(ctx, "live push skipped", "id", msg.ID, "receiver", receiverID, "reason", err)
	}

	return msg, nil
}

// Conversation returns all messages between userID and peerID in either
// direction, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, peerID string) ([]*models.Message, error) {
	msgs, err := s.messages.Conversation(ctx, userID, peerID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return msgs, nil
}

// uploadError keeps validation failures as they are and marks everything
// else as an upstream failure.
func uploadError(err error) error {
	if errors.Is(err, common.ErrorValidation) || errors.Is(err, common.ErrUpstream) {
		return err
	}
	return fmt.Errorf("image upload: %w: %w", common.ErrUpstream, err)
}
