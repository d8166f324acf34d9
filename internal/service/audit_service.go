package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/dine-service/internal/events"
)

// AuditService records administrative changes as structured log entries.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventUserPromoted, a.handleAdminChange)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.handleAdminChange)
	a.dispatcher.Subscribe(events.EventMenuItemCreated, a.handleAdminChange)
	a.dispatcher.Subscribe(events.EventMenuItemDeleted, a.handleAdminChange)
}

func (a *AuditService) handleUserRegistered(_ context.Context, event events.Event) error {
	a.logger.Info("UserRegistered",
		zap.String("event_id", event.ID),
		zap.Any("document_id", event.DocumentID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleAdminChange(_ context.Context, event events.Event) error {
	a.logger.Info("AdminChange",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("collection", event.Collection),
		zap.Any("document_id", event.DocumentID),
		zap.String("actor", event.Actor),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
