package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/gymflow/portal/internal/events"
	"github.com/gymflow/portal/internal/observability"
)

// SessionAuditService logs session lifecycle events and counts them.
type SessionAuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewSessionAuditService creates the service.
func NewSessionAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *SessionAuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionAuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *SessionAuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionHydrated, a.handleHydrated)
	a.dispatcher.Subscribe(events.EventSessionHydrationFailed, a.handleHydrationFailed)
	a.dispatcher.Subscribe(events.EventSessionLoggedIn, a.handleLoggedIn)
	a.dispatcher.Subscribe(events.EventSessionLoggedOut, a.handleLoggedOut)
	a.dispatcher.Subscribe(events.EventSessionRejected, a.handleRejected)
}

func (a *SessionAuditService) handleHydrated(_ context.Context, event events.Event) error {
	a.logger.Debug("SessionHydrated", fields(event)...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func (a *SessionAuditService) handleHydrationFailed(_ context.Context, event events.Event) error {
	f := fields(event)
	if payload, ok := event.Payload.(*events.HydrationFailedPayload); ok && payload != nil {
		f = append(f, zap.String("reason", payload.Reason))
	}
	a.logger.Info("SessionHydrationFailed", f...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func (a *SessionAuditService) handleLoggedIn(_ context.Context, event events.Event) error {
	a.logger.Info("SessionLoggedIn", fields(event)...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func (a *SessionAuditService) handleLoggedOut(_ context.Context, event events.Event) error {
	a.logger.Info("SessionLoggedOut", fields(event)...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func (a *SessionAuditService) handleRejected(_ context.Context, event events.Event) error {
	a.logger.Warn("SessionRejected", fields(event)...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func fields(event events.Event) []zap.Field {
	f := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("subject", event.Subject),
	}
	if event.UserID != 0 {
		f = append(f, zap.String("user_id", event.UserID.String()))
	}
	if event.Role != "" {
		f = append(f, zap.String("role", event.Role.String()))
	}
	return f
}
