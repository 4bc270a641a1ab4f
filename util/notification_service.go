// util/notification_service.go
package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
)

// NotificationService turns bus events into structured log notifications.
// In a real deployment these would fan out to subscribed parties over a
// message queue; here the log line is the notification.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// SubscribeAll attaches every notification handler to the bus.
func (n *NotificationService) SubscribeAll(bus *EventBus) {
	bus.Subscribe(TopicEventAppended, n.onEventAppended)
	bus.Subscribe(TopicConcernRaised, n.onConcernRaised)
	bus.Subscribe(TopicConcernResolved, n.onConcernResolved)
	bus.Subscribe(TopicComplianceSubmitted, n.onComplianceSubmitted)
	bus.Subscribe(TopicComplianceReviewed, n.onComplianceReviewed)
	bus.Subscribe(TopicPartyRegistered, n.onPartyRegistered)
}

func (n *NotificationService) onEventAppended(ctx context.Context, e BusEvent) error {
	event, ok := e.Payload.(model.Event)
	if !ok {
		return nil
	}
	logger.Info("NOTIFICATION: Audit event recorded",
		zap.Int("eventID", event.ID),
		zap.String("eventType", string(event.EventType)))
	return nil
}

func (n *NotificationService) onConcernRaised(ctx context.Context, e BusEvent) error {
	concern, ok := e.Payload.(model.Concern)
	if !ok {
		return nil
	}
	logger.Info("NOTIFICATION: Concern raised",
		zap.String("concernID", concern.ID),
		zap.String("target", concern.Target))
	return nil
}

func (n *NotificationService) onConcernResolved(ctx context.Context, e BusEvent) error {
	resolution, ok := e.Payload.(model.Resolution)
	if !ok {
		return nil
	}
	logger.Info("NOTIFICATION: Concern resolved",
		zap.String("concernID", resolution.ConcernID),
		zap.String("outcome", string(resolution.Outcome)))
	return nil
}

func (n *NotificationService) onComplianceSubmitted(ctx context.Context, e BusEvent) error {
	submission, ok := e.Payload.(model.ComplianceSubmission)
	if !ok {
		return nil
	}
	logger.Info("NOTIFICATION: Compliance submission filed",
		zap.String("submissionID", submission.ID),
		zap.String("deploymentID", submission.DeploymentID),
		zap.String("templateType", string(submission.TemplateType)))
	return nil
}

func (n *NotificationService) onComplianceReviewed(ctx context.Context, e BusEvent) error {
	submission, ok := e.Payload.(model.ComplianceSubmission)
	if !ok {
		return nil
	}
	logger.Info("NOTIFICATION: Compliance submission reviewed",
		zap.String("submissionID", submission.ID),
		zap.String("status", string(submission.Status)))
	return nil
}

func (n *NotificationService) onPartyRegistered(ctx context.Context, e BusEvent) error {
	info, ok := e.Payload.(model.PartyInfo)
	if !ok {
		return nil
	}
	logger.Info("NOTIFICATION: Party registered",
		zap.String("partyID", info.PartyID),
		zap.String("role", string(info.Role)))
	return nil
}
