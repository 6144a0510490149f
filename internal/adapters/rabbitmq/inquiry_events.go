package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"
	"rental-search-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// InquiryCreatedDTO - тело события inquiry.created
type InquiryCreatedDTO struct {
	InquiryID  uuid.UUID `json:"inquiry_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	Message    string    `json:"message,omitempty"`
	MoveInDate string    `json:"move_in_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type eventPublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

type InquiryEventsAdapter struct {
	producer   eventPublisher
	routingKey string
	now        func() time.Time
}

func NewInquiryEventsAdapter(producer eventPublisher, routingKey string) (*InquiryEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &InquiryEventsAdapter{
		producer:   producer,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

func (a *InquiryEventsAdapter) InquiryCreated(ctx context.Context, inquiry *domain.BookingInquiry) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "InquiryEventsAdapter",
		"routing_key": a.routingKey,
		"inquiry_id":  inquiry.ID.String(),
	})

	dto := InquiryCreatedDTO{
		InquiryID: inquiry.ID,
		ListingID: inquiry.ListingID,
		Name:      inquiry.Name,
		Phone:     inquiry.Phone,
		Email:     inquiry.Email,
		Message:   inquiry.Message,
		CreatedAt: inquiry.CreatedAt,
	}
	if inquiry.MoveInDate != nil {
		dto.MoveInDate = inquiry.MoveInDate.Format(time.DateOnly)
	}

	body, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal inquiry event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    inquiry.ID.String(),
		Timestamp:    a.now(),
		Type:         "InquiryCreatedEvent",
		Headers:      amqp.Table{"x-event-version": "1.0.0"},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish inquiry event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish inquiry %s: %w", inquiry.ID, err)
	}

	adapterLogger.Info("Inquiry event published", nil)
	return nil
}

// NoopInquiryNotifier используется, когда брокер не настроен
type NoopInquiryNotifier struct{}

func (NoopInquiryNotifier) InquiryCreated(ctx context.Context, inquiry *domain.BookingInquiry) error {
	contextkeys.LoggerFromContext(ctx).Debug("Inquiry events are disabled, skipping publish", port.Fields{
		"inquiry_id": inquiry.ID.String(),
	})
	return nil
}
