package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rental-search-service/internal/contextkeys"
	"rental-search-service/internal/core/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type capturingPublisher struct {
	routingKey string
	msg        amqp.Publishing
	err        error
}

func (p *capturingPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.routingKey = routingKey
	p.msg = msg
	return p.err
}

func TestInquiryEventsAdapter_Publishes(t *testing.T) {
	pub := &capturingPublisher{}
	adapter, err := NewInquiryEventsAdapter(pub, "inquiry.created")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	moveIn := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	inquiry := &domain.BookingInquiry{
		ID:         uuid.New(),
		ListingID:  uuid.New(),
		Name:       "Riya Sharma",
		Phone:      "+919876543210",
		MoveInDate: &moveIn,
		CreatedAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	if err := adapter.InquiryCreated(ctx, inquiry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pub.routingKey != "inquiry.created" {
		t.Fatalf("unexpected routing key %q", pub.routingKey)
	}
	if pub.msg.Headers["x-trace-id"] != "trace-1" {
		t.Fatalf("trace id header missing: %v", pub.msg.Headers)
	}
	if pub.msg.MessageId != inquiry.ID.String() || pub.msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected message properties %+v", pub.msg)
	}

	var dto InquiryCreatedDTO
	if err := json.Unmarshal(pub.msg.Body, &dto); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if dto.ListingID != inquiry.ListingID || dto.MoveInDate != "2025-04-01" || dto.Phone != "+919876543210" {
		t.Fatalf("unexpected event body %+v", dto)
	}
}

func TestInquiryEventsAdapter_PublishError(t *testing.T) {
	brokerErr := errors.New("channel closed")
	adapter, _ := NewInquiryEventsAdapter(&capturingPublisher{err: brokerErr}, "inquiry.created")

	err := adapter.InquiryCreated(context.Background(), &domain.BookingInquiry{ID: uuid.New()})
	if !errors.Is(err, brokerErr) {
		t.Fatalf("expected broker error, got %v", err)
	}
}

func TestNewInquiryEventsAdapter_Validation(t *testing.T) {
	if _, err := NewInquiryEventsAdapter(nil, "inquiry.created"); err == nil {
		t.Fatalf("expected error for nil producer")
	}
	if _, err := NewInquiryEventsAdapter(&capturingPublisher{}, ""); err == nil {
		t.Fatalf("expected error for empty routing key")
	}
}
