package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewInquiry - заявка на бронирование в том виде, в котором она приходит от пользователя.
type NewInquiry struct {
	ListingID  uuid.UUID
	SessionID  uuid.UUID
	Name       string
	Phone      string
	Email      string
	Message    string
	MoveInDate *time.Time
}

// BookingInquiry - сохраненная заявка.
type BookingInquiry struct {
	ID         uuid.UUID
	ListingID  uuid.UUID
	SessionID  uuid.UUID
	Name       string
	Phone      string // E.164
	Email      string
	Message    string
	MoveInDate *time.Time
	CreatedAt  time.Time
}
