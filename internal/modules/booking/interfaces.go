package booking

import (
	"context"
	"time"

	"bookpoint/internal/domain"
)

// BookingRepositoryInterface lists only the methods the booking service uses.
type BookingRepositoryInterface interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	CheckAvailability(ctx context.Context, serviceID int64, start, end time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64) error
}

// ServiceReader resolves catalog entries for pricing and duration.
type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}
