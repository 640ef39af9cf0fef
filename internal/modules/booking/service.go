package booking

import (
	"context"
	"errors"
	"time"

	"bookpoint/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepositoryInterface
	services ServiceReader
}

func NewService(bookings BookingRepositoryInterface, services ServiceReader) *Service {
	return &Service{
		bookings: bookings,
		services: services,
	}
}

// CreateBooking books a service slot for the user. The end time and price
// come from the catalog entry, not from the request.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.StartTime.Before(time.Now()) {
		return nil, ErrValidation
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if !svc.Active {
		return nil, ErrValidation
	}

	end := req.StartTime.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	ok, err := s.bookings.CheckAvailability(ctx, svc.ID, req.StartTime, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAvailable
	}

	b := &domain.Booking{
		ServiceID:  svc.ID,
		UserID:     userID,
		StartTime:  req.StartTime,
		EndTime:    end,
		TotalPrice: svc.Price,
		Status:     domain.BookingPending,
		Notes:      req.Notes,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		// the DB-level exclusion constraint is the last line of defense
		// against two requests that both passed CheckAvailability
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrNotAvailable
		}
		return nil, err
	}

	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.GetByUserID(ctx, userID, limit, offset)
}

// UpdateStatus moves a booking forward through its lifecycle. Only the
// forward transitions are allowed here; cancellation goes through
// CancelBooking so the cancelled_at stamp is set.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	allowed := (b.Status == domain.BookingPending && status == domain.BookingConfirmed) ||
		(b.Status == domain.BookingConfirmed && status == domain.BookingCompleted)
	if !allowed {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// CancelBooking cancels the user's own booking. Admins may cancel any.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorUserID int64, actorRole string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.UserID != actorUserID && actorRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.Cancel(ctx, bookingID); err != nil {
		return nil, err
	}

	return s.bookings.GetByID(ctx, bookingID)
}
