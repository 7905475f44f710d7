package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/civicpoint/taxassist-ai-platform/internal/conversation"
	"github.com/civicpoint/taxassist-ai-platform/pkg/logging"
)

// Service reserves consultation slots subject to the daily capacity limit.
type Service struct {
	repo     Repository
	dailyCap int
	logger   *logging.Logger
}

// NewService creates a booking service. A nil logger falls back to the
// default logger.
func NewService(repo Repository, dailyCap int, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, dailyCap: dailyCap, logger: logger}
}

// Reserve checks remaining capacity for the booking's date and persists the
// booking when space remains. A full day returns the capacity result with
// alternative dates and no persisted booking.
func (s *Service) Reserve(ctx context.Context, b *Booking) (conversation.CapacityCheck, error) {
	existing, err := s.repo.CountForDate(ctx, b.ScheduledFor)
	if err != nil {
		return conversation.CapacityCheck{}, fmt.Errorf("bookings: capacity lookup: %w", err)
	}

	check := conversation.CheckDailyCapacity(b.ScheduledFor, existing, s.dailyCap)
	if !check.Valid {
		s.logger.Info("booking date full",
			"date", b.ScheduledFor.Format("2006-01-02"),
			"existing", existing,
			"capacity", s.dailyCap)
		return check, nil
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return conversation.CapacityCheck{}, err
	}
	s.logger.Info("booking reserved",
		"booking_id", b.ID.String(),
		"session_id", b.SessionID,
		"date", b.ScheduledFor.Format("2006-01-02"),
		"service_type", b.ServiceType)
	return check, nil
}

// ReserveFromSnapshot builds a booking from a completed session snapshot and
// reserves it. The snapshot must carry a resolved preferred date.
func (s *Service) ReserveFromSnapshot(ctx context.Context, snap conversation.Snapshot) (*Booking, conversation.CapacityCheck, error) {
	date, err := time.Parse("2006-01-02", snap.PreferredDate)
	if err != nil {
		return nil, conversation.CapacityCheck{}, fmt.Errorf("bookings: session %s has no resolved date: %w", snap.SessionID, err)
	}
	b := &Booking{
		SessionID:     snap.SessionID,
		CustomerName:  snap.CustomerName,
		Phone:         snap.Phone,
		PostalCode:    snap.PostalCode,
		County:        snap.County,
		ServiceType:   snap.ServiceType,
		PaymentMethod: snap.PaymentMethod,
		Address:       snap.Address,
		ScheduledFor:  date,
	}
	check, err := s.Reserve(ctx, b)
	if err != nil {
		return nil, conversation.CapacityCheck{}, err
	}
	if !check.Valid {
		return nil, check, nil
	}
	return b, check, nil
}
