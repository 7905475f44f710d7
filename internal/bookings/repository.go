package bookings

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Booking is one reserved consultation slot.
type Booking struct {
	ID            uuid.UUID
	SessionID     string
	CustomerName  string
	Phone         string
	PostalCode    string
	County        string
	ServiceType   string
	PaymentMethod string
	Address       string
	ScheduledFor  time.Time // calendar date, midnight local
	CreatedAt     time.Time
}

// Repository persists bookings and answers per-day occupancy queries.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	CountForDate(ctx context.Context, date time.Time) (int, error)
}

// SQLRepository stores bookings in PostgreSQL.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a repository over an open database handle.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	if db == nil {
		return nil
	}
	return &SQLRepository{db: db}
}

// Create inserts a booking row. The ID is assigned here when unset.
func (r *SQLRepository) Create(ctx context.Context, b *Booking) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("bookings: repository not configured")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (
			id, session_id, customer_name, phone, postal_code,
			county, service_type, payment_method, address,
			scheduled_for, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.SessionID, b.CustomerName, b.Phone, b.PostalCode,
		b.County, b.ServiceType, b.PaymentMethod, b.Address,
		b.ScheduledFor, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("bookings: insert: %w", err)
	}
	return nil
}

// CountForDate reports how many bookings exist on a calendar date.
func (r *SQLRepository) CountForDate(ctx context.Context, date time.Time) (int, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("bookings: repository not configured")
	}
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE scheduled_for = $1`,
		dateOnly(date),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("bookings: count for date: %w", err)
	}
	return count, nil
}

// MemoryRepository keeps bookings in memory; used when no database is
// configured.
type MemoryRepository struct {
	mu     sync.Mutex
	byDate map[string][]*Booking
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byDate: make(map[string][]*Booking)}
}

func (r *MemoryRepository) Create(_ context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	key := dateKey(b.ScheduledFor)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDate[key] = append(r.byDate[key], b)
	return nil
}

func (r *MemoryRepository) CountForDate(_ context.Context, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byDate[dateKey(date)]), nil
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
