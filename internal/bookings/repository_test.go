package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/civicpoint/taxassist-ai-platform/internal/conversation"
)

var bookingDate = time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)

func TestSQLRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSQLRepository(db)
	b := &Booking{
		SessionID:    "session1",
		CustomerName: "John Smith",
		Phone:        "9876543210",
		ScheduledFor: bookingDate,
	}
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("booking ID not assigned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLRepositoryCountForDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(bookingDate).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewSQLRepository(db)
	count, err := repo.CountForDate(context.Background(), bookingDate)
	if err != nil {
		t.Fatalf("CountForDate: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, &Booking{ScheduledFor: bookingDate}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	count, err := repo.CountForDate(ctx, bookingDate)
	if err != nil {
		t.Fatalf("CountForDate: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	other, _ := repo.CountForDate(ctx, bookingDate.AddDate(0, 0, 1))
	if other != 0 {
		t.Errorf("count for empty date = %d", other)
	}
}

func TestServiceReserveEnforcesCapacity(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo, 2, nil)

	for i := 0; i < 2; i++ {
		check, err := svc.Reserve(ctx, &Booking{SessionID: "s", ScheduledFor: bookingDate})
		if err != nil {
			t.Fatalf("Reserve %d: %v", i, err)
		}
		if !check.Valid {
			t.Fatalf("Reserve %d rejected with capacity to spare", i)
		}
	}

	check, err := svc.Reserve(ctx, &Booking{SessionID: "s", ScheduledFor: bookingDate})
	if err != nil {
		t.Fatalf("Reserve over capacity: %v", err)
	}
	if check.Valid {
		t.Fatal("full day accepted a booking")
	}
	if len(check.Alternatives) == 0 {
		t.Error("full day proposed no alternative dates")
	}

	count, _ := repo.CountForDate(ctx, bookingDate)
	if count != 2 {
		t.Errorf("count = %d, rejected booking was persisted", count)
	}
}

func TestServiceReserveFromSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), 20, nil)

	snap := conversation.Snapshot{
		SessionID:     "session1",
		CustomerName:  "John Smith",
		Phone:         "9876543210",
		PostalCode:    "560001",
		County:        "Harris",
		ServiceType:   conversation.ServiceOfficeConsultation,
		PaymentMethod: conversation.PaymentOnline,
		PreferredDate: "2026-03-12",
	}
	b, check, err := svc.ReserveFromSnapshot(ctx, snap)
	if err != nil {
		t.Fatalf("ReserveFromSnapshot: %v", err)
	}
	if !check.Valid || b == nil {
		t.Fatalf("reservation failed: %+v", check)
	}
	if !b.ScheduledFor.Equal(bookingDate) {
		t.Errorf("ScheduledFor = %s", b.ScheduledFor)
	}

	if _, _, err := svc.ReserveFromSnapshot(ctx, conversation.Snapshot{SessionID: "s2"}); err == nil {
		t.Error("snapshot without date should fail")
	}
}
