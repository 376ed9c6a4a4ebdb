package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hitoshi/meatsafe/internal/model"
)

func userRows(users ...*model.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "email", "name", "restaurant_name", "status",
		"created_at", "updated_at", "approved_at", "approved_by",
	})
	for _, u := range users {
		rows.AddRow(u.ID, u.Email, u.Name, u.RestaurantName, u.Status,
			u.CreatedAt, u.UpdatedAt, u.ApprovedAt, u.ApprovedBy)
	}
	return rows
}

func TestPostgresUserRepo_FindByID_ReturnsUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(userRows(&model.User{
			ID: "user-1", Email: "owner@example.com", Name: "Owner",
			RestaurantName: "Sakura Grill", Status: model.StatusPending,
			CreatedAt: now, UpdatedAt: now,
		}))

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if user == nil {
		t.Fatal("expected non-nil user")
	}
	if user.Email != "owner@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "owner@example.com")
	}
	if user.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", user.Status, model.StatusPending)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresUserRepo_FindByEmail_NotFound_ReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(userRows())

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestPostgresUserRepo_UpdateStatus_ReturnsUpdatedUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	adminID := "admin-1"
	approvedAt := now
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("user-1", string(model.StatusApproved), adminID, sqlmock.AnyArg()).
		WillReturnRows(userRows(&model.User{
			ID: "user-1", Email: "owner@example.com", Name: "Owner",
			RestaurantName: "Sakura Grill", Status: model.StatusApproved,
			CreatedAt: now, UpdatedAt: now,
			ApprovedAt: &approvedAt, ApprovedBy: &adminID,
		}))

	repo := NewPostgresUserRepo(db)
	user, err := repo.UpdateStatus(context.Background(), "user-1", model.StatusApproved, adminID, now)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if user == nil {
		t.Fatal("expected non-nil user")
	}
	if user.Status != model.StatusApproved {
		t.Errorf("status = %q, want %q", user.Status, model.StatusApproved)
	}
	if user.ApprovedBy == nil || *user.ApprovedBy != adminID {
		t.Errorf("approved_by = %v, want %q", user.ApprovedBy, adminID)
	}
}

func TestPostgresUserRepo_UpdateStatus_UnknownUser_ReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs("missing", string(model.StatusRejected), "admin-1", sqlmock.AnyArg()).
		WillReturnRows(userRows())

	repo := NewPostgresUserRepo(db)
	user, err := repo.UpdateStatus(context.Background(), "missing", model.StatusRejected, "admin-1", time.Now())
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestPostgresUserRepo_CountByStatus_ReturnsCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM users GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("approved", 5))

	repo := NewPostgresUserRepo(db)
	counts, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts[model.StatusPending] != 3 {
		t.Errorf("pending = %d, want 3", counts[model.StatusPending])
	}
	if counts[model.StatusApproved] != 5 {
		t.Errorf("approved = %d, want 5", counts[model.StatusApproved])
	}
	if counts[model.StatusRejected] != 0 {
		t.Errorf("rejected = %d, want 0", counts[model.StatusRejected])
	}
}
