package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx", err: &pgconn.PgError{Code: "23505", ConstraintName: "user_profiles_user_role_key"}, want: true},
		{name: "pgx constraint match", err: &pgconn.PgError{Code: "23505", ConstraintName: "user_profiles_user_role_key"}, constraint: "user_profiles_user_role_key", want: true},
		{name: "pgx other constraint", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, constraint: "user_profiles_user_role_key", want: false},
		{name: "pgx other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "pq wrapped", err: fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "users_email_key"}), want: true},
		{name: "sqlite", err: errors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "gorm duplicated", err: gorm.ErrDuplicatedKey, want: true},
		{name: "plain", err: errors.New("boom"), want: false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestMapError(t *testing.T) {
	if MapError(nil, "x") != nil {
		t.Fatal("expected nil for nil error")
	}
	if got := pkgerrors.CodeOf(MapError(gorm.ErrRecordNotFound, "farm not found")); got != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %s", got)
	}
	if got := pkgerrors.CodeOf(MapError(errors.New("UNIQUE constraint failed: farms.user_id"), "dup")); got != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %s", got)
	}
	if got := pkgerrors.CodeOf(MapError(errors.New("boom"), "load")); got != pkgerrors.CodeInternal {
		t.Fatalf("expected internal, got %s", got)
	}
	typed := pkgerrors.New(pkgerrors.CodeForbidden, "nope")
	if MapError(typed, "ignored") != error(typed) {
		t.Fatal("expected typed errors to pass through")
	}
}
