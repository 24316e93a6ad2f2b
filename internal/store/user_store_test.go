package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"posledger/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	var gotArgs []any
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			gotArgs = args
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.Create(ctx, execer, "u1", "mark", "hash", "owner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotArgs) != 4 || gotArgs[1] != "mark" || gotArgs[3] != "owner" {
		t.Fatalf("unexpected args: %#v", gotArgs)
	}
}

func TestUserStoreGetByUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE username = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*models.User) = models.User{ID: "u1", Username: "mark", Role: "owner"}
			return nil
		},
	})
	user, err := store.GetByUsername(ctx, "mark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != "owner" {
		t.Fatalf("unexpected user: %#v", user)
	}
}

func TestUserStoreUpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET password_hash = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "newhash" || args[1] != "u1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.UpdatePasswordHash(ctx, execer, "u1", "newhash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
