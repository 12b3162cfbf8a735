package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-storefront/internal/identity"
)

func TestCreateIfNotExists_Get_TouchLogin(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "accounts")
	ctx := context.Background()

	acct := Account{
		Email:        "ana@example.com",
		SubjectID:    "sub-1",
		FullName:     "Ana",
		PasswordHash: "hash",
		Role:         identity.RoleSeller,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	created, err := s.CreateIfNotExists(ctx, acct)
	if err != nil {
		t.Fatalf("CreateIfNotExists error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}

	// second create should return created=false (exists)
	created2, err := s.CreateIfNotExists(ctx, acct)
	if err != nil {
		t.Fatalf("second CreateIfNotExists error: %v", err)
	}
	if created2 {
		t.Fatalf("expected created=false on duplicate create")
	}

	got, err := s.Get(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil || got.SubjectID != "sub-1" || got.Role != identity.RoleSeller {
		t.Fatalf("unexpected account: %+v", got)
	}
	if got.LastLoginAt != nil {
		t.Fatalf("expected no last login yet")
	}

	at := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	if err := s.TouchLogin(ctx, "ana@example.com", at); err != nil {
		t.Fatalf("TouchLogin error: %v", err)
	}
	raw := mock.table["ana@example.com"]["last_login_at"].(*types.AttributeValueMemberS).Value
	if raw != "2026-01-03T00:00:00Z" {
		t.Fatalf("unexpected last_login_at %s", raw)
	}

	if err := s.TouchLogin(ctx, "nobody@example.com", at); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	missing, err := s.Get(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil), got %v %v", missing, err)
	}
}
