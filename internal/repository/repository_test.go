package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/Dhoini/accounts-service/pkg/logger"
	"github.com/google/uuid"
)

var (
	createdStamp = audit.Stamp{Actor: "ACCOUNTS_MS", At: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	updatedStamp = audit.Stamp{Actor: "teller-7", At: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
)

func TestInMemoryCustomerSave(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryCustomerRepository(logger.NewNop())

	created, err := repo.Save(ctx, &domain.Customer{Name: "Jane Doe", Email: "jane@example.com", MobileNumber: "5551234567"}, createdStamp)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if created.CustomerID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
	if created.CreatedBy != "ACCOUNTS_MS" || created.UpdatedAt != nil || created.UpdatedBy != "" {
		t.Errorf("unexpected audit after insert: %+v", created.Audit)
	}

	created.Email = "jane.doe@example.com"
	updated, err := repo.Save(ctx, created, updatedStamp)
	if err != nil {
		t.Fatalf("Save update: %v", err)
	}
	if updated.CustomerID != created.CustomerID {
		t.Error("id must not change on update")
	}
	if !updated.CreatedAt.Equal(createdStamp.At) || updated.CreatedBy != "ACCOUNTS_MS" {
		t.Errorf("creation audit changed: %+v", updated.Audit)
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.Equal(updatedStamp.At) || updated.UpdatedBy != "teller-7" {
		t.Errorf("update audit not set: %+v", updated.Audit)
	}

	found, err := repo.FindByMobileNumber(ctx, "5551234567")
	if err != nil {
		t.Fatalf("FindByMobileNumber: %v", err)
	}
	if found.Email != "jane.doe@example.com" {
		t.Errorf("Email = %q", found.Email)
	}
}

func TestInMemoryCustomerDuplicateMobile(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryCustomerRepository(logger.NewNop())

	if _, err := repo.Save(ctx, &domain.Customer{Name: "Jane Doe", MobileNumber: "5551234567"}, createdStamp); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err := repo.Save(ctx, &domain.Customer{Name: "John Roe", MobileNumber: "5551234567"}, createdStamp)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if repo.Count() != 1 {
		t.Errorf("Count = %d, want 1", repo.Count())
	}
}

func TestInMemoryCustomerNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryCustomerRepository(logger.NewNop())

	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByMobileNumber(ctx, "0000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByMobileNumber: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Save(ctx, &domain.Customer{CustomerID: uuid.New(), Name: "Ghost"}, updatedStamp); !errors.Is(err, ErrNotFound) {
		t.Errorf("Save unknown id: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteByID(ctx, uuid.New()); err != nil {
		t.Errorf("DeleteByID unknown id: %v", err)
	}
}

func TestInMemoryAccountCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAccountRepository(logger.NewNop())
	owner := uuid.New()

	if _, err := repo.Create(ctx, &domain.Account{AccountNumber: 1234567890}, createdStamp); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData without owner, got %v", err)
	}

	created, err := repo.Create(ctx, &domain.Account{
		AccountNumber: 1234567890,
		CustomerID:    owner,
		AccountType:   domain.AccountTypeSavings,
		BranchAddress: domain.DefaultBranchAddress,
	}, createdStamp)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	change := *created
	change.CustomerID = uuid.New()
	change.AccountType = "Current"
	updated, err := repo.Update(ctx, &change, updatedStamp)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CustomerID != owner {
		t.Error("owner must not change on update")
	}
	if updated.AccountType != "Current" || updated.UpdatedBy != "teller-7" || updated.CreatedBy != "ACCOUNTS_MS" {
		t.Errorf("unexpected account: %+v", updated)
	}

	byOwner, err := repo.FindByCustomerID(ctx, owner)
	if err != nil {
		t.Fatalf("FindByCustomerID: %v", err)
	}
	if byOwner.AccountNumber != 1234567890 {
		t.Errorf("AccountNumber = %d", byOwner.AccountNumber)
	}

	if _, err := repo.Update(ctx, &domain.Account{AccountNumber: 1999999998, AccountType: "Current"}, updatedStamp); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update unknown number: expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryAccountCreateTakenNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAccountRepository(logger.NewNop())
	first, second := uuid.New(), uuid.New()

	if _, err := repo.Create(ctx, &domain.Account{AccountNumber: 1234567890, CustomerID: first, BranchAddress: "A"}, createdStamp); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.Create(ctx, &domain.Account{AccountNumber: 1234567890, CustomerID: second, BranchAddress: "B"}, updatedStamp)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	kept, err := repo.FindByID(ctx, 1234567890)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if kept.CustomerID != first || kept.BranchAddress != "A" || kept.UpdatedAt != nil {
		t.Errorf("existing account changed: %+v", kept)
	}
	if _, err := repo.FindByCustomerID(ctx, second); !errors.Is(err, ErrNotFound) {
		t.Errorf("second owner must have no account, got %v", err)
	}
}

func TestInMemoryAccountDeleteByCustomerID(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAccountRepository(logger.NewNop())
	owner, other := uuid.New(), uuid.New()

	for i, id := range []uuid.UUID{owner, owner, other} {
		if _, err := repo.Create(ctx, &domain.Account{AccountNumber: int64(1_000_000_000 + i), CustomerID: id}, createdStamp); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := repo.DeleteByCustomerID(ctx, owner); err != nil {
		t.Fatalf("DeleteByCustomerID: %v", err)
	}
	if repo.Count() != 1 {
		t.Errorf("Count = %d, want 1", repo.Count())
	}
	if _, err := repo.FindByCustomerID(ctx, owner); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByCustomerID(ctx, other); err != nil {
		t.Errorf("other owner's account must remain: %v", err)
	}
}
