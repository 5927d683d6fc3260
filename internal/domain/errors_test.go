package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	var verrs ValidationErrors
	verrs.Add("name", "Name cannot be a null or empty")

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", verrs, KindValidation},
		{"duplicate", NewCustomerAlreadyExistsError("5551234567"), KindDuplicate},
		{"not found", NewNotFoundError("Customer", "mobileNumber", "5551234567"), KindNotFound},
		{"wrapped not found", fmt.Errorf("fetch: %w", NewNotFoundError("Account", "customerId", "x")), KindNotFound},
		{"not applied", ErrUpdateNotApplied, KindUpdateNotApplied},
		{"internal", errors.New("boom"), KindInternal},
		{"bare sentinel", ErrNotFound, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NewNotFoundError("Account", "AccountNumber", "1234567890").Error(); got != "Account not found with the given input data AccountNumber : '1234567890'" {
		t.Errorf("NotFoundError = %q", got)
	}
	if !errors.Is(NewNotFoundError("a", "b", "c"), ErrNotFound) {
		t.Error("NotFoundError must match ErrNotFound")
	}
	if !errors.Is(NewCustomerAlreadyExistsError("1"), ErrDuplicate) {
		t.Error("CustomerAlreadyExistsError must match ErrDuplicate")
	}
}

func TestValidationErrorsAsMapKeepsFirst(t *testing.T) {
	var verrs ValidationErrors
	if verrs.HasErrors() {
		t.Fatal("empty ValidationErrors must report no errors")
	}
	verrs.Add("name", "first")
	verrs.Add("name", "second")
	verrs.Add("email", "bad")

	got := verrs.AsMap()
	if got["name"] != "first" || got["email"] != "bad" || len(got) != 2 {
		t.Errorf("AsMap() = %v", got)
	}
	if !errors.Is(verrs, ErrInvalidInput) {
		t.Error("ValidationErrors must match ErrInvalidInput")
	}
	if !verrs.HasErrors() {
		t.Error("expected HasErrors after Add")
	}
}
