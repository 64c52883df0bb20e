package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
)

func TestValidationError(t *testing.T) {
	if err := domain.ValidationError(nil); err != nil {
		t.Fatalf("empty violation list must produce nil, got %v", err)
	}

	err := domain.ValidationError([]error{domain.ErrQuantityInvalid, domain.ErrDiscountOutOfRange})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrOrderValidation) {
		t.Fatalf("expected ErrOrderValidation in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), domain.ErrQuantityInvalid.Error()) {
		t.Fatalf("expected quantity message in %q", err.Error())
	}
	if !strings.Contains(err.Error(), domain.ErrDiscountOutOfRange.Error()) {
		t.Fatalf("expected discount message in %q", err.Error())
	}
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.PersistenceError("insert order", cause)

	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence in chain, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected original cause in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "insert order") {
		t.Fatalf("expected operation name in %q", err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	if !domain.IsNotFound(domain.ErrOrderNotFound) {
		t.Fatal("ErrOrderNotFound must be reported as not found")
	}
	if domain.IsNotFound(domain.ErrPersistence) {
		t.Fatal("ErrPersistence must not be reported as not found")
	}
}
