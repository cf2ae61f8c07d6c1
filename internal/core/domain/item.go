package domain

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxItemNameLength = 80
	// MaxItemQuantity matches the INT quantity column and the int32 gRPC field.
	MaxItemQuantity = math.MaxInt32
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrInvalidItem       = errors.New("invalid item")
)

type Item struct {
	ID        int64
	Name      string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeItem trims the name and checks the fields a stored item must satisfy.
func NormalizeItem(name string, quantity int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "nome", Reason: "is required"}
	}
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return "", &ValidationError{Field: "nome", Reason: "must be at most 80 characters"}
	}
	if quantity < 0 {
		return "", &ValidationError{Field: "quantidade", Reason: "must not be negative"}
	}
	if quantity > MaxItemQuantity {
		return "", &ValidationError{Field: "quantidade", Reason: "must be at most 2147483647"}
	}
	return name, nil
}

// ValidationError describes a rejected item field. It matches ErrInvalidItem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidItem
}
